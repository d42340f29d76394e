package i18n

import "github.com/samiatarot/platform-api/internal/domain"

// messages holds every string the platform renders on its own behalf.
// Record content (service names, spread descriptions) is bilingual in the
// database and never passes through here.
var messages = map[domain.Language]map[string]string{
	domain.LanguageEn: {
		"notification.booking_created.title":   "New booking request",
		"notification.booking_created.body":    "%s booked %s for %s",
		"notification.booking_status.title":    "Booking update",
		"notification.booking_status.body":     "Your booking for %s is now %s",
		"notification.booking_completed.title": "Session completed",
		"notification.booking_completed.body":  "Your session %s has been completed",
		"notification.payment.title":           "Payment received",
		"notification.payment.body":            "A payment of %.2f %s has been recorded",

		"status.pending":   "pending",
		"status.confirmed": "confirmed",
		"status.completed": "completed",
		"status.cancelled": "cancelled",

		"bookings.count.zero":  "no bookings",
		"bookings.count.one":   "one booking",
		"bookings.count.other": "%d bookings",

		"sessions.count.zero":  "no sessions",
		"sessions.count.one":   "one session",
		"sessions.count.other": "%d sessions",
	},
	domain.LanguageAr: {
		"notification.booking_created.title":   "طلب حجز جديد",
		"notification.booking_created.body":    "قام %s بحجز %s في %s",
		"notification.booking_status.title":    "تحديث الحجز",
		"notification.booking_status.body":     "حجزك لخدمة %s أصبح %s",
		"notification.booking_completed.title": "اكتملت الجلسة",
		"notification.booking_completed.body":  "اكتملت جلستك %s",
		"notification.payment.title":           "تم استلام الدفعة",
		"notification.payment.body":            "تم تسجيل دفعة بقيمة %.2f %s",

		"status.pending":   "قيد الانتظار",
		"status.confirmed": "مؤكد",
		"status.completed": "مكتمل",
		"status.cancelled": "ملغي",

		"bookings.count.zero":  "لا حجوزات",
		"bookings.count.one":   "حجز واحد",
		"bookings.count.two":   "حجزان",
		"bookings.count.few":   "%d حجوزات",
		"bookings.count.many":  "%d حجزًا",
		"bookings.count.other": "%d حجز",

		"sessions.count.zero":  "لا جلسات",
		"sessions.count.one":   "جلسة واحدة",
		"sessions.count.two":   "جلستان",
		"sessions.count.few":   "%d جلسات",
		"sessions.count.many":  "%d جلسة",
		"sessions.count.other": "%d جلسة",
	},
}
