package domain_test

import (
	"testing"

	"github.com/samiatarot/platform-api/internal/domain"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{domain.BookingPending, domain.BookingConfirmed, true},
		{domain.BookingPending, domain.BookingCancelled, true},
		{domain.BookingPending, domain.BookingCompleted, false},
		{domain.BookingConfirmed, domain.BookingCompleted, true},
		{domain.BookingConfirmed, domain.BookingCancelled, true},
		{domain.BookingConfirmed, domain.BookingPending, false},
		{domain.BookingCompleted, domain.BookingCancelled, false},
		{domain.BookingCancelled, domain.BookingConfirmed, false},
	}

	for _, c := range cases {
		b := domain.Booking{Status: c.from}
		if got := b.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "cancelled"} {
		if !domain.ValidBookingStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if domain.ValidBookingStatus("archived") {
		t.Error("archived should not be valid")
	}
}
