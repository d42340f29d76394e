package domain

import "time"

// ============================================================
// Analytics snapshots (one row per day per table)
// ============================================================

// UserAnalytics is a daily snapshot of account activity.
type UserAnalytics struct {
	ID             string `json:"id"`
	SnapshotDate   string `json:"snapshot_date"` // YYYY-MM-DD
	TotalUsers     int    `json:"total_users"`
	ActiveUsers    int    `json:"active_users"`
	NewUsers       int    `json:"new_users"`
	ReturningUsers int    `json:"returning_users"`
	ArabicUsers    int    `json:"arabic_users"`
	EnglishUsers   int    `json:"english_users"`
}

// BookingAnalytics is a daily snapshot of booking activity.
type BookingAnalytics struct {
	ID                string  `json:"id"`
	SnapshotDate      string  `json:"snapshot_date"`
	TotalBookings     int     `json:"total_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	PendingBookings   int     `json:"pending_bookings"`
	AvgSessionMinutes float64 `json:"avg_session_minutes"`
}

// PaymentAnalytics is a daily snapshot of payment volume.
type PaymentAnalytics struct {
	ID              string             `json:"id"`
	SnapshotDate    string             `json:"snapshot_date"`
	TotalRevenue    float64            `json:"total_revenue"`
	TotalRefunds    float64            `json:"total_refunds"`
	TransactionCnt  int                `json:"transaction_count"`
	AvgTransaction  float64            `json:"avg_transaction"`
	RevenueByMethod map[string]float64 `json:"revenue_by_method"`
	Currency        string             `json:"currency"`
}

// ReaderPerformance is a per-reader performance snapshot for a period.
type ReaderPerformance struct {
	ID                string  `json:"id"`
	ReaderID          string  `json:"reader_id"`
	Period            string  `json:"period"` // YYYY-MM
	SessionsCompleted int     `json:"sessions_completed"`
	SessionsCancelled int     `json:"sessions_cancelled"`
	Revenue           float64 `json:"revenue"`
	AvgRating         float64 `json:"avg_rating"`
	RepeatClients     int     `json:"repeat_clients"`
	ResponseMinutes   float64 `json:"response_minutes"`
}

// SystemMetric is a recorded operational counter or gauge.
type SystemMetric struct {
	ID         string    `json:"id"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	Labels     string    `json:"labels,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SystemMetricInput is the body for POST /v1/admin/analytics/system.
type SystemMetricInput struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Labels string  `json:"labels,omitempty"`
}

// ============================================================
// Dashboard aggregation (matches admin dashboard contract)
// ============================================================

// AnalyticsDashboard is returned by GET /v1/admin/analytics/dashboard.
type AnalyticsDashboard struct {
	Period   *AnalyticsPeriod   `json:"period"`
	Users    *UserTotals        `json:"users"`
	Bookings *BookingTotals     `json:"bookings"`
	Payments *PaymentTotals     `json:"payments"`
	Top      []TopReaderSummary `json:"topReaders"`
}

// AnalyticsPeriod is the time range for the dashboard aggregation.
type AnalyticsPeriod struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// UserTotals aggregates user snapshots across the period.
type UserTotals struct {
	Total        int     `json:"total"`
	NewUsers     int     `json:"newUsers"`
	ActiveAvg    float64 `json:"activeAvg"`
	ArabicShare  float64 `json:"arabicShare"`
	EnglishShare float64 `json:"englishShare"`
}

// BookingTotals aggregates booking snapshots across the period.
type BookingTotals struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	CompletionRate float64 `json:"completionRate"`
}

// PaymentTotals aggregates payment snapshots across the period.
type PaymentTotals struct {
	Revenue         float64            `json:"revenue"`
	Refunds         float64            `json:"refunds"`
	NetRevenue      float64            `json:"netRevenue"`
	AvgTransaction  float64            `json:"avgTransaction"`
	RevenueByMethod map[string]float64 `json:"revenueByMethod"`
	Currency        string             `json:"currency"`
}

// TopReaderSummary ranks a reader within the dashboard period.
type TopReaderSummary struct {
	ReaderID          string  `json:"readerId"`
	SessionsCompleted int     `json:"sessionsCompleted"`
	Revenue           float64 `json:"revenue"`
	AvgRating         float64 `json:"avgRating"`
}
