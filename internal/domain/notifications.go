package domain

import "time"

// ============================================================
// Notifications & webhook events
// ============================================================

// Notification types.
const (
	NotificationBookingCreated = "booking_created"
	NotificationBookingStatus  = "booking_status"
	NotificationPayment        = "payment"
	NotificationSystem         = "system"
)

// Notification represents an in-app notification. Title and body are
// rendered in the recipient's language at creation time.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Language  Language   `json:"language"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Webhook event names dispatched to integrations.
const (
	EventBookingCreated   = "booking.created"
	EventBookingStatus    = "booking.status_changed"
	EventBookingCompleted = "booking.completed"
	EventPaymentRecorded  = "payment.recorded"
	EventIntegrationTest  = "integration.test"
)

// WebhookEvent is the signed payload delivered to integration endpoints.
type WebhookEvent struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}
