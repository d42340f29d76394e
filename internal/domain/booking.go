package domain

import "time"

// ============================================================
// Bookings
// ============================================================

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking represents a client's reservation of a service with a reader.
type Booking struct {
	ID          string     `json:"id"`
	ServiceID   string     `json:"service_id"`
	ReaderID    string     `json:"reader_id"`
	ClientID    string     `json:"client_id"`
	Status      string     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Question    string     `json:"question,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Language    Language   `json:"language"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BookingInput is the body for POST /v1/bookings.
type BookingInput struct {
	ServiceID   string    `json:"service_id"`
	ReaderID    string    `json:"reader_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Question    string    `json:"question,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Language    string    `json:"language,omitempty"`
}

// BookingStatusUpdate is the body for PATCH /v1/bookings/{id}/status.
type BookingStatusUpdate struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ValidBookingStatus reports whether s is a recognized booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in the current status may move
// to next. Pending bookings can be confirmed or cancelled; confirmed ones
// completed or cancelled. Completed and cancelled are terminal.
func (b Booking) CanTransitionTo(next string) bool {
	switch b.Status {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	}
	return false
}
