package domain

import "time"

// ============================================================
// Reader business — profiles, packages, client relationships
// ============================================================

// ReaderBusinessProfile holds a reader's public business settings.
type ReaderBusinessProfile struct {
	ID              string        `json:"id"`
	ReaderID        string        `json:"reader_id"`
	DisplayName     LocalizedText `json:"display_name"`
	Bio             LocalizedText `json:"bio"`
	Specialties     []string      `json:"specialties"`
	HourlyRate      float64       `json:"hourly_rate"`
	Currency        string        `json:"currency"`
	YearsExperience int           `json:"years_experience"`
	Rating          float64       `json:"rating"`
	TotalReviews    int           `json:"total_reviews"`
	IsAvailable     bool          `json:"is_available"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ReaderBusinessProfileInput is the body for PUT business-profile.
type ReaderBusinessProfileInput struct {
	DisplayName     LocalizedText `json:"display_name"`
	Bio             LocalizedText `json:"bio"`
	Specialties     []string      `json:"specialties"`
	HourlyRate      float64       `json:"hourly_rate"`
	Currency        string        `json:"currency,omitempty"`
	YearsExperience int           `json:"years_experience"`
	IsAvailable     *bool         `json:"is_available,omitempty"`
}

// ServicePackage is a multi-session bundle sold at a package price.
type ServicePackage struct {
	ID            string        `json:"id"`
	Name          LocalizedText `json:"name"`
	Description   LocalizedText `json:"description"`
	ReaderID      string        `json:"reader_id"`
	Price         float64       `json:"price"`
	Currency      string        `json:"currency"`
	SessionsCount int           `json:"sessions_count"`
	ValidityDays  int           `json:"validity_days"`
	IsActive      bool          `json:"is_active"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ServicePackageInput is the body for creating or updating a package.
type ServicePackageInput struct {
	Name          LocalizedText `json:"name"`
	Description   LocalizedText `json:"description"`
	ReaderID      string        `json:"reader_id"`
	Price         float64       `json:"price"`
	Currency      string        `json:"currency,omitempty"`
	SessionsCount int           `json:"sessions_count"`
	ValidityDays  int           `json:"validity_days"`
	IsActive      *bool         `json:"is_active,omitempty"`
}

// Client relationship statuses.
const (
	RelationshipActive   = "active"
	RelationshipInactive = "inactive"
	RelationshipBlocked  = "blocked"
)

// ClientRelationship tracks a reader's history with one client.
type ClientRelationship struct {
	ID            string     `json:"id"`
	ReaderID      string     `json:"reader_id"`
	ClientID      string     `json:"client_id"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	TotalSessions int        `json:"total_sessions"`
	LastSessionAt *time.Time `json:"last_session_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ClientRelationshipInput is the body for creating or updating a
// relationship entry.
type ClientRelationshipInput struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ============================================================
// Integrations (outbound webhooks)
// ============================================================

// Integration is a registered webhook consumer for platform events.
type Integration struct {
	ID                 string     `json:"id"`
	Provider           string     `json:"provider"`
	WebhookURL         string     `json:"webhook_url"`
	Secret             string     `json:"secret,omitempty"`
	Events             []string   `json:"events"`
	IsActive           bool       `json:"is_active"`
	LastDeliveryAt     *time.Time `json:"last_delivery_at,omitempty"`
	LastDeliveryStatus string     `json:"last_delivery_status,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// IntegrationInput is the body for creating or updating an integration.
type IntegrationInput struct {
	Provider   string   `json:"provider"`
	WebhookURL string   `json:"webhook_url"`
	Secret     string   `json:"secret,omitempty"`
	Events     []string `json:"events"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

// ============================================================
// Financial transactions
// ============================================================

// Financial transaction types.
const (
	TransactionPayment = "payment"
	TransactionRefund  = "refund"
	TransactionPayout  = "payout"
)

// Financial transaction statuses.
const (
	TransactionPendingStatus   = "pending"
	TransactionCompletedStatus = "completed"
	TransactionFailedStatus    = "failed"
)

// FinancialTransaction records money movement tied to a booking.
type FinancialTransaction struct {
	ID             string    `json:"id"`
	BookingID      string    `json:"booking_id,omitempty"`
	ClientID       string    `json:"client_id"`
	ReaderID       string    `json:"reader_id"`
	Type           string    `json:"type"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Method         string    `json:"method"`
	Status         string    `json:"status"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}

// PaymentInput is the body for POST /v1/payments.
type PaymentInput struct {
	BookingID      string  `json:"booking_id,omitempty"`
	ClientID       string  `json:"client_id"`
	ReaderID       string  `json:"reader_id"`
	Type           string  `json:"type,omitempty"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency,omitempty"`
	Method         string  `json:"method"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}
