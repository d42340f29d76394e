package domain

import "time"

// ============================================================
// User preferences
// ============================================================

// View modes for list screens.
const (
	ViewModeTable = "table"
	ViewModeCards = "cards"
)

// Entity types that carry a per-user view mode preference.
var viewModeEntities = map[string]bool{
	"services": true,
	"spreads":  true,
	"decks":    true,
	"packages": true,
	"bookings": true,
}

// ValidViewMode reports whether m is a recognized view mode.
func ValidViewMode(m string) bool {
	return m == ViewModeTable || m == ViewModeCards
}

// ValidViewModeEntity reports whether entity carries a view mode preference.
func ValidViewModeEntity(entity string) bool {
	return viewModeEntities[entity]
}

// UserPreferences holds a user's persisted display settings.
type UserPreferences struct {
	UserID     string            `json:"user_id"`
	Language   Language          `json:"language"`
	Direction  Direction         `json:"direction"`
	PseudoMode bool              `json:"pseudo_mode"`
	ViewModes  map[string]string `json:"view_modes"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ViewModePreference is one persisted (user, entity) view mode row.
type ViewModePreference struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	EntityType string    `json:"entity_type"`
	Mode       string    `json:"mode"`
	UpdatedAt  time.Time `json:"updated_at"`
}
