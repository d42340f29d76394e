package port

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
)

// PreferencesStore handles persisted user display preferences.
type PreferencesStore interface {
	GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error)
	SetLanguage(ctx context.Context, userID string, lang domain.Language) error
	GetViewMode(ctx context.Context, userID, entityType string) (*domain.ViewModePreference, error)
	SetViewMode(ctx context.Context, userID, entityType, mode string) error
}
