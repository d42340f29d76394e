package service

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/i18n"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var preferencesTracer = otel.Tracer("service/preferences")

// PreferencesService manages persisted display preferences: the account
// language and per-entity view modes. Pseudo-localization is a deployment
// flag, not a per-user setting, so it is stamped onto responses here.
type PreferencesService struct {
	store   port.PreferencesStore
	pseudo  bool
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPreferencesService creates a new preferences service.
func NewPreferencesService(store port.PreferencesStore, pseudo bool, metrics *observability.Metrics, logger *zap.Logger) *PreferencesService {
	return &PreferencesService{store: store, pseudo: pseudo, metrics: metrics, logger: logger}
}

func (s *PreferencesService) GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	ctx, span := preferencesTracer.Start(ctx, "PreferencesService.GetPreferences")
	defer span.End()

	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs.PseudoMode = s.pseudo
	return prefs, nil
}

// SetLanguage switches the account language and returns the resulting
// request settings (language, direction, pseudo flag).
func (s *PreferencesService) SetLanguage(ctx context.Context, userID, code string) (*i18n.Settings, error) {
	ctx, span := preferencesTracer.Start(ctx, "PreferencesService.SetLanguage")
	defer span.End()
	span.SetAttributes(attribute.String("language", code))

	lang := domain.ParseLanguage(code, "")
	if !lang.Valid() {
		return nil, &domain.ErrValidation{Field: "language", Message: "must be ar or en"}
	}
	if err := s.store.SetLanguage(ctx, userID, lang); err != nil {
		return nil, err
	}

	s.logger.Info("language changed",
		zap.String("user_id", userID),
		zap.String("language", string(lang)))
	settings := i18n.SettingsFor(lang, s.pseudo)
	return &settings, nil
}

// GetViewMode returns the stored view mode for an entity type, defaulting
// to the table view when the user never chose one.
func (s *PreferencesService) GetViewMode(ctx context.Context, userID, entityType string) (*domain.ViewModePreference, error) {
	ctx, span := preferencesTracer.Start(ctx, "PreferencesService.GetViewMode")
	defer span.End()

	if !domain.ValidViewModeEntity(entityType) {
		return nil, &domain.ErrValidation{Field: "entity_type", Message: "unknown entity type"}
	}

	pref, err := s.store.GetViewMode(ctx, userID, entityType)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &domain.ViewModePreference{
			UserID:     userID,
			EntityType: entityType,
			Mode:       domain.ViewModeTable,
		}, nil
	}
	return pref, nil
}

func (s *PreferencesService) SetViewMode(ctx context.Context, userID, entityType, mode string) (*domain.ViewModePreference, error) {
	ctx, span := preferencesTracer.Start(ctx, "PreferencesService.SetViewMode")
	defer span.End()

	if !domain.ValidViewModeEntity(entityType) {
		return nil, &domain.ErrValidation{Field: "entity_type", Message: "unknown entity type"}
	}
	if !domain.ValidViewMode(mode) {
		return nil, &domain.ErrValidation{Field: "mode", Message: "must be table or cards"}
	}
	if err := s.store.SetViewMode(ctx, userID, entityType, mode); err != nil {
		return nil, err
	}

	return s.GetViewMode(ctx, userID, entityType)
}
