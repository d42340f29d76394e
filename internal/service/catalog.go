package service

import (
	"context"
	"strings"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var catalogTracer = otel.Tracer("service/catalog")

// DefaultCurrency is applied when a priced record omits its currency.
const DefaultCurrency = "USD"

// CatalogService manages the bookable service catalog and the public
// reader directory.
type CatalogService struct {
	store       port.CatalogStore
	translation *TranslationService
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store port.CatalogStore, translation *TranslationService, metrics *observability.Metrics, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: store, translation: translation, metrics: metrics, logger: logger}
}

// serviceFields declares how services are searched, filtered and sorted.
var serviceFields = domain.FieldSpec[domain.Service]{
	Search: func(s domain.Service) []domain.LocalizedText {
		return []domain.LocalizedText{s.Name, s.Description}
	},
	Fields: map[string]func(domain.Service) string{
		"type":      func(s domain.Service) string { return s.ServiceType },
		"reader_id": func(s domain.Service) string { return s.ReaderID },
		"status":    func(s domain.Service) string { return activeStatus(s.IsActive) },
	},
	Sort: map[string]func(a, b domain.Service) bool{
		"name": func(a, b domain.Service) bool {
			return sortableName(a.Name) < sortableName(b.Name)
		},
		"price": func(a, b domain.Service) bool { return a.Price < b.Price },
		"created": func(a, b domain.Service) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		},
	},
}

func activeStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

// sortableName keys bilingual names on the English side so ordering stays
// stable regardless of the viewer's language.
func sortableName(t domain.LocalizedText) string {
	return strings.ToLower(t.Resolve(domain.LanguageEn, ""))
}

// ============================================================
// Services
// ============================================================

// ListServices returns the catalog filtered by f.
func (s *CatalogService) ListServices(ctx context.Context, f domain.FilterState) ([]domain.Service, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.ListServices")
	defer span.End()

	services, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ApplyFilter(services, f, serviceFields), nil
}

func (s *CatalogService) GetService(ctx context.Context, serviceID string) (*domain.Service, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.GetService")
	defer span.End()

	return s.store.GetService(ctx, serviceID)
}

// CreateService validates and persists a new service, completing the
// bilingual fields first.
func (s *CatalogService) CreateService(ctx context.Context, in *domain.ServiceInput) (*domain.Service, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.CreateService")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("service_create", time.Since(start))
	}()

	if err := validateServiceInput(in); err != nil {
		return nil, err
	}
	s.translation.CompleteAll(ctx, "services", &in.Name, &in.Description)

	svc := &domain.Service{
		Name:            in.Name,
		Description:     in.Description,
		ServiceType:     in.ServiceType,
		ReaderID:        in.ReaderID,
		Price:           in.Price,
		Currency:        currencyOrDefault(in.Currency),
		DurationMinutes: in.DurationMinutes,
		IsActive:        boolOrDefault(in.IsActive, true),
	}

	created, err := s.store.CreateService(ctx, svc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("service created",
		zap.String("service_id", created.ID),
		zap.String("service_type", created.ServiceType),
		zap.String("reader_id", created.ReaderID))
	return created, nil
}

// UpdateService replaces a service's editable fields.
func (s *CatalogService) UpdateService(ctx context.Context, serviceID string, in *domain.ServiceInput) (*domain.Service, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.UpdateService")
	defer span.End()
	span.SetAttributes(attribute.String("service.id", serviceID))

	if err := validateServiceInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	s.translation.CompleteAll(ctx, "services", &in.Name, &in.Description)

	updates := map[string]any{
		"name_ar":          in.Name.AR,
		"name_en":          in.Name.EN,
		"description_ar":   in.Description.AR,
		"description_en":   in.Description.EN,
		"service_type":     in.ServiceType,
		"reader_id":        in.ReaderID,
		"price":            in.Price,
		"currency":         currencyOrDefault(in.Currency),
		"duration_minutes": in.DurationMinutes,
		"updated_at":       time.Now().UTC().Format(time.RFC3339),
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	updated, err := s.store.UpdateService(ctx, serviceID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("service updated", zap.String("service_id", serviceID))
	return updated, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, serviceID string) error {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.DeleteService")
	defer span.End()
	span.SetAttributes(attribute.String("service.id", serviceID))

	if _, err := s.store.GetService(ctx, serviceID); err != nil {
		return err
	}
	if err := s.store.DeleteService(ctx, serviceID); err != nil {
		return err
	}

	s.logger.Info("service deleted", zap.String("service_id", serviceID))
	return nil
}

// ============================================================
// Readers & service types
// ============================================================

// ListReaders returns the public directory of available readers with their
// display names resolved for lang.
func (s *CatalogService) ListReaders(ctx context.Context, lang domain.Language) ([]domain.ReaderSummary, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogService.ListReaders")
	defer span.End()

	profiles, err := s.store.ListActiveReaders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ReaderSummary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, domain.ReaderSummary{
			ID:          p.ReaderID,
			DisplayName: p.DisplayName.Resolve(lang, p.ReaderID),
			Specialties: p.Specialties,
			Rating:      p.Rating,
			IsAvailable: p.IsAvailable,
		})
	}
	return out, nil
}

// ServiceTypes lists the platform's service types with bilingual labels.
func (s *CatalogService) ServiceTypes() []domain.ServiceTypeInfo {
	return domain.ServiceTypes()
}

func validateServiceInput(in *domain.ServiceInput) error {
	if in.Name.IsEmpty() {
		return &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	if in.ServiceType == "" {
		return &domain.ErrValidation{Field: "service_type", Message: "required"}
	}
	if in.ReaderID == "" {
		return &domain.ErrValidation{Field: "reader_id", Message: "required"}
	}
	if in.Price < 0 {
		return &domain.ErrValidation{Field: "price", Message: "must not be negative"}
	}
	if in.DurationMinutes <= 0 {
		return &domain.ErrValidation{Field: "duration_minutes", Message: "must be positive"}
	}
	return nil
}

func currencyOrDefault(c string) string {
	if c == "" {
		return DefaultCurrency
	}
	return strings.ToUpper(c)
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
