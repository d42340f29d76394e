package service

import (
	"context"
	"net/url"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var businessTracer = otel.Tracer("service/business")

// BusinessService manages reader business profiles, session packages,
// client rosters and outbound webhook integrations.
type BusinessService struct {
	store       port.BusinessStore
	translation *TranslationService
	dispatcher  port.EventDispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewBusinessService creates a new business service.
func NewBusinessService(store port.BusinessStore, translation *TranslationService, dispatcher port.EventDispatcher, metrics *observability.Metrics, logger *zap.Logger) *BusinessService {
	return &BusinessService{store: store, translation: translation, dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// packageFields declares how packages are searched, filtered and sorted.
var packageFields = domain.FieldSpec[domain.ServicePackage]{
	Search: func(p domain.ServicePackage) []domain.LocalizedText {
		return []domain.LocalizedText{p.Name, p.Description}
	},
	Fields: map[string]func(domain.ServicePackage) string{
		"reader_id": func(p domain.ServicePackage) string { return p.ReaderID },
		"status":    func(p domain.ServicePackage) string { return activeStatus(p.IsActive) },
	},
	Sort: map[string]func(a, b domain.ServicePackage) bool{
		"name": func(a, b domain.ServicePackage) bool {
			return sortableName(a.Name) < sortableName(b.Name)
		},
		"price":   func(a, b domain.ServicePackage) bool { return a.Price < b.Price },
		"created": func(a, b domain.ServicePackage) bool { return a.CreatedAt.Before(b.CreatedAt) },
	},
}

// relationshipFields declares how a reader's client roster is filtered.
// The text search scans the reader's notes.
var relationshipFields = domain.FieldSpec[domain.ClientRelationship]{
	Search: func(r domain.ClientRelationship) []domain.LocalizedText {
		return []domain.LocalizedText{{EN: r.Notes}}
	},
	Fields: map[string]func(domain.ClientRelationship) string{
		"status": func(r domain.ClientRelationship) string { return r.Status },
	},
	Sort: map[string]func(a, b domain.ClientRelationship) bool{
		"sessions": func(a, b domain.ClientRelationship) bool { return a.TotalSessions < b.TotalSessions },
		"created":  func(a, b domain.ClientRelationship) bool { return a.CreatedAt.Before(b.CreatedAt) },
	},
}

// ============================================================
// Business profiles
// ============================================================

func (s *BusinessService) GetBusinessProfile(ctx context.Context, readerID string) (*domain.ReaderBusinessProfile, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.GetBusinessProfile")
	defer span.End()
	span.SetAttributes(attribute.String("reader.id", readerID))

	return s.store.GetBusinessProfile(ctx, readerID)
}

// UpsertBusinessProfile creates or replaces a reader's business profile.
// Only the reader themselves or an admin may write it.
func (s *BusinessService) UpsertBusinessProfile(ctx context.Context, callerID, role, readerID string, in *domain.ReaderBusinessProfileInput) (*domain.ReaderBusinessProfile, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.UpsertBusinessProfile")
	defer span.End()
	span.SetAttributes(attribute.String("reader.id", readerID))

	if role != domain.RoleAdmin && callerID != readerID {
		return nil, &domain.ErrForbidden{Action: "edit another reader's profile"}
	}
	if in.DisplayName.IsEmpty() {
		return nil, &domain.ErrValidation{Field: "display_name", Message: "required in at least one language"}
	}
	if in.HourlyRate < 0 {
		return nil, &domain.ErrValidation{Field: "hourly_rate", Message: "must not be negative"}
	}
	if in.YearsExperience < 0 {
		return nil, &domain.ErrValidation{Field: "years_experience", Message: "must not be negative"}
	}
	s.translation.CompleteAll(ctx, "reader_business_profiles", &in.DisplayName, &in.Bio)

	profile := &domain.ReaderBusinessProfile{
		ReaderID:        readerID,
		DisplayName:     in.DisplayName,
		Bio:             in.Bio,
		Specialties:     in.Specialties,
		HourlyRate:      in.HourlyRate,
		Currency:        currencyOrDefault(in.Currency),
		YearsExperience: in.YearsExperience,
		IsAvailable:     boolOrDefault(in.IsAvailable, true),
	}

	saved, err := s.store.UpsertBusinessProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.logger.Info("business profile saved", zap.String("reader_id", readerID))
	return saved, nil
}

// ============================================================
// Service packages
// ============================================================

func (s *BusinessService) ListPackages(ctx context.Context, f domain.FilterState) ([]domain.ServicePackage, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.ListPackages")
	defer span.End()

	pkgs, err := s.store.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ApplyFilter(pkgs, f, packageFields), nil
}

func (s *BusinessService) GetPackage(ctx context.Context, packageID string) (*domain.ServicePackage, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.GetPackage")
	defer span.End()

	return s.store.GetPackage(ctx, packageID)
}

func (s *BusinessService) CreatePackage(ctx context.Context, in *domain.ServicePackageInput) (*domain.ServicePackage, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.CreatePackage")
	defer span.End()

	if err := validatePackageInput(in); err != nil {
		return nil, err
	}
	s.translation.CompleteAll(ctx, "service_packages", &in.Name, &in.Description)

	pkg := &domain.ServicePackage{
		Name:          in.Name,
		Description:   in.Description,
		ReaderID:      in.ReaderID,
		Price:         in.Price,
		Currency:      currencyOrDefault(in.Currency),
		SessionsCount: in.SessionsCount,
		ValidityDays:  in.ValidityDays,
		IsActive:      boolOrDefault(in.IsActive, true),
	}
	created, err := s.store.CreatePackage(ctx, pkg)
	if err != nil {
		return nil, err
	}

	s.logger.Info("package created",
		zap.String("package_id", created.ID),
		zap.String("reader_id", created.ReaderID),
		zap.Int("sessions", created.SessionsCount))
	return created, nil
}

func (s *BusinessService) UpdatePackage(ctx context.Context, packageID string, in *domain.ServicePackageInput) (*domain.ServicePackage, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.UpdatePackage")
	defer span.End()
	span.SetAttributes(attribute.String("package.id", packageID))

	if err := validatePackageInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPackage(ctx, packageID); err != nil {
		return nil, err
	}
	s.translation.CompleteAll(ctx, "service_packages", &in.Name, &in.Description)

	updates := map[string]any{
		"name_ar":        in.Name.AR,
		"name_en":        in.Name.EN,
		"description_ar": in.Description.AR,
		"description_en": in.Description.EN,
		"reader_id":      in.ReaderID,
		"price":          in.Price,
		"currency":       currencyOrDefault(in.Currency),
		"sessions_count": in.SessionsCount,
		"validity_days":  in.ValidityDays,
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	updated, err := s.store.UpdatePackage(ctx, packageID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("package updated", zap.String("package_id", packageID))
	return updated, nil
}

func (s *BusinessService) DeletePackage(ctx context.Context, packageID string) error {
	ctx, span := businessTracer.Start(ctx, "BusinessService.DeletePackage")
	defer span.End()
	span.SetAttributes(attribute.String("package.id", packageID))

	if _, err := s.store.GetPackage(ctx, packageID); err != nil {
		return err
	}
	if err := s.store.DeletePackage(ctx, packageID); err != nil {
		return err
	}

	s.logger.Info("package deleted", zap.String("package_id", packageID))
	return nil
}

func validatePackageInput(in *domain.ServicePackageInput) error {
	if in.Name.IsEmpty() {
		return &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	if in.ReaderID == "" {
		return &domain.ErrValidation{Field: "reader_id", Message: "required"}
	}
	if in.Price < 0 {
		return &domain.ErrValidation{Field: "price", Message: "must not be negative"}
	}
	if in.SessionsCount <= 0 {
		return &domain.ErrValidation{Field: "sessions_count", Message: "must be positive"}
	}
	if in.ValidityDays <= 0 {
		return &domain.ErrValidation{Field: "validity_days", Message: "must be positive"}
	}
	return nil
}

// ============================================================
// Client relationships
// ============================================================

// ListClientRelationships returns a reader's client roster, filtered by f.
func (s *BusinessService) ListClientRelationships(ctx context.Context, callerID, role, readerID string, f domain.FilterState) ([]domain.ClientRelationship, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.ListClientRelationships")
	defer span.End()
	span.SetAttributes(attribute.String("reader.id", readerID))

	if role != domain.RoleAdmin && callerID != readerID {
		return nil, &domain.ErrForbidden{Action: "view another reader's clients"}
	}
	rels, err := s.store.ListClientRelationships(ctx, readerID)
	if err != nil {
		return nil, err
	}
	return domain.ApplyFilter(rels, f, relationshipFields), nil
}

// CreateClientRelationship adds a client to the reader's roster. One row
// per (reader, client) pair.
func (s *BusinessService) CreateClientRelationship(ctx context.Context, callerID, role, readerID string, in *domain.ClientRelationshipInput) (*domain.ClientRelationship, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.CreateClientRelationship")
	defer span.End()
	span.SetAttributes(attribute.String("reader.id", readerID))

	if role != domain.RoleAdmin && callerID != readerID {
		return nil, &domain.ErrForbidden{Action: "manage another reader's clients"}
	}
	if in.ClientID == "" {
		return nil, &domain.ErrValidation{Field: "client_id", Message: "required"}
	}
	status := in.Status
	if status == "" {
		status = domain.RelationshipActive
	}
	if !validRelationshipStatus(status) {
		return nil, &domain.ErrValidation{Field: "status", Message: "must be active, inactive or blocked"}
	}

	existing, err := s.store.GetClientRelationship(ctx, readerID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "client is already on this reader's roster"}
	}

	rel := &domain.ClientRelationship{
		ReaderID: readerID,
		ClientID: in.ClientID,
		Status:   status,
		Notes:    in.Notes,
	}
	created, err := s.store.CreateClientRelationship(ctx, rel)
	if err != nil {
		return nil, err
	}

	s.logger.Info("client relationship created",
		zap.String("reader_id", readerID),
		zap.String("client_id", in.ClientID))
	return created, nil
}

// UpdateClientRelationship edits the status or notes of a roster entry.
func (s *BusinessService) UpdateClientRelationship(ctx context.Context, callerID, role, readerID, relID string, in *domain.ClientRelationshipInput) (*domain.ClientRelationship, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.UpdateClientRelationship")
	defer span.End()

	if role != domain.RoleAdmin && callerID != readerID {
		return nil, &domain.ErrForbidden{Action: "manage another reader's clients"}
	}

	updates := map[string]any{}
	if in.Status != "" {
		if !validRelationshipStatus(in.Status) {
			return nil, &domain.ErrValidation{Field: "status", Message: "must be active, inactive or blocked"}
		}
		updates["status"] = in.Status
	}
	if in.Notes != "" {
		updates["notes"] = in.Notes
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "nothing to update"}
	}

	updated, err := s.store.UpdateClientRelationship(ctx, readerID, relID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("client relationship updated", zap.String("relationship_id", relID))
	return updated, nil
}

func validRelationshipStatus(s string) bool {
	switch s {
	case domain.RelationshipActive, domain.RelationshipInactive, domain.RelationshipBlocked:
		return true
	}
	return false
}

// ============================================================
// Integrations
// ============================================================

// knownEvents are the event names an integration may subscribe to; "*"
// subscribes to everything.
var knownEvents = map[string]bool{
	"*":                          true,
	domain.EventBookingCreated:   true,
	domain.EventBookingStatus:    true,
	domain.EventBookingCompleted: true,
	domain.EventPaymentRecorded:  true,
	domain.EventIntegrationTest:  true,
}

func (s *BusinessService) ListIntegrations(ctx context.Context, activeOnly bool) ([]domain.Integration, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.ListIntegrations")
	defer span.End()

	return s.store.ListIntegrations(ctx, activeOnly)
}

func (s *BusinessService) GetIntegration(ctx context.Context, integrationID string) (*domain.Integration, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.GetIntegration")
	defer span.End()

	return s.store.GetIntegration(ctx, integrationID)
}

func (s *BusinessService) CreateIntegration(ctx context.Context, in *domain.IntegrationInput) (*domain.Integration, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.CreateIntegration")
	defer span.End()

	if err := validateIntegrationInput(in); err != nil {
		return nil, err
	}
	if in.Secret == "" {
		return nil, &domain.ErrValidation{Field: "secret", Message: "required to sign deliveries"}
	}
	events := in.Events
	if len(events) == 0 {
		events = []string{"*"}
	}

	integration := &domain.Integration{
		Provider:   in.Provider,
		WebhookURL: in.WebhookURL,
		Secret:     in.Secret,
		Events:     events,
		IsActive:   boolOrDefault(in.IsActive, true),
	}
	created, err := s.store.CreateIntegration(ctx, integration)
	if err != nil {
		return nil, err
	}

	s.logger.Info("integration created",
		zap.String("integration_id", created.ID),
		zap.String("provider", created.Provider))
	return created, nil
}

func (s *BusinessService) UpdateIntegration(ctx context.Context, integrationID string, in *domain.IntegrationInput) (*domain.Integration, error) {
	ctx, span := businessTracer.Start(ctx, "BusinessService.UpdateIntegration")
	defer span.End()
	span.SetAttributes(attribute.String("integration.id", integrationID))

	if err := validateIntegrationInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetIntegration(ctx, integrationID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"provider":    in.Provider,
		"webhook_url": in.WebhookURL,
	}
	if in.Secret != "" {
		updates["secret"] = in.Secret
	}
	if len(in.Events) > 0 {
		updates["events"] = in.Events
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	updated, err := s.store.UpdateIntegration(ctx, integrationID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("integration updated", zap.String("integration_id", integrationID))
	return updated, nil
}

func (s *BusinessService) DeleteIntegration(ctx context.Context, integrationID string) error {
	ctx, span := businessTracer.Start(ctx, "BusinessService.DeleteIntegration")
	defer span.End()
	span.SetAttributes(attribute.String("integration.id", integrationID))

	if _, err := s.store.GetIntegration(ctx, integrationID); err != nil {
		return err
	}
	if err := s.store.DeleteIntegration(ctx, integrationID); err != nil {
		return err
	}

	s.logger.Info("integration deleted", zap.String("integration_id", integrationID))
	return nil
}

// TestIntegration sends a signed test event to one integration and waits
// for the result, so the admin UI can verify the endpoint end to end.
func (s *BusinessService) TestIntegration(ctx context.Context, integrationID string) error {
	ctx, span := businessTracer.Start(ctx, "BusinessService.TestIntegration")
	defer span.End()
	span.SetAttributes(attribute.String("integration.id", integrationID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("integration_test", time.Since(start))
	}()

	integration, err := s.store.GetIntegration(ctx, integrationID)
	if err != nil {
		return err
	}

	event := newEvent(domain.EventIntegrationTest, map[string]any{
		"integration_id": integration.ID,
		"provider":       integration.Provider,
		"message":        "test delivery",
	})
	if err := s.dispatcher.Deliver(ctx, *integration, event); err != nil {
		return &domain.ErrExternalService{Service: "webhook", Err: err}
	}

	s.logger.Info("integration test delivered", zap.String("integration_id", integrationID))
	return nil
}

func validateIntegrationInput(in *domain.IntegrationInput) error {
	if in.Provider == "" {
		return &domain.ErrValidation{Field: "provider", Message: "required"}
	}
	u, err := url.Parse(in.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &domain.ErrValidation{Field: "webhook_url", Message: "must be an http(s) URL"}
	}
	for _, ev := range in.Events {
		if !knownEvents[ev] {
			return &domain.ErrValidation{Field: "events", Message: "unknown event " + ev}
		}
	}
	return nil
}
