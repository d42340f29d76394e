package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockBusinessStore struct {
	profile *domain.ReaderBusinessProfile

	pkg        *domain.ServicePackage
	pkgs       []domain.ServicePackage
	createdPkg *domain.ServicePackage
	pkgUpdates map[string]any

	rels        []domain.ClientRelationship
	existingRel *domain.ClientRelationship
	createdRel  *domain.ClientRelationship
	relUpdates  map[string]any

	integration        *domain.Integration
	integrations       []domain.Integration
	createdIntegration *domain.Integration
	integrationUpdates map[string]any

	err error
}

func (m *mockBusinessStore) GetBusinessProfile(_ context.Context, readerID string) (*domain.ReaderBusinessProfile, error) {
	if m.profile == nil {
		return nil, &domain.ErrNotFound{Resource: "business profile", ID: readerID}
	}
	return m.profile, nil
}

func (m *mockBusinessStore) UpsertBusinessProfile(_ context.Context, profile *domain.ReaderBusinessProfile) (*domain.ReaderBusinessProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := *profile
	m.profile = &out
	return &out, nil
}

func (m *mockBusinessStore) ListPackages(_ context.Context) ([]domain.ServicePackage, error) {
	return m.pkgs, m.err
}

func (m *mockBusinessStore) GetPackage(_ context.Context, id string) (*domain.ServicePackage, error) {
	if m.pkg == nil {
		return nil, &domain.ErrNotFound{Resource: "package", ID: id}
	}
	return m.pkg, nil
}

func (m *mockBusinessStore) CreatePackage(_ context.Context, pkg *domain.ServicePackage) (*domain.ServicePackage, error) {
	out := *pkg
	out.ID = "pkg-1"
	m.createdPkg = &out
	return &out, nil
}

func (m *mockBusinessStore) UpdatePackage(_ context.Context, id string, updates map[string]any) (*domain.ServicePackage, error) {
	m.pkgUpdates = updates
	return &domain.ServicePackage{ID: id}, nil
}

func (m *mockBusinessStore) DeletePackage(_ context.Context, _ string) error { return m.err }

func (m *mockBusinessStore) ListClientRelationships(_ context.Context, _ string) ([]domain.ClientRelationship, error) {
	return m.rels, m.err
}

func (m *mockBusinessStore) GetClientRelationship(_ context.Context, _, _ string) (*domain.ClientRelationship, error) {
	return m.existingRel, nil
}

func (m *mockBusinessStore) CreateClientRelationship(_ context.Context, rel *domain.ClientRelationship) (*domain.ClientRelationship, error) {
	out := *rel
	out.ID = "rel-1"
	m.createdRel = &out
	return &out, nil
}

func (m *mockBusinessStore) UpdateClientRelationship(_ context.Context, _, relID string, updates map[string]any) (*domain.ClientRelationship, error) {
	m.relUpdates = updates
	return &domain.ClientRelationship{ID: relID}, nil
}

func (m *mockBusinessStore) ListIntegrations(_ context.Context, _ bool) ([]domain.Integration, error) {
	return m.integrations, m.err
}

func (m *mockBusinessStore) GetIntegration(_ context.Context, id string) (*domain.Integration, error) {
	if m.integration == nil {
		return nil, &domain.ErrNotFound{Resource: "integration", ID: id}
	}
	return m.integration, nil
}

func (m *mockBusinessStore) CreateIntegration(_ context.Context, in *domain.Integration) (*domain.Integration, error) {
	out := *in
	out.ID = "int-1"
	m.createdIntegration = &out
	return &out, nil
}

func (m *mockBusinessStore) UpdateIntegration(_ context.Context, id string, updates map[string]any) (*domain.Integration, error) {
	m.integrationUpdates = updates
	return &domain.Integration{ID: id}, nil
}

func (m *mockBusinessStore) DeleteIntegration(_ context.Context, _ string) error { return m.err }

func newBusiness(store *mockBusinessStore, dispatcher *mockDispatcher) *service.BusinessService {
	if dispatcher == nil {
		dispatcher = &mockDispatcher{}
	}
	return service.NewBusinessService(store, newTranslation(&mockTranslator{}), dispatcher,
		observability.NewMetrics(), zap.NewNop())
}

func validProfileInput() *domain.ReaderBusinessProfileInput {
	return &domain.ReaderBusinessProfileInput{
		DisplayName:     domain.LocalizedText{EN: "Samia"},
		Bio:             domain.LocalizedText{EN: "Reading tarot for twenty years"},
		Specialties:     []string{"tarot", "coffee_cup"},
		HourlyRate:      60,
		YearsExperience: 20,
	}
}

func validIntegrationInput() *domain.IntegrationInput {
	return &domain.IntegrationInput{
		Provider:   "zapier",
		WebhookURL: "https://hooks.example.com/tarot",
		Secret:     "whsec_abc123",
		Events:     []string{domain.EventBookingCreated, domain.EventPaymentRecorded},
	}
}

// --- Business profile tests ---

func TestUpsertBusinessProfile_OwnershipEnforced(t *testing.T) {
	store := &mockBusinessStore{}
	svc := newBusiness(store, nil)

	_, err := svc.UpsertBusinessProfile(context.Background(), "reader-2", domain.RoleReader, "reader-1", validProfileInput())
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for another reader, got %v", err)
	}

	saved, err := svc.UpsertBusinessProfile(context.Background(), "admin-1", domain.RoleAdmin, "reader-1", validProfileInput())
	if err != nil {
		t.Fatalf("expected admin write to succeed, got %v", err)
	}
	if saved.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", saved.Currency)
	}
	if !saved.IsAvailable {
		t.Error("expected availability to default to true")
	}
}

func TestUpsertBusinessProfile_TranslatesDisplayName(t *testing.T) {
	store := &mockBusinessStore{}
	svc := newBusiness(store, nil)

	saved, err := svc.UpsertBusinessProfile(context.Background(), "reader-1", domain.RoleReader, "reader-1", validProfileInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.DisplayName.AR == "" {
		t.Error("expected the Arabic display name to be filled in")
	}
	if saved.Bio.AR == "" {
		t.Error("expected the Arabic bio to be filled in")
	}
}

func TestUpsertBusinessProfile_Validation(t *testing.T) {
	svc := newBusiness(&mockBusinessStore{}, nil)

	cases := []struct {
		name   string
		mutate func(*domain.ReaderBusinessProfileInput)
	}{
		{"empty display name", func(in *domain.ReaderBusinessProfileInput) { in.DisplayName = domain.LocalizedText{} }},
		{"negative rate", func(in *domain.ReaderBusinessProfileInput) { in.HourlyRate = -1 }},
		{"negative experience", func(in *domain.ReaderBusinessProfileInput) { in.YearsExperience = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validProfileInput()
			tc.mutate(in)
			_, err := svc.UpsertBusinessProfile(context.Background(), "reader-1", domain.RoleReader, "reader-1", in)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

// --- Package tests ---

func TestCreatePackage_DefaultsCurrencyAndActive(t *testing.T) {
	store := &mockBusinessStore{}
	svc := newBusiness(store, nil)

	created, err := svc.CreatePackage(context.Background(), &domain.ServicePackageInput{
		Name:          domain.LocalizedText{EN: "Five Sessions"},
		ReaderID:      "reader-1",
		Price:         200,
		SessionsCount: 5,
		ValidityDays:  90,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", created.Currency)
	}
	if !created.IsActive {
		t.Error("expected package to default to active")
	}
	if created.Name.AR == "" {
		t.Error("expected Arabic name to be filled in")
	}
}

func TestCreatePackage_Validation(t *testing.T) {
	svc := newBusiness(&mockBusinessStore{}, nil)

	base := func() *domain.ServicePackageInput {
		return &domain.ServicePackageInput{
			Name:          domain.LocalizedText{EN: "Five Sessions"},
			ReaderID:      "reader-1",
			Price:         200,
			SessionsCount: 5,
			ValidityDays:  90,
		}
	}
	cases := []struct {
		name   string
		mutate func(*domain.ServicePackageInput)
	}{
		{"empty name", func(in *domain.ServicePackageInput) { in.Name = domain.LocalizedText{} }},
		{"missing reader", func(in *domain.ServicePackageInput) { in.ReaderID = "" }},
		{"negative price", func(in *domain.ServicePackageInput) { in.Price = -10 }},
		{"zero sessions", func(in *domain.ServicePackageInput) { in.SessionsCount = 0 }},
		{"zero validity", func(in *domain.ServicePackageInput) { in.ValidityDays = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base()
			tc.mutate(in)
			_, err := svc.CreatePackage(context.Background(), in)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

// --- Client relationship tests ---

func TestCreateClientRelationship_DefaultsActive(t *testing.T) {
	store := &mockBusinessStore{}
	svc := newBusiness(store, nil)

	created, err := svc.CreateClientRelationship(context.Background(), "reader-1", domain.RoleReader, "reader-1",
		&domain.ClientRelationshipInput{ClientID: "client-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Status != domain.RelationshipActive {
		t.Errorf("expected default status active, got %q", created.Status)
	}
}

func TestCreateClientRelationship_DuplicateRejected(t *testing.T) {
	store := &mockBusinessStore{existingRel: &domain.ClientRelationship{ID: "rel-0", ClientID: "client-1"}}
	svc := newBusiness(store, nil)

	_, err := svc.CreateClientRelationship(context.Background(), "reader-1", domain.RoleReader, "reader-1",
		&domain.ClientRelationshipInput{ClientID: "client-1"})
	var ce *domain.ErrConflict
	if !errors.As(err, &ce) {
		t.Fatalf("expected conflict for repeated pair, got %v", err)
	}
	if store.createdRel != nil {
		t.Error("no second roster row should be written")
	}
}

func TestCreateClientRelationship_OwnershipEnforced(t *testing.T) {
	svc := newBusiness(&mockBusinessStore{}, nil)

	_, err := svc.CreateClientRelationship(context.Background(), "reader-2", domain.RoleReader, "reader-1",
		&domain.ClientRelationshipInput{ClientID: "client-1"})
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateClientRelationship_NothingToUpdate(t *testing.T) {
	svc := newBusiness(&mockBusinessStore{}, nil)

	_, err := svc.UpdateClientRelationship(context.Background(), "reader-1", domain.RoleReader, "reader-1", "rel-1",
		&domain.ClientRelationshipInput{})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}

	_, err = svc.UpdateClientRelationship(context.Background(), "reader-1", domain.RoleReader, "reader-1", "rel-1",
		&domain.ClientRelationshipInput{Status: "paused"})
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestListClientRelationships_FilterByStatus(t *testing.T) {
	store := &mockBusinessStore{rels: []domain.ClientRelationship{
		{ID: "rel-1", ClientID: "client-1", Status: domain.RelationshipActive},
		{ID: "rel-2", ClientID: "client-2", Status: domain.RelationshipBlocked},
	}}
	svc := newBusiness(store, nil)

	var f domain.FilterState
	f.WithExact("status", domain.RelationshipBlocked)

	got, err := svc.ListClientRelationships(context.Background(), "reader-1", domain.RoleReader, "reader-1", f)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].ID != "rel-2" {
		t.Fatalf("expected only the blocked entry, got %d results", len(got))
	}

	_, err = svc.ListClientRelationships(context.Background(), "reader-2", domain.RoleReader, "reader-1", domain.FilterState{})
	var fe *domain.ErrForbidden
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for another reader's roster, got %v", err)
	}
}

// --- Integration tests ---

func TestCreateIntegration_RequiresSecret(t *testing.T) {
	svc := newBusiness(&mockBusinessStore{}, nil)

	in := validIntegrationInput()
	in.Secret = ""

	_, err := svc.CreateIntegration(context.Background(), in)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Field != "secret" {
		t.Errorf("expected the secret field to be flagged, got %q", ve.Field)
	}
}

func TestCreateIntegration_ValidatesURL(t *testing.T) {
	svc := newBusiness(&mockBusinessStore{}, nil)

	for _, bad := range []string{"ftp://example.com/hook", "hooks.example.com/tarot", "http://"} {
		in := validIntegrationInput()
		in.WebhookURL = bad
		_, err := svc.CreateIntegration(context.Background(), in)
		var ve *domain.ErrValidation
		if !errors.As(err, &ve) {
			t.Errorf("expected %q to be rejected, got %v", bad, err)
		}
	}
}

func TestCreateIntegration_RejectsUnknownEvent(t *testing.T) {
	svc := newBusiness(&mockBusinessStore{}, nil)

	in := validIntegrationInput()
	in.Events = []string{domain.EventBookingCreated, "user.deleted"}

	_, err := svc.CreateIntegration(context.Background(), in)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateIntegration_DefaultsToAllEvents(t *testing.T) {
	store := &mockBusinessStore{}
	svc := newBusiness(store, nil)

	in := validIntegrationInput()
	in.Events = nil

	created, err := svc.CreateIntegration(context.Background(), in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(created.Events) != 1 || created.Events[0] != "*" {
		t.Errorf("expected wildcard subscription, got %v", created.Events)
	}
}

func TestTestIntegration_DeliversSignedTestEvent(t *testing.T) {
	store := &mockBusinessStore{integration: &domain.Integration{
		ID: "int-1", Provider: "zapier", WebhookURL: "https://hooks.example.com/tarot",
		Secret: "whsec_abc123", Events: []string{"*"}, IsActive: true,
	}}
	dispatcher := &mockDispatcher{}
	svc := newBusiness(store, dispatcher)

	if err := svc.TestIntegration(context.Background(), "int-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dispatcher.delivered) != 1 || dispatcher.delivered[0].Event != domain.EventIntegrationTest {
		t.Fatalf("expected one %s delivery, got %v", domain.EventIntegrationTest, dispatcher.delivered)
	}
}

func TestTestIntegration_WrapsDeliveryError(t *testing.T) {
	store := &mockBusinessStore{integration: &domain.Integration{ID: "int-1", Provider: "zapier"}}
	dispatcher := &mockDispatcher{deliverErr: errors.New("connection refused")}
	svc := newBusiness(store, dispatcher)

	err := svc.TestIntegration(context.Background(), "int-1")
	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if ext.Service != "webhook" {
		t.Errorf("expected the webhook hop to be named, got %q", ext.Service)
	}
}
