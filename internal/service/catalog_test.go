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

type mockCatalogStore struct {
	services []domain.Service
	service  *domain.Service
	created  *domain.Service
	updates  map[string]any
	readers  []domain.ReaderBusinessProfile
	deleted  string
	err      error
}

func (m *mockCatalogStore) ListServices(_ context.Context) ([]domain.Service, error) {
	return m.services, m.err
}

func (m *mockCatalogStore) GetService(_ context.Context, id string) (*domain.Service, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.service != nil {
		return m.service, nil
	}
	return nil, &domain.ErrNotFound{Resource: "service", ID: id}
}

func (m *mockCatalogStore) CreateService(_ context.Context, svc *domain.Service) (*domain.Service, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := *svc
	out.ID = "svc-1"
	m.created = &out
	return &out, nil
}

func (m *mockCatalogStore) UpdateService(_ context.Context, id string, updates map[string]any) (*domain.Service, error) {
	m.updates = updates
	if m.service != nil {
		return m.service, nil
	}
	return &domain.Service{ID: id}, nil
}

func (m *mockCatalogStore) DeleteService(_ context.Context, id string) error {
	m.deleted = id
	return nil
}

func (m *mockCatalogStore) ListActiveReaders(_ context.Context) ([]domain.ReaderBusinessProfile, error) {
	return m.readers, m.err
}

func newCatalog(store *mockCatalogStore, tr *mockTranslator) *service.CatalogService {
	return service.NewCatalogService(store, newTranslation(tr), observability.NewMetrics(), zap.NewNop())
}

func validServiceInput() *domain.ServiceInput {
	return &domain.ServiceInput{
		Name:            domain.LocalizedText{EN: "Tarot Reading"},
		ServiceType:     domain.ServiceTypeTarot,
		ReaderID:        "reader-1",
		Price:           30,
		DurationMinutes: 45,
	}
}

// --- Tests ---

func TestCreateService_CompletesMissingTranslation(t *testing.T) {
	store := &mockCatalogStore{}
	svc := newCatalog(store, &mockTranslator{result: "قراءة التاروت"})

	created, err := svc.CreateService(context.Background(), validServiceInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Name.AR != "قراءة التاروت" {
		t.Errorf("expected Arabic name filled before persisting, got %q", created.Name.AR)
	}
	if created.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", created.Currency)
	}
	if !created.IsActive {
		t.Error("expected new service to default to active")
	}
}

func TestCreateService_TranslatorOutageDoesNotBlock(t *testing.T) {
	store := &mockCatalogStore{}
	svc := newCatalog(store, &mockTranslator{err: errors.New("translator down")})

	created, err := svc.CreateService(context.Background(), validServiceInput())
	if err != nil {
		t.Fatalf("expected creation to succeed despite translator outage, got %v", err)
	}
	if created.Name.AR != "Tarot Reading" {
		t.Errorf("expected source text copied to Arabic side, got %q", created.Name.AR)
	}
}

func TestCreateService_Validation(t *testing.T) {
	svc := newCatalog(&mockCatalogStore{}, &mockTranslator{})

	cases := []struct {
		name   string
		mutate func(*domain.ServiceInput)
	}{
		{"empty name", func(in *domain.ServiceInput) { in.Name = domain.LocalizedText{} }},
		{"missing type", func(in *domain.ServiceInput) { in.ServiceType = "" }},
		{"missing reader", func(in *domain.ServiceInput) { in.ReaderID = "" }},
		{"negative price", func(in *domain.ServiceInput) { in.Price = -1 }},
		{"zero duration", func(in *domain.ServiceInput) { in.DurationMinutes = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validServiceInput()
			tc.mutate(in)
			_, err := svc.CreateService(context.Background(), in)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListServices_FiltersAndSorts(t *testing.T) {
	store := &mockCatalogStore{services: []domain.Service{
		{ID: "a", Name: domain.LocalizedText{EN: "Love Reading"}, ServiceType: "tarot", Price: 30, IsActive: true},
		{ID: "b", Name: domain.LocalizedText{EN: "Star Chart"}, ServiceType: "astrology", Price: 50, IsActive: true},
		{ID: "c", Name: domain.LocalizedText{EN: "Career Reading"}, ServiceType: "tarot", Price: 20, IsActive: true},
	}}
	svc := newCatalog(store, &mockTranslator{})

	var f domain.FilterState
	f.WithExact("type", "tarot")
	f.SortKey, f.SortDir = "price", domain.SortDesc

	got, err := svc.ListServices(context.Background(), f)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tarot services, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("expected price-descending order [a c], got [%s %s]", got[0].ID, got[1].ID)
	}

	f.Search = "love"
	got, err = svc.ListServices(context.Background(), f)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected search to narrow to [a], got %d results", len(got))
	}
}

func TestUpdateService_UnknownServiceFails(t *testing.T) {
	svc := newCatalog(&mockCatalogStore{}, &mockTranslator{})

	_, err := svc.UpdateService(context.Background(), "missing", validServiceInput())
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateService_WritesBothLanguageColumns(t *testing.T) {
	store := &mockCatalogStore{service: &domain.Service{ID: "svc-1"}}
	svc := newCatalog(store, &mockTranslator{result: "قراءة"})

	if _, err := svc.UpdateService(context.Background(), "svc-1", validServiceInput()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.updates["name_en"] != "Tarot Reading" {
		t.Errorf("name_en not written: %v", store.updates["name_en"])
	}
	if store.updates["name_ar"] != "قراءة" {
		t.Errorf("name_ar not completed before write: %v", store.updates["name_ar"])
	}
}

func TestDeleteService_ChecksExistenceFirst(t *testing.T) {
	store := &mockCatalogStore{}
	svc := newCatalog(store, &mockTranslator{})

	err := svc.DeleteService(context.Background(), "missing")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.deleted != "" {
		t.Errorf("delete reached the store for a missing service: %q", store.deleted)
	}
}

func TestListReaders_ResolvesDisplayNameForLanguage(t *testing.T) {
	store := &mockCatalogStore{readers: []domain.ReaderBusinessProfile{
		{ReaderID: "r-1", DisplayName: domain.LocalizedText{AR: "سامية", EN: "Samia"}, Rating: 4.8, IsAvailable: true},
		{ReaderID: "r-2", DisplayName: domain.LocalizedText{AR: "نور"}, Rating: 4.2, IsAvailable: true},
	}}
	svc := newCatalog(store, &mockTranslator{})

	readers, err := svc.ListReaders(context.Background(), domain.LanguageEn)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if readers[0].DisplayName != "Samia" {
		t.Errorf("expected English display name, got %q", readers[0].DisplayName)
	}
	// The second profile has no English side; the Arabic one is the fallback.
	if readers[1].DisplayName != "نور" {
		t.Errorf("expected Arabic fallback, got %q", readers[1].DisplayName)
	}
}
