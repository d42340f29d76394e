package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/samiatarot/platform-api/internal/domain"
)

// ============================================================
// CatalogStore implementation — services via PostgREST
// ============================================================
//
// Bilingual fields are stored as paired columns (name_ar / name_en); row
// structs translate them to domain.LocalizedText at the store boundary so
// nothing above this layer knows about column naming.

// serviceRow maps the services table columns.
type serviceRow struct {
	ID              string    `json:"id"`
	NameAR          string    `json:"name_ar"`
	NameEN          string    `json:"name_en"`
	DescriptionAR   string    `json:"description_ar"`
	DescriptionEN   string    `json:"description_en"`
	ServiceType     string    `json:"service_type"`
	ReaderID        string    `json:"reader_id"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r serviceRow) toDomain() domain.Service {
	return domain.Service{
		ID:              r.ID,
		Name:            domain.LocalizedText{AR: r.NameAR, EN: r.NameEN},
		Description:     domain.LocalizedText{AR: r.DescriptionAR, EN: r.DescriptionEN},
		ServiceType:     r.ServiceType,
		ReaderID:        r.ReaderID,
		Price:           r.Price,
		Currency:        r.Currency,
		DurationMinutes: r.DurationMinutes,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// --- Services ---

func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListServices")
	defer span.End()

	path := "services?order=created_at.desc"
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.Service{}, nil
	}

	var rows []serviceRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}

	services := make([]domain.Service, 0, len(rows))
	for _, r := range rows {
		services = append(services, r.toDomain())
	}
	return services, nil
}

func (c *Client) GetService(ctx context.Context, serviceID string) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetService")
	defer span.End()

	path := fmt.Sprintf("services?id=eq.%s&limit=1", serviceID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "service", ID: serviceID}
	}

	var rows []serviceRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "service", ID: serviceID}
	}
	svc := rows[0].toDomain()
	return &svc, nil
}

func (c *Client) CreateService(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateService")
	defer span.End()

	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":               svc.ID,
		"name_ar":          svc.Name.AR,
		"name_en":          svc.Name.EN,
		"description_ar":   svc.Description.AR,
		"description_en":   svc.Description.EN,
		"service_type":     svc.ServiceType,
		"reader_id":        svc.ReaderID,
		"price":            svc.Price,
		"currency":         svc.Currency,
		"duration_minutes": svc.DurationMinutes,
		"is_active":        svc.IsActive,
	}

	body, err := c.doPost(ctx, "services", data)
	if err != nil {
		return nil, err
	}

	var rows []serviceRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	if len(rows) == 0 {
		return svc, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateService(ctx context.Context, serviceID string, updates map[string]any) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateService")
	defer span.End()

	path := fmt.Sprintf("services?id=eq.%s", serviceID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	return c.GetService(ctx, serviceID)
}

func (c *Client) DeleteService(ctx context.Context, serviceID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteService")
	defer span.End()

	path := fmt.Sprintf("services?id=eq.%s", serviceID)
	return c.doDelete(ctx, path)
}

// --- Readers ---

func (c *Client) ListActiveReaders(ctx context.Context) ([]domain.ReaderBusinessProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListActiveReaders")
	defer span.End()

	path := "reader_business_profiles?is_available=eq.true&order=rating.desc"
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.ReaderBusinessProfile{}, nil
	}

	var rows []businessProfileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode reader_business_profiles: %w", err)
	}

	profiles := make([]domain.ReaderBusinessProfile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, r.toDomain())
	}
	return profiles, nil
}
