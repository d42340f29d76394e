package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/samiatarot/platform-api/internal/domain"
)

// ============================================================
// BusinessStore implementation — profiles, packages, clients,
// integrations via PostgREST
// ============================================================

// businessProfileRow maps the reader_business_profiles table columns.
// Specialties is a jsonb array.
type businessProfileRow struct {
	ID              string    `json:"id"`
	ReaderID        string    `json:"reader_id"`
	DisplayNameAR   string    `json:"display_name_ar"`
	DisplayNameEN   string    `json:"display_name_en"`
	BioAR           string    `json:"bio_ar"`
	BioEN           string    `json:"bio_en"`
	Specialties     []string  `json:"specialties"`
	HourlyRate      float64   `json:"hourly_rate"`
	Currency        string    `json:"currency"`
	YearsExperience int       `json:"years_experience"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	IsAvailable     bool      `json:"is_available"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r businessProfileRow) toDomain() domain.ReaderBusinessProfile {
	return domain.ReaderBusinessProfile{
		ID:              r.ID,
		ReaderID:        r.ReaderID,
		DisplayName:     domain.LocalizedText{AR: r.DisplayNameAR, EN: r.DisplayNameEN},
		Bio:             domain.LocalizedText{AR: r.BioAR, EN: r.BioEN},
		Specialties:     r.Specialties,
		HourlyRate:      r.HourlyRate,
		Currency:        r.Currency,
		YearsExperience: r.YearsExperience,
		Rating:          r.Rating,
		TotalReviews:    r.TotalReviews,
		IsAvailable:     r.IsAvailable,
		UpdatedAt:       r.UpdatedAt,
	}
}

// packageRow maps the service_packages table columns.
type packageRow struct {
	ID            string    `json:"id"`
	NameAR        string    `json:"name_ar"`
	NameEN        string    `json:"name_en"`
	DescriptionAR string    `json:"description_ar"`
	DescriptionEN string    `json:"description_en"`
	ReaderID      string    `json:"reader_id"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	SessionsCount int       `json:"sessions_count"`
	ValidityDays  int       `json:"validity_days"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r packageRow) toDomain() domain.ServicePackage {
	return domain.ServicePackage{
		ID:            r.ID,
		Name:          domain.LocalizedText{AR: r.NameAR, EN: r.NameEN},
		Description:   domain.LocalizedText{AR: r.DescriptionAR, EN: r.DescriptionEN},
		ReaderID:      r.ReaderID,
		Price:         r.Price,
		Currency:      r.Currency,
		SessionsCount: r.SessionsCount,
		ValidityDays:  r.ValidityDays,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
	}
}

// --- Business profiles ---

func (c *Client) GetBusinessProfile(ctx context.Context, readerID string) (*domain.ReaderBusinessProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBusinessProfile")
	defer span.End()

	path := fmt.Sprintf("reader_business_profiles?reader_id=eq.%s&limit=1", readerID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "business_profile", ID: readerID}
	}

	var rows []businessProfileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode reader_business_profiles: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "business_profile", ID: readerID}
	}
	profile := rows[0].toDomain()
	return &profile, nil
}

func (c *Client) UpsertBusinessProfile(ctx context.Context, profile *domain.ReaderBusinessProfile) (*domain.ReaderBusinessProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertBusinessProfile")
	defer span.End()

	data := map[string]any{
		"reader_id":        profile.ReaderID,
		"display_name_ar":  profile.DisplayName.AR,
		"display_name_en":  profile.DisplayName.EN,
		"bio_ar":           profile.Bio.AR,
		"bio_en":           profile.Bio.EN,
		"specialties":      profile.Specialties,
		"hourly_rate":      profile.HourlyRate,
		"currency":         profile.Currency,
		"years_experience": profile.YearsExperience,
		"is_available":     profile.IsAvailable,
		"updated_at":       time.Now().UTC().Format(time.RFC3339),
	}

	existing, err := c.GetBusinessProfile(ctx, profile.ReaderID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if existing == nil {
		data["id"] = uuid.New().String()
		if _, err := c.doPost(ctx, "reader_business_profiles", data); err != nil {
			return nil, err
		}
	} else {
		path := fmt.Sprintf("reader_business_profiles?reader_id=eq.%s", profile.ReaderID)
		if err := c.doPatch(ctx, path, data); err != nil {
			return nil, err
		}
	}

	return c.GetBusinessProfile(ctx, profile.ReaderID)
}

// --- Service packages ---

func (c *Client) ListPackages(ctx context.Context) ([]domain.ServicePackage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPackages")
	defer span.End()

	body, err := c.doRequest(ctx, http.MethodGet, "service_packages?order=created_at.desc")
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.ServicePackage{}, nil
	}

	var rows []packageRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode service_packages: %w", err)
	}

	pkgs := make([]domain.ServicePackage, 0, len(rows))
	for _, r := range rows {
		pkgs = append(pkgs, r.toDomain())
	}
	return pkgs, nil
}

func (c *Client) GetPackage(ctx context.Context, packageID string) (*domain.ServicePackage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPackage")
	defer span.End()

	path := fmt.Sprintf("service_packages?id=eq.%s&limit=1", packageID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "package", ID: packageID}
	}

	var rows []packageRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode service_packages: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "package", ID: packageID}
	}
	pkg := rows[0].toDomain()
	return &pkg, nil
}

func (c *Client) CreatePackage(ctx context.Context, pkg *domain.ServicePackage) (*domain.ServicePackage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreatePackage")
	defer span.End()

	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":             pkg.ID,
		"name_ar":        pkg.Name.AR,
		"name_en":        pkg.Name.EN,
		"description_ar": pkg.Description.AR,
		"description_en": pkg.Description.EN,
		"reader_id":      pkg.ReaderID,
		"price":          pkg.Price,
		"currency":       pkg.Currency,
		"sessions_count": pkg.SessionsCount,
		"validity_days":  pkg.ValidityDays,
		"is_active":      pkg.IsActive,
	}

	body, err := c.doPost(ctx, "service_packages", data)
	if err != nil {
		return nil, err
	}

	var rows []packageRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode service_packages: %w", err)
	}
	if len(rows) == 0 {
		return pkg, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdatePackage(ctx context.Context, packageID string, updates map[string]any) (*domain.ServicePackage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePackage")
	defer span.End()

	path := fmt.Sprintf("service_packages?id=eq.%s", packageID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	return c.GetPackage(ctx, packageID)
}

func (c *Client) DeletePackage(ctx context.Context, packageID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeletePackage")
	defer span.End()

	path := fmt.Sprintf("service_packages?id=eq.%s", packageID)
	return c.doDelete(ctx, path)
}

// --- Client relationships ---

func (c *Client) ListClientRelationships(ctx context.Context, readerID string) ([]domain.ClientRelationship, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListClientRelationships")
	defer span.End()

	path := fmt.Sprintf("client_relationships?reader_id=eq.%s&order=created_at.desc", readerID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.ClientRelationship{}, nil
	}

	var rows []domain.ClientRelationship
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode client_relationships: %w", err)
	}
	return rows, nil
}

func (c *Client) GetClientRelationship(ctx context.Context, readerID, clientID string) (*domain.ClientRelationship, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetClientRelationship")
	defer span.End()

	path := fmt.Sprintf("client_relationships?reader_id=eq.%s&client_id=eq.%s&limit=1", readerID, clientID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil // no relationship yet
	}

	var rows []domain.ClientRelationship
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode client_relationships: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) CreateClientRelationship(ctx context.Context, rel *domain.ClientRelationship) (*domain.ClientRelationship, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateClientRelationship")
	defer span.End()

	if rel.ID == "" {
		rel.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":             rel.ID,
		"reader_id":      rel.ReaderID,
		"client_id":      rel.ClientID,
		"status":         rel.Status,
		"notes":          rel.Notes,
		"total_sessions": rel.TotalSessions,
	}

	body, err := c.doPost(ctx, "client_relationships", data)
	if err != nil {
		return nil, err
	}

	var rows []domain.ClientRelationship
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode client_relationships: %w", err)
	}
	if len(rows) == 0 {
		return rel, nil
	}
	return &rows[0], nil
}

func (c *Client) UpdateClientRelationship(ctx context.Context, readerID, relID string, updates map[string]any) (*domain.ClientRelationship, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateClientRelationship")
	defer span.End()

	// reader_id filter keeps one reader from touching another's roster
	path := fmt.Sprintf("client_relationships?id=eq.%s&reader_id=eq.%s", relID, readerID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	fetchPath := fmt.Sprintf("client_relationships?id=eq.%s&reader_id=eq.%s&limit=1", relID, readerID)
	body, err := c.doRequest(ctx, http.MethodGet, fetchPath)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "client_relationship", ID: relID}
	}

	var rows []domain.ClientRelationship
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode client_relationships: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "client_relationship", ID: relID}
	}
	return &rows[0], nil
}

// --- Integrations ---

func (c *Client) ListIntegrations(ctx context.Context, activeOnly bool) ([]domain.Integration, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListIntegrations")
	defer span.End()

	path := "integrations?order=created_at.desc"
	if activeOnly {
		path = "integrations?is_active=eq.true&order=created_at.desc"
	}
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.Integration{}, nil
	}

	var rows []domain.Integration
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode integrations: %w", err)
	}
	return rows, nil
}

func (c *Client) GetIntegration(ctx context.Context, integrationID string) (*domain.Integration, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetIntegration")
	defer span.End()

	path := fmt.Sprintf("integrations?id=eq.%s&limit=1", integrationID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "integration", ID: integrationID}
	}

	var rows []domain.Integration
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode integrations: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "integration", ID: integrationID}
	}
	return &rows[0], nil
}

func (c *Client) CreateIntegration(ctx context.Context, in *domain.Integration) (*domain.Integration, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateIntegration")
	defer span.End()

	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":          in.ID,
		"provider":    in.Provider,
		"webhook_url": in.WebhookURL,
		"secret":      in.Secret,
		"events":      in.Events,
		"is_active":   in.IsActive,
	}

	body, err := c.doPost(ctx, "integrations", data)
	if err != nil {
		return nil, err
	}

	var rows []domain.Integration
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode integrations: %w", err)
	}
	if len(rows) == 0 {
		return in, nil
	}
	return &rows[0], nil
}

func (c *Client) UpdateIntegration(ctx context.Context, integrationID string, updates map[string]any) (*domain.Integration, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateIntegration")
	defer span.End()

	path := fmt.Sprintf("integrations?id=eq.%s", integrationID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	return c.GetIntegration(ctx, integrationID)
}

func (c *Client) DeleteIntegration(ctx context.Context, integrationID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteIntegration")
	defer span.End()

	path := fmt.Sprintf("integrations?id=eq.%s", integrationID)
	return c.doDelete(ctx, path)
}
