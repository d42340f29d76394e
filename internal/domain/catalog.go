package domain

import "time"

// ============================================================
// Catalog — services, readers, service types
// ============================================================

// Known service types offered on the platform.
const (
	ServiceTypeTarot      = "tarot"
	ServiceTypeCoffeeCup  = "coffee_cup"
	ServiceTypeAstrology  = "astrology"
	ServiceTypeNumerology = "numerology"
	ServiceTypeHealing    = "healing_session"
)

// Service represents a bookable reading offered by a reader.
type Service struct {
	ID              string        `json:"id"`
	Name            LocalizedText `json:"name"`
	Description     LocalizedText `json:"description"`
	ServiceType     string        `json:"service_type"`
	ReaderID        string        `json:"reader_id"`
	Price           float64       `json:"price"`
	Currency        string        `json:"currency"`
	DurationMinutes int           `json:"duration_minutes"`
	IsActive        bool          `json:"is_active"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ServiceInput is the body for creating or updating a service.
type ServiceInput struct {
	Name            LocalizedText `json:"name"`
	Description     LocalizedText `json:"description"`
	ServiceType     string        `json:"service_type"`
	ReaderID        string        `json:"reader_id"`
	Price           float64       `json:"price"`
	Currency        string        `json:"currency,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	IsActive        *bool         `json:"is_active,omitempty"`
}

// ServiceView is a Service with its bilingual fields resolved for one
// requested language.
type ServiceView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	ServiceType     string  `json:"service_type"`
	ReaderID        string  `json:"reader_id"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	DurationMinutes int     `json:"duration_minutes"`
	IsActive        bool    `json:"is_active"`
}

// View resolves the service's bilingual fields for lang.
func (s Service) View(lang Language, fallback string) ServiceView {
	return ServiceView{
		ID:              s.ID,
		Name:            s.Name.Resolve(lang, fallback),
		Description:     s.Description.Resolve(lang, ""),
		ServiceType:     s.ServiceType,
		ReaderID:        s.ReaderID,
		Price:           s.Price,
		Currency:        s.Currency,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
	}
}

// ReaderSummary is the public listing entry for an active reader.
type ReaderSummary struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Specialties []string `json:"specialties"`
	Rating      float64  `json:"rating"`
	IsAvailable bool     `json:"is_available"`
}

// ServiceTypeInfo pairs a service type value with its bilingual label.
type ServiceTypeInfo struct {
	Value string        `json:"value"`
	Label LocalizedText `json:"label"`
}

var serviceTypeLabels = map[string]LocalizedText{
	ServiceTypeTarot:      {AR: "قراءة التاروت", EN: "Tarot Reading"},
	ServiceTypeCoffeeCup:  {AR: "قراءة الفنجان", EN: "Coffee Cup Reading"},
	ServiceTypeAstrology:  {AR: "علم التنجيم", EN: "Astrology"},
	ServiceTypeNumerology: {AR: "علم الأرقام", EN: "Numerology"},
	ServiceTypeHealing:    {AR: "جلسة شفاء", EN: "Healing Session"},
}

// ServiceTypeLabel returns the bilingual label for a service type. Unknown
// types get the raw value on both sides so displays stay non-empty.
func ServiceTypeLabel(serviceType string) LocalizedText {
	if l, ok := serviceTypeLabels[serviceType]; ok {
		return l
	}
	return LocalizedText{AR: serviceType, EN: serviceType}
}

// ServiceTypes lists the known service types in display order.
func ServiceTypes() []ServiceTypeInfo {
	order := []string{
		ServiceTypeTarot,
		ServiceTypeCoffeeCup,
		ServiceTypeAstrology,
		ServiceTypeNumerology,
		ServiceTypeHealing,
	}
	out := make([]ServiceTypeInfo, 0, len(order))
	for _, v := range order {
		out = append(out, ServiceTypeInfo{Value: v, Label: serviceTypeLabels[v]})
	}
	return out
}
