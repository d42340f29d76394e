// Package domain defines the core business entities for the Samia Tarot
// platform. These models are independent of external services and represent
// the canonical data structures used throughout the API.
package domain

// ============================================================
// Generic API Response wrappers
// ============================================================

// ListResponse wraps paginated list results.
type ListResponse[T any] struct {
	Data     []T  `json:"data"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ============================================================
// Platform configuration (public)
// ============================================================

// LanguageInfo describes one supported language for the language switcher.
type LanguageInfo struct {
	Code       Language  `json:"code"`
	NativeName string    `json:"native_name"`
	Direction  Direction `json:"direction"`
	IsDefault  bool      `json:"is_default"`
}

// ConfigurationResponse is returned by GET /v1/configuration.
type ConfigurationResponse struct {
	Languages       []LanguageInfo    `json:"languages"`
	DefaultLanguage Language          `json:"default_language"`
	ServiceTypes    []ServiceTypeInfo `json:"service_types"`
	Features        map[string]bool   `json:"features"`
}

// ============================================================
// Translation API types
// ============================================================

// TranslateRequest is the body for POST /v1/translate.
type TranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
	Table  string `json:"table,omitempty"`
}

// TranslateResponse is returned by POST /v1/translate.
type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
	Source         string `json:"source"`
	Target         string `json:"target"`
	FromCache      bool   `json:"from_cache"`
}
