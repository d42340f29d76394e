package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual service.
type ServiceHealth struct {
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	LatencyMs     int64   `json:"latencyMs"`
	UptimePercent float64 `json:"uptimePercent"`
	LastChecked   string  `json:"lastChecked"`
}

// TranslationMetrics is returned by GET /v1/metrics/translations.
type TranslationMetrics struct {
	TotalRequests int64   `json:"totalRequests"`
	Completed     int64   `json:"completed"`
	Fallbacks     int64   `json:"fallbacks"`
	FallbackRate  float64 `json:"fallbackRate"`
	CacheHitRate  float64 `json:"cacheHitRate"`
	ErrorRate     float64 `json:"errorRate"`
	Period        string  `json:"period"`
}
