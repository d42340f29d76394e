package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/samiatarot/platform-api/internal/domain"
)

// Metrics holds all Prometheus metrics for the platform API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	externalErrors    *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	translationsTotal *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	webhookDeliveries *prometheus.CounterVec
	requestsTotal     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "samia_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "samia_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "samia_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "samia_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		translationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "samia_translations_total",
				Help: "Total translation completions by outcome.",
			},
			[]string{"outcome"},
		),
		bookingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "samia_bookings_total",
				Help: "Total booking state changes by status.",
			},
			[]string{"status"},
		),
		webhookDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "samia_webhook_deliveries_total",
				Help: "Total webhook delivery attempts by result.",
			},
			[]string{"result"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "samia_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrTranslation increments the translation counter with an outcome label:
// "completed" (translator produced the missing side), "fallback" (source text
// copied after translator failure) or "error".
func (m *Metrics) IncrTranslation(outcome string) {
	m.translationsTotal.WithLabelValues(outcome).Inc()
}

// IncrBooking increments the booking counter with a status label.
func (m *Metrics) IncrBooking(status string) {
	m.bookingsTotal.WithLabelValues(status).Inc()
}

// IncrWebhookDelivery increments the webhook delivery counter with a result
// label: "delivered", "failed" or "dropped".
func (m *Metrics) IncrWebhookDelivery(result string) {
	m.webhookDeliveries.WithLabelValues(result).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetTranslationSnapshot returns a snapshot of translation pipeline metrics
// suitable for the GET /v1/metrics/translations endpoint.
func (m *Metrics) GetTranslationSnapshot() *domain.TranslationMetrics {
	// Gather current values from Prometheus counters.
	// Note: Prometheus counters expose cumulative values.
	completed := getCounterValue(m.translationsTotal, "completed")
	fallbacks := getCounterValue(m.translationsTotal, "fallback")
	errorCount := getCounterValue(m.translationsTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "translations")
	cacheMisses := getCounterValue(m.cacheMisses, "translations")

	totalRequests := completed + fallbacks + errorCount
	fallbackRate := float64(0)
	errorRate := float64(0)
	cacheHitRate := float64(0)

	if totalRequests > 0 {
		fallbackRate = fallbacks / totalRequests
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.TranslationMetrics{
		TotalRequests: int64(totalRequests),
		Completed:     int64(completed),
		Fallbacks:     int64(fallbacks),
		FallbackRate:  fallbackRate,
		CacheHitRate:  cacheHitRate,
		ErrorRate:     errorRate,
		Period:        "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
