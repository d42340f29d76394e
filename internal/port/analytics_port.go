package port

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
)

// AnalyticsStore handles the analytics snapshot tables. Every method
// returns an explicit error; callers must not paper over failures with
// empty defaults.
type AnalyticsStore interface {
	// Daily snapshots
	ListUserAnalytics(ctx context.Context, from, to string) ([]domain.UserAnalytics, error)
	ListBookingAnalytics(ctx context.Context, from, to string) ([]domain.BookingAnalytics, error)
	ListPaymentAnalytics(ctx context.Context, from, to string) ([]domain.PaymentAnalytics, error)

	// Reader performance
	ListReaderPerformance(ctx context.Context, readerID, period string) ([]domain.ReaderPerformance, error)
	TopReaderPerformance(ctx context.Context, from, to string, limit int) ([]domain.ReaderPerformance, error)

	// System metrics
	ListSystemMetrics(ctx context.Context, metric, from, to string) ([]domain.SystemMetric, error)
	RecordSystemMetric(ctx context.Context, m *domain.SystemMetric) error
}
