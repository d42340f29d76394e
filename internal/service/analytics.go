package service

import (
	"context"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var analyticsTracer = otel.Tracer("service/analytics")

const (
	dateLayout       = "2006-01-02"
	defaultRangeDays = 30
	topReadersLimit  = 5
)

// AnalyticsService aggregates the daily snapshot tables into the admin
// dashboard and exposes the raw ranges. Store errors always propagate;
// a broken analytics pipeline must be visible, not an empty chart.
type AnalyticsService struct {
	store   port.AnalyticsStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(store port.AnalyticsStore, metrics *observability.Metrics, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, metrics: metrics, logger: logger}
}

// ============================================================
// Dashboard
// ============================================================

// Dashboard fetches the user, booking, payment and reader snapshots for the
// range concurrently and aggregates them. An empty range defaults to the
// last 30 days.
func (s *AnalyticsService) Dashboard(ctx context.Context, from, to string) (*domain.AnalyticsDashboard, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.Dashboard")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("analytics_dashboard", time.Since(start))
	}()

	period, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("analytics.from", period.From),
		attribute.String("analytics.to", period.To),
	)

	var (
		users    []domain.UserAnalytics
		bookings []domain.BookingAnalytics
		payments []domain.PaymentAnalytics
		top      []domain.ReaderPerformance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.store.ListUserAnalytics(gCtx, period.From, period.To)
		if err != nil {
			s.logger.Error("failed to fetch user analytics", zap.Error(err))
			return err
		}
		users = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.store.ListBookingAnalytics(gCtx, period.From, period.To)
		if err != nil {
			s.logger.Error("failed to fetch booking analytics", zap.Error(err))
			return err
		}
		bookings = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.store.ListPaymentAnalytics(gCtx, period.From, period.To)
		if err != nil {
			s.logger.Error("failed to fetch payment analytics", zap.Error(err))
			return err
		}
		payments = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.store.TopReaderPerformance(gCtx, monthOf(period.From), monthOf(period.To), topReadersLimit)
		if err != nil {
			s.logger.Error("failed to fetch reader performance", zap.Error(err))
			return err
		}
		top = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.AnalyticsDashboard{
		Period:   period,
		Users:    aggregateUsers(users),
		Bookings: aggregateBookings(bookings),
		Payments: aggregatePayments(payments),
		Top:      summarizeTopReaders(top),
	}, nil
}

// ============================================================
// Raw snapshot ranges
// ============================================================

func (s *AnalyticsService) UserAnalytics(ctx context.Context, from, to string) ([]domain.UserAnalytics, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.UserAnalytics")
	defer span.End()

	period, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.store.ListUserAnalytics(ctx, period.From, period.To)
}

func (s *AnalyticsService) BookingAnalytics(ctx context.Context, from, to string) ([]domain.BookingAnalytics, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.BookingAnalytics")
	defer span.End()

	period, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.store.ListBookingAnalytics(ctx, period.From, period.To)
}

func (s *AnalyticsService) PaymentAnalytics(ctx context.Context, from, to string) ([]domain.PaymentAnalytics, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.PaymentAnalytics")
	defer span.End()

	period, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.store.ListPaymentAnalytics(ctx, period.From, period.To)
}

// ReaderPerformance returns a reader's monthly snapshots, optionally for
// one YYYY-MM period.
func (s *AnalyticsService) ReaderPerformance(ctx context.Context, readerID, period string) ([]domain.ReaderPerformance, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.ReaderPerformance")
	defer span.End()
	span.SetAttributes(attribute.String("reader.id", readerID))

	if period != "" {
		if _, err := time.Parse("2006-01", period); err != nil {
			return nil, &domain.ErrValidation{Field: "period", Message: "must be YYYY-MM"}
		}
	}
	return s.store.ListReaderPerformance(ctx, readerID, period)
}

// ============================================================
// System metrics
// ============================================================

func (s *AnalyticsService) SystemMetrics(ctx context.Context, metric, from, to string) ([]domain.SystemMetric, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.SystemMetrics")
	defer span.End()

	period, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.store.ListSystemMetrics(ctx, metric, period.From, period.To)
}

func (s *AnalyticsService) RecordSystemMetric(ctx context.Context, in *domain.SystemMetricInput) (*domain.SystemMetric, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.RecordSystemMetric")
	defer span.End()

	if in.Metric == "" {
		return nil, &domain.ErrValidation{Field: "metric", Message: "required"}
	}

	m := &domain.SystemMetric{
		Metric:     in.Metric,
		Value:      in.Value,
		Labels:     in.Labels,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.store.RecordSystemMetric(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("system metric recorded",
		zap.String("metric", m.Metric),
		zap.Float64("value", m.Value))
	return m, nil
}

// ============================================================
// Aggregation
// ============================================================

func aggregateUsers(rows []domain.UserAnalytics) *domain.UserTotals {
	t := &domain.UserTotals{}
	if len(rows) == 0 {
		return t
	}
	var activeSum int
	for _, r := range rows {
		t.NewUsers += r.NewUsers
		activeSum += r.ActiveUsers
	}
	t.ActiveAvg = float64(activeSum) / float64(len(rows))

	// Totals and language split come from the latest snapshot; the rows
	// arrive ordered by snapshot_date ascending.
	latest := rows[len(rows)-1]
	t.Total = latest.TotalUsers
	if byLang := latest.ArabicUsers + latest.EnglishUsers; byLang > 0 {
		t.ArabicShare = float64(latest.ArabicUsers) / float64(byLang)
		t.EnglishShare = float64(latest.EnglishUsers) / float64(byLang)
	}
	return t
}

func aggregateBookings(rows []domain.BookingAnalytics) *domain.BookingTotals {
	t := &domain.BookingTotals{}
	for _, r := range rows {
		t.Total += r.TotalBookings
		t.Completed += r.CompletedBookings
		t.Cancelled += r.CancelledBookings
	}
	if t.Total > 0 {
		t.CompletionRate = float64(t.Completed) / float64(t.Total)
	}
	return t
}

func aggregatePayments(rows []domain.PaymentAnalytics) *domain.PaymentTotals {
	t := &domain.PaymentTotals{RevenueByMethod: map[string]float64{}}
	var txCount int
	for _, r := range rows {
		t.Revenue += r.TotalRevenue
		t.Refunds += r.TotalRefunds
		txCount += r.TransactionCnt
		for method, amount := range r.RevenueByMethod {
			t.RevenueByMethod[method] += amount
		}
		if r.Currency != "" {
			t.Currency = r.Currency
		}
	}
	t.NetRevenue = t.Revenue - t.Refunds
	if txCount > 0 {
		t.AvgTransaction = t.Revenue / float64(txCount)
	}
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	return t
}

func summarizeTopReaders(rows []domain.ReaderPerformance) []domain.TopReaderSummary {
	out := make([]domain.TopReaderSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.TopReaderSummary{
			ReaderID:          r.ReaderID,
			SessionsCompleted: r.SessionsCompleted,
			Revenue:           r.Revenue,
			AvgRating:         r.AvgRating,
		})
	}
	return out
}

// normalizeRange validates a from/to date pair and fills in the default
// window (last 30 days, inclusive) for missing bounds.
func normalizeRange(from, to string) (*domain.AnalyticsPeriod, error) {
	label := "custom"
	now := time.Now().UTC()
	if to == "" {
		to = now.Format(dateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -defaultRangeDays).Format(dateLayout)
		label = "last_30_days"
	}

	fromDay, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "from", Message: "must be YYYY-MM-DD"}
	}
	toDay, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "to", Message: "must be YYYY-MM-DD"}
	}
	if fromDay.After(toDay) {
		return nil, &domain.ErrValidation{Field: "from", Message: "must not be after to"}
	}

	return &domain.AnalyticsPeriod{From: from, To: to, Label: label}, nil
}

// monthOf truncates a YYYY-MM-DD date to its YYYY-MM period.
func monthOf(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}
