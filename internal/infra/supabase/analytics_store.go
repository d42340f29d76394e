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
// AnalyticsStore implementation — snapshot tables via PostgREST
// ============================================================
//
// Snapshot tables hold one row per day (user/booking/payment) or per
// reader-month (reader_performance). Failures surface as errors; empty
// ranges come back as empty slices, never nil-with-no-error guesses.

// --- Daily snapshots ---

func (c *Client) ListUserAnalytics(ctx context.Context, from, to string) ([]domain.UserAnalytics, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListUserAnalytics")
	defer span.End()

	path := fmt.Sprintf("user_analytics?snapshot_date=gte.%s&snapshot_date=lte.%s&order=snapshot_date.asc", from, to)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.UserAnalytics{}, nil
	}

	var rows []domain.UserAnalytics
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode user_analytics: %w", err)
	}
	return rows, nil
}

func (c *Client) ListBookingAnalytics(ctx context.Context, from, to string) ([]domain.BookingAnalytics, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBookingAnalytics")
	defer span.End()

	path := fmt.Sprintf("booking_analytics?snapshot_date=gte.%s&snapshot_date=lte.%s&order=snapshot_date.asc", from, to)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.BookingAnalytics{}, nil
	}

	var rows []domain.BookingAnalytics
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode booking_analytics: %w", err)
	}
	return rows, nil
}

func (c *Client) ListPaymentAnalytics(ctx context.Context, from, to string) ([]domain.PaymentAnalytics, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPaymentAnalytics")
	defer span.End()

	path := fmt.Sprintf("payment_analytics?snapshot_date=gte.%s&snapshot_date=lte.%s&order=snapshot_date.asc", from, to)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.PaymentAnalytics{}, nil
	}

	var rows []domain.PaymentAnalytics
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode payment_analytics: %w", err)
	}
	return rows, nil
}

// --- Reader performance ---

func (c *Client) ListReaderPerformance(ctx context.Context, readerID, period string) ([]domain.ReaderPerformance, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListReaderPerformance")
	defer span.End()

	path := fmt.Sprintf("reader_performance?reader_id=eq.%s", readerID)
	if period != "" {
		path += fmt.Sprintf("&period=eq.%s", period)
	}
	path += "&order=period.desc"

	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.ReaderPerformance{}, nil
	}

	var rows []domain.ReaderPerformance
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode reader_performance: %w", err)
	}
	return rows, nil
}

// TopReaderPerformance returns the highest-revenue reader rows between two
// YYYY-MM periods, inclusive.
func (c *Client) TopReaderPerformance(ctx context.Context, from, to string, limit int) ([]domain.ReaderPerformance, error) {
	ctx, span := tracer.Start(ctx, "Supabase.TopReaderPerformance")
	defer span.End()

	path := fmt.Sprintf("reader_performance?period=gte.%s&period=lte.%s&order=revenue.desc&limit=%d", from, to, limit)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.ReaderPerformance{}, nil
	}

	var rows []domain.ReaderPerformance
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode reader_performance: %w", err)
	}
	return rows, nil
}

// --- System metrics ---

func (c *Client) ListSystemMetrics(ctx context.Context, metric, from, to string) ([]domain.SystemMetric, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSystemMetrics")
	defer span.End()

	path := "system_analytics?"
	if metric != "" {
		path += fmt.Sprintf("metric=eq.%s&", metric)
	}
	path += fmt.Sprintf("recorded_at=gte.%s&recorded_at=lte.%s&order=recorded_at.desc", from, to)

	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.SystemMetric{}, nil
	}

	var rows []domain.SystemMetric
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode system_analytics: %w", err)
	}
	return rows, nil
}

func (c *Client) RecordSystemMetric(ctx context.Context, m *domain.SystemMetric) error {
	ctx, span := tracer.Start(ctx, "Supabase.RecordSystemMetric")
	defer span.End()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	data := map[string]any{
		"id":          m.ID,
		"metric":      m.Metric,
		"value":       m.Value,
		"labels":      m.Labels,
		"recorded_at": m.RecordedAt.Format(time.RFC3339),
	}

	_, err := c.doPost(ctx, "system_analytics", data)
	return err
}
