package handler

import (
	"encoding/json"
	"net/http"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// 7. Analytics (admin)
// ============================================================

func analyticsDashboardHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/analytics/dashboard")
		defer span.End()

		q := r.URL.Query()
		dashboard, err := analyticsSvc.Dashboard(ctx, q.Get("from"), q.Get("to"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, dashboard)
	}
}

func userAnalyticsHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/analytics/users")
		defer span.End()

		q := r.URL.Query()
		rows, err := analyticsSvc.UserAnalytics(ctx, q.Get("from"), q.Get("to"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(rows, 1, len(rows)))
	}
}

func bookingAnalyticsHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/analytics/bookings")
		defer span.End()

		q := r.URL.Query()
		rows, err := analyticsSvc.BookingAnalytics(ctx, q.Get("from"), q.Get("to"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(rows, 1, len(rows)))
	}
}

func paymentAnalyticsHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/analytics/payments")
		defer span.End()

		q := r.URL.Query()
		rows, err := analyticsSvc.PaymentAnalytics(ctx, q.Get("from"), q.Get("to"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(rows, 1, len(rows)))
	}
}

func readerPerformanceHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/analytics/readers/{readerId}/performance")
		defer span.End()

		rows, err := analyticsSvc.ReaderPerformance(ctx, chi.URLParam(r, "readerId"), r.URL.Query().Get("period"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(rows, 1, len(rows)))
	}
}

func systemMetricsHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/analytics/system")
		defer span.End()

		q := r.URL.Query()
		rows, err := analyticsSvc.SystemMetrics(ctx, q.Get("metric"), q.Get("from"), q.Get("to"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(rows, 1, len(rows)))
	}
}

func recordSystemMetricHandler(analyticsSvc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/analytics/system")
		defer span.End()

		var in domain.SystemMetricInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		metric, err := analyticsSvc.RecordSystemMetric(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, metric)
	}
}
