package handler

import (
	"net/http"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/i18n"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/infra/supabase"
	"github.com/samiatarot/platform-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Deps bundles everything the router mounts. All fields are required
// except DB, which only feeds the health probe.
type Deps struct {
	Auth        *service.AuthService
	Catalog     *service.CatalogService
	Tarot       *service.TarotService
	Booking     *service.BookingService
	Business    *service.BusinessService
	Analytics   *service.AnalyticsService
	Preferences *service.PreferencesService
	Translation *service.TranslationService
	I18n        *i18n.Catalog
	Metrics     *observability.Metrics
	DB          *supabase.Client
	Logger      *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the Samia Tarot frontend.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	logger := d.Logger

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Language"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.DB, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 🌐 Platform
		// GET /v1/configuration
		// GET /v1/metrics/translations
		// =============================================
		r.Get("/configuration", configurationHandler(d.Catalog, d.I18n))
		r.Get("/metrics/translations", translationMetricsHandler(d.Metrics, logger))

		// =============================================
		// 2. 🔐 Authentication
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/register", authRegisterHandler(d.Auth, logger))
			r.Post("/login", authLoginHandler(d.Auth, logger))
			r.Post("/refresh", authRefreshHandler(d.Auth, logger))
			r.Post("/password/reset-request", authPasswordResetRequestHandler(d.Auth, logger))
			r.Post("/password/reset-confirm", authPasswordResetConfirmHandler(d.Auth, logger))

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(d.Auth, logger))
				r.Post("/logout", authLogoutHandler(d.Auth, logger))
				r.Put("/password", authChangePasswordHandler(d.Auth, logger))
				r.Get("/me", meHandler(d.Auth, logger))
				r.Put("/me", updateProfileHandler(d.Auth, logger))
			})
		})

		// =============================================
		// 3. 🛍 Service catalog (public reads)
		// =============================================
		r.Get("/services", listServicesHandler(d.Catalog, logger))
		r.Get("/services/readers", listReadersHandler(d.Catalog, d.I18n, logger))
		r.Get("/services/types", serviceTypesHandler(d.Catalog))
		r.Get("/services/{serviceId}", getServiceHandler(d.Catalog, logger))

		// =============================================
		// 4. 🔮 Tarot content (public reads)
		// =============================================
		r.Get("/decks", listDecksHandler(d.Tarot, logger))
		r.Get("/decks/{deckId}", getDeckHandler(d.Tarot, logger))
		r.Get("/decks/{deckId}/cards", listCardsHandler(d.Tarot, logger))
		r.Get("/spreads", listSpreadsHandler(d.Tarot, logger))
		r.Get("/spreads/categories", listSpreadCategoriesHandler(d.Tarot, logger))
		r.Get("/spreads/{spreadId}", getSpreadHandler(d.Tarot, logger))

		// =============================================
		// 5. 💼 Business reads (public)
		// GET /v1/readers/{readerId}/business-profile
		// GET /v1/packages
		// =============================================
		r.Get("/readers/{readerId}/business-profile", getBusinessProfileHandler(d.Business, logger))
		r.Get("/packages", listPackagesHandler(d.Business, logger))
		r.Get("/packages/{packageId}", getPackageHandler(d.Business, logger))

		// =============================================
		// 6. 📅 Bookings, payments & notifications (protected)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(d.Auth, logger))

			r.Post("/bookings", createBookingHandler(d.Booking, logger))
			r.Get("/bookings", listBookingsHandler(d.Booking, logger))
			r.Get("/bookings/{bookingId}", getBookingHandler(d.Booking, logger))
			r.Patch("/bookings/{bookingId}/status", updateBookingStatusHandler(d.Booking, logger))
			r.Get("/readers/{readerId}/bookings", listReaderBookingsHandler(d.Booking, logger))

			r.Post("/payments", recordPaymentHandler(d.Booking, logger))
			r.Get("/payments", listPaymentsHandler(d.Booking, logger))
			r.Get("/payments/{transactionId}", getPaymentHandler(d.Booking, logger))

			r.Get("/notifications", listNotificationsHandler(d.Booking, logger))
			r.Post("/notifications/read-all", markAllNotificationsReadHandler(d.Booking, logger))
			r.Post("/notifications/{notificationId}/read", markNotificationReadHandler(d.Booking, logger))

			// Reader business operations; ownership is enforced in the service.
			r.Put("/readers/{readerId}/business-profile", upsertBusinessProfileHandler(d.Business, logger))
			r.Get("/readers/{readerId}/clients", listClientRelationshipsHandler(d.Business, logger))
			r.Post("/readers/{readerId}/clients", createClientRelationshipHandler(d.Business, logger))
			r.Patch("/readers/{readerId}/clients/{relationshipId}", updateClientRelationshipHandler(d.Business, logger))

			// =============================================
			// 7. ⚙️ User preferences
			// =============================================
			r.Get("/preferences", getPreferencesHandler(d.Preferences, logger))
			r.Put("/preferences/language", setLanguageHandler(d.Preferences, logger))
			r.Get("/preferences/view-mode/{entityType}", getViewModeHandler(d.Preferences, logger))
			r.Put("/preferences/view-mode/{entityType}", setViewModeHandler(d.Preferences, logger))
		})

		// =============================================
		// 8. 🛠 Admin — content authoring, integrations & analytics
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(d.Auth, logger))
			r.Use(RequireRole(domain.RoleAdmin, logger))

			r.Post("/services", createServiceHandler(d.Catalog, logger))
			r.Put("/services/{serviceId}", updateServiceHandler(d.Catalog, logger))
			r.Delete("/services/{serviceId}", deleteServiceHandler(d.Catalog, logger))

			r.Post("/decks", createDeckHandler(d.Tarot, logger))
			r.Put("/decks/{deckId}", updateDeckHandler(d.Tarot, logger))
			r.Delete("/decks/{deckId}", deleteDeckHandler(d.Tarot, logger))
			r.Post("/decks/{deckId}/cards", addCardHandler(d.Tarot, logger))
			r.Delete("/decks/{deckId}/cards/{cardId}", removeCardHandler(d.Tarot, logger))

			r.Post("/spreads", createSpreadHandler(d.Tarot, logger))
			r.Put("/spreads/{spreadId}", updateSpreadHandler(d.Tarot, logger))
			r.Delete("/spreads/{spreadId}", deleteSpreadHandler(d.Tarot, logger))
			r.Post("/spreads/categories", createSpreadCategoryHandler(d.Tarot, logger))
			r.Put("/spreads/categories/{categoryId}", updateSpreadCategoryHandler(d.Tarot, logger))
			r.Delete("/spreads/categories/{categoryId}", deleteSpreadCategoryHandler(d.Tarot, logger))

			r.Post("/packages", createPackageHandler(d.Business, logger))
			r.Put("/packages/{packageId}", updatePackageHandler(d.Business, logger))
			r.Delete("/packages/{packageId}", deletePackageHandler(d.Business, logger))

			r.Route("/admin", func(r chi.Router) {
				r.Get("/integrations", listIntegrationsHandler(d.Business, logger))
				r.Post("/integrations", createIntegrationHandler(d.Business, logger))
				r.Get("/integrations/{integrationId}", getIntegrationHandler(d.Business, logger))
				r.Put("/integrations/{integrationId}", updateIntegrationHandler(d.Business, logger))
				r.Delete("/integrations/{integrationId}", deleteIntegrationHandler(d.Business, logger))
				r.Post("/integrations/{integrationId}/test", testIntegrationHandler(d.Business, logger))

				r.Get("/analytics/dashboard", analyticsDashboardHandler(d.Analytics, logger))
				r.Get("/analytics/users", userAnalyticsHandler(d.Analytics, logger))
				r.Get("/analytics/bookings", bookingAnalyticsHandler(d.Analytics, logger))
				r.Get("/analytics/payments", paymentAnalyticsHandler(d.Analytics, logger))
				r.Get("/analytics/readers/{readerId}/performance", readerPerformanceHandler(d.Analytics, logger))
				r.Get("/analytics/system", systemMetricsHandler(d.Analytics, logger))
				r.Post("/analytics/system", recordSystemMetricHandler(d.Analytics, logger))
			})

			r.Post("/translate", translateHandler(d.Translation, logger))
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(db *supabase.Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "platform-api", Status: "healthy", LatencyMs: 0, UptimePercent: 99.99, LastChecked: now},
		}

		if db != nil {
			start := time.Now()
			err := db.Ping(ctx)
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				logger.Warn("healthz: supabase probe failed", zap.Error(err))
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "supabase", Status: status, LatencyMs: latency,
				UptimePercent: 99.9, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
