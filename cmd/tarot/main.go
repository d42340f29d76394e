package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samiatarot/platform-api/internal/config"
	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/handler"
	"github.com/samiatarot/platform-api/internal/i18n"
	"github.com/samiatarot/platform-api/internal/infra/cache"
	"github.com/samiatarot/platform-api/internal/infra/client"
	"github.com/samiatarot/platform-api/internal/infra/notify"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/infra/resilience"
	"github.com/samiatarot/platform-api/internal/infra/supabase"
	"github.com/samiatarot/platform-api/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Duration("jwt_refresh_ttl", cfg.JWTRefreshTTL),
		zap.String("default_language", cfg.DefaultLanguage),
		zap.Bool("pseudo_localization", cfg.PseudoLocalization),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "samia-platform-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	translationCache := cache.New[string](cfg.CacheTTL)
	defer translationCache.Stop()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("external-apis")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}
	supabaseClient := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)
	logger.Info("using Supabase as data backend",
		zap.String("supabase_url", cfg.SupabaseURL),
	)

	translatorClient := client.NewTranslatorClient(httpClient, cfg.TranslatorAPIURL, cb, resilienceCfg)

	// --- Localization ---
	defaultLang := domain.ParseLanguage(cfg.DefaultLanguage, domain.LanguageEn)
	catalog := i18n.NewCatalog(defaultLang, cfg.PseudoLocalization)

	// --- Webhook dispatcher ---
	dispatcher := notify.NewDispatcher(supabaseClient, httpClient, cfg.WebhookWorkers, cfg.WebhookQueueSize, metrics, logger)
	dispatcher.Start()

	// --- Services ---
	translationSvc := service.NewTranslationService(translatorClient, translationCache, metrics, logger)
	authSvc := service.NewAuthService(supabaseClient, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, defaultLang, logger)
	catalogSvc := service.NewCatalogService(supabaseClient, translationSvc, metrics, logger)
	tarotSvc := service.NewTarotService(supabaseClient, translationSvc, metrics, logger)
	bookingSvc := service.NewBookingService(supabaseClient, supabaseClient, supabaseClient, dispatcher, catalog, metrics, logger)
	businessSvc := service.NewBusinessService(supabaseClient, translationSvc, dispatcher, metrics, logger)
	analyticsSvc := service.NewAnalyticsService(supabaseClient, metrics, logger)
	preferencesSvc := service.NewPreferencesService(supabaseClient, cfg.PseudoLocalization, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Auth:        authSvc,
		Catalog:     catalogSvc,
		Tarot:       tarotSvc,
		Booking:     bookingSvc,
		Business:    businessSvc,
		Analytics:   analyticsSvc,
		Preferences: preferencesSvc,
		Translation: translationSvc,
		I18n:        catalog,
		Metrics:     metrics,
		DB:          supabaseClient,
		Logger:      logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	dispatcher.Stop()
	logger.Info("server stopped")
}
