package handler

import (
	"encoding/json"
	"net/http"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/i18n"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// 1. Platform configuration & translation utilities
// ============================================================

func configurationHandler(catalogSvc *service.CatalogService, catalog *i18n.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/configuration")
		defer span.End()

		def := catalog.DefaultLanguage()
		languages := make([]domain.LanguageInfo, 0, 2)
		for _, lang := range []domain.Language{domain.LanguageAr, domain.LanguageEn} {
			languages = append(languages, domain.LanguageInfo{
				Code:       lang,
				NativeName: lang.NativeName(),
				Direction:  lang.Direction(),
				IsDefault:  lang == def,
			})
		}

		writeJSON(w, http.StatusOK, domain.ConfigurationResponse{
			Languages:       languages,
			DefaultLanguage: def,
			ServiceTypes:    catalogSvc.ServiceTypes(),
			Features: map[string]bool{
				"auto_translation":    true,
				"pseudo_localization": catalog.PseudoMode(),
				"webhooks":            true,
				"analytics":           true,
			},
		})
	}
}

func translateHandler(translationSvc *service.TranslationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/translate")
		defer span.End()

		var req domain.TranslateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := translationSvc.Translate(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func translationMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetTranslationSnapshot()
		writeJSON(w, http.StatusOK, snapshot)
	}
}
