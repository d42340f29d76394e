package handler

import (
	"encoding/json"
	"net/http"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/i18n"
	"github.com/samiatarot/platform-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// 3. Service catalog
// ============================================================

func listServicesHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/services")
		defer span.End()

		services, err := catalogSvc.ListServices(ctx, parseFilterState(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		// An explicit ?lang= collapses bilingual fields to one language.
		if lang := domain.ParseLanguage(r.URL.Query().Get("lang"), ""); lang.Valid() {
			views := make([]domain.ServiceView, 0, len(services))
			for _, svc := range services {
				views = append(views, svc.View(lang, svc.Name.EN))
			}
			writeJSON(w, http.StatusOK, listResponse(views, 1, len(views)))
			return
		}

		writeJSON(w, http.StatusOK, listResponse(services, 1, len(services)))
	}
}

func getServiceHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/services/{serviceId}")
		defer span.End()

		svc, err := catalogSvc.GetService(ctx, chi.URLParam(r, "serviceId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, svc)
	}
}

func createServiceHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/services")
		defer span.End()

		var in domain.ServiceInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		svc, err := catalogSvc.CreateService(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, svc)
	}
}

func updateServiceHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/services/{serviceId}")
		defer span.End()

		var in domain.ServiceInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		svc, err := catalogSvc.UpdateService(ctx, chi.URLParam(r, "serviceId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, svc)
	}
}

func deleteServiceHandler(catalogSvc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/services/{serviceId}")
		defer span.End()

		if err := catalogSvc.DeleteService(ctx, chi.URLParam(r, "serviceId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listReadersHandler(catalogSvc *service.CatalogService, catalog *i18n.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/services/readers")
		defer span.End()

		readers, err := catalogSvc.ListReaders(ctx, requestLanguage(r, catalog))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(readers, 1, len(readers)))
	}
}

func serviceTypesHandler(catalogSvc *service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/services/types")
		defer span.End()

		writeJSON(w, http.StatusOK, catalogSvc.ServiceTypes())
	}
}
