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
// 6. Business operations — reader profiles
// ============================================================

func getBusinessProfileHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/readers/{readerId}/business-profile")
		defer span.End()

		profile, err := businessSvc.GetBusinessProfile(ctx, chi.URLParam(r, "readerId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

func upsertBusinessProfileHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/readers/{readerId}/business-profile")
		defer span.End()

		var in domain.ReaderBusinessProfileInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		profile, err := businessSvc.UpsertBusinessProfile(ctx, UserIDFromContext(ctx), RoleFromContext(ctx),
			chi.URLParam(r, "readerId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// ============================================================
// Session packages
// ============================================================

func listPackagesHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/packages")
		defer span.End()

		packages, err := businessSvc.ListPackages(ctx, parseFilterState(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(packages, 1, len(packages)))
	}
}

func getPackageHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/packages/{packageId}")
		defer span.End()

		pkg, err := businessSvc.GetPackage(ctx, chi.URLParam(r, "packageId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, pkg)
	}
}

func createPackageHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/packages")
		defer span.End()

		var in domain.ServicePackageInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pkg, err := businessSvc.CreatePackage(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, pkg)
	}
}

func updatePackageHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/packages/{packageId}")
		defer span.End()

		var in domain.ServicePackageInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pkg, err := businessSvc.UpdatePackage(ctx, chi.URLParam(r, "packageId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, pkg)
	}
}

func deletePackageHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/packages/{packageId}")
		defer span.End()

		if err := businessSvc.DeletePackage(ctx, chi.URLParam(r, "packageId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Client relationships
// ============================================================

func listClientRelationshipsHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/readers/{readerId}/clients")
		defer span.End()

		relationships, err := businessSvc.ListClientRelationships(ctx, UserIDFromContext(ctx), RoleFromContext(ctx),
			chi.URLParam(r, "readerId"), parseFilterState(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(relationships, 1, len(relationships)))
	}
}

func createClientRelationshipHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/readers/{readerId}/clients")
		defer span.End()

		var in domain.ClientRelationshipInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rel, err := businessSvc.CreateClientRelationship(ctx, UserIDFromContext(ctx), RoleFromContext(ctx),
			chi.URLParam(r, "readerId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, rel)
	}
}

func updateClientRelationshipHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/readers/{readerId}/clients/{relationshipId}")
		defer span.End()

		var in domain.ClientRelationshipInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rel, err := businessSvc.UpdateClientRelationship(ctx, UserIDFromContext(ctx), RoleFromContext(ctx),
			chi.URLParam(r, "readerId"), chi.URLParam(r, "relationshipId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, rel)
	}
}

// ============================================================
// Webhook integrations (admin)
// ============================================================

func listIntegrationsHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/integrations")
		defer span.End()

		activeOnly := r.URL.Query().Get("active") == "true"

		integrations, err := businessSvc.ListIntegrations(ctx, activeOnly)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(integrations, 1, len(integrations)))
	}
}

func getIntegrationHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/integrations/{integrationId}")
		defer span.End()

		integration, err := businessSvc.GetIntegration(ctx, chi.URLParam(r, "integrationId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, integration)
	}
}

func createIntegrationHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/integrations")
		defer span.End()

		var in domain.IntegrationInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		integration, err := businessSvc.CreateIntegration(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, integration)
	}
}

func updateIntegrationHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/admin/integrations/{integrationId}")
		defer span.End()

		var in domain.IntegrationInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		integration, err := businessSvc.UpdateIntegration(ctx, chi.URLParam(r, "integrationId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, integration)
	}
}

func deleteIntegrationHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/integrations/{integrationId}")
		defer span.End()

		if err := businessSvc.DeleteIntegration(ctx, chi.URLParam(r, "integrationId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func testIntegrationHandler(businessSvc *service.BusinessService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/integrations/{integrationId}/test")
		defer span.End()

		if err := businessSvc.TestIntegration(ctx, chi.URLParam(r, "integrationId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "test event delivered"})
	}
}
