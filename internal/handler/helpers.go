package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/i18n"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = 20
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return
}

func listResponse[T any](items []T, page, pageSize int) domain.ListResponse[T] {
	return domain.ListResponse[T]{
		Data:     items,
		Total:    len(items),
		Page:     page,
		PageSize: pageSize,
		HasMore:  pageSize > 0 && len(items) == pageSize,
	}
}

// filterParams are the query parameters copied into exact-match filters.
// Each list endpoint's field spec decides which of them it honors.
var filterParams = []string{"type", "reader_id", "category", "difficulty", "status"}

// parseFilterState builds a list filter from the request's query string:
// q (text search), the exact-match params above, sort and dir.
func parseFilterState(r *http.Request) domain.FilterState {
	q := r.URL.Query()
	f := domain.FilterState{
		Search:  strings.TrimSpace(q.Get("q")),
		SortKey: q.Get("sort"),
	}
	if q.Get("dir") == domain.SortDesc {
		f.SortDir = domain.SortDesc
	}
	for _, key := range filterParams {
		if v := q.Get(key); v != "" {
			f.WithExact(key, v)
		}
	}
	return f
}

// requestLanguage resolves the response language for a request. Explicit
// choices win over ambient ones: ?lang query, X-Language header, the JWT's
// language claim, then Accept-Language negotiation, then the default.
func requestLanguage(r *http.Request, catalog *i18n.Catalog) domain.Language {
	if lang := domain.ParseLanguage(r.URL.Query().Get("lang"), ""); lang.Valid() {
		return lang
	}
	if lang := domain.ParseLanguage(r.Header.Get("X-Language"), ""); lang.Valid() {
		return lang
	}
	if lang := domain.ParseLanguage(LanguageFromContext(r.Context()), ""); lang.Valid() {
		return lang
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		return catalog.MatchAcceptLanguage(header)
	}
	return catalog.DefaultLanguage()
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var duplicate *domain.ErrDuplicate
	var forbidden *domain.ErrForbidden
	var unauthorized *domain.ErrUnauthorized
	var conflict *domain.ErrConflict
	var invalidCode *domain.ErrInvalidCode
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &duplicate):
		logger.Debug("duplicate resource", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &forbidden):
		logger.Warn("forbidden access", zap.String("error", err.Error()))
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &invalidCode):
		logger.Warn("invalid verification code")
		writeError(w, http.StatusBadRequest, err.Error())
	// Checked after timeout and circuit breaker: those wrap inside
	// ErrExternalService and should keep their specific status.
	case errors.As(err, &external):
		logger.Error("upstream service failed", zap.String("service", external.Service), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
