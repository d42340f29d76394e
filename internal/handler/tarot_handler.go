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
// 4. Tarot content — decks & cards
// ============================================================

func listDecksHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/decks")
		defer span.End()

		decks, err := tarotSvc.ListDecks(ctx, parseFilterState(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(decks, 1, len(decks)))
	}
}

func getDeckHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/decks/{deckId}")
		defer span.End()

		deck, err := tarotSvc.GetDeck(ctx, chi.URLParam(r, "deckId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, deck)
	}
}

func createDeckHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/decks")
		defer span.End()

		var in domain.TarotDeckInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		deck, err := tarotSvc.CreateDeck(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, deck)
	}
}

func updateDeckHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/decks/{deckId}")
		defer span.End()

		var in domain.TarotDeckInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		deck, err := tarotSvc.UpdateDeck(ctx, chi.URLParam(r, "deckId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, deck)
	}
}

func deleteDeckHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/decks/{deckId}")
		defer span.End()

		if err := tarotSvc.DeleteDeck(ctx, chi.URLParam(r, "deckId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listCardsHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/decks/{deckId}/cards")
		defer span.End()

		cards, err := tarotSvc.ListCards(ctx, chi.URLParam(r, "deckId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(cards, 1, len(cards)))
	}
}

func addCardHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/decks/{deckId}/cards")
		defer span.End()

		var in domain.TarotCardInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		card, err := tarotSvc.AddCard(ctx, chi.URLParam(r, "deckId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, card)
	}
}

func removeCardHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/decks/{deckId}/cards/{cardId}")
		defer span.End()

		if err := tarotSvc.RemoveCard(ctx, chi.URLParam(r, "deckId"), chi.URLParam(r, "cardId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Tarot content — spread categories & spreads
// ============================================================

func listSpreadCategoriesHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/spreads/categories")
		defer span.End()

		categories, err := tarotSvc.ListSpreadCategories(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(categories, 1, len(categories)))
	}
}

func createSpreadCategoryHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/spreads/categories")
		defer span.End()

		var in domain.SpreadCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		category, err := tarotSvc.CreateSpreadCategory(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, category)
	}
}

func updateSpreadCategoryHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/spreads/categories/{categoryId}")
		defer span.End()

		var in domain.SpreadCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		category, err := tarotSvc.UpdateSpreadCategory(ctx, chi.URLParam(r, "categoryId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, category)
	}
}

func deleteSpreadCategoryHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/spreads/categories/{categoryId}")
		defer span.End()

		if err := tarotSvc.DeleteSpreadCategory(ctx, chi.URLParam(r, "categoryId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listSpreadsHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/spreads")
		defer span.End()

		spreads, err := tarotSvc.ListSpreads(ctx, parseFilterState(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, listResponse(spreads, 1, len(spreads)))
	}
}

func getSpreadHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/spreads/{spreadId}")
		defer span.End()

		spread, err := tarotSvc.GetSpread(ctx, chi.URLParam(r, "spreadId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, spread)
	}
}

func createSpreadHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/spreads")
		defer span.End()

		var in domain.SpreadInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		spread, err := tarotSvc.CreateSpread(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, spread)
	}
}

func updateSpreadHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/spreads/{spreadId}")
		defer span.End()

		var in domain.SpreadInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		spread, err := tarotSvc.UpdateSpread(ctx, chi.URLParam(r, "spreadId"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, spread)
	}
}

func deleteSpreadHandler(tarotSvc *service.TarotService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/spreads/{spreadId}")
		defer span.End()

		if err := tarotSvc.DeleteSpread(ctx, chi.URLParam(r, "spreadId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
