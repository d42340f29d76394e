package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tarotTracer = otel.Tracer("service/tarot")

// TarotService manages authored tarot content: decks, their cards, spread
// categories and spread layouts.
type TarotService struct {
	store       port.TarotStore
	translation *TranslationService
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewTarotService creates a new tarot content service.
func NewTarotService(store port.TarotStore, translation *TranslationService, metrics *observability.Metrics, logger *zap.Logger) *TarotService {
	return &TarotService{store: store, translation: translation, metrics: metrics, logger: logger}
}

// spreadFields declares how spreads are searched, filtered and sorted.
var spreadFields = domain.FieldSpec[domain.Spread]{
	Search: func(s domain.Spread) []domain.LocalizedText {
		return []domain.LocalizedText{s.Name, s.Description}
	},
	Fields: map[string]func(domain.Spread) string{
		"category":   func(s domain.Spread) string { return s.CategoryID },
		"difficulty": func(s domain.Spread) string { return s.Difficulty },
		"status":     func(s domain.Spread) string { return activeStatus(s.IsActive) },
	},
	Sort: map[string]func(a, b domain.Spread) bool{
		"name": func(a, b domain.Spread) bool {
			return sortableName(a.Name) < sortableName(b.Name)
		},
		"cards":   func(a, b domain.Spread) bool { return a.CardCount < b.CardCount },
		"created": func(a, b domain.Spread) bool { return a.CreatedAt.Before(b.CreatedAt) },
	},
}

// deckFields declares how decks are searched and sorted.
var deckFields = domain.FieldSpec[domain.TarotDeck]{
	Search: func(d domain.TarotDeck) []domain.LocalizedText {
		return []domain.LocalizedText{d.Name, d.Description}
	},
	Fields: map[string]func(domain.TarotDeck) string{
		"status": func(d domain.TarotDeck) string { return activeStatus(d.IsActive) },
	},
	Sort: map[string]func(a, b domain.TarotDeck) bool{
		"name": func(a, b domain.TarotDeck) bool {
			return sortableName(a.Name) < sortableName(b.Name)
		},
		"created": func(a, b domain.TarotDeck) bool { return a.CreatedAt.Before(b.CreatedAt) },
	},
}

// ============================================================
// Decks
// ============================================================

func (s *TarotService) ListDecks(ctx context.Context, f domain.FilterState) ([]domain.TarotDeck, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.ListDecks")
	defer span.End()

	decks, err := s.store.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ApplyFilter(decks, f, deckFields), nil
}

func (s *TarotService) GetDeck(ctx context.Context, deckID string) (*domain.TarotDeck, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.GetDeck")
	defer span.End()

	return s.store.GetDeck(ctx, deckID)
}

func (s *TarotService) CreateDeck(ctx context.Context, in *domain.TarotDeckInput) (*domain.TarotDeck, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.CreateDeck")
	defer span.End()

	if in.Name.IsEmpty() {
		return nil, &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	s.translation.CompleteAll(ctx, "tarot_decks", &in.Name, &in.Description)

	deck := &domain.TarotDeck{
		Name:          in.Name,
		Description:   in.Description,
		CoverImageURL: in.CoverImageURL,
		IsActive:      boolOrDefault(in.IsActive, true),
	}
	created, err := s.store.CreateDeck(ctx, deck)
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck created", zap.String("deck_id", created.ID))
	return created, nil
}

func (s *TarotService) UpdateDeck(ctx context.Context, deckID string, in *domain.TarotDeckInput) (*domain.TarotDeck, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.UpdateDeck")
	defer span.End()
	span.SetAttributes(attribute.String("deck.id", deckID))

	if in.Name.IsEmpty() {
		return nil, &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	if _, err := s.store.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}
	s.translation.CompleteAll(ctx, "tarot_decks", &in.Name, &in.Description)

	updates := map[string]any{
		"name_ar":         in.Name.AR,
		"name_en":         in.Name.EN,
		"description_ar":  in.Description.AR,
		"description_en":  in.Description.EN,
		"cover_image_url": in.CoverImageURL,
		"updated_at":      time.Now().UTC().Format(time.RFC3339),
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	updated, err := s.store.UpdateDeck(ctx, deckID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck updated", zap.String("deck_id", deckID))
	return updated, nil
}

func (s *TarotService) DeleteDeck(ctx context.Context, deckID string) error {
	ctx, span := tarotTracer.Start(ctx, "TarotService.DeleteDeck")
	defer span.End()
	span.SetAttributes(attribute.String("deck.id", deckID))

	if _, err := s.store.GetDeck(ctx, deckID); err != nil {
		return err
	}
	if err := s.store.DeleteDeck(ctx, deckID); err != nil {
		return err
	}

	s.logger.Info("deck deleted", zap.String("deck_id", deckID))
	return nil
}

// ============================================================
// Cards
// ============================================================

func (s *TarotService) ListCards(ctx context.Context, deckID string) ([]domain.TarotCard, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.ListCards")
	defer span.End()
	span.SetAttributes(attribute.String("deck.id", deckID))

	if _, err := s.store.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}
	return s.store.ListCards(ctx, deckID)
}

// AddCard validates and stores a card, then refreshes the deck's card count.
func (s *TarotService) AddCard(ctx context.Context, deckID string, in *domain.TarotCardInput) (*domain.TarotCard, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.AddCard")
	defer span.End()
	span.SetAttributes(attribute.String("deck.id", deckID))

	if err := validateCardInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}
	s.translation.CompleteAll(ctx, "cards", &in.Name, &in.MeaningUpright, &in.MeaningReversed)

	card := &domain.TarotCard{
		DeckID:          deckID,
		Name:            in.Name,
		Arcana:          in.Arcana,
		Suit:            in.Suit,
		Number:          in.Number,
		MeaningUpright:  in.MeaningUpright,
		MeaningReversed: in.MeaningReversed,
		ImageURL:        in.ImageURL,
	}
	created, err := s.store.CreateCard(ctx, card)
	if err != nil {
		return nil, err
	}

	s.refreshDeckCardCount(ctx, deckID)
	s.logger.Info("card added",
		zap.String("deck_id", deckID),
		zap.String("card_id", created.ID),
		zap.String("arcana", created.Arcana))
	return created, nil
}

func (s *TarotService) RemoveCard(ctx context.Context, deckID, cardID string) error {
	ctx, span := tarotTracer.Start(ctx, "TarotService.RemoveCard")
	defer span.End()

	if _, err := s.store.GetDeck(ctx, deckID); err != nil {
		return err
	}
	if err := s.store.DeleteCard(ctx, deckID, cardID); err != nil {
		return err
	}

	s.refreshDeckCardCount(ctx, deckID)
	s.logger.Info("card removed", zap.String("deck_id", deckID), zap.String("card_id", cardID))
	return nil
}

// refreshDeckCardCount recounts a deck's cards after a mutation. The count
// is display metadata, so failures are logged and do not fail the caller.
func (s *TarotService) refreshDeckCardCount(ctx context.Context, deckID string) {
	cards, err := s.store.ListCards(ctx, deckID)
	if err != nil {
		s.logger.Error("failed to recount deck cards", zap.String("deck_id", deckID), zap.Error(err))
		return
	}
	if _, err := s.store.UpdateDeck(ctx, deckID, map[string]any{
		"card_count": len(cards),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.Error("failed to update deck card count", zap.String("deck_id", deckID), zap.Error(err))
	}
}

func validateCardInput(in *domain.TarotCardInput) error {
	if in.Name.IsEmpty() {
		return &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	switch in.Arcana {
	case domain.ArcanaMajor:
		if in.Suit != "" {
			return &domain.ErrValidation{Field: "suit", Message: "major arcana cards carry no suit"}
		}
		if in.Number < 0 || in.Number > 21 {
			return &domain.ErrValidation{Field: "number", Message: "major arcana numbers run 0-21"}
		}
	case domain.ArcanaMinor:
		if !domain.ValidSuit(in.Suit) {
			return &domain.ErrValidation{Field: "suit", Message: "must be wands, cups, swords or pentacles"}
		}
		if in.Number < 1 || in.Number > 14 {
			return &domain.ErrValidation{Field: "number", Message: "minor arcana numbers run 1-14"}
		}
	default:
		return &domain.ErrValidation{Field: "arcana", Message: "must be major or minor"}
	}
	return nil
}

// ============================================================
// Spread categories
// ============================================================

func (s *TarotService) ListSpreadCategories(ctx context.Context) ([]domain.SpreadCategory, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.ListSpreadCategories")
	defer span.End()

	return s.store.ListSpreadCategories(ctx)
}

func (s *TarotService) CreateSpreadCategory(ctx context.Context, in *domain.SpreadCategoryInput) (*domain.SpreadCategory, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.CreateSpreadCategory")
	defer span.End()

	if in.Name.IsEmpty() {
		return nil, &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	s.translation.CompleteAll(ctx, "spread_categories", &in.Name, &in.Description)

	cat := &domain.SpreadCategory{
		Name:        in.Name,
		Description: in.Description,
		Position:    in.Position,
	}
	created, err := s.store.CreateSpreadCategory(ctx, cat)
	if err != nil {
		return nil, err
	}

	s.logger.Info("spread category created", zap.String("category_id", created.ID))
	return created, nil
}

func (s *TarotService) UpdateSpreadCategory(ctx context.Context, categoryID string, in *domain.SpreadCategoryInput) (*domain.SpreadCategory, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.UpdateSpreadCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID))

	if in.Name.IsEmpty() {
		return nil, &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	s.translation.CompleteAll(ctx, "spread_categories", &in.Name, &in.Description)

	updates := map[string]any{
		"name_ar":        in.Name.AR,
		"name_en":        in.Name.EN,
		"description_ar": in.Description.AR,
		"description_en": in.Description.EN,
		"position":       in.Position,
	}
	updated, err := s.store.UpdateSpreadCategory(ctx, categoryID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("spread category updated", zap.String("category_id", categoryID))
	return updated, nil
}

func (s *TarotService) DeleteSpreadCategory(ctx context.Context, categoryID string) error {
	ctx, span := tarotTracer.Start(ctx, "TarotService.DeleteSpreadCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID))

	if err := s.store.DeleteSpreadCategory(ctx, categoryID); err != nil {
		return err
	}

	s.logger.Info("spread category deleted", zap.String("category_id", categoryID))
	return nil
}

// ============================================================
// Spreads
// ============================================================

func (s *TarotService) ListSpreads(ctx context.Context, f domain.FilterState) ([]domain.Spread, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.ListSpreads")
	defer span.End()

	spreads, err := s.store.ListSpreads(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ApplyFilter(spreads, f, spreadFields), nil
}

func (s *TarotService) GetSpread(ctx context.Context, spreadID string) (*domain.Spread, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.GetSpread")
	defer span.End()

	return s.store.GetSpread(ctx, spreadID)
}

// CreateSpread validates the layout and persists it. The spread's card
// count always equals the number of positions.
func (s *TarotService) CreateSpread(ctx context.Context, in *domain.SpreadInput) (*domain.Spread, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.CreateSpread")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("spread_create", time.Since(start))
	}()

	if err := validateSpreadInput(in); err != nil {
		return nil, err
	}
	s.completeSpreadTexts(ctx, in)

	spread := &domain.Spread{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Difficulty:  difficultyOrDefault(in.Difficulty),
		CardCount:   len(in.Positions),
		Positions:   in.Positions,
		IsActive:    boolOrDefault(in.IsActive, true),
	}
	created, err := s.store.CreateSpread(ctx, spread)
	if err != nil {
		return nil, err
	}

	s.logger.Info("spread created",
		zap.String("spread_id", created.ID),
		zap.Int("card_count", created.CardCount))
	return created, nil
}

func (s *TarotService) UpdateSpread(ctx context.Context, spreadID string, in *domain.SpreadInput) (*domain.Spread, error) {
	ctx, span := tarotTracer.Start(ctx, "TarotService.UpdateSpread")
	defer span.End()
	span.SetAttributes(attribute.String("spread.id", spreadID))

	if err := validateSpreadInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetSpread(ctx, spreadID); err != nil {
		return nil, err
	}
	s.completeSpreadTexts(ctx, in)

	updates := map[string]any{
		"name_ar":        in.Name.AR,
		"name_en":        in.Name.EN,
		"description_ar": in.Description.AR,
		"description_en": in.Description.EN,
		"category_id":    in.CategoryID,
		"difficulty":     difficultyOrDefault(in.Difficulty),
		"card_count":     len(in.Positions),
		"positions":      in.Positions,
		"updated_at":     time.Now().UTC().Format(time.RFC3339),
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	updated, err := s.store.UpdateSpread(ctx, spreadID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("spread updated", zap.String("spread_id", spreadID))
	return updated, nil
}

func (s *TarotService) DeleteSpread(ctx context.Context, spreadID string) error {
	ctx, span := tarotTracer.Start(ctx, "TarotService.DeleteSpread")
	defer span.End()
	span.SetAttributes(attribute.String("spread.id", spreadID))

	if _, err := s.store.GetSpread(ctx, spreadID); err != nil {
		return err
	}
	if err := s.store.DeleteSpread(ctx, spreadID); err != nil {
		return err
	}

	s.logger.Info("spread deleted", zap.String("spread_id", spreadID))
	return nil
}

// completeSpreadTexts fills the missing language side of every bilingual
// field in the spread, including each position's label and meaning.
func (s *TarotService) completeSpreadTexts(ctx context.Context, in *domain.SpreadInput) {
	s.translation.CompleteAll(ctx, "spreads", &in.Name, &in.Description)
	for i := range in.Positions {
		s.translation.CompleteAll(ctx, "spreads", &in.Positions[i].Label, &in.Positions[i].Meaning)
	}
}

func validateSpreadInput(in *domain.SpreadInput) error {
	if in.Name.IsEmpty() {
		return &domain.ErrValidation{Field: "name", Message: "required in at least one language"}
	}
	if in.CategoryID == "" {
		return &domain.ErrValidation{Field: "category_id", Message: "required"}
	}
	if d := in.Difficulty; d != "" && d != domain.DifficultyBeginner &&
		d != domain.DifficultyIntermediate && d != domain.DifficultyAdvanced {
		return &domain.ErrValidation{Field: "difficulty", Message: "must be beginner, intermediate or advanced"}
	}
	if len(in.Positions) == 0 {
		return &domain.ErrValidation{Field: "positions", Message: "at least one position required"}
	}
	for i, p := range in.Positions {
		if p.Index != i+1 {
			return &domain.ErrValidation{
				Field:   "positions",
				Message: fmt.Sprintf("position %d has index %d, expected %d", i, p.Index, i+1),
			}
		}
		if p.Label.IsEmpty() {
			return &domain.ErrValidation{
				Field:   "positions",
				Message: fmt.Sprintf("position %d needs a label in at least one language", i+1),
			}
		}
	}
	return nil
}

func difficultyOrDefault(d string) string {
	if d == "" {
		return domain.DifficultyBeginner
	}
	return d
}
