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
// TarotStore implementation — decks, cards, spreads via PostgREST
// ============================================================

// deckRow maps the tarot_decks table columns.
type deckRow struct {
	ID            string    `json:"id"`
	NameAR        string    `json:"name_ar"`
	NameEN        string    `json:"name_en"`
	DescriptionAR string    `json:"description_ar"`
	DescriptionEN string    `json:"description_en"`
	CardCount     int       `json:"card_count"`
	CoverImageURL string    `json:"cover_image_url"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r deckRow) toDomain() domain.TarotDeck {
	return domain.TarotDeck{
		ID:            r.ID,
		Name:          domain.LocalizedText{AR: r.NameAR, EN: r.NameEN},
		Description:   domain.LocalizedText{AR: r.DescriptionAR, EN: r.DescriptionEN},
		CardCount:     r.CardCount,
		CoverImageURL: r.CoverImageURL,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// cardRow maps the tarot_cards table columns.
type cardRow struct {
	ID                string    `json:"id"`
	DeckID            string    `json:"deck_id"`
	NameAR            string    `json:"name_ar"`
	NameEN            string    `json:"name_en"`
	Arcana            string    `json:"arcana"`
	Suit              string    `json:"suit"`
	Number            int       `json:"number"`
	MeaningUprightAR  string    `json:"meaning_upright_ar"`
	MeaningUprightEN  string    `json:"meaning_upright_en"`
	MeaningReversedAR string    `json:"meaning_reversed_ar"`
	MeaningReversedEN string    `json:"meaning_reversed_en"`
	ImageURL          string    `json:"image_url"`
	CreatedAt         time.Time `json:"created_at"`
}

func (r cardRow) toDomain() domain.TarotCard {
	return domain.TarotCard{
		ID:              r.ID,
		DeckID:          r.DeckID,
		Name:            domain.LocalizedText{AR: r.NameAR, EN: r.NameEN},
		Arcana:          r.Arcana,
		Suit:            r.Suit,
		Number:          r.Number,
		MeaningUpright:  domain.LocalizedText{AR: r.MeaningUprightAR, EN: r.MeaningUprightEN},
		MeaningReversed: domain.LocalizedText{AR: r.MeaningReversedAR, EN: r.MeaningReversedEN},
		ImageURL:        r.ImageURL,
		CreatedAt:       r.CreatedAt,
	}
}

// categoryRow maps the spread_categories table columns.
type categoryRow struct {
	ID            string    `json:"id"`
	NameAR        string    `json:"name_ar"`
	NameEN        string    `json:"name_en"`
	DescriptionAR string    `json:"description_ar"`
	DescriptionEN string    `json:"description_en"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r categoryRow) toDomain() domain.SpreadCategory {
	return domain.SpreadCategory{
		ID:          r.ID,
		Name:        domain.LocalizedText{AR: r.NameAR, EN: r.NameEN},
		Description: domain.LocalizedText{AR: r.DescriptionAR, EN: r.DescriptionEN},
		Position:    r.Position,
		CreatedAt:   r.CreatedAt,
	}
}

// spreadRow maps the spreads table columns. Positions is a jsonb column
// holding the ordered card slots with their bilingual labels.
type spreadRow struct {
	ID            string                  `json:"id"`
	NameAR        string                  `json:"name_ar"`
	NameEN        string                  `json:"name_en"`
	DescriptionAR string                  `json:"description_ar"`
	DescriptionEN string                  `json:"description_en"`
	CategoryID    string                  `json:"category_id"`
	Difficulty    string                  `json:"difficulty"`
	CardCount     int                     `json:"card_count"`
	Positions     []domain.SpreadPosition `json:"positions"`
	IsActive      bool                    `json:"is_active"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func (r spreadRow) toDomain() domain.Spread {
	return domain.Spread{
		ID:          r.ID,
		Name:        domain.LocalizedText{AR: r.NameAR, EN: r.NameEN},
		Description: domain.LocalizedText{AR: r.DescriptionAR, EN: r.DescriptionEN},
		CategoryID:  r.CategoryID,
		Difficulty:  r.Difficulty,
		CardCount:   r.CardCount,
		Positions:   r.Positions,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// --- Decks ---

func (c *Client) ListDecks(ctx context.Context) ([]domain.TarotDeck, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListDecks")
	defer span.End()

	body, err := c.doRequest(ctx, http.MethodGet, "tarot_decks?order=created_at.desc")
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.TarotDeck{}, nil
	}

	var rows []deckRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode tarot_decks: %w", err)
	}

	decks := make([]domain.TarotDeck, 0, len(rows))
	for _, r := range rows {
		decks = append(decks, r.toDomain())
	}
	return decks, nil
}

func (c *Client) GetDeck(ctx context.Context, deckID string) (*domain.TarotDeck, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetDeck")
	defer span.End()

	path := fmt.Sprintf("tarot_decks?id=eq.%s&limit=1", deckID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "deck", ID: deckID}
	}

	var rows []deckRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode tarot_decks: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "deck", ID: deckID}
	}
	deck := rows[0].toDomain()
	return &deck, nil
}

func (c *Client) CreateDeck(ctx context.Context, deck *domain.TarotDeck) (*domain.TarotDeck, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateDeck")
	defer span.End()

	if deck.ID == "" {
		deck.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":              deck.ID,
		"name_ar":         deck.Name.AR,
		"name_en":         deck.Name.EN,
		"description_ar":  deck.Description.AR,
		"description_en":  deck.Description.EN,
		"card_count":      deck.CardCount,
		"cover_image_url": deck.CoverImageURL,
		"is_active":       deck.IsActive,
	}

	body, err := c.doPost(ctx, "tarot_decks", data)
	if err != nil {
		return nil, err
	}

	var rows []deckRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode tarot_decks: %w", err)
	}
	if len(rows) == 0 {
		return deck, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateDeck(ctx context.Context, deckID string, updates map[string]any) (*domain.TarotDeck, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateDeck")
	defer span.End()

	path := fmt.Sprintf("tarot_decks?id=eq.%s", deckID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	return c.GetDeck(ctx, deckID)
}

func (c *Client) DeleteDeck(ctx context.Context, deckID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteDeck")
	defer span.End()

	// cards first so the deck delete cannot orphan them
	if err := c.doDelete(ctx, fmt.Sprintf("tarot_cards?deck_id=eq.%s", deckID)); err != nil {
		return err
	}
	return c.doDelete(ctx, fmt.Sprintf("tarot_decks?id=eq.%s", deckID))
}

// --- Cards ---

func (c *Client) ListCards(ctx context.Context, deckID string) ([]domain.TarotCard, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCards")
	defer span.End()

	path := fmt.Sprintf("tarot_cards?deck_id=eq.%s&order=number.asc", deckID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.TarotCard{}, nil
	}

	var rows []cardRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode tarot_cards: %w", err)
	}

	cards := make([]domain.TarotCard, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.toDomain())
	}
	return cards, nil
}

func (c *Client) CreateCard(ctx context.Context, card *domain.TarotCard) (*domain.TarotCard, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCard")
	defer span.End()

	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":                  card.ID,
		"deck_id":             card.DeckID,
		"name_ar":             card.Name.AR,
		"name_en":             card.Name.EN,
		"arcana":              card.Arcana,
		"suit":                card.Suit,
		"number":              card.Number,
		"meaning_upright_ar":  card.MeaningUpright.AR,
		"meaning_upright_en":  card.MeaningUpright.EN,
		"meaning_reversed_ar": card.MeaningReversed.AR,
		"meaning_reversed_en": card.MeaningReversed.EN,
		"image_url":           card.ImageURL,
	}

	body, err := c.doPost(ctx, "tarot_cards", data)
	if err != nil {
		return nil, err
	}

	var rows []cardRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode tarot_cards: %w", err)
	}
	if len(rows) == 0 {
		return card, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) DeleteCard(ctx context.Context, deckID, cardID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCard")
	defer span.End()

	path := fmt.Sprintf("tarot_cards?id=eq.%s&deck_id=eq.%s", cardID, deckID)
	return c.doDelete(ctx, path)
}

// --- Spread categories ---

func (c *Client) ListSpreadCategories(ctx context.Context) ([]domain.SpreadCategory, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSpreadCategories")
	defer span.End()

	body, err := c.doRequest(ctx, http.MethodGet, "spread_categories?order=position.asc")
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.SpreadCategory{}, nil
	}

	var rows []categoryRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode spread_categories: %w", err)
	}

	cats := make([]domain.SpreadCategory, 0, len(rows))
	for _, r := range rows {
		cats = append(cats, r.toDomain())
	}
	return cats, nil
}

func (c *Client) CreateSpreadCategory(ctx context.Context, cat *domain.SpreadCategory) (*domain.SpreadCategory, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateSpreadCategory")
	defer span.End()

	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":             cat.ID,
		"name_ar":        cat.Name.AR,
		"name_en":        cat.Name.EN,
		"description_ar": cat.Description.AR,
		"description_en": cat.Description.EN,
		"position":       cat.Position,
	}

	body, err := c.doPost(ctx, "spread_categories", data)
	if err != nil {
		return nil, err
	}

	var rows []categoryRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode spread_categories: %w", err)
	}
	if len(rows) == 0 {
		return cat, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateSpreadCategory(ctx context.Context, categoryID string, updates map[string]any) (*domain.SpreadCategory, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateSpreadCategory")
	defer span.End()

	path := fmt.Sprintf("spread_categories?id=eq.%s", categoryID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	fetchPath := fmt.Sprintf("spread_categories?id=eq.%s&limit=1", categoryID)
	body, err := c.doRequest(ctx, http.MethodGet, fetchPath)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "spread_category", ID: categoryID}
	}

	var rows []categoryRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode spread_categories: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "spread_category", ID: categoryID}
	}
	cat := rows[0].toDomain()
	return &cat, nil
}

func (c *Client) DeleteSpreadCategory(ctx context.Context, categoryID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteSpreadCategory")
	defer span.End()

	path := fmt.Sprintf("spread_categories?id=eq.%s", categoryID)
	return c.doDelete(ctx, path)
}

// --- Spreads ---

func (c *Client) ListSpreads(ctx context.Context) ([]domain.Spread, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSpreads")
	defer span.End()

	body, err := c.doRequest(ctx, http.MethodGet, "spreads?order=created_at.desc")
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.Spread{}, nil
	}

	var rows []spreadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode spreads: %w", err)
	}

	spreads := make([]domain.Spread, 0, len(rows))
	for _, r := range rows {
		spreads = append(spreads, r.toDomain())
	}
	return spreads, nil
}

func (c *Client) GetSpread(ctx context.Context, spreadID string) (*domain.Spread, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetSpread")
	defer span.End()

	path := fmt.Sprintf("spreads?id=eq.%s&limit=1", spreadID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "spread", ID: spreadID}
	}

	var rows []spreadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode spreads: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "spread", ID: spreadID}
	}
	spread := rows[0].toDomain()
	return &spread, nil
}

func (c *Client) CreateSpread(ctx context.Context, spread *domain.Spread) (*domain.Spread, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateSpread")
	defer span.End()

	if spread.ID == "" {
		spread.ID = uuid.New().String()
	}
	data := map[string]any{
		"id":             spread.ID,
		"name_ar":        spread.Name.AR,
		"name_en":        spread.Name.EN,
		"description_ar": spread.Description.AR,
		"description_en": spread.Description.EN,
		"category_id":    spread.CategoryID,
		"difficulty":     spread.Difficulty,
		"card_count":     spread.CardCount,
		"positions":      spread.Positions,
		"is_active":      spread.IsActive,
	}

	body, err := c.doPost(ctx, "spreads", data)
	if err != nil {
		return nil, err
	}

	var rows []spreadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode spreads: %w", err)
	}
	if len(rows) == 0 {
		return spread, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateSpread(ctx context.Context, spreadID string, updates map[string]any) (*domain.Spread, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateSpread")
	defer span.End()

	path := fmt.Sprintf("spreads?id=eq.%s", spreadID)
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	return c.GetSpread(ctx, spreadID)
}

func (c *Client) DeleteSpread(ctx context.Context, spreadID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteSpread")
	defer span.End()

	path := fmt.Sprintf("spreads?id=eq.%s", spreadID)
	return c.doDelete(ctx, path)
}
