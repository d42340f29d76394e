package port

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
)

// TarotStore handles deck, card, spread and spread category data.
type TarotStore interface {
	// Decks
	ListDecks(ctx context.Context) ([]domain.TarotDeck, error)
	GetDeck(ctx context.Context, deckID string) (*domain.TarotDeck, error)
	CreateDeck(ctx context.Context, deck *domain.TarotDeck) (*domain.TarotDeck, error)
	UpdateDeck(ctx context.Context, deckID string, updates map[string]any) (*domain.TarotDeck, error)
	DeleteDeck(ctx context.Context, deckID string) error

	// Cards
	ListCards(ctx context.Context, deckID string) ([]domain.TarotCard, error)
	CreateCard(ctx context.Context, card *domain.TarotCard) (*domain.TarotCard, error)
	DeleteCard(ctx context.Context, deckID, cardID string) error

	// Spread categories
	ListSpreadCategories(ctx context.Context) ([]domain.SpreadCategory, error)
	CreateSpreadCategory(ctx context.Context, cat *domain.SpreadCategory) (*domain.SpreadCategory, error)
	UpdateSpreadCategory(ctx context.Context, categoryID string, updates map[string]any) (*domain.SpreadCategory, error)
	DeleteSpreadCategory(ctx context.Context, categoryID string) error

	// Spreads
	ListSpreads(ctx context.Context) ([]domain.Spread, error)
	GetSpread(ctx context.Context, spreadID string) (*domain.Spread, error)
	CreateSpread(ctx context.Context, spread *domain.Spread) (*domain.Spread, error)
	UpdateSpread(ctx context.Context, spreadID string, updates map[string]any) (*domain.Spread, error)
	DeleteSpread(ctx context.Context, spreadID string) error
}
