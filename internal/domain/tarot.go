package domain

import "time"

// ============================================================
// Tarot content — decks, cards, spreads, categories
// ============================================================

// Arcana classifications for tarot cards.
const (
	ArcanaMajor = "major"
	ArcanaMinor = "minor"
)

// Minor arcana suits.
const (
	SuitWands     = "wands"
	SuitCups      = "cups"
	SuitSwords    = "swords"
	SuitPentacles = "pentacles"
)

// Spread difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// TarotDeck represents an authored card deck.
type TarotDeck struct {
	ID            string        `json:"id"`
	Name          LocalizedText `json:"name"`
	Description   LocalizedText `json:"description"`
	CardCount     int           `json:"card_count"`
	CoverImageURL string        `json:"cover_image_url,omitempty"`
	IsActive      bool          `json:"is_active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TarotDeckInput is the body for creating or updating a deck.
type TarotDeckInput struct {
	Name          LocalizedText `json:"name"`
	Description   LocalizedText `json:"description"`
	CoverImageURL string        `json:"cover_image_url,omitempty"`
	IsActive      *bool         `json:"is_active,omitempty"`
}

// TarotCard represents a single card within a deck. Major arcana cards
// carry Number 0-21 and no suit; minor arcana carry a suit and Number 1-14
// (11-14 being page, knight, queen, king).
type TarotCard struct {
	ID              string        `json:"id"`
	DeckID          string        `json:"deck_id"`
	Name            LocalizedText `json:"name"`
	Arcana          string        `json:"arcana"`
	Suit            string        `json:"suit,omitempty"`
	Number          int           `json:"number"`
	MeaningUpright  LocalizedText `json:"meaning_upright"`
	MeaningReversed LocalizedText `json:"meaning_reversed"`
	ImageURL        string        `json:"image_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TarotCardInput is the body for adding a card to a deck.
type TarotCardInput struct {
	Name            LocalizedText `json:"name"`
	Arcana          string        `json:"arcana"`
	Suit            string        `json:"suit,omitempty"`
	Number          int           `json:"number"`
	MeaningUpright  LocalizedText `json:"meaning_upright"`
	MeaningReversed LocalizedText `json:"meaning_reversed"`
	ImageURL        string        `json:"image_url,omitempty"`
}

// ValidSuit reports whether s is a recognized minor arcana suit.
func ValidSuit(s string) bool {
	switch s {
	case SuitWands, SuitCups, SuitSwords, SuitPentacles:
		return true
	}
	return false
}

// SpreadCategory groups spreads for the spread manager.
type SpreadCategory struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Position    int           `json:"position"`
	CreatedAt   time.Time     `json:"created_at"`
}

// SpreadCategoryInput is the body for creating or updating a category.
type SpreadCategoryInput struct {
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Position    int           `json:"position"`
}

// SpreadPosition is one card slot within a spread layout.
type SpreadPosition struct {
	Index   int           `json:"index"`
	Label   LocalizedText `json:"label"`
	Meaning LocalizedText `json:"meaning"`
}

// Spread represents a card layout template (e.g. Celtic Cross).
type Spread struct {
	ID          string           `json:"id"`
	Name        LocalizedText    `json:"name"`
	Description LocalizedText    `json:"description"`
	CategoryID  string           `json:"category_id"`
	Difficulty  string           `json:"difficulty"`
	CardCount   int              `json:"card_count"`
	Positions   []SpreadPosition `json:"positions"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// SpreadInput is the body for creating or updating a spread.
type SpreadInput struct {
	Name        LocalizedText    `json:"name"`
	Description LocalizedText    `json:"description"`
	CategoryID  string           `json:"category_id"`
	Difficulty  string           `json:"difficulty"`
	Positions   []SpreadPosition `json:"positions"`
	IsActive    *bool            `json:"is_active,omitempty"`
}
