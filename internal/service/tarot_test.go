package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockTarotStore struct {
	decks       []domain.TarotDeck
	deck        *domain.TarotDeck
	deckUpdates map[string]any

	cards       []domain.TarotCard
	cardsErr    error
	createdCard *domain.TarotCard

	categories []domain.SpreadCategory

	spreads       []domain.Spread
	spread        *domain.Spread
	createdSpread *domain.Spread
	spreadUpdates map[string]any

	err error
}

func (m *mockTarotStore) ListDecks(_ context.Context) ([]domain.TarotDeck, error) {
	return m.decks, m.err
}

func (m *mockTarotStore) GetDeck(_ context.Context, id string) (*domain.TarotDeck, error) {
	if m.deck == nil {
		return nil, &domain.ErrNotFound{Resource: "deck", ID: id}
	}
	return m.deck, nil
}

func (m *mockTarotStore) CreateDeck(_ context.Context, deck *domain.TarotDeck) (*domain.TarotDeck, error) {
	out := *deck
	out.ID = "deck-1"
	return &out, nil
}

func (m *mockTarotStore) UpdateDeck(_ context.Context, id string, updates map[string]any) (*domain.TarotDeck, error) {
	m.deckUpdates = updates
	if m.deck != nil {
		return m.deck, nil
	}
	return &domain.TarotDeck{ID: id}, nil
}

func (m *mockTarotStore) DeleteDeck(_ context.Context, _ string) error { return nil }

func (m *mockTarotStore) ListCards(_ context.Context, _ string) ([]domain.TarotCard, error) {
	return m.cards, m.cardsErr
}

func (m *mockTarotStore) CreateCard(_ context.Context, card *domain.TarotCard) (*domain.TarotCard, error) {
	out := *card
	out.ID = "card-1"
	m.createdCard = &out
	m.cards = append(m.cards, out)
	return &out, nil
}

func (m *mockTarotStore) DeleteCard(_ context.Context, _, _ string) error { return nil }

func (m *mockTarotStore) ListSpreadCategories(_ context.Context) ([]domain.SpreadCategory, error) {
	return m.categories, m.err
}

func (m *mockTarotStore) CreateSpreadCategory(_ context.Context, cat *domain.SpreadCategory) (*domain.SpreadCategory, error) {
	out := *cat
	out.ID = "cat-1"
	return &out, nil
}

func (m *mockTarotStore) UpdateSpreadCategory(_ context.Context, id string, _ map[string]any) (*domain.SpreadCategory, error) {
	return &domain.SpreadCategory{ID: id}, nil
}

func (m *mockTarotStore) DeleteSpreadCategory(_ context.Context, _ string) error { return nil }

func (m *mockTarotStore) ListSpreads(_ context.Context) ([]domain.Spread, error) {
	return m.spreads, m.err
}

func (m *mockTarotStore) GetSpread(_ context.Context, id string) (*domain.Spread, error) {
	if m.spread == nil {
		return nil, &domain.ErrNotFound{Resource: "spread", ID: id}
	}
	return m.spread, nil
}

func (m *mockTarotStore) CreateSpread(_ context.Context, spread *domain.Spread) (*domain.Spread, error) {
	out := *spread
	out.ID = "spread-1"
	m.createdSpread = &out
	return &out, nil
}

func (m *mockTarotStore) UpdateSpread(_ context.Context, id string, updates map[string]any) (*domain.Spread, error) {
	m.spreadUpdates = updates
	if m.spread != nil {
		return m.spread, nil
	}
	return &domain.Spread{ID: id}, nil
}

func (m *mockTarotStore) DeleteSpread(_ context.Context, _ string) error { return nil }

func newTarot(store *mockTarotStore, tr *mockTranslator) *service.TarotService {
	return service.NewTarotService(store, newTranslation(tr), observability.NewMetrics(), zap.NewNop())
}

func validCardInput() *domain.TarotCardInput {
	return &domain.TarotCardInput{
		Name:           domain.LocalizedText{EN: "The Moon"},
		Arcana:         domain.ArcanaMajor,
		Number:         18,
		MeaningUpright: domain.LocalizedText{EN: "Intuition"},
	}
}

func validSpreadInput() *domain.SpreadInput {
	return &domain.SpreadInput{
		Name:       domain.LocalizedText{EN: "Past Present Future"},
		CategoryID: "cat-1",
		Positions: []domain.SpreadPosition{
			{Index: 1, Label: domain.LocalizedText{EN: "Past"}},
			{Index: 2, Label: domain.LocalizedText{EN: "Present"}},
			{Index: 3, Label: domain.LocalizedText{EN: "Future"}},
		},
	}
}

// --- Card tests ---

func TestAddCard_Validation(t *testing.T) {
	store := &mockTarotStore{deck: &domain.TarotDeck{ID: "deck-1"}}
	svc := newTarot(store, &mockTranslator{})

	cases := []struct {
		name   string
		mutate func(*domain.TarotCardInput)
	}{
		{"empty name", func(in *domain.TarotCardInput) { in.Name = domain.LocalizedText{} }},
		{"unknown arcana", func(in *domain.TarotCardInput) { in.Arcana = "court" }},
		{"major with suit", func(in *domain.TarotCardInput) { in.Suit = domain.SuitCups }},
		{"major number too high", func(in *domain.TarotCardInput) { in.Number = 22 }},
		{"minor without suit", func(in *domain.TarotCardInput) {
			in.Arcana = domain.ArcanaMinor
			in.Number = 3
		}},
		{"minor bad suit", func(in *domain.TarotCardInput) {
			in.Arcana = domain.ArcanaMinor
			in.Suit = "coins"
			in.Number = 3
		}},
		{"minor number zero", func(in *domain.TarotCardInput) {
			in.Arcana = domain.ArcanaMinor
			in.Suit = domain.SuitWands
			in.Number = 0
		}},
		{"minor number too high", func(in *domain.TarotCardInput) {
			in.Arcana = domain.ArcanaMinor
			in.Suit = domain.SuitWands
			in.Number = 15
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCardInput()
			tc.mutate(in)
			_, err := svc.AddCard(context.Background(), "deck-1", in)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddCard_AcceptsCourtCards(t *testing.T) {
	store := &mockTarotStore{deck: &domain.TarotDeck{ID: "deck-1"}}
	svc := newTarot(store, &mockTranslator{})

	in := &domain.TarotCardInput{
		Name:   domain.LocalizedText{EN: "Queen of Cups"},
		Arcana: domain.ArcanaMinor,
		Suit:   domain.SuitCups,
		Number: 13,
	}
	if _, err := svc.AddCard(context.Background(), "deck-1", in); err != nil {
		t.Fatalf("expected court card to be accepted, got %v", err)
	}
}

func TestAddCard_RefreshesDeckCardCount(t *testing.T) {
	store := &mockTarotStore{deck: &domain.TarotDeck{ID: "deck-1"}}
	svc := newTarot(store, &mockTranslator{})

	if _, err := svc.AddCard(context.Background(), "deck-1", validCardInput()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.deckUpdates == nil {
		t.Fatal("deck card count was not refreshed")
	}
	if got := store.deckUpdates["card_count"]; got != 1 {
		t.Errorf("expected card_count 1, got %v", got)
	}
}

func TestAddCard_CountFailureDoesNotFailCall(t *testing.T) {
	store := &mockTarotStore{
		deck:     &domain.TarotDeck{ID: "deck-1"},
		cardsErr: errors.New("recount failed"),
	}
	svc := newTarot(store, &mockTranslator{})

	created, err := svc.AddCard(context.Background(), "deck-1", validCardInput())
	if err != nil {
		t.Fatalf("card count is metadata; creation should survive recount failure, got %v", err)
	}
	if created.ID == "" {
		t.Error("expected created card to be returned")
	}
}

func TestAddCard_UnknownDeck(t *testing.T) {
	svc := newTarot(&mockTarotStore{}, &mockTranslator{})

	_, err := svc.AddCard(context.Background(), "missing", validCardInput())
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// --- Spread tests ---

func TestCreateSpread_DerivesCardCount(t *testing.T) {
	store := &mockTarotStore{}
	svc := newTarot(store, &mockTranslator{})

	created, err := svc.CreateSpread(context.Background(), validSpreadInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.CardCount != 3 {
		t.Errorf("expected card count 3 from positions, got %d", created.CardCount)
	}
	if created.Difficulty != domain.DifficultyBeginner {
		t.Errorf("expected default difficulty beginner, got %q", created.Difficulty)
	}
}

func TestCreateSpread_RejectsGappedPositionIndices(t *testing.T) {
	svc := newTarot(&mockTarotStore{}, &mockTranslator{})

	in := validSpreadInput()
	in.Positions[2].Index = 5

	_, err := svc.CreateSpread(context.Background(), in)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSpread_Validation(t *testing.T) {
	svc := newTarot(&mockTarotStore{}, &mockTranslator{})

	cases := []struct {
		name   string
		mutate func(*domain.SpreadInput)
	}{
		{"empty name", func(in *domain.SpreadInput) { in.Name = domain.LocalizedText{} }},
		{"missing category", func(in *domain.SpreadInput) { in.CategoryID = "" }},
		{"unknown difficulty", func(in *domain.SpreadInput) { in.Difficulty = "expert" }},
		{"no positions", func(in *domain.SpreadInput) { in.Positions = nil }},
		{"unlabeled position", func(in *domain.SpreadInput) {
			in.Positions[1].Label = domain.LocalizedText{}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSpreadInput()
			tc.mutate(in)
			_, err := svc.CreateSpread(context.Background(), in)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateSpread_TranslatesPositionLabels(t *testing.T) {
	store := &mockTarotStore{}
	svc := newTarot(store, &mockTranslator{})

	created, err := svc.CreateSpread(context.Background(), validSpreadInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i, p := range created.Positions {
		if p.Label.AR == "" {
			t.Errorf("position %d label missing Arabic side", i+1)
		}
	}
}

func TestListSpreads_FilterByDifficulty(t *testing.T) {
	store := &mockTarotStore{spreads: []domain.Spread{
		{ID: "s1", Name: domain.LocalizedText{EN: "Daily"}, Difficulty: "beginner", IsActive: true},
		{ID: "s2", Name: domain.LocalizedText{EN: "Celtic Cross"}, Difficulty: "advanced", IsActive: true},
	}}
	svc := newTarot(store, &mockTranslator{})

	var f domain.FilterState
	f.WithExact("difficulty", "advanced")

	got, err := svc.ListSpreads(context.Background(), f)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("expected [s2], got %d results", len(got))
	}
}

func TestCreateDeck_RequiresName(t *testing.T) {
	svc := newTarot(&mockTarotStore{}, &mockTranslator{})

	_, err := svc.CreateDeck(context.Background(), &domain.TarotDeckInput{})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
