package domain_test

import (
	"testing"

	"github.com/samiatarot/platform-api/internal/domain"
)

func TestLocalizedText_ResolvePreferredLanguage(t *testing.T) {
	text := domain.LocalizedText{AR: "قراءة التاروت", EN: "Tarot Reading"}

	if got := text.Resolve(domain.LanguageAr, "?"); got != "قراءة التاروت" {
		t.Errorf("expected Arabic variant, got %q", got)
	}
	if got := text.Resolve(domain.LanguageEn, "?"); got != "Tarot Reading" {
		t.Errorf("expected English variant, got %q", got)
	}
}

func TestLocalizedText_ResolveFallsBackToOtherLanguage(t *testing.T) {
	text := domain.LocalizedText{EN: "Tarot Reading"}

	if got := text.Resolve(domain.LanguageAr, "?"); got != "Tarot Reading" {
		t.Errorf("expected English fallback for empty Arabic, got %q", got)
	}
}

func TestLocalizedText_ResolveBothEmptyUsesFallback(t *testing.T) {
	var text domain.LocalizedText

	got := text.Resolve(domain.LanguageEn, "Untitled")
	if got != "Untitled" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got == "" {
		t.Error("resolved value must never be empty when a fallback is given")
	}
}

func TestLocalizedText_ResolveWhitespaceCountsAsEmpty(t *testing.T) {
	text := domain.LocalizedText{AR: "   ", EN: "Celtic Cross"}

	if got := text.Resolve(domain.LanguageAr, "?"); got != "Celtic Cross" {
		t.Errorf("whitespace-only Arabic should fall back to English, got %q", got)
	}
}

func TestLocalizedText_ResolveMixedList(t *testing.T) {
	items := []domain.LocalizedText{
		{EN: "Tarot Reading", AR: ""},
		{EN: "", AR: "قراءة القهوة"},
	}

	want := []string{"Tarot Reading", "قراءة القهوة"}
	for i, it := range items {
		if got := it.Resolve(domain.LanguageEn, "?"); got != want[i] {
			t.Errorf("item %d: expected %q, got %q", i, want[i], got)
		}
	}
}

func TestLocalizedText_MissingSide(t *testing.T) {
	if _, ok := (domain.LocalizedText{AR: "أ", EN: "a"}).MissingSide(); ok {
		t.Error("both sides filled should report no missing side")
	}
	if _, ok := (domain.LocalizedText{}).MissingSide(); ok {
		t.Error("both sides empty should report no missing side")
	}

	lang, ok := domain.LocalizedText{EN: "Three Card Spread"}.MissingSide()
	if !ok || lang != domain.LanguageAr {
		t.Errorf("expected missing Arabic side, got %q ok=%v", lang, ok)
	}
	lang, ok = domain.LocalizedText{AR: "الصليب السلتي"}.MissingSide()
	if !ok || lang != domain.LanguageEn {
		t.Errorf("expected missing English side, got %q ok=%v", lang, ok)
	}
}

func TestLocalizedText_ContainsSearchesBothVariants(t *testing.T) {
	text := domain.LocalizedText{AR: "قراءة الفنجان", EN: "Coffee Cup Reading"}

	if !text.Contains("coffee") {
		t.Error("expected case-insensitive match on English variant")
	}
	if !text.Contains("الفنجان") {
		t.Error("expected match on Arabic variant")
	}
	if text.Contains("astrology") {
		t.Error("unexpected match")
	}
}

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Language
	}{
		{"ar", domain.LanguageAr},
		{"AR", domain.LanguageAr},
		{"ar-SA", domain.LanguageAr},
		{"en_US", domain.LanguageEn},
		{"fr", domain.LanguageEn},
		{"", domain.LanguageEn},
	}
	for _, c := range cases {
		if got := domain.ParseLanguage(c.in, domain.LanguageEn); got != c.want {
			t.Errorf("ParseLanguage(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestLanguage_Direction(t *testing.T) {
	if domain.LanguageAr.Direction() != domain.DirectionRTL {
		t.Error("Arabic must resolve to rtl")
	}
	if domain.LanguageEn.Direction() != domain.DirectionLTR {
		t.Error("English must resolve to ltr")
	}
}

func TestLanguage_Other(t *testing.T) {
	if domain.LanguageAr.Other() != domain.LanguageEn {
		t.Error("expected en")
	}
	if domain.LanguageEn.Other() != domain.LanguageAr {
		t.Error("expected ar")
	}
}
