package domain

import "strings"

// ============================================================
// Languages
// ============================================================

// Language is a supported content language code.
type Language string

const (
	LanguageAr Language = "ar"
	LanguageEn Language = "en"
)

// Direction is the text direction of a language.
type Direction string

const (
	DirectionRTL Direction = "rtl"
	DirectionLTR Direction = "ltr"
)

// ParseLanguage normalizes a language code ("AR", "ar-SA", "en-US") to a
// supported Language. Unknown codes fall back to def.
func ParseLanguage(code string, def Language) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	switch Language(code) {
	case LanguageAr, LanguageEn:
		return Language(code)
	}
	return def
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == LanguageAr || l == LanguageEn
}

// Other returns the opposite language of the pair.
func (l Language) Other() Language {
	if l == LanguageAr {
		return LanguageEn
	}
	return LanguageAr
}

// Direction returns the text direction for the language. Arabic is the
// only right-to-left language the platform carries.
func (l Language) Direction() Direction {
	if l == LanguageAr {
		return DirectionRTL
	}
	return DirectionLTR
}

// NativeName returns the language's name in the language itself,
// for language-switcher labels.
func (l Language) NativeName() string {
	if l == LanguageAr {
		return "العربية"
	}
	return "English"
}

// ============================================================
// Localized text
// ============================================================

// LocalizedText holds the Arabic and English variants of a single
// user-facing text field. Either side may be empty; Resolve applies the
// display fallback chain so callers never render an empty value.
type LocalizedText struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

// NewLocalizedText builds a LocalizedText with the given text on one side.
func NewLocalizedText(lang Language, text string) LocalizedText {
	var t LocalizedText
	t.Set(lang, text)
	return t
}

// Get returns the variant for lang without any fallback.
func (t LocalizedText) Get(lang Language) string {
	if lang == LanguageAr {
		return t.AR
	}
	return t.EN
}

// Set stores text as the variant for lang.
func (t *LocalizedText) Set(lang Language, text string) {
	if lang == LanguageAr {
		t.AR = text
	} else {
		t.EN = text
	}
}

// Resolve returns the display value for lang: the requested variant if
// non-empty, otherwise the other variant, otherwise fallback. The result
// is empty only when both variants and fallback are empty.
func (t LocalizedText) Resolve(lang Language, fallback string) string {
	if v := strings.TrimSpace(t.Get(lang)); v != "" {
		return v
	}
	if v := strings.TrimSpace(t.Get(lang.Other())); v != "" {
		return v
	}
	return fallback
}

// IsEmpty reports whether both variants are empty or whitespace.
func (t LocalizedText) IsEmpty() bool {
	return strings.TrimSpace(t.AR) == "" && strings.TrimSpace(t.EN) == ""
}

// MissingSide returns the language whose variant is empty when exactly one
// side is filled, and false otherwise. Used by the auto-translate flow to
// decide whether a record needs completion.
func (t LocalizedText) MissingSide() (Language, bool) {
	arEmpty := strings.TrimSpace(t.AR) == ""
	enEmpty := strings.TrimSpace(t.EN) == ""
	if arEmpty == enEmpty {
		return "", false
	}
	if arEmpty {
		return LanguageAr, true
	}
	return LanguageEn, true
}

// Contains reports whether either variant contains the term,
// case-insensitively. Empty terms match everything.
func (t LocalizedText) Contains(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.AR), term) ||
		strings.Contains(strings.ToLower(t.EN), term)
}
