// Package i18n resolves the per-request language state and renders the
// platform's own strings (notification templates, status labels) in the
// caller's language. Record content is bilingual at the domain level; this
// package only covers text the platform itself authors.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/samiatarot/platform-api/internal/domain"
)

// Settings is the canonical language state for one request. It is built
// once by the resolution chain and carried through handlers and services;
// nothing else stores language state.
type Settings struct {
	Language   domain.Language  `json:"language"`
	Direction  domain.Direction `json:"direction"`
	PseudoMode bool             `json:"pseudo_mode"`
}

// SettingsFor derives the full settings value for a language.
func SettingsFor(lang domain.Language, pseudo bool) Settings {
	return Settings{
		Language:   lang,
		Direction:  lang.Direction(),
		PseudoMode: pseudo,
	}
}

// Catalog holds the platform's message strings per language and matches
// Accept-Language headers against the supported set.
type Catalog struct {
	defaultLang domain.Language
	messages    map[domain.Language]map[string]string
	matcher     language.Matcher
	order       []domain.Language
	pseudo      bool
}

// NewCatalog builds the catalog with the built-in message set. The default
// language is listed first so the matcher prefers it on ties.
func NewCatalog(defaultLang domain.Language, pseudo bool) *Catalog {
	if !defaultLang.Valid() {
		defaultLang = domain.LanguageEn
	}
	order := []domain.Language{defaultLang, defaultLang.Other()}
	tags := make([]language.Tag, len(order))
	for i, l := range order {
		tags[i] = language.Make(string(l))
	}
	return &Catalog{
		defaultLang: defaultLang,
		messages:    messages,
		matcher:     language.NewMatcher(tags),
		order:       order,
		pseudo:      pseudo,
	}
}

// DefaultLanguage returns the configured default language.
func (c *Catalog) DefaultLanguage() domain.Language {
	return c.defaultLang
}

// PseudoMode reports whether pseudo-localization is enabled.
func (c *Catalog) PseudoMode() bool {
	return c.pseudo
}

// T renders the message for key in lang: requested language first, then the
// default language, then the key itself. Args are applied with Sprintf.
// Pseudo mode transforms the result so untranslated strings stand out.
func (c *Catalog) T(lang domain.Language, key string, args ...any) string {
	msg, ok := c.lookup(lang, key)
	if !ok {
		msg = key
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	if c.pseudo {
		msg = Pseudo(msg)
	}
	return msg
}

// TPlural renders the plural form of key for count n. Keys follow the
// "{key}.{category}" convention. An explicit "{key}.zero" wins for n=0 in
// any language; otherwise the CLDR category is used with fallback to
// "{key}.other".
func (c *Catalog) TPlural(lang domain.Language, key string, n int, args ...any) string {
	if n == 0 {
		if _, ok := c.lookup(lang, key+".zero"); ok {
			return c.T(lang, key+".zero", args...)
		}
	}
	cat := PluralCategory(lang, n)
	if _, ok := c.lookup(lang, key+"."+cat); !ok {
		cat = "other"
	}
	return c.T(lang, key+"."+cat, args...)
}

func (c *Catalog) lookup(lang domain.Language, key string) (string, bool) {
	if m, ok := c.messages[lang]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	if lang != c.defaultLang {
		if m, ok := c.messages[c.defaultLang]; ok {
			if v, ok := m[key]; ok {
				return v, true
			}
		}
	}
	return "", false
}

// MatchAcceptLanguage picks the best supported language for an
// Accept-Language header. Empty or unparseable headers resolve to the
// default language.
func (c *Catalog) MatchAcceptLanguage(header string) domain.Language {
	header = strings.TrimSpace(header)
	if header == "" {
		return c.defaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return c.defaultLang
	}
	_, idx, _ := c.matcher.Match(tags...)
	return c.order[idx]
}

// PluralCategory returns the CLDR plural category name for n. Arabic uses
// the full six-category set; English reduces to one/other.
func PluralCategory(lang domain.Language, n int) string {
	if lang == domain.LanguageAr {
		switch {
		case n == 0:
			return "zero"
		case n == 1:
			return "one"
		case n == 2:
			return "two"
		case n%100 >= 3 && n%100 <= 10:
			return "few"
		case n%100 >= 11 && n%100 <= 99:
			return "many"
		default:
			return "other"
		}
	}
	if n == 1 {
		return "one"
	}
	return "other"
}

var pseudoRunes = map[rune]rune{
	'a': 'à', 'b': 'ƀ', 'c': 'ç', 'd': 'đ', 'e': 'è', 'f': 'ƒ', 'g': 'ğ',
	'h': 'ħ', 'i': 'ì', 'j': 'ĵ', 'k': 'ķ', 'l': 'ł', 'm': 'ɱ', 'n': 'ñ',
	'o': 'ò', 'p': 'þ', 'q': 'ǫ', 'r': 'ŕ', 's': 'š', 't': 'ŧ', 'u': 'ù',
	'v': 'ṽ', 'w': 'ŵ', 'x': 'ẋ', 'y': 'ý', 'z': 'ž',
	'A': 'À', 'B': 'Ɓ', 'C': 'Ç', 'D': 'Đ', 'E': 'È', 'F': 'Ƒ', 'G': 'Ğ',
	'H': 'Ħ', 'I': 'Ì', 'J': 'Ĵ', 'K': 'Ķ', 'L': 'Ł', 'M': 'Ṁ', 'N': 'Ñ',
	'O': 'Ò', 'P': 'Þ', 'Q': 'Ǫ', 'R': 'Ŕ', 'S': 'Š', 'T': 'Ŧ', 'U': 'Ù',
	'V': 'Ṽ', 'W': 'Ŵ', 'X': 'Ẋ', 'Y': 'Ý', 'Z': 'Ž',
}

// Pseudo transforms s into its pseudo-localized form: Latin letters gain
// diacritics and the string is bracketed, so hard-coded text is visible in
// QA without changing layout length much. Format verbs pass through
// untouched so unrendered templates stay usable.
func Pseudo(s string) string {
	var b strings.Builder
	b.WriteRune('⟦')
	verb := false
	for _, r := range s {
		switch {
		case verb:
			b.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '%' {
				verb = false
			}
		case r == '%':
			b.WriteRune(r)
			verb = true
		default:
			if p, ok := pseudoRunes[r]; ok {
				b.WriteRune(p)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteRune('⟧')
	return b.String()
}
