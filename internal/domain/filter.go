package domain

import (
	"sort"
	"strings"
)

// ============================================================
// List filtering
// ============================================================

// Sort directions accepted by FilterState.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// FilterState captures a list view's filter and sort selections for one
// request. It is built from query parameters and never persisted.
type FilterState struct {
	Search  string            `json:"search,omitempty"`
	Exact   map[string]string `json:"exact,omitempty"`
	SortKey string            `json:"sort_key,omitempty"`
	SortDir string            `json:"sort_dir,omitempty"`
}

// WithExact sets an exact-match filter, allocating the map on first use.
// Empty values are stored as-is and skipped during matching.
func (f *FilterState) WithExact(key, value string) {
	if f.Exact == nil {
		f.Exact = make(map[string]string)
	}
	f.Exact[key] = value
}

// IsZero reports whether no filter or sort is set.
func (f FilterState) IsZero() bool {
	return f.Search == "" && len(f.Exact) == 0 && f.SortKey == ""
}

// FieldSpec describes how values of type T expose their filterable and
// sortable fields. Search lists the bilingual fields scanned by the text
// search; Fields maps exact-filter keys to accessors; Sort maps sort keys
// to ascending comparators.
type FieldSpec[T any] struct {
	Search func(T) []LocalizedText
	Fields map[string]func(T) string
	Sort   map[string]func(a, b T) bool
}

// ApplyFilter filters items by f and returns the matches. All populated
// criteria must match (AND). The text search is a case-insensitive
// substring scan across both language variants of every searchable field.
// The filter step preserves input order; when a known sort key is set the
// result is stably sorted by it, reversed for SortDesc.
func ApplyFilter[T any](items []T, f FilterState, spec FieldSpec[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matches(it, f, spec) {
			out = append(out, it)
		}
	}
	if f.SortKey == "" {
		return out
	}
	less, ok := spec.Sort[f.SortKey]
	if !ok {
		return out
	}
	if strings.EqualFold(f.SortDir, SortDesc) {
		asc := less
		less = func(a, b T) bool { return asc(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func matches[T any](it T, f FilterState, spec FieldSpec[T]) bool {
	if f.Search != "" {
		if spec.Search == nil {
			return false
		}
		found := false
		for _, lt := range spec.Search(it) {
			if lt.Contains(f.Search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for key, want := range f.Exact {
		if want == "" {
			continue
		}
		get, ok := spec.Fields[key]
		if !ok {
			continue
		}
		if !strings.EqualFold(get(it), want) {
			return false
		}
	}
	return true
}
