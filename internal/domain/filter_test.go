package domain_test

import (
	"testing"

	"github.com/samiatarot/platform-api/internal/domain"
)

var serviceSpec = domain.FieldSpec[domain.Service]{
	Search: func(s domain.Service) []domain.LocalizedText {
		return []domain.LocalizedText{s.Name, s.Description}
	},
	Fields: map[string]func(domain.Service) string{
		"service_type": func(s domain.Service) string { return s.ServiceType },
		"reader_id":    func(s domain.Service) string { return s.ReaderID },
	},
	Sort: map[string]func(a, b domain.Service) bool{
		"price": func(a, b domain.Service) bool { return a.Price < b.Price },
		"name":  func(a, b domain.Service) bool { return a.Name.EN < b.Name.EN },
	},
}

func sampleServices() []domain.Service {
	return []domain.Service{
		{ID: "1", Name: domain.LocalizedText{EN: "Tarot Reading", AR: "قراءة التاروت"}, ServiceType: "tarot", ReaderID: "r1", Price: 50},
		{ID: "2", Name: domain.LocalizedText{EN: "Coffee Cup Reading", AR: "قراءة الفنجان"}, ServiceType: "coffee_cup", ReaderID: "r2", Price: 30},
		{ID: "3", Name: domain.LocalizedText{EN: "Celtic Cross Tarot", AR: ""}, ServiceType: "tarot", ReaderID: "r1", Price: 80},
		{ID: "4", Name: domain.LocalizedText{EN: "", AR: "علم الأرقام"}, ServiceType: "numerology", ReaderID: "r3", Price: 45},
	}
}

func ids(items []domain.Service) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestApplyFilter_SearchMatchesExactCount(t *testing.T) {
	items := sampleServices()

	got := domain.ApplyFilter(items, domain.FilterState{Search: "tarot"}, serviceSpec)

	if len(got) != 2 {
		t.Fatalf("expected exactly 2 matches, got %d", len(got))
	}
	want := []string{"1", "3"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Errorf("position %d: expected id %s, got %s (input order must be preserved)", i, want[i], id)
		}
	}
}

func TestApplyFilter_SearchIsCaseInsensitive(t *testing.T) {
	items := sampleServices()

	upper := domain.ApplyFilter(items, domain.FilterState{Search: "TAROT"}, serviceSpec)
	lower := domain.ApplyFilter(items, domain.FilterState{Search: "tarot"}, serviceSpec)

	if len(upper) != len(lower) {
		t.Errorf("case must not affect matching: %d vs %d", len(upper), len(lower))
	}
}

func TestApplyFilter_SearchScansArabicVariant(t *testing.T) {
	items := sampleServices()

	got := domain.ApplyFilter(items, domain.FilterState{Search: "الفنجان"}, serviceSpec)

	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected the coffee cup service, got %v", ids(got))
	}
}

func TestApplyFilter_ExactFiltersCompose(t *testing.T) {
	items := sampleServices()

	f := domain.FilterState{Search: "reading"}
	f.WithExact("service_type", "tarot")
	f.WithExact("reader_id", "r1")

	got := domain.ApplyFilter(items, f, serviceSpec)

	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only service 1 to satisfy all criteria, got %v", ids(got))
	}
}

func TestApplyFilter_EmptyExactValueIgnored(t *testing.T) {
	items := sampleServices()

	f := domain.FilterState{}
	f.WithExact("service_type", "")

	got := domain.ApplyFilter(items, f, serviceSpec)
	if len(got) != len(items) {
		t.Errorf("empty filter value must not exclude anything: got %d of %d", len(got), len(items))
	}
}

func TestApplyFilter_SortAscAndDesc(t *testing.T) {
	items := sampleServices()

	asc := domain.ApplyFilter(items, domain.FilterState{SortKey: "price", SortDir: domain.SortAsc}, serviceSpec)
	wantAsc := []string{"2", "4", "1", "3"}
	for i, id := range ids(asc) {
		if id != wantAsc[i] {
			t.Errorf("asc position %d: expected %s, got %s", i, wantAsc[i], id)
		}
	}

	desc := domain.ApplyFilter(items, domain.FilterState{SortKey: "price", SortDir: domain.SortDesc}, serviceSpec)
	wantDesc := []string{"3", "1", "4", "2"}
	for i, id := range ids(desc) {
		if id != wantDesc[i] {
			t.Errorf("desc position %d: expected %s, got %s", i, wantDesc[i], id)
		}
	}
}

func TestApplyFilter_SortIsStable(t *testing.T) {
	items := []domain.Service{
		{ID: "a", Price: 50, Name: domain.LocalizedText{EN: "A"}},
		{ID: "b", Price: 50, Name: domain.LocalizedText{EN: "B"}},
		{ID: "c", Price: 30, Name: domain.LocalizedText{EN: "C"}},
	}

	got := domain.ApplyFilter(items, domain.FilterState{SortKey: "price"}, serviceSpec)

	want := []string{"c", "a", "b"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Errorf("position %d: expected %s, got %s (equal keys must keep input order)", i, want[i], id)
		}
	}
}

func TestApplyFilter_UnknownSortKeyKeepsOrder(t *testing.T) {
	items := sampleServices()

	got := domain.ApplyFilter(items, domain.FilterState{SortKey: "bogus"}, serviceSpec)

	for i, id := range ids(got) {
		if id != items[i].ID {
			t.Errorf("position %d changed: expected %s, got %s", i, items[i].ID, id)
		}
	}
}

func TestApplyFilter_ZeroFilterReturnsAll(t *testing.T) {
	items := sampleServices()

	got := domain.ApplyFilter(items, domain.FilterState{}, serviceSpec)

	if len(got) != len(items) {
		t.Fatalf("expected all %d items, got %d", len(items), len(got))
	}
}
