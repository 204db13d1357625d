package explore_test

import (
	"net/url"
	"testing"

	"edumatch/platform-service/internal/explore"
)

// ── ParseQuery — valid values ──────────────────────────────────────────────

func TestParseQuery_ValidCombinations(t *testing.T) {
	tabs := []string{"programmes", "scholarships", "research"}
	sorts := []string{"most-popular", "newest", "match-score", "deadline"}
	for _, tab := range tabs {
		for _, sort := range sorts {
			q := url.Values{"tab": {tab}, "sort": {sort}, "page": {"3"}}
			s := explore.ParseQuery(q)
			if string(s.Tab) != tab {
				t.Errorf("tab=%q sort=%q: got tab %q", tab, sort, s.Tab)
			}
			if string(s.Sort) != sort {
				t.Errorf("tab=%q sort=%q: got sort %q", tab, sort, s.Sort)
			}
			if s.Page != 3 {
				t.Errorf("tab=%q sort=%q: got page %d, want 3", tab, sort, s.Page)
			}
		}
	}
}

// ── ParseQuery — invalid values fall back to defaults ──────────────────────

func TestParseQuery_InvalidFallsBackToDefaults(t *testing.T) {
	cases := []url.Values{
		{},
		{"tab": {"jobs"}, "sort": {"cheapest"}, "page": {"abc"}},
		{"tab": {"PROGRAMMES"}},
		{"sort": {""}},
		{"page": {"0"}},
		{"page": {"-4"}},
		{"page": {"2.5"}},
	}
	for _, q := range cases {
		s := explore.ParseQuery(q)
		if s.Tab != explore.TabProgrammes {
			t.Errorf("ParseQuery(%v) tab = %q, want programmes", q, s.Tab)
		}
		if s.Sort != explore.SortMostPopular {
			t.Errorf("ParseQuery(%v) sort = %q, want most-popular", q, s.Sort)
		}
		if s.Page != 1 {
			t.Errorf("ParseQuery(%v) page = %d, want 1", q, s.Page)
		}
	}
}

// ── ParseQuery — per-tab filter keys and range folding ─────────────────────

func TestParseQuery_TabPrefixedFilters(t *testing.T) {
	q := url.Values{
		"tab":                   {"scholarships"},
		"programmes_country":    {"Italy", "France"},
		"scholarships_country":  {"Germany"},
		"scholarships_feeMin":   {"1000"},
		"scholarships_feeMax":   {"5000"},
		"research_salaryMin":    {"30000"},
		"unprefixed_discipline": {"AI"},
	}
	s := explore.ParseQuery(q)

	prog := s.Filters[explore.TabProgrammes]
	if got := prog["country"]; len(got) != 2 || got[0] != "Italy" || got[1] != "France" {
		t.Errorf("programmes country filter = %v, want [Italy France]", got)
	}

	sch := s.Filters[explore.TabScholarships]
	if got := sch["country"]; len(got) != 1 || got[0] != "Germany" {
		t.Errorf("scholarships country filter = %v, want [Germany]", got)
	}
	if got := sch["feeRange"]; len(got) != 1 || got[0] != "1000-5000" {
		t.Errorf("scholarships feeRange = %v, want [1000-5000]", got)
	}

	res := s.Filters[explore.TabResearch]
	if got := res["salaryRange"]; len(got) != 1 || got[0] != "30000-" {
		t.Errorf("research salaryRange = %v, want [30000-]", got)
	}
}

func TestParseQuery_AbsentMeansNoFilter(t *testing.T) {
	s := explore.ParseQuery(url.Values{"tab": {"programmes"}})
	if len(s.Filters) != 0 {
		t.Errorf("filters = %v, want empty map", s.Filters)
	}
	if fs := s.ActiveFilters(); len(fs) != 0 {
		t.Errorf("ActiveFilters = %v, want empty set", fs)
	}
}

// ── EncodeQuery — canonical form ───────────────────────────────────────────

func TestEncodeQuery_OmitsDefaults(t *testing.T) {
	s := explore.DefaultState()
	got := s.EncodeQuery()
	if got != "tab=programmes" {
		t.Errorf("EncodeQuery() = %q, want %q", got, "tab=programmes")
	}
}

func TestEncodeQuery_NonDefaultsPresent(t *testing.T) {
	s := explore.DefaultState().
		WithTab(explore.TabResearch).
		WithSort(explore.SortDeadline).
		WithPage(4)
	parsed, err := url.ParseQuery(s.EncodeQuery())
	if err != nil {
		t.Fatalf("EncodeQuery produced unparsable output: %v", err)
	}
	if parsed.Get("tab") != "research" {
		t.Errorf("tab = %q, want research", parsed.Get("tab"))
	}
	if parsed.Get("sort") != "deadline" {
		t.Errorf("sort = %q, want deadline", parsed.Get("sort"))
	}
	if parsed.Get("page") != "4" {
		t.Errorf("page = %q, want 4", parsed.Get("page"))
	}
}

func TestEncodeQuery_RangeSplitsBack(t *testing.T) {
	s := explore.DefaultState().WithFilters(explore.FilterSet{
		"feeRange": {"500-2000"},
	})
	parsed, _ := url.ParseQuery(s.EncodeQuery())
	if parsed.Get("programmes_feeMin") != "500" {
		t.Errorf("feeMin = %q, want 500", parsed.Get("programmes_feeMin"))
	}
	if parsed.Get("programmes_feeMax") != "2000" {
		t.Errorf("feeMax = %q, want 2000", parsed.Get("programmes_feeMax"))
	}
}

// ── Round-trip and reflection idempotence ──────────────────────────────────

func TestQueryRoundTrip(t *testing.T) {
	s := explore.DefaultState().
		WithTab(explore.TabScholarships).
		WithFilters(explore.FilterSet{
			"country":     {"Italy", "Spain"},
			"degreeLevel": {"Master"},
			"feeRange":    {"0-10000"},
		}).
		WithSort(explore.SortNewest).
		WithPage(2)

	encoded := s.EncodeQuery()
	parsed, err := url.ParseQuery(encoded)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", encoded, err)
	}
	back := explore.ParseQuery(parsed)

	if back.EncodeQuery() != encoded {
		t.Errorf("round-trip mismatch:\n  first  %q\n  second %q", encoded, back.EncodeQuery())
	}
}

func TestNeedsReflect_Idempotent(t *testing.T) {
	s := explore.DefaultState().WithSort(explore.SortMatchScore).WithPage(2)
	encoded := s.EncodeQuery()
	if s.NeedsReflect(encoded) {
		t.Error("NeedsReflect(own encoding) should be false")
	}
	if !s.NeedsReflect("") {
		t.Error("NeedsReflect(\"\") should be true for non-default state")
	}
}

// ── Mutators ───────────────────────────────────────────────────────────────

func TestWithTab_ResetsPagePreservesFilters(t *testing.T) {
	s := explore.DefaultState().
		WithFilters(explore.FilterSet{"country": {"Italy"}}).
		WithPage(5)

	s = s.WithTab(explore.TabResearch)
	if s.Page != 1 {
		t.Errorf("page after tab switch = %d, want 1", s.Page)
	}
	if got := s.Filters[explore.TabProgrammes]["country"]; len(got) != 1 || got[0] != "Italy" {
		t.Errorf("programmes filters after tab switch = %v, want preserved [Italy]", got)
	}
}

func TestWithFilters_ReplacesWholesaleAndResetsPage(t *testing.T) {
	s := explore.DefaultState().
		WithFilters(explore.FilterSet{"country": {"Italy"}, "duration": {"2 years"}}).
		WithPage(3)

	s = s.WithFilters(explore.FilterSet{"discipline": {"Physics"}})
	if s.Page != 1 {
		t.Errorf("page after filter change = %d, want 1", s.Page)
	}
	fs := s.ActiveFilters()
	if _, ok := fs["country"]; ok {
		t.Error("country filter should be gone after wholesale replacement")
	}
	if got := fs["discipline"]; len(got) != 1 || got[0] != "Physics" {
		t.Errorf("discipline filter = %v, want [Physics]", got)
	}
}

func TestWithFilters_EmptySelectionsDropped(t *testing.T) {
	s := explore.DefaultState().WithFilters(explore.FilterSet{
		"country":    {},
		"discipline": {""},
	})
	if len(s.ActiveFilters()) != 0 {
		t.Errorf("ActiveFilters = %v, want empty (absent key, not empty selection)", s.ActiveFilters())
	}
}
