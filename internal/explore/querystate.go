// Package explore implements the public listing surface: the query-state
// codec that keeps filter/sort/page state consistent with a URL query string,
// and the transformer that turns persisted post rows into display-ready cards.
package explore

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Tab identifies one of the three explore listing tabs.
type Tab string

const (
	TabProgrammes   Tab = "programmes"
	TabScholarships Tab = "scholarships"
	TabResearch     Tab = "research"
)

// Sort identifies a listing sort order. The first four values are accepted in
// URLs; the price sorts are only reachable through the API's sort parameter
// on detail-adjacent listings.
type Sort string

const (
	SortMostPopular Sort = "most-popular"
	SortNewest      Sort = "newest"
	SortMatchScore  Sort = "match-score"
	SortDeadline    Sort = "deadline"
	SortPriceLow    Sort = "price-low"
	SortPriceHigh   Sort = "price-high"
)

const (
	defaultTab  = TabProgrammes
	defaultSort = SortMostPopular
	defaultPage = 1
)

// ParseTab validates a raw tab value, returning an error for unknown values.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	switch t {
	case TabProgrammes, TabScholarships, TabResearch:
		return t, nil
	}
	return "", fmt.Errorf("unknown explore tab %q", s)
}

// ParseSort validates a raw sort value against the URL allow-list.
func ParseSort(s string) (Sort, error) {
	so := Sort(s)
	switch so {
	case SortMostPopular, SortNewest, SortMatchScore, SortDeadline:
		return so, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// FilterSet maps a filter key to its ordered list of selected values.
// An absent key means "no filter applied", never "empty selection".
type FilterSet map[string][]string

// filterKeys lists the plain (non-range) filter dimensions per tab, in the
// order they are written to the URL.
var filterKeys = map[Tab][]string{
	TabProgrammes:   {"discipline", "country", "duration", "degreeLevel", "attendance"},
	TabScholarships: {"discipline", "country", "degreeLevel", "essayRequired"},
	TabResearch:     {"researchField", "country", "contractType", "jobType"},
}

// rangeKey names the single range dimension per tab. Range filters are held
// as one "min-max" string and split into <tab>_feeMin/<tab>_feeMax (or
// salaryMin/salaryMax) on the wire.
var rangeKey = map[Tab]struct{ key, minParam, maxParam string }{
	TabProgrammes:   {"feeRange", "feeMin", "feeMax"},
	TabScholarships: {"feeRange", "feeMin", "feeMax"},
	TabResearch:     {"salaryRange", "salaryMin", "salaryMax"},
}

// State is the complete explore query state. Filters are held per tab so a
// tab switch preserves the other tabs' selections.
type State struct {
	Tab     Tab
	Sort    Sort
	Page    int
	Filters map[Tab]FilterSet
}

// DefaultState returns the state used when the URL carries no query at all.
func DefaultState() State {
	return State{
		Tab:     defaultTab,
		Sort:    defaultSort,
		Page:    defaultPage,
		Filters: map[Tab]FilterSet{},
	}
}

// ParseQuery initializes a State from URL query parameters in a single pass.
// Invalid or missing tab/sort values fall back to the defaults; malformed
// page values are ignored (treated as absent).
func ParseQuery(q url.Values) State {
	s := DefaultState()

	if t, err := ParseTab(q.Get("tab")); err == nil {
		s.Tab = t
	}
	if so, err := ParseSort(q.Get("sort")); err == nil {
		s.Sort = so
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p >= 1 {
		s.Page = p
	}

	for tab, keys := range filterKeys {
		fs := FilterSet{}
		for _, key := range keys {
			vals := nonEmpty(q[string(tab)+"_"+key])
			if len(vals) > 0 {
				fs[key] = vals
			}
		}
		rk := rangeKey[tab]
		min := q.Get(string(tab) + "_" + rk.minParam)
		max := q.Get(string(tab) + "_" + rk.maxParam)
		if min != "" || max != "" {
			fs[rk.key] = []string{min + "-" + max}
		}
		if len(fs) > 0 {
			s.Filters[tab] = fs
		}
	}

	return s
}

// EncodeQuery renders the canonical query string for the state. Default sort
// and page values are elided so URLs stay canonical; url.Values.Encode keeps
// the output deterministic.
func (s State) EncodeQuery() string {
	q := url.Values{}
	q.Set("tab", string(s.Tab))
	if s.Sort != defaultSort {
		q.Set("sort", string(s.Sort))
	}
	if s.Page != defaultPage {
		q.Set("page", strconv.Itoa(s.Page))
	}

	for tab, fs := range s.Filters {
		for _, key := range filterKeys[tab] {
			for _, v := range fs[key] {
				q.Add(string(tab)+"_"+key, v)
			}
		}
		rk := rangeKey[tab]
		if vals := fs[rk.key]; len(vals) > 0 {
			min, max := splitRange(vals[0])
			if min != "" {
				q.Set(string(tab)+"_"+rk.minParam, min)
			}
			if max != "" {
				q.Set(string(tab)+"_"+rk.maxParam, max)
			}
		}
	}

	return q.Encode()
}

// NeedsReflect reports whether the URL must be rewritten to match the state.
// The string-equality guard prevents redundant history writes.
func (s State) NeedsReflect(currentRawQuery string) bool {
	return s.EncodeQuery() != currentRawQuery
}

// ActiveFilters returns the filter set for the active tab (never nil).
func (s State) ActiveFilters() FilterSet {
	if fs, ok := s.Filters[s.Tab]; ok {
		return fs
	}
	return FilterSet{}
}

// WithTab switches the active tab. The page resets to 1; every tab's filters
// stay in memory untouched.
func (s State) WithTab(t Tab) State {
	s.Tab = t
	s.Page = defaultPage
	return s
}

// WithSort changes the sort order without touching page or filters.
func (s State) WithSort(so Sort) State {
	s.Sort = so
	return s
}

// WithPage moves to the given 1-indexed page.
func (s State) WithPage(p int) State {
	if p >= 1 {
		s.Page = p
	}
	return s
}

// WithFilters replaces the active tab's filter set wholesale (collaborators
// send a complete mapping, not a delta) and resets the page to 1. Keys with
// no values are dropped so "absent" stays distinct from "empty selection".
func (s State) WithFilters(replacement FilterSet) State {
	filters := make(map[Tab]FilterSet, len(s.Filters))
	for t, fs := range s.Filters {
		filters[t] = fs
	}

	cleaned := FilterSet{}
	for key, vals := range replacement {
		if vals := nonEmpty(vals); len(vals) > 0 {
			cleaned[key] = vals
		}
	}
	if len(cleaned) > 0 {
		filters[s.Tab] = cleaned
	} else {
		delete(filters, s.Tab)
	}

	s.Filters = filters
	s.Page = defaultPage
	return s
}

// splitRange splits a "min-max" range value. Values without a separator are
// treated as a bare minimum.
func splitRange(v string) (min, max string) {
	if i := strings.IndexByte(v, '-'); i >= 0 {
		return v[:i], v[i+1:]
	}
	return v, ""
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
