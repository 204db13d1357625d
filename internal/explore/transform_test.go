package explore_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumatch/platform-service/internal/explore"
	"edumatch/platform-service/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
}

func testTransformer() explore.Transformer {
	return explore.Transformer{
		Now:  fixedNow,
		Rand: rand.New(rand.NewSource(1)),
	}
}

// ── DisplayField heuristic ─────────────────────────────────────────────────

func TestDisplayField(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"MSc in Machine Learning and Robotics", "Machine Learning"},
		{"bachelor of civil engineering", "Civil Engineering"},
		{"PhD — Computer Science", "Computer Science"},
		{"Master of Fine Woodworking", "Master of Fine Woodworking"},
		{"", "General Studies"},
		{"   ", "General Studies"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, explore.DisplayField(c.raw), "raw=%q", c.raw)
	}
}

// A subdiscipline match must win over its parent discipline.
func TestDisplayField_SubdisciplinePreferred(t *testing.T) {
	got := explore.DisplayField("Computer Science: Cybersecurity track")
	assert.Equal(t, "Cybersecurity", got)
}

// ── BuildCards derived fields ──────────────────────────────────────────────

func TestBuildCards_DerivedFields(t *testing.T) {
	deadline := time.Date(2026, 9, 4, 23, 0, 0, 0, time.UTC)
	past := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rows := []model.PostRow{
		{ID: "p1", PostType: "programme", DegreeLevel: "MSc Data Science", Deadline: &deadline},
		{ID: "p2", PostType: "programme", DegreeLevel: "", Deadline: &past},
		{ID: "p3", PostType: "programme"},
	}
	cards := testTransformer().BuildCards(rows)
	require.Len(t, cards, 3)

	assert.Equal(t, "Data Science", cards[0].Field)
	assert.Equal(t, 5, cards[0].DaysLeft)
	assert.Equal(t, "September 4, 2026", cards[0].Deadline)

	assert.Equal(t, "General Studies", cards[1].Field)
	assert.Equal(t, 0, cards[1].DaysLeft, "past deadline clamps to 0")

	assert.Empty(t, cards[2].Deadline, "open-ended post has no deadline string")
	assert.Zero(t, cards[2].DaysLeft)
}

func TestBuildCards_MatchPlaceholderRange(t *testing.T) {
	rows := make([]model.PostRow, 50)
	for _, c := range testTransformer().BuildCards(rows) {
		assert.GreaterOrEqual(t, c.Match, 70)
		assert.Less(t, c.Match, 100)
	}
}

func TestBuildCards_ResearchUsesResearchField(t *testing.T) {
	rows := []model.PostRow{{
		ID: "r1", PostType: "research", ResearchField: "Applied Physics Lab",
	}}
	cards := testTransformer().BuildCards(rows)
	assert.Equal(t, "Physics", cards[0].Field)
}

// ── Filtering ──────────────────────────────────────────────────────────────

func TestFilter_SingleDimension(t *testing.T) {
	items := []explore.Card{
		{ID: "A", Country: "Spain"},
		{ID: "B", Country: "Italy"},
		{ID: "C", Country: "France"},
	}
	got := explore.Filter(items, explore.FilterSet{"country": {"Italy"}})
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ID)
}

func TestFilter_AndAcrossDimensions(t *testing.T) {
	items := []explore.Card{
		{ID: "A", Field: "AI Research", Country: "USA"},
		{ID: "B", Field: "AI Research", Country: "UK"},
	}
	got := explore.Filter(items, explore.FilterSet{
		"discipline": {"AI"},
		"country":    {"USA"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
}

func TestFilter_OrWithinDimension(t *testing.T) {
	items := []explore.Card{
		{ID: "A", Country: "Italy"},
		{ID: "B", Country: "Spain"},
		{ID: "C", Country: "Japan"},
	}
	got := explore.Filter(items, explore.FilterSet{"country": {"Italy", "Spain"}})
	require.Len(t, got, 2)
}

func TestFilter_EmptySetRetainsAll(t *testing.T) {
	items := []explore.Card{{ID: "A"}, {ID: "B"}}
	assert.Len(t, explore.Filter(items, explore.FilterSet{}), 2)
}

func TestFilter_FeeRange(t *testing.T) {
	items := []explore.Card{
		{ID: "cheap", TuitionFee: "€900/year"},
		{ID: "mid", TuitionFee: "€5,000/year"},
		{ID: "steep", TuitionFee: "€25,000/year"},
	}
	got := explore.Filter(items, explore.FilterSet{"feeRange": {"1000-10000"}})
	require.Len(t, got, 1)
	assert.Equal(t, "mid", got[0].ID)

	// Open-ended max
	got = explore.Filter(items, explore.FilterSet{"feeRange": {"1000-"}})
	assert.Len(t, got, 2)
}

func TestFilter_EssayRequired(t *testing.T) {
	yes, no := true, false
	items := []explore.Card{
		{ID: "A", EssayRequired: &yes},
		{ID: "B", EssayRequired: &no},
		{ID: "C"},
	}
	got := explore.Filter(items, explore.FilterSet{"essayRequired": {"yes"}})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)

	got = explore.Filter(items, explore.FilterSet{"essayRequired": {"no"}})
	assert.Len(t, got, 2, "nil essay flag counts as not required")
}

// ── Sorting ────────────────────────────────────────────────────────────────

func TestSortCards_Deadline(t *testing.T) {
	cards := []explore.Card{
		{ID: "A", DaysLeft: 5},
		{ID: "B", DaysLeft: 0},
		{ID: "C", DaysLeft: 12},
	}
	explore.SortCards(cards, explore.SortDeadline)
	assert.Equal(t, []int{0, 5, 12}, []int{cards[0].DaysLeft, cards[1].DaysLeft, cards[2].DaysLeft})
}

func TestSortCards_MostPopular(t *testing.T) {
	cards := []explore.Card{
		{ID: "A", Applications: 3},
		{ID: "B", Applications: 41},
		{ID: "C", Applications: 7},
	}
	explore.SortCards(cards, explore.SortMostPopular)
	assert.Equal(t, "B", cards[0].ID)
	assert.Equal(t, "A", cards[2].ID)
}

func TestSortCards_Price(t *testing.T) {
	cards := []explore.Card{
		{ID: "A", TuitionFee: "$9,800"},
		{ID: "B", TuitionFee: "$1,200"},
		{ID: "C", TuitionFee: "$4,500.50"},
	}
	explore.SortCards(cards, explore.SortPriceLow)
	assert.Equal(t, "B", cards[0].ID)
	explore.SortCards(cards, explore.SortPriceHigh)
	assert.Equal(t, "A", cards[0].ID)
}

func TestSortCards_Newest(t *testing.T) {
	base := fixedNow()
	rows := []model.PostRow{
		{ID: "old", CreatedAt: base.AddDate(0, -2, 0)},
		{ID: "new", CreatedAt: base},
		{ID: "mid", CreatedAt: base.AddDate(0, -1, 0)},
	}
	cards := testTransformer().BuildCards(rows)
	explore.SortCards(cards, explore.SortNewest)
	assert.Equal(t, "new", cards[0].ID)
	assert.Equal(t, "old", cards[2].ID)
}

// ── ScrapeAmount ───────────────────────────────────────────────────────────

func TestScrapeAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"€12,500/year", 12500},
		{"$1,200", 1200},
		{"4500.50 USD", 4500.50},
		{"Free", 0},
		{"", 0},
		{"up to £30,000 per annum", 30000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, explore.ScrapeAmount(c.in), "in=%q", c.in)
	}
}

// ── Pagination ─────────────────────────────────────────────────────────────

func TestPaginate(t *testing.T) {
	cards := make([]explore.Card, 25)
	assert.Len(t, explore.Paginate(cards, 1, 12), 12)
	assert.Len(t, explore.Paginate(cards, 3, 12), 1)
	assert.Empty(t, explore.Paginate(cards, 4, 12), "out-of-range page is empty, not clamped")
	assert.Empty(t, explore.Paginate(cards, 0, 12))
}
