package explore

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"edumatch/platform-service/internal/dates"
	"edumatch/platform-service/internal/model"
)

// Card is the display-ready projection of one post: the persisted row
// flattened together with its institution, application count, and the
// derived Field/DaysLeft/Match values computed at transform time.
type Card struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Institution   string `json:"institution"`
	InstitutionID string `json:"institutionId"`
	Country       string `json:"country"`
	City          string `json:"city,omitempty"`
	LogoURL       string `json:"logoUrl,omitempty"`
	Field         string `json:"field"`

	Deadline     string `json:"deadline,omitempty"` // display form, empty when open-ended
	DaysLeft     int    `json:"daysLeft"`
	Match        int    `json:"match"`
	Applications int    `json:"applications"`

	DegreeLevel string `json:"degreeLevel,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Attendance  string `json:"attendance,omitempty"`
	TuitionFee  string `json:"tuitionFee,omitempty"`

	Amount        string `json:"amount,omitempty"`
	EssayRequired *bool  `json:"essayRequired,omitempty"`

	ResearchField string `json:"researchField,omitempty"`
	ContractType  string `json:"contractType,omitempty"`
	JobType       string `json:"jobType,omitempty"`
	Salary        string `json:"salary,omitempty"`

	createdAt time.Time
}

// Transformer builds, filters, sorts and paginates cards. Now and Rand are
// injectable for tests; zero values fall back to the wall clock and the
// shared math/rand source.
type Transformer struct {
	Now  func() time.Time
	Rand *rand.Rand
}

// BuildCards converts persisted rows into cards, computing the derived
// fields. Rows are converted in input order.
func (t Transformer) BuildCards(rows []model.PostRow) []Card {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	cards := make([]Card, 0, len(rows))
	for _, r := range rows {
		c := Card{
			ID:            r.ID,
			Type:          r.PostType,
			Title:         r.Title,
			Institution:   r.InstitutionName,
			InstitutionID: r.InstitutionID,
			Country:       r.Country,
			City:          r.City,
			LogoURL:       r.LogoURL,
			Field:         DisplayField(r.DegreeLevel),
			Match:         t.matchScore(),
			Applications:  r.ApplicationCount,
			DegreeLevel:   r.DegreeLevel,
			Duration:      r.Duration,
			Attendance:    r.Attendance,
			TuitionFee:    r.TuitionFee,
			Amount:        r.Amount,
			EssayRequired: r.EssayRequired,
			ResearchField: r.ResearchField,
			ContractType:  r.ContractType,
			JobType:       r.JobType,
			Salary:        r.Salary,
			createdAt:     r.CreatedAt,
		}
		if r.PostType == string(TabResearch) {
			c.Field = DisplayField(r.ResearchField)
		}
		if r.Deadline != nil {
			c.DaysLeft = dates.CalculateDaysLeft(*r.Deadline, now())
			c.Deadline = r.Deadline.UTC().Format(dates.DisplayLayout)
		}
		cards = append(cards, c)
	}
	return cards
}

// matchScore is a placeholder percentage in [70,100). It is not a relevance
// score; a real matching algorithm is pending product definition.
func (t Transformer) matchScore() int {
	if t.Rand != nil {
		return 70 + t.Rand.Intn(30)
	}
	return 70 + rand.Intn(30)
}

// ── Filtering ──────────────────────────────────────────────────────────────

// Filter retains the cards that satisfy every non-empty filter dimension:
// AND across dimensions, any-of (OR) within one.
func Filter(cards []Card, fs FilterSet) []Card {
	if len(fs) == 0 {
		return cards
	}
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if matchesAll(c, fs) {
			out = append(out, c)
		}
	}
	return out
}

func matchesAll(c Card, fs FilterSet) bool {
	for key, vals := range fs {
		if len(vals) == 0 {
			continue
		}
		if !matchesDimension(c, key, vals) {
			return false
		}
	}
	return true
}

func matchesDimension(c Card, key string, vals []string) bool {
	switch key {
	case "discipline":
		return anySubstring(c.Field, vals)
	case "researchField":
		return anySubstring(c.ResearchField, vals)
	case "country":
		return anyEqualFold(c.Country, vals)
	case "duration":
		return anyEqualFold(c.Duration, vals)
	case "degreeLevel":
		return anySubstring(c.DegreeLevel, vals)
	case "attendance":
		return anyEqualFold(c.Attendance, vals)
	case "contractType":
		return anyEqualFold(c.ContractType, vals)
	case "jobType":
		return anyEqualFold(c.JobType, vals)
	case "essayRequired":
		want := c.EssayRequired != nil && *c.EssayRequired
		for _, v := range vals {
			if (strings.EqualFold(v, "yes") && want) || (strings.EqualFold(v, "no") && !want) {
				return true
			}
		}
		return false
	case "feeRange":
		return anyRange(priceOf(c), vals)
	case "salaryRange":
		return anyRange(ScrapeAmount(c.Salary), vals)
	}
	// Unknown dimension: nothing can satisfy it.
	return false
}

func anySubstring(field string, vals []string) bool {
	lower := strings.ToLower(field)
	for _, v := range vals {
		if v != "" && strings.Contains(lower, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

func anyEqualFold(field string, vals []string) bool {
	for _, v := range vals {
		if strings.EqualFold(field, v) {
			return true
		}
	}
	return false
}

// anyRange checks a numeric value against "min-max" encoded ranges. An empty
// side of the range is unbounded.
func anyRange(value float64, vals []string) bool {
	for _, v := range vals {
		minStr, maxStr := splitRange(v)
		min, errMin := strconv.ParseFloat(minStr, 64)
		max, errMax := strconv.ParseFloat(maxStr, 64)
		lowOK := errMin != nil || value >= min
		highOK := errMax != nil || value <= max
		if lowOK && highOK {
			return true
		}
	}
	return false
}

// ── Sorting ────────────────────────────────────────────────────────────────

// SortCards orders cards in place by the given sort key. Ties are unordered.
func SortCards(cards []Card, by Sort) {
	var less func(a, b Card) bool
	switch by {
	case SortNewest:
		less = func(a, b Card) bool { return a.createdAt.After(b.createdAt) }
	case SortMatchScore:
		less = func(a, b Card) bool { return a.Match > b.Match }
	case SortDeadline:
		less = func(a, b Card) bool { return a.DaysLeft < b.DaysLeft }
	case SortPriceLow:
		less = func(a, b Card) bool { return priceOf(a) < priceOf(b) }
	case SortPriceHigh:
		less = func(a, b Card) bool { return priceOf(a) > priceOf(b) }
	default: // SortMostPopular
		less = func(a, b Card) bool { return a.Applications > b.Applications }
	}
	sort.Slice(cards, func(i, j int) bool { return less(cards[i], cards[j]) })
}

// priceOf picks the card's monetary field by post type.
func priceOf(c Card) float64 {
	switch {
	case c.TuitionFee != "":
		return ScrapeAmount(c.TuitionFee)
	case c.Amount != "":
		return ScrapeAmount(c.Amount)
	default:
		return ScrapeAmount(c.Salary)
	}
}

// ScrapeAmount extracts the first numeric value from a formatted currency
// string, e.g. "€12,500/year" → 12500. Returns 0 when no digits are present.
func ScrapeAmount(s string) float64 {
	var b strings.Builder
	seen := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			seen = true
		case r == '.' && seen:
			b.WriteRune(r)
		case r == ',':
			// thousands separator, skip
		default:
			if seen {
				v, _ := strconv.ParseFloat(b.String(), 64)
				return v
			}
		}
	}
	if !seen {
		return 0
	}
	v, _ := strconv.ParseFloat(b.String(), 64)
	return v
}

// ── Pagination ─────────────────────────────────────────────────────────────

// Paginate returns the 1-indexed page of the given size. Out-of-range pages
// yield an empty slice; clamping is the caller's concern.
func Paginate(cards []Card, page, pageSize int) []Card {
	if page < 1 || pageSize < 1 {
		return []Card{}
	}
	start := (page - 1) * pageSize
	if start >= len(cards) {
		return []Card{}
	}
	end := start + pageSize
	if end > len(cards) {
		end = len(cards)
	}
	return cards[start:end]
}
