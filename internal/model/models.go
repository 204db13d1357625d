// Package model defines shared data structures for the platform service.
package model

import "time"

// Institution mirrors the institutions table.
type Institution struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Website   string    `json:"website,omitempty"`
	LogoURL   string    `json:"logoUrl,omitempty"`
	About     string    `json:"about,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostRow is the flattened row the explore store scans: one row per post,
// joined with its type-specific extension, the owning institution, and the
// aggregated application count. The transformer turns it into a Card.
type PostRow struct {
	ID              string
	PostType        string // programme | scholarship | research
	Title           string
	Description     string
	InstitutionID   string
	InstitutionName string
	Country         string
	City            string
	LogoURL         string
	Deadline        *time.Time
	CreatedAt       time.Time

	// Programme extension
	DegreeLevel string
	Duration    string
	Attendance  string // on-campus | online | hybrid
	TuitionFee  string // formatted currency, e.g. "€12,500/year"

	// Scholarship extension
	Amount        string
	EssayRequired *bool

	// Research-lab extension
	ResearchField string
	ContractType  string
	JobType       string
	Salary        string

	// Aggregate
	ApplicationCount int
}

// WishlistEntry mirrors the wishlists table joined with the post deadline,
// as loaded by the deadline sweep.
type WishlistEntry struct {
	UserID    string
	UserEmail string
	PostID    string
	PostTitle string
	Deadline  time.Time
}

// SupportRequest is the body of POST /api/support.
type SupportRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
