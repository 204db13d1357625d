// Package application implements the applicant-side lifecycle of a post
// application.
//
// Valid status graph:
//
//	DRAFT ──► SUBMITTED ──► UNDER_REVIEW ──► ACCEPTED
//	  │           │               │     └──► REJECTED
//	  │           │               └────────► WAITLISTED ──► ACCEPTED | REJECTED
//	  └───────────┴──► WITHDRAWN (also from UNDER_REVIEW and WAITLISTED)
//
// ACCEPTED, REJECTED and WITHDRAWN are terminal states.
package application

import "fmt"

// Status values mirror the application_status enum in PostgreSQL.
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusSubmitted   Status = "SUBMITTED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusWaitlisted  Status = "WAITLISTED"
	StatusAccepted    Status = "ACCEPTED"
	StatusRejected    Status = "REJECTED"
	StatusWithdrawn   Status = "WITHDRAWN"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusDraft:       {StatusSubmitted, StatusWithdrawn},
	StatusSubmitted:   {StatusUnderReview, StatusWithdrawn},
	StatusUnderReview: {StatusAccepted, StatusRejected, StatusWaitlisted, StatusWithdrawn},
	StatusWaitlisted:  {StatusAccepted, StatusRejected, StatusWithdrawn},
	// ACCEPTED, REJECTED and WITHDRAWN are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusWaitlisted,
		StatusAccepted, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}

// Notifies returns true for status changes the applicant is emailed about.
// Draft edits and the applicant's own withdrawal stay silent.
func Notifies(to Status) bool {
	switch to {
	case StatusUnderReview, StatusWaitlisted, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
