package application_test

import (
	"testing"

	"edumatch/platform-service/internal/application"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{
		"DRAFT", "SUBMITTED", "UNDER_REVIEW", "WAITLISTED",
		"ACCEPTED", "REJECTED", "WITHDRAWN",
	}
	for _, s := range valid {
		got, err := application.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"UNKNOWN", "", "draft", " SUBMITTED", "SUBMITTED "} {
		if _, err := application.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed — valid (forward) transitions ──────────────────────

func TestIsTransitionAllowed_ValidForward(t *testing.T) {
	cases := []struct {
		from application.Status
		to   application.Status
	}{
		{application.StatusDraft, application.StatusSubmitted},
		{application.StatusSubmitted, application.StatusUnderReview},
		{application.StatusUnderReview, application.StatusAccepted},
		{application.StatusUnderReview, application.StatusRejected},
		{application.StatusUnderReview, application.StatusWaitlisted},
		{application.StatusWaitlisted, application.StatusAccepted},
		{application.StatusWaitlisted, application.StatusRejected},
	}
	for _, c := range cases {
		if !application.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s, %s) should be true", c.from, c.to)
		}
	}
}

// ── Withdrawal is allowed from every non-terminal state ────────────────────

func TestIsTransitionAllowed_ToWithdrawn(t *testing.T) {
	nonTerminals := []application.Status{
		application.StatusDraft,
		application.StatusSubmitted,
		application.StatusUnderReview,
		application.StatusWaitlisted,
	}
	for _, from := range nonTerminals {
		if !application.IsTransitionAllowed(from, application.StatusWithdrawn) {
			t.Errorf("IsTransitionAllowed(%s, WITHDRAWN) should be true", from)
		}
	}
}

// ── Terminal states have no outgoing transitions ───────────────────────────

func TestIsTransitionAllowed_FromTerminal(t *testing.T) {
	terminals := []application.Status{
		application.StatusAccepted,
		application.StatusRejected,
		application.StatusWithdrawn,
	}
	targets := []application.Status{
		application.StatusDraft, application.StatusSubmitted,
		application.StatusUnderReview, application.StatusWaitlisted,
		application.StatusAccepted, application.StatusRejected,
		application.StatusWithdrawn,
	}
	for _, from := range terminals {
		for _, to := range targets {
			if application.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s, %s) should be false (terminal state)", from, to)
			}
		}
	}
}

// ── Skip-level and backwards transitions are forbidden ─────────────────────

func TestIsTransitionAllowed_SkipLevel(t *testing.T) {
	cases := []struct {
		from application.Status
		to   application.Status
	}{
		{application.StatusDraft, application.StatusUnderReview}, // skip SUBMITTED
		{application.StatusDraft, application.StatusAccepted},    // skip two
		{application.StatusSubmitted, application.StatusAccepted},
		{application.StatusSubmitted, application.StatusWaitlisted},
	}
	for _, c := range cases {
		if application.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s, %s) should be false (skip-level)", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Backwards(t *testing.T) {
	cases := []struct {
		from application.Status
		to   application.Status
	}{
		{application.StatusSubmitted, application.StatusDraft},
		{application.StatusUnderReview, application.StatusSubmitted},
		{application.StatusWaitlisted, application.StatusUnderReview},
	}
	for _, c := range cases {
		if application.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s, %s) should be false (backwards)", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Self(t *testing.T) {
	all := []application.Status{
		application.StatusDraft, application.StatusSubmitted,
		application.StatusUnderReview, application.StatusWaitlisted,
		application.StatusAccepted, application.StatusRejected,
		application.StatusWithdrawn,
	}
	for _, s := range all {
		if application.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s, %s) should be false (self)", s, s)
		}
	}
}

// ── IsTerminal / Notifies ──────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	want := map[application.Status]bool{
		application.StatusDraft:       false,
		application.StatusSubmitted:   false,
		application.StatusUnderReview: false,
		application.StatusWaitlisted:  false,
		application.StatusAccepted:    true,
		application.StatusRejected:    true,
		application.StatusWithdrawn:   true,
	}
	for s, terminal := range want {
		if application.IsTerminal(s) != terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, !terminal, terminal)
		}
	}
}

// Applicants are emailed about institution decisions, not their own moves.
func TestNotifies(t *testing.T) {
	notifying := map[application.Status]bool{
		application.StatusDraft:       false,
		application.StatusSubmitted:   false,
		application.StatusUnderReview: true,
		application.StatusWaitlisted:  true,
		application.StatusAccepted:    true,
		application.StatusRejected:    true,
		application.StatusWithdrawn:   false,
	}
	for s, want := range notifying {
		if application.Notifies(s) != want {
			t.Errorf("Notifies(%s) = %v, want %v", s, !want, want)
		}
	}
}
