package kanban_test

import (
	"testing"

	"rezzai/jobsearch/internal/kanban"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"Pending", "Applied", "Skipped", "Rejected", "Interview", "Offer"}
	for _, s := range valid {
		got, err := kanban.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, s := range []string{"", "UNKNOWN", "pending", "APPLIED", " Applied", "Offer ", "Hired"} {
		if _, err := kanban.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_Valid(t *testing.T) {
	cases := []struct {
		from kanban.Status
		to   kanban.Status
	}{
		{kanban.StatusPending, kanban.StatusApplied},
		{kanban.StatusPending, kanban.StatusSkipped},
		{kanban.StatusSkipped, kanban.StatusPending},
		{kanban.StatusApplied, kanban.StatusInterview},
		{kanban.StatusApplied, kanban.StatusRejected},
		{kanban.StatusInterview, kanban.StatusOffer},
		{kanban.StatusInterview, kanban.StatusRejected},
		{kanban.StatusPending, kanban.StatusRejected}, // rejected before applying
		{kanban.StatusOffer, kanban.StatusRejected},   // offer withdrawn or declined
	}
	for _, c := range cases {
		if !kanban.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Forbidden(t *testing.T) {
	cases := []struct {
		from kanban.Status
		to   kanban.Status
	}{
		{kanban.StatusPending, kanban.StatusInterview}, // skip Applied
		{kanban.StatusPending, kanban.StatusOffer},
		{kanban.StatusOffer, kanban.StatusInterview},
		{kanban.StatusRejected, kanban.StatusPending},
		{kanban.StatusApplied, kanban.StatusOffer},    // skip Interview
		{kanban.StatusApplied, kanban.StatusPending},  // backwards
		{kanban.StatusInterview, kanban.StatusApplied},
		{kanban.StatusSkipped, kanban.StatusApplied}, // must return to Pending first
	}
	for _, c := range cases {
		if kanban.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Self(t *testing.T) {
	for _, s := range kanban.Statuses {
		if kanban.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (self)", s, s)
		}
	}
}

// ── Terminal states ────────────────────────────────────────────────────────

func TestTerminalStatesHaveNoOutgoing(t *testing.T) {
	for _, from := range []kanban.Status{kanban.StatusRejected} {
		if !kanban.IsTerminal(from) {
			t.Errorf("IsTerminal(%s) should be true", from)
		}
		for _, to := range kanban.Statuses {
			if kanban.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) must be false: %s is terminal", from, to, from)
			}
		}
	}
	for _, s := range []kanban.Status{kanban.StatusPending, kanban.StatusSkipped, kanban.StatusApplied, kanban.StatusInterview, kanban.StatusOffer} {
		if kanban.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should be false", s)
		}
	}
}

// Every status is reachable from Pending.
func TestEveryStatusReachable(t *testing.T) {
	seen := map[kanban.Status]bool{kanban.StatusPending: true}
	queue := []kanban.Status{kanban.StatusPending}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for _, to := range kanban.Statuses {
			if !seen[to] && kanban.IsTransitionAllowed(from, to) {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	for _, s := range kanban.Statuses {
		if !seen[s] {
			t.Errorf("%s is not reachable from Pending", s)
		}
	}
}

// Pending is the initial state; only a skipped job can return to it.
func TestPendingOnlyReachableFromSkipped(t *testing.T) {
	for _, from := range kanban.Statuses {
		want := from == kanban.StatusSkipped
		if got := kanban.IsTransitionAllowed(from, kanban.StatusPending); got != want {
			t.Errorf("IsTransitionAllowed(%s → Pending) = %v, want %v", from, got, want)
		}
	}
}
