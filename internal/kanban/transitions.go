// Package kanban defines the state machine for tracked job applications.
//
// Valid status graph:
//
//	Pending   ──► Applied | Skipped | Rejected
//	Skipped   ──► Pending
//	Applied   ──► Interview | Rejected
//	Interview ──► Offer | Rejected
//	Offer     ──► Rejected
//
// Rejected is the only terminal state.
package kanban

import "fmt"

// Status is the column an application sits in.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApplied   Status = "Applied"
	StatusSkipped   Status = "Skipped"
	StatusRejected  Status = "Rejected"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
)

// Statuses lists every status in board order.
var Statuses = []Status{
	StatusPending, StatusApplied, StatusSkipped, StatusRejected, StatusInterview, StatusOffer,
}

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusApplied, StatusSkipped, StatusRejected},
	StatusSkipped:   {StatusPending},
	StatusApplied:   {StatusInterview, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     {StatusRejected},
	// Rejected is terminal
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values. Matching is exact.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
