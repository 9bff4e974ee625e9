// Package match pairs lost reports with found reports and scores each pairing.
package match

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a candidate match.
type Status string

const (
	// StatusPending is a suggested match nobody acted on.
	StatusPending Status = "pending"
	// StatusAccepted is a match both sides agreed on.
	StatusAccepted Status = "accepted"
	// StatusRejected is a dismissed match.
	StatusRejected Status = "rejected"
	// StatusCompleted is a match whose item changed hands.
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusCompleted, StatusRejected},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a match may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const autoPrefix = "auto-"

// Candidate is a scored pairing between a lost and a found report.
// Computed candidates are ephemeral until someone changes their status.
type Candidate struct {
	ID              string
	LostItemID      string
	FoundItemID     string
	MatchPercentage int
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AutoID is the identifier of a computed, not yet stored, candidate.
func AutoID(lostID, foundID string) string {
	return autoPrefix + lostID + "-" + foundID
}

// IsAutoID reports whether id names a computed candidate.
func IsAutoID(id string) bool {
	return strings.HasPrefix(id, autoPrefix)
}
