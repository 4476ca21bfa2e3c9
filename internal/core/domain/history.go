package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is the persisted snapshot of one round. It is rewritten in
// place while the round is open and frozen once Status leaves RoundOpen.
type HistoryEntry struct {
	ID             uuid.UUID         `json:"id"`
	Question       string            `json:"question"`
	Options        []string          `json:"options"`
	CorrectAnswers []bool            `json:"correctAnswers"`
	TimeLimit      int               `json:"timeLimit"`
	Results        map[string]int    `json:"results"`
	Answers        map[string]Answer `json:"answers"`
	Status         RoundStatus       `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	ClosedAt       *time.Time        `json:"closedAt,omitempty"`
}

func (e HistoryEntry) Frozen() bool {
	return e.Status != RoundOpen
}

// Snapshot captures round as a history entry.
func Snapshot(round *Round) HistoryEntry {
	entry := HistoryEntry{
		ID:             round.ID,
		Question:       round.Question.Text,
		Options:        round.Question.Options,
		CorrectAnswers: round.Question.CorrectAnswers,
		TimeLimit:      round.Question.TimeLimit,
		Results:        Tally(round, 0).Results,
		Answers:        round.Answers(),
		Status:         round.Status,
		CreatedAt:      round.CreatedAt,
	}
	if round.ClosedAt != nil {
		closedAt := *round.ClosedAt
		entry.ClosedAt = &closedAt
	}
	return entry
}

// Clone returns a deep copy so stored entries cannot be mutated by callers.
func (e HistoryEntry) Clone() HistoryEntry {
	e.Options = slices.Clone(e.Options)
	e.CorrectAnswers = slices.Clone(e.CorrectAnswers)
	e.Results = maps.Clone(e.Results)
	e.Answers = maps.Clone(e.Answers)
	if e.ClosedAt != nil {
		closedAt := *e.ClosedAt
		e.ClosedAt = &closedAt
	}
	return e
}
