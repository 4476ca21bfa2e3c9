package domain

import (
	"github.com/samber/lo"
)

// Results is the tally of a round as seen at one instant. Without a round only
// Question (null) and an empty Results map are set.
type Results struct {
	RoundID           *string        `json:"roundId,omitempty"`
	Question          *string        `json:"question"`
	Options           []string       `json:"options,omitempty"`
	Results           map[string]int `json:"results"`
	CorrectAnswers    []bool         `json:"correctAnswers,omitempty"`
	Answered          *int           `json:"answered,omitempty"`
	TotalParticipants *int           `json:"totalStudents,omitempty"`
	Status            RoundStatus    `json:"status,omitempty"`
}

// Tally derives the per-option counts of round. totalParticipants is the
// registry size at call time and is echoed, not used for counting.
func Tally(round *Round, totalParticipants int) Results {
	if round == nil {
		return Results{Results: map[string]int{}}
	}

	counts := lo.SliceToMap(round.Question.Options, func(opt string) (string, int) {
		return opt, 0
	})
	for _, a := range round.answers {
		if _, ok := counts[a.Answer]; ok {
			counts[a.Answer]++
		}
	}

	return Results{
		RoundID:           lo.ToPtr(round.ID.String()),
		Question:          lo.ToPtr(round.Question.Text),
		Options:           round.Question.Options,
		Results:           counts,
		CorrectAnswers:    round.Question.CorrectAnswers,
		Answered:          lo.ToPtr(len(round.answers)),
		TotalParticipants: lo.ToPtr(totalParticipants),
		Status:            round.Status,
	}
}

// Sum adds up the option counts.
func (r Results) Sum() int {
	return lo.Sum(lo.Values(r.Results))
}
