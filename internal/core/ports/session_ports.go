package ports

import (
	"context"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

type CreateQuestionInput struct {
	Question       string   `json:"question" validate:"required"`
	Options        []string `json:"options" validate:"min=2,unique,dive,required"`
	CorrectAnswers []bool   `json:"correctAnswers"`
	TimeLimit      *int     `json:"timeLimit,omitempty"`
}

// SessionService is the single entry point for participant and moderator
// intents. Every mutating call is serialised.
type SessionService interface {
	Join(ctx context.Context, name string) (domain.Participant, error)
	Leave(ctx context.Context, name string) error
	RemoveParticipant(ctx context.Context, name string) error
	Participants() []string

	CreateQuestion(ctx context.Context, input CreateQuestionInput) (domain.QuestionView, error)
	SubmitAnswer(ctx context.Context, participant, option string) (domain.Answer, error)
	AbortRound(ctx context.Context) error

	CurrentQuestion() (domain.QuestionView, bool)
	Results() domain.Results
	History() []domain.HistoryEntry
}
