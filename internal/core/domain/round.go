package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

type RoundStatus string

const (
	RoundOpen    RoundStatus = "open"
	RoundClosed  RoundStatus = "closed"
	RoundAborted RoundStatus = "aborted"
)

// Answer is write-once per participant and round.
type Answer struct {
	Answer      string    `json:"answer"`
	Index       int       `json:"index"`
	IsCorrect   bool      `json:"isCorrect"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Round binds one Question to its answer-collection lifecycle.
// It holds no lock: callers serialise access.
type Round struct {
	ID        uuid.UUID
	Question  Question
	Status    RoundStatus
	CreatedAt time.Time
	Deadline  time.Time
	ClosedAt  *time.Time
	answers   map[string]Answer
}

func NewRound(id uuid.UUID, q Question, at time.Time) *Round {
	q.Options = slices.Clone(q.Options)
	q.CorrectAnswers = slices.Clone(q.CorrectAnswers)
	return &Round{
		ID:        id,
		Question:  q,
		Status:    RoundOpen,
		CreatedAt: at,
		Deadline:  at.Add(q.Duration()),
		answers:   make(map[string]Answer),
	}
}

func (r *Round) IsOpen() bool {
	return r != nil && r.Status == RoundOpen
}

// RecordAnswer checks and inserts in one step; it never overwrites.
func (r *Round) RecordAnswer(participant, option string, at time.Time) (Answer, error) {
	if !r.IsOpen() {
		return Answer{}, ErrNoActiveRound
	}
	if _, ok := r.answers[participant]; ok {
		return Answer{}, ErrDuplicateAnswer
	}
	index := r.Question.OptionIndex(option)
	if index < 0 {
		return Answer{}, ErrInvalidOption
	}
	answer := Answer{
		Answer:      option,
		Index:       index,
		IsCorrect:   index < len(r.Question.CorrectAnswers) && r.Question.CorrectAnswers[index],
		SubmittedAt: at,
	}
	r.answers[participant] = answer
	return answer, nil
}

// Close moves an open round to status. It reports false when the round was
// already finished, leaving it untouched.
func (r *Round) Close(status RoundStatus, at time.Time) bool {
	if !r.IsOpen() || status == RoundOpen {
		return false
	}
	r.Status = status
	r.ClosedAt = &at
	return true
}

func (r *Round) AnswerCount() int {
	return len(r.answers)
}

func (r *Round) HasAnswered(participant string) bool {
	_, ok := r.answers[participant]
	return ok
}

// AnsweredByAll reports whether every one of participants has answered.
// An empty set never counts as complete.
func (r *Round) AnsweredByAll(participants []string) bool {
	if len(participants) == 0 {
		return false
	}
	for _, p := range participants {
		if !r.HasAnswered(p) {
			return false
		}
	}
	return true
}

// Answers returns a copy of the recorded answers.
func (r *Round) Answers() map[string]Answer {
	return maps.Clone(r.answers)
}

func (r *Round) View() QuestionView {
	return QuestionView{
		Question: r.Question,
		RoundID:  r.ID.String(),
		Deadline: r.Deadline,
	}
}
