package domain

import (
	"math"
	"slices"
	"time"
)

const (
	// DefaultTimeLimit applies when the moderator does not give one.
	DefaultTimeLimit = 60
	// MaxTimeLimit is the largest limit, in seconds, a time.Duration can hold.
	MaxTimeLimit int64 = math.MaxInt64 / int64(time.Second)
)

// Question is immutable once published; a new question supersedes it.
type Question struct {
	Text           string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswers []bool   `json:"correctAnswers"`
	TimeLimit      int      `json:"timeLimit"`
}

// OptionIndex returns the position of text among the options, or -1.
func (q Question) OptionIndex(text string) int {
	return slices.Index(q.Options, text)
}

func (q Question) Duration() time.Duration {
	return time.Duration(q.TimeLimit) * time.Second
}

// QuestionView is what participants receive when a round opens.
type QuestionView struct {
	Question
	RoundID  string    `json:"roundId"`
	Deadline time.Time `json:"deadline"`
}
