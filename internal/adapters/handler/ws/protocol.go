package ws

import (
	"encoding/json"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

// Inbound event names sent by browser clients.
const (
	inStudentJoin    = "student-join"
	inSubmitAnswer   = "submit-answer"
	inGetQuestion    = "get-question"
	inGetResults     = "get-results"
	inCreateQuestion = "create-question"
	inChatMessage    = "chat-message"
)

// inbound is the envelope every client frame must follow.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// answerConfirmed is the directed reply to submit-answer. Rejections carry
// Message and never set IsCorrect.
type answerConfirmed struct {
	Answer    string `json:"answer,omitempty"`
	IsCorrect bool   `json:"isCorrect"`
	Message   string `json:"message,omitempty"`
}

func encode(evt domain.Event) ([]byte, error) {
	return json.Marshal(evt)
}

func errorEvent(msg string) domain.Event {
	return domain.Event{Name: domain.EventError, Data: msg}
}
