package domain

// Event names match what the browser client listens for.
const (
	EventParticipantList = "student-list"
	EventNewQuestion     = "new-question"
	EventNoQuestion      = "no-question"
	EventPollResults     = "poll-results"
	EventAnswerRecorded  = "answer-recorded"
	EventRoundClosed     = "round-closed"
	EventAnswerConfirmed = "answer-confirmed"
	EventError           = "error"
	EventKicked          = "kicked"
	EventChatMessage     = "chat-message"
)

// Event is a state change pushed to every connected client.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

type AnswerRecorded struct {
	Participant string `json:"participant"`
	Answered    int    `json:"answered"`
}

type RoundClosedEvent struct {
	Results
	Aborted bool `json:"aborted"`
}

type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
