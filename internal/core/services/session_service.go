package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

var validate = validator.New()

// sessionService coordinates the single live round. All state changes,
// deadline expiry included, run under mu, and events are published before mu
// is released so every connection sees them in the same order.
type sessionService struct {
	mu sync.Mutex

	registry *Registry
	history  *HistoryStore
	events   ports.Broadcaster
	clock    ports.Clock
	log      *slog.Logger

	round *domain.Round
	timer ports.Timer
}

func NewSessionService(registry *Registry, history *HistoryStore, events ports.Broadcaster, clock ports.Clock, log *slog.Logger) ports.SessionService {
	return &sessionService{
		registry: registry,
		history:  history,
		events:   events,
		clock:    clock,
		log:      log,
	}
}

func (s *sessionService) Join(ctx context.Context, name string) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.registry.Join(ctx, name, s.clock.Now())
	if err != nil {
		return domain.Participant{}, err
	}
	s.log.Info("participant joined", "participant", p.Name)
	return p, nil
}

func (s *sessionService) Leave(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.Leave(ctx, name) {
		s.log.Info("participant left", "participant", name)
	}
	return nil
}

func (s *sessionService) RemoveParticipant(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Leave(ctx, name) {
		return fmt.Errorf("%w: %s", domain.ErrParticipantNotFound, name)
	}
	s.events.Disconnect(name)
	s.log.Info("participant removed", "participant", name)
	return nil
}

func (s *sessionService) Participants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.List()
}

func (s *sessionService) CreateQuestion(ctx context.Context, input ports.CreateQuestionInput) (domain.QuestionView, error) {
	question, err := newQuestion(input)
	if err != nil {
		return domain.QuestionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round.IsOpen() {
		if !s.settledLocked() {
			return domain.QuestionView{}, domain.ErrRoundInProgress
		}
		s.closeLocked(ctx, domain.RoundClosed)
	}

	round := domain.NewRound(uuid.New(), question, s.clock.Now())
	s.round = round
	s.history.Append(ctx, domain.Snapshot(round))

	id := round.ID
	s.timer = s.clock.AfterFunc(question.Duration(), func() { s.expire(id) })

	view := round.View()
	s.events.Broadcast(domain.Event{Name: domain.EventNewQuestion, Data: view})
	s.log.Info("round opened", "round_id", id, "options", len(question.Options), "time_limit", question.TimeLimit)
	return view, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, participant, option string) (domain.Answer, error) {
	name, err := domain.NormalizeName(participant)
	if err != nil {
		return domain.Answer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	answer, err := s.round.RecordAnswer(name, option, s.clock.Now())
	if err != nil {
		return domain.Answer{}, err
	}

	if err := s.history.Update(ctx, domain.Snapshot(s.round)); err != nil {
		s.log.Error("failed to update history", "round_id", s.round.ID, "error", err)
	}
	s.events.Broadcast(domain.Event{
		Name: domain.EventAnswerRecorded,
		Data: domain.AnswerRecorded{Participant: name, Answered: s.round.AnswerCount()},
	})
	s.events.Broadcast(domain.Event{Name: domain.EventPollResults, Data: s.tallyLocked()})

	if s.round.AnsweredByAll(s.registry.List()) {
		s.closeLocked(ctx, domain.RoundClosed)
	}
	return answer, nil
}

func (s *sessionService) AbortRound(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closeLocked(ctx, domain.RoundAborted) {
		return domain.ErrNoActiveRound
	}
	return nil
}

func (s *sessionService) CurrentQuestion() (domain.QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.round.IsOpen() {
		return domain.QuestionView{}, false
	}
	return s.round.View(), true
}

func (s *sessionService) Results() domain.Results {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.round.IsOpen() {
		return domain.Tally(nil, s.registry.Len())
	}
	return s.tallyLocked()
}

func (s *sessionService) History() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.List()
}

// expire is the deadline callback. It only acts on the round it was armed for.
func (s *sessionService) expire(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil || s.round.ID != id {
		return
	}
	if s.closeLocked(context.Background(), domain.RoundClosed) {
		s.log.Info("round deadline reached", "round_id", id)
	}
}

func (s *sessionService) closeLocked(ctx context.Context, status domain.RoundStatus) bool {
	if !s.round.Close(status, s.clock.Now()) {
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if err := s.history.Update(ctx, domain.Snapshot(s.round)); err != nil {
		s.log.Error("failed to finalize history", "round_id", s.round.ID, "error", err)
	}

	results := s.tallyLocked()
	s.events.Broadcast(domain.Event{Name: domain.EventPollResults, Data: results})
	s.events.Broadcast(domain.Event{
		Name: domain.EventRoundClosed,
		Data: domain.RoundClosedEvent{Results: results, Aborted: status == domain.RoundAborted},
	})
	s.log.Info("round closed", "round_id", s.round.ID, "status", status, "answered", s.round.AnswerCount())
	return true
}

// settledLocked reports whether nobody registered is still expected to answer.
func (s *sessionService) settledLocked() bool {
	registered := s.registry.List()
	return len(registered) == 0 || s.round.AnsweredByAll(registered)
}

func (s *sessionService) tallyLocked() domain.Results {
	return domain.Tally(s.round, s.registry.Len())
}

func newQuestion(input ports.CreateQuestionInput) (domain.Question, error) {
	input.Question = strings.TrimSpace(input.Question)
	if err := validate.Struct(input); err != nil {
		return domain.Question{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuestion, err)
	}

	correct := input.CorrectAnswers
	if correct == nil {
		correct = make([]bool, len(input.Options))
	}
	if len(correct) != len(input.Options) {
		return domain.Question{}, domain.ErrCorrectMaskMismatch
	}

	timeLimit := domain.DefaultTimeLimit
	if input.TimeLimit != nil {
		timeLimit = *input.TimeLimit
	}
	if timeLimit <= 0 || int64(timeLimit) > domain.MaxTimeLimit {
		return domain.Question{}, domain.ErrInvalidTimeLimit
	}

	return domain.Question{
		Text:           input.Question,
		Options:        input.Options,
		CorrectAnswers: correct,
		TimeLimit:      timeLimit,
	}, nil
}
