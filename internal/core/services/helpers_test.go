package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// fakeClock fires timers only when the test advances time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every timer that became due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// fireAll runs every armed timer regardless of state, like a late callback.
func (c *fakeClock) fireAll() {
	c.mu.Lock()
	timers := slices.Clone(c.timers)
	c.mu.Unlock()
	for _, t := range timers {
		t.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	events       []domain.Event
	disconnected []string
}

func (b *recordingBroadcaster) Broadcast(evt domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *recordingBroadcaster) Disconnect(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, name)
}

func (b *recordingBroadcaster) named(name string) []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.Filter(b.events, func(e domain.Event, _ int) bool { return e.Name == name })
}

type memoryParticipants struct {
	names []string
	err   error
}

func (m *memoryParticipants) Load(context.Context) ([]string, error) {
	return slices.Clone(m.names), m.err
}

func (m *memoryParticipants) Save(_ context.Context, names []string) error {
	m.names = slices.Clone(names)
	return nil
}

type memoryHistory struct {
	entries []domain.HistoryEntry
	err     error
}

func (m *memoryHistory) Append(_ context.Context, e domain.HistoryEntry) error {
	m.entries = append(m.entries, e.Clone())
	return nil
}

func (m *memoryHistory) Update(_ context.Context, e domain.HistoryEntry) error {
	for i := range m.entries {
		if m.entries[i].ID == e.ID {
			m.entries[i] = e.Clone()
			return nil
		}
	}
	return domain.ErrHistoryNotFound
}

func (m *memoryHistory) List(context.Context) ([]domain.HistoryEntry, error) {
	return lo.Map(m.entries, func(e domain.HistoryEntry, _ int) domain.HistoryEntry { return e.Clone() }), m.err
}

type fixture struct {
	svc          *sessionService
	clock        *fakeClock
	events       *recordingBroadcaster
	participants *memoryParticipants
	history      *memoryHistory
}

func newFixture(t *testing.T, names ...string) fixture {
	t.Helper()
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	f := fixture{
		clock:        newFakeClock(),
		events:       &recordingBroadcaster{},
		participants: &memoryParticipants{},
		history:      &memoryHistory{},
	}
	registry := NewRegistry(ctx, f.participants, f.events, log)
	store := NewHistoryStore(ctx, f.history, f.clock, log)
	f.svc = NewSessionService(registry, store, f.events, f.clock, log).(*sessionService)

	for _, name := range names {
		if _, err := f.svc.Join(ctx, name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	return f
}

func question(text string, timeLimit int, options []string, correct []bool) ports.CreateQuestionInput {
	return ports.CreateQuestionInput{
		Question:       text,
		Options:        options,
		CorrectAnswers: correct,
		TimeLimit:      lo.ToPtr(timeLimit),
	}
}

func twoPlusTwo() ports.CreateQuestionInput {
	return question("2+2?", 5, []string{"3", "4"}, []bool{false, true})
}
