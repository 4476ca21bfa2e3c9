package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/mocks"
)

func openEntry(question string) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:             uuid.New(),
		Question:       question,
		Options:        []string{"a", "b"},
		CorrectAnswers: []bool{true, false},
		TimeLimit:      30,
		Results:        map[string]int{"a": 0, "b": 0},
		Answers:        map[string]domain.Answer{},
		Status:         domain.RoundOpen,
		CreatedAt:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func closedCopy(e domain.HistoryEntry) domain.HistoryEntry {
	e = e.Clone()
	e.Status = domain.RoundClosed
	at := e.CreatedAt.Add(time.Minute)
	e.ClosedAt = &at
	return e
}

func TestHistoryStoreLoadsPersistedEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()

	stored := []domain.HistoryEntry{closedCopy(openEntry("q1")), closedCopy(openEntry("q2"))}
	repo.EXPECT().List(ctx).Return(stored, nil)

	h := NewHistoryStore(ctx, repo, newFakeClock(), logs.GetLoggerFromLevel(slog.LevelDebug))
	list := h.List()
	require.Len(t, list, 2)
	assert.Equal(t, "q1", list[0].Question)
	assert.Equal(t, "q2", list[1].Question)
}

func TestHistoryStoreAbortsRoundLeftOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()
	clk := newFakeClock()

	leftOpen := openEntry("q2")
	repo.EXPECT().List(ctx).Return([]domain.HistoryEntry{closedCopy(openEntry("q1")), leftOpen}, nil)
	repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e domain.HistoryEntry) error {
		assert.Equal(t, leftOpen.ID, e.ID)
		assert.Equal(t, domain.RoundAborted, e.Status)
		require.NotNil(t, e.ClosedAt)
		assert.True(t, clk.Now().Equal(*e.ClosedAt))
		return nil
	})

	h := NewHistoryStore(ctx, repo, clk, logs.GetLoggerFromLevel(slog.LevelDebug))

	list := h.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.RoundClosed, list[0].Status)
	assert.Equal(t, domain.RoundAborted, list[1].Status)
	assert.ErrorIs(t, h.Update(ctx, leftOpen), domain.ErrHistoryFrozen)
}

func TestHistoryStoreAbortsRoundLeftOpenEvenIfWriteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().List(ctx).Return([]domain.HistoryEntry{openEntry("q1")}, nil)
	repo.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("connection refused"))

	h := NewHistoryStore(ctx, repo, newFakeClock(), logs.GetLoggerFromLevel(slog.LevelDebug))
	assert.Equal(t, domain.RoundAborted, h.List()[0].Status)
}

func TestHistoryStoreLoadFailureStartsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().List(ctx).Return(nil, errors.New("unexpected end of JSON input"))

	h := NewHistoryStore(ctx, repo, newFakeClock(), logs.GetLoggerFromLevel(slog.LevelDebug))
	assert.Empty(t, h.List())
}

func TestHistoryStoreWriteFailureKeepsMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().List(ctx).Return(nil, nil)
	repo.EXPECT().Append(ctx, gomock.Any()).Return(errors.New("disk full"))
	repo.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("disk full"))

	h := NewHistoryStore(ctx, repo, newFakeClock(), logs.GetLoggerFromLevel(slog.LevelDebug))
	entry := openEntry("q1")
	h.Append(ctx, entry)

	entry.Results["a"] = 1
	require.NoError(t, h.Update(ctx, entry))

	list := h.List()
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Results["a"])
}

func TestHistoryStoreOnlyUpdatesOpenTail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().List(ctx).Return(nil, nil)
	repo.EXPECT().Append(ctx, gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().Update(ctx, gomock.Any()).Return(nil).Times(1)

	h := NewHistoryStore(ctx, repo, newFakeClock(), logs.GetLoggerFromLevel(slog.LevelDebug))

	// Step 1: empty store has nothing to update
	err := h.Update(ctx, openEntry("ghost"))
	assert.ErrorIs(t, err, domain.ErrHistoryNotFound)

	// Step 2: close the first entry, then start a second one
	first := openEntry("q1")
	h.Append(ctx, first)
	require.NoError(t, h.Update(ctx, closedCopy(first)))
	second := openEntry("q2")
	h.Append(ctx, second)

	// Step 3: the older entry is frozen
	err = h.Update(ctx, first)
	assert.ErrorIs(t, err, domain.ErrHistoryFrozen)

	// Step 4: an unknown id is not found
	err = h.Update(ctx, openEntry("ghost"))
	assert.ErrorIs(t, err, domain.ErrHistoryNotFound)

	list := h.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.RoundClosed, list[0].Status)
	assert.Equal(t, domain.RoundOpen, list[1].Status)
}

func TestHistoryStoreFrozenTail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()

	entry := closedCopy(openEntry("q1"))
	repo.EXPECT().List(ctx).Return([]domain.HistoryEntry{entry}, nil)

	h := NewHistoryStore(ctx, repo, newFakeClock(), logs.GetLoggerFromLevel(slog.LevelDebug))
	reopened := entry.Clone()
	reopened.Status = domain.RoundOpen

	err := h.Update(ctx, reopened)
	assert.ErrorIs(t, err, domain.ErrHistoryFrozen)
	assert.Equal(t, domain.RoundClosed, h.List()[0].Status)
}

func TestHistoryStoreListIsACopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistoryRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().List(ctx).Return(nil, nil)
	repo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	h := NewHistoryStore(ctx, repo, newFakeClock(), logs.GetLoggerFromLevel(slog.LevelDebug))
	h.Append(ctx, openEntry("q1"))

	list := h.List()
	list[0].Results["a"] = 99
	list[0].Options[0] = "changed"

	fresh := h.List()
	assert.Equal(t, 0, fresh[0].Results["a"])
	assert.Equal(t, "a", fresh[0].Options[0])
}

func TestSessionSurvivesPersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := mocks.NewMockHistoryRepository(ctrl)
	participants := mocks.NewMockParticipantRepository(ctrl)
	events := mocks.NewMockBroadcaster(ctrl)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	participants.EXPECT().Load(ctx).Return(nil, errors.New("connection refused"))
	participants.EXPECT().Save(ctx, gomock.Any()).Return(errors.New("connection refused")).AnyTimes()
	history.EXPECT().List(ctx).Return(nil, errors.New("connection refused"))
	history.EXPECT().Append(ctx, gomock.Any()).Return(errors.New("connection refused"))
	history.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("connection refused")).Times(2)
	events.EXPECT().Broadcast(gomock.Any()).AnyTimes()

	svc := NewSessionService(
		NewRegistry(ctx, participants, events, log),
		NewHistoryStore(ctx, history, newFakeClock(), log),
		events,
		newFakeClock(),
		log,
	)

	_, err := svc.Join(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.CreateQuestion(ctx, twoPlusTwo())
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "alice", "4")
	require.NoError(t, err)

	entries := svc.History()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.RoundClosed, entries[0].Status)
	assert.Equal(t, 1, entries[0].Results["4"])
	assert.Equal(t, []string{"alice"}, svc.Participants())
}
