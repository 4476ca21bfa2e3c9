package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// HistoryStore keeps the ordered round log in memory and writes every change
// through to the repository before returning. The in-memory log stays
// authoritative when a write fails.
// It is not safe for concurrent use; the session serialises every call.
type HistoryStore struct {
	repo    ports.HistoryRepository
	log     *slog.Logger
	entries []domain.HistoryEntry
}

// NewHistoryStore loads the persisted history. Missing or unreadable data
// yields an empty history. A round left open by a previous process has no
// owner anymore, so it is recorded as aborted at load time.
func NewHistoryStore(ctx context.Context, repo ports.HistoryRepository, clock ports.Clock, log *slog.Logger) *HistoryStore {
	h := &HistoryStore{repo: repo, log: log}

	entries, err := repo.List(ctx)
	if err != nil {
		log.Warn("failed to load round history, starting empty", "error", err)
		return h
	}
	h.entries = entries
	h.abandonOpen(ctx, clock.Now())
	return h
}

func (h *HistoryStore) abandonOpen(ctx context.Context, now time.Time) {
	for i := range h.entries {
		if h.entries[i].Frozen() {
			continue
		}
		closedAt := now
		h.entries[i].Status = domain.RoundAborted
		h.entries[i].ClosedAt = &closedAt
		if err := h.repo.Update(ctx, h.entries[i].Clone()); err != nil {
			h.log.Error("failed to persist abandoned round", "round_id", h.entries[i].ID, "error", err)
			continue
		}
		h.log.Warn("abandoned round marked aborted", "round_id", h.entries[i].ID)
	}
}

func (h *HistoryStore) Append(ctx context.Context, entry domain.HistoryEntry) {
	entry = entry.Clone()
	h.entries = append(h.entries, entry)
	if err := h.repo.Append(ctx, entry); err != nil {
		h.log.Error("failed to persist history entry", "round_id", entry.ID, "error", err)
	}
}

// Update rewrites the most recent entry while it is still open. Older or
// frozen entries are never modified.
func (h *HistoryStore) Update(ctx context.Context, entry domain.HistoryEntry) error {
	if len(h.entries) == 0 {
		return domain.ErrHistoryNotFound
	}
	last := len(h.entries) - 1
	if h.entries[last].ID != entry.ID {
		if lo.ContainsBy(h.entries, func(e domain.HistoryEntry) bool { return e.ID == entry.ID }) {
			return fmt.Errorf("%w: %s", domain.ErrHistoryFrozen, entry.ID)
		}
		return fmt.Errorf("%w: %s", domain.ErrHistoryNotFound, entry.ID)
	}
	if h.entries[last].Frozen() {
		return fmt.Errorf("%w: %s", domain.ErrHistoryFrozen, entry.ID)
	}

	entry = entry.Clone()
	h.entries[last] = entry
	if err := h.repo.Update(ctx, entry); err != nil {
		h.log.Error("failed to persist history update", "round_id", entry.ID, "error", err)
	}
	return nil
}

func (h *HistoryStore) List() []domain.HistoryEntry {
	return lo.Map(h.entries, func(e domain.HistoryEntry, _ int) domain.HistoryEntry {
		return e.Clone()
	})
}
