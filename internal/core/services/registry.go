package services

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// Registry tracks the participants currently connected to the session.
// It is not safe for concurrent use; the session serialises every call.
type Registry struct {
	repo   ports.ParticipantRepository
	events ports.Broadcaster
	log    *slog.Logger

	order   []string
	members map[string]domain.Participant
}

// NewRegistry restores the persisted participant set. A load failure leaves
// the registry empty.
func NewRegistry(ctx context.Context, repo ports.ParticipantRepository, events ports.Broadcaster, log *slog.Logger) *Registry {
	r := &Registry{
		repo:    repo,
		events:  events,
		log:     log,
		members: make(map[string]domain.Participant),
	}

	names, err := repo.Load(ctx)
	if err != nil {
		log.Warn("failed to load participants, starting empty", "error", err)
		return r
	}
	for _, name := range names {
		if name == "" || r.has(name) {
			continue
		}
		r.order = append(r.order, name)
		r.members[name] = domain.Participant{Name: name}
	}
	return r
}

// Join adds name, or supersedes the tracking of an existing one.
func (r *Registry) Join(ctx context.Context, name string, at time.Time) (domain.Participant, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.Participant{}, err
	}

	if !r.has(name) {
		r.order = append(r.order, name)
	}
	p := domain.Participant{Name: name, JoinedAt: at}
	r.members[name] = p

	r.changed(ctx)
	return p, nil
}

// Leave removes name and reports whether it was registered.
func (r *Registry) Leave(ctx context.Context, name string) bool {
	if !r.has(name) {
		return false
	}
	delete(r.members, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })

	r.changed(ctx)
	return true
}

func (r *Registry) List() []string {
	return slices.Clone(r.order)
}

func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) has(name string) bool {
	_, ok := r.members[name]
	return ok
}

func (r *Registry) changed(ctx context.Context) {
	names := r.List()
	if err := r.repo.Save(ctx, names); err != nil {
		r.log.Error("failed to persist participants", "error", err)
	}
	r.events.Broadcast(domain.Event{Name: domain.EventParticipantList, Data: names})
}
