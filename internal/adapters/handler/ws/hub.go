package ws

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// Hub tracks live connections and the participant name each one claimed.
// Delivery is best effort: a slow connection loses messages, it never slows
// the session down.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]string
	log     *slog.Logger
}

var _ ports.Broadcaster = (*Hub)(nil)

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]string),
		log:     log,
	}
}

func (h *Hub) Broadcast(evt domain.Event) {
	msg, err := encode(evt)
	if err != nil {
		h.log.Error("failed to encode event", "event", evt.Name, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(msg)
	}
}

// Disconnect sends kicked to every connection bound to name and closes them
// once the queue drains.
func (h *Hub) Disconnect(name string) {
	msg, err := encode(domain.Event{Name: domain.EventKicked, Data: name})
	if err != nil {
		h.log.Error("failed to encode event", "event", domain.EventKicked, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c, bound := range h.clients {
		if bound != name {
			continue
		}
		c.enqueue(msg)
		c.shutdown()
		delete(h.clients, c)
	}
}

func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = ""
}

// unregister drops c and reports the name it was bound to, plus whether
// another live connection still holds that name.
func (h *Hub) unregister(c *client) (name string, shared bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name, ok := h.clients[c]
	if !ok {
		return "", false
	}
	delete(h.clients, c)
	if name == "" {
		return "", false
	}
	return name, h.holdsLocked(name)
}

// bind records name for c and returns the name it replaces, plus whether
// another connection still holds that one. ok is false when c was kicked.
func (h *Hub) bind(c *client, name string) (prev string, shared, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev, ok = h.clients[c]
	if !ok {
		return "", false, false
	}
	h.clients[c] = name
	if prev == "" || prev == name {
		return "", false, true
	}
	return prev, h.holdsLocked(prev), true
}

// holds reports whether any live connection is bound to name.
func (h *Hub) holds(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.holdsLocked(name)
}

func (h *Hub) holdsLocked(name string) bool {
	return lo.Contains(lo.Values(h.clients), name)
}

func (h *Hub) nameOf(c *client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[c]
}

// reply sends evt to c alone.
func (h *Hub) reply(c *client, evt domain.Event) {
	msg, err := encode(evt)
	if err != nil {
		h.log.Error("failed to encode event", "event", evt.Name, "error", err)
		return
	}
	c.enqueue(msg)
}
