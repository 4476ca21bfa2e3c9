package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type Handler struct {
	hub      *Hub
	service  ports.SessionService
	upgrader websocket.Upgrader
	buffer   int
	log      *slog.Logger
}

func NewHandler(hub *Hub, service ports.SessionService, allowedOrigins []string, buffer int, log *slog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		service: service,
		buffer:  buffer,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if lo.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || lo.Contains(allowed, origin)
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(conn, h.buffer, h.log)
	h.hub.register(c)
	c.log.Debug("connection opened", "remote", r.RemoteAddr)

	go c.writePump()
	c.readPump(func(data []byte) { h.dispatch(context.Background(), c, data) })

	c.shutdown()
	name, shared := h.hub.unregister(c)
	if name != "" && !shared {
		_ = h.service.Leave(context.Background(), name)
	}
	c.log.Debug("connection closed", "participant", name)
}

func (h *Handler) dispatch(ctx context.Context, c *client, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		h.hub.reply(c, errorEvent("malformed message"))
		return
	}

	switch msg.Event {
	case inStudentJoin:
		h.join(ctx, c, msg.Data)
	case inSubmitAnswer:
		h.submit(ctx, c, msg.Data)
	case inGetQuestion:
		h.currentQuestion(c)
	case inGetResults:
		h.hub.reply(c, domain.Event{Name: domain.EventPollResults, Data: h.service.Results()})
	case inCreateQuestion:
		h.createQuestion(ctx, c, msg.Data)
	case inChatMessage:
		h.chat(c, msg.Data)
	default:
		h.hub.reply(c, errorEvent("unknown event: "+msg.Event))
	}
}

func (h *Handler) join(ctx context.Context, c *client, data json.RawMessage) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		h.hub.reply(c, errorEvent("name is required to join"))
		return
	}
	name, err := domain.NormalizeName(raw)
	if err != nil {
		h.hub.reply(c, errorEvent("name is required to join"))
		return
	}

	// Bind before joining so a removal racing this join finds the socket.
	prev, shared, ok := h.hub.bind(c, name)
	if !ok {
		return
	}
	if prev != "" && !shared {
		_ = h.service.Leave(ctx, prev)
	}

	if _, err := h.service.Join(ctx, name); err != nil {
		h.hub.reply(c, errorEvent("name is required to join"))
		return
	}
	// Kicked between bind and join: drop the registration it just made.
	if h.hub.nameOf(c) != name && !h.hub.holds(name) {
		_ = h.service.Leave(ctx, name)
		return
	}
	h.currentQuestion(c)
}

func (h *Handler) submit(ctx context.Context, c *client, data json.RawMessage) {
	var option string
	if err := json.Unmarshal(data, &option); err != nil {
		h.hub.reply(c, confirmation(answerConfirmed{Message: "Invalid option."}))
		return
	}

	answer, err := h.service.SubmitAnswer(ctx, h.hub.nameOf(c), option)
	if err != nil {
		h.hub.reply(c, confirmation(answerConfirmed{Message: rejection(err)}))
		return
	}
	h.hub.reply(c, confirmation(answerConfirmed{Answer: answer.Answer, IsCorrect: answer.IsCorrect}))
}

func (h *Handler) currentQuestion(c *client) {
	view, ok := h.service.CurrentQuestion()
	if !ok {
		h.hub.reply(c, domain.Event{Name: domain.EventNoQuestion})
		return
	}
	h.hub.reply(c, domain.Event{Name: domain.EventNewQuestion, Data: view})
}

func (h *Handler) createQuestion(ctx context.Context, c *client, data json.RawMessage) {
	var input ports.CreateQuestionInput
	if err := json.Unmarshal(data, &input); err != nil {
		h.hub.reply(c, errorEvent("invalid question payload"))
		return
	}
	if _, err := h.service.CreateQuestion(ctx, input); err != nil {
		h.hub.reply(c, errorEvent(err.Error()))
	}
}

func (h *Handler) chat(c *client, data json.RawMessage) {
	var msg domain.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Text == "" {
		h.hub.reply(c, errorEvent("invalid chat message"))
		return
	}
	if name := h.hub.nameOf(c); name != "" {
		msg.Sender = name
	}
	h.hub.Broadcast(domain.Event{Name: domain.EventChatMessage, Data: msg})
}

func confirmation(body answerConfirmed) domain.Event {
	return domain.Event{Name: domain.EventAnswerConfirmed, Data: body}
}

func rejection(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoActiveRound):
		return "No active question."
	case errors.Is(err, domain.ErrDuplicateAnswer):
		return "You already submitted."
	case errors.Is(err, domain.ErrInvalidOption):
		return "Invalid option."
	case errors.Is(err, domain.ErrInvalidName):
		return "Join with a name before answering."
	default:
		return err.Error()
	}
}
