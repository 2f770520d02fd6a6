package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Request is a command together with the subscriber that sent it.
type Request struct {
	From    uint64
	Command Command
}

// Handler upgrades HTTP requests to feed subscriptions and forwards the
// commands clients send.
type Handler struct {
	hub      *Hub
	log      *slog.Logger
	requests chan<- Request
	upgrader websocket.Upgrader
}

// NewHandler returns a handler that subscribes clients to hub and writes
// their commands to requests. A nil requests channel makes the feed read-only.
func NewHandler(hub *Hub, requests chan<- Request, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:      hub,
		log:      logger.With("component", "feed"),
		requests: requests,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	id, err := h.hub.Subscribe(conn)
	if err != nil {
		h.log.Warn("subscribe failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer h.hub.Unsubscribe(id)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			h.log.Debug("discarding malformed command", "id", id, "err", err)
			h.hub.Reject(id, "malformed command")
			continue
		}
		if h.requests == nil {
			h.hub.Reject(id, "feed is read-only")
			continue
		}
		select {
		case h.requests <- Request{From: id, Command: cmd}:
		case <-r.Context().Done():
			return
		}
	}
}
