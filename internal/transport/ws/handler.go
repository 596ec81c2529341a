package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lowlife/internal/app"
	"lowlife/internal/config"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.RoomHub
	cfg      *config.Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.RoomHub, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. A caller that created its
// room over the HTTP API passes the host token it was issued so the
// connection is recognized as that room's host; everyone else gets a fresh
// connection-scoped id.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	connID := r.URL.Query().Get("token")
	if connID == "" {
		connID = uuid.New().String()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.hub, h.cfg, connID, h.logger)

	h.logger.Info("websocket connected", "connId", connID)

	client.Run()
}
