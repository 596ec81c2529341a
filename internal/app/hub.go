package app

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"lowlife/internal/config"
	"lowlife/internal/domain"
)

// RoomHub is the registry of all active rooms, keyed by code. It owns the
// code-to-session map and nothing else; gameplay state is mutated only
// through each session's own serialization point, so the hub lock guards
// brief map operations.
type RoomHub struct {
	sessions map[string]*RoomSession
	mu       sync.RWMutex
	cfg      *config.Config
	logger   *slog.Logger
	done     chan struct{}
}

// NewRoomHub creates a new room hub
func NewRoomHub(cfg *config.Config, logger *slog.Logger) *RoomHub {
	hub := &RoomHub{
		sessions: make(map[string]*RoomSession),
		cfg:      cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}

	// Sweep rooms that were created but never joined
	go hub.cleanupLoop()

	return hub
}

// CreateRoom allocates a fresh code and registers a new lobby-phase room
// with hostConnID as host. No seat is created for the host.
func (h *RoomHub) CreateRoom(hostConnID string) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	code, err := newUniqueCode(h.cfg.Game.RoomCodeLength, func(c string) bool {
		_, exists := h.sessions[c]
		return exists
	})
	if err != nil {
		return nil, err
	}

	settings := domain.RoomSettings{
		MinPlayers: h.cfg.Game.MinPlayers,
		MaxPlayers: h.cfg.Game.MaxPlayers,
	}
	room := domain.NewRoom(code, hostConnID, settings)
	session := NewRoomSession(room, h.cfg, h.logger)
	h.sessions[code] = session

	h.logger.Info("room created", "code", code, "host", hostConnID)

	return session, nil
}

// GetSession returns a room session by code. Codes are case-insensitive.
func (h *RoomHub) GetSession(code string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// DeleteSession tears a room down: pending timers are cancelled by the
// session close before the code is released.
func (h *RoomHub) DeleteSession(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[code]; ok {
		session.Close()
		delete(h.sessions, code)
		h.logger.Info("room deleted", "code", code)
	}
}

// HandleDisconnect removes the connection's seat from every room it appears
// in, destroying rooms left empty.
func (h *RoomHub) HandleDisconnect(connID string) {
	h.mu.RLock()
	all := make([]*RoomSession, 0, len(h.sessions))
	for _, session := range h.sessions {
		all = append(all, session)
	}
	h.mu.RUnlock()

	for _, session := range all {
		if session.HandleDisconnect(connID) {
			h.DeleteSession(session.Code())
		}
	}
}

// GetSessionCount returns the number of active rooms
func (h *RoomHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalPlayerCount returns the total number of seated players across all rooms
func (h *RoomHub) GetTotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
}

// cleanupLoop periodically sweeps stale rooms
func (h *RoomHub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes rooms that never got a player. Rooms with
// players are destroyed the moment the last one leaves, so only
// created-and-abandoned codes can linger.
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for code, session := range h.sessions {
		if session.PlayerCount() == 0 && now.Sub(session.CreatedAt()) > h.cfg.Game.StaleRoomTimeout {
			session.Close()
			delete(h.sessions, code)
			h.logger.Info("stale room cleaned up", "code", code)
		}
	}
}
