package app

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"lowlife/internal/config"
	"lowlife/internal/domain"
)

// ClientConnection represents a connected client subscribed to a room
type ClientConnection interface {
	Send(message interface{}) error
	ConnID() string
	Close() error
}

// RoomSession wraps a room with its serialization point. Every call that
// touches room state holds mu end to end, which is what makes the spin lock
// and the finish-bonus latch correct without further synchronization.
type RoomSession struct {
	room      *domain.Room
	mu        sync.Mutex
	clients   map[string]ClientConnection // connID -> client
	clientsMu sync.RWMutex
	cfg       *config.Config
	logger    *slog.Logger

	// turnTimer is the pending settle-delay advance; owned by the session
	// and cancelled on teardown so it can never touch a destroyed room.
	turnTimer *time.Timer
	closed    bool

	events chan *domain.RoomEvent
	done   chan struct{}
}

// NewRoomSession creates a session for the given room
func NewRoomSession(room *domain.Room, cfg *config.Config, logger *slog.Logger) *RoomSession {
	session := &RoomSession{
		room:    room,
		clients: make(map[string]ClientConnection),
		cfg:     cfg,
		logger:  logger,
		events:  make(chan *domain.RoomEvent, 100),
		done:    make(chan struct{}),
	}

	go session.eventLoop()

	return session
}

// Code returns the room code
func (s *RoomSession) Code() string {
	return s.room.Code
}

// CreatedAt returns when the room was created
func (s *RoomSession) CreatedAt() time.Time {
	return s.room.CreatedAt
}

// PlayerCount returns the number of seated players
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// Phase returns the current room phase
func (s *RoomSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase
}

// CanJoin checks if a new player can be seated
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase == domain.PhaseLobby && len(s.room.Players) < s.room.Settings.MaxPlayers
}

// RegisterClient subscribes a client connection to this room's broadcasts
func (s *RoomSession) RegisterClient(client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ConnID()] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(connID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, connID)
}

// Join seats a new player. The first join carrying a valid deck seed
// installs the room's card catalogue; later seeds are ignored.
func (s *RoomSession) Join(connID, name string, deckSeed []string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.AddPlayer(connID, name, RandomCharacter())
	if err != nil {
		return nil, err
	}

	if len(deckSeed) > 0 && !s.room.Deck.Seed(deckSeed) {
		s.logger.Debug("deck seed ignored", "room", s.room.Code, "size", len(deckSeed))
	}

	s.emit(domain.EventLobbyUpdated, s.room.GetLobbyState())

	return player, nil
}

// Start begins play (host only). If no participant seeded the deck, the
// built-in card catalogue is installed before the opening shuffle.
func (s *RoomSession) Start(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.Start(connID); err != nil {
		return err
	}

	if !s.room.Deck.Seeded() {
		s.room.Deck.Seed(TardCards)
	}
	s.room.Deck.Shuffle()

	s.emit(domain.EventGameStarted, &domain.GameStartedPayload{
		Players:         s.room.PlayerInfoList(),
		CurrentPlayerID: s.room.CurrentPlayer().DisplayID,
	})

	return nil
}

// MoveSpin resolves a turn-consuming movement roll for the seat playerID.
// The spin lock closes before the roll so a duplicate or retried request
// can never double-resolve; it reopens when the settle timer advances the
// turn.
func (s *RoomSession) MoveSpin(connID string, playerID int) (*domain.MoveSpinResolvedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.AuthorizeTurn(connID, playerID); err != nil {
		return nil, err
	}

	s.room.SpinLocked = true

	seat := s.room.PlayerByDisplayID(playerID)
	roll := s.roll()
	position, lapped := AdvancePosition(seat.Position, roll)
	seat.Position = position
	if lapped {
		seat.Money += seat.Character.Payday
	}

	payload := &domain.MoveSpinResolvedPayload{
		PlayerID: playerID,
		Roll:     roll,
		Position: position,
		Payday:   lapped,
	}
	s.emit(domain.EventMoveSpinResolved, payload)

	s.scheduleTurnAdvance()

	return payload, nil
}

// ExtraSpin resolves a bonus roll worth roll*multiplier. It never touches
// the spin lock or the turn index, so the settling seat can invoke it while
// its movement spin is still locked.
func (s *RoomSession) ExtraSpin(connID string, playerID, multiplier int) (*domain.ExtraSpinResolvedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.AuthorizeSideAction(connID, playerID, s.cfg.Game.RestrictSideSpins); err != nil {
		return nil, err
	}

	if multiplier < 1 {
		multiplier = 1
	}

	seat := s.room.PlayerByDisplayID(playerID)
	roll := s.roll()
	amount := roll * multiplier
	seat.Money += amount

	payload := &domain.ExtraSpinResolvedPayload{
		PlayerID:   playerID,
		Roll:       roll,
		Amount:     amount,
		Multiplier: multiplier,
	}
	s.emit(domain.EventExtraSpinResolved, payload)

	return payload, nil
}

// RescueSpin resolves a bankruptcy-recovery roll. The roll is reported to
// the whole room; what it buys the player is content-layer business.
func (s *RoomSession) RescueSpin(connID string, playerID int) (*domain.RescueSpinResolvedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.AuthorizeSideAction(connID, playerID, s.cfg.Game.RestrictSideSpins); err != nil {
		return nil, err
	}

	payload := &domain.RescueSpinResolvedPayload{
		PlayerID: playerID,
		Roll:     s.roll(),
	}
	s.emit(domain.EventRescueSpinResolved, payload)

	return payload, nil
}

// TardDraw draws the next card for the seat playerID, reshuffling the full
// catalogue first if the pile is empty.
func (s *RoomSession) TardDraw(connID string, playerID int) (*domain.TardDrawResolvedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.AuthorizeSideAction(connID, playerID, s.cfg.Game.RestrictSideSpins); err != nil {
		return nil, err
	}

	card, remaining, err := s.room.Deck.Draw()
	if err != nil {
		return nil, err
	}

	payload := &domain.TardDrawResolvedPayload{
		PlayerID:  playerID,
		Card:      card,
		Remaining: remaining,
	}
	s.emit(domain.EventTardDrawResolved, payload)

	return payload, nil
}

// ClaimFinishBonus awards the first-finisher bonus. The first claimant per
// room wins; everyone after gets awarded=false with no side effect.
func (s *RoomSession) ClaimFinishBonus(connID string, playerID int) (*domain.FinishBonusAwardedPayload, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Phase != domain.PhasePlaying {
		return nil, false, domain.ErrRoomNotStarted
	}
	seat := s.room.PlayerByDisplayID(playerID)
	if seat == nil {
		return nil, false, domain.ErrPlayerNotFound
	}
	if seat.ConnID != connID {
		return nil, false, domain.ErrIdentityMismatch
	}

	if !s.room.ClaimBonus() {
		return nil, false, nil
	}

	seat.Money += FirstFinishBonus

	payload := &domain.FinishBonusAwardedPayload{
		PlayerID: playerID,
		Amount:   FirstFinishBonus,
	}
	s.emit(domain.EventFinishBonusAwarded, payload)

	return payload, true, nil
}

// HandleDisconnect removes the connection's seat. It reports true when the
// room emptied and should be torn down by the registry. A departing host
// that never joined still triggers host migration in the lobby, and a
// mid-game removal that lands the turn on a different seat announces it.
func (s *RoomSession) HandleDisconnect(connID string) bool {
	s.UnregisterClient(connID)

	s.mu.Lock()
	defer s.mu.Unlock()

	wasHost := s.room.HostID == connID
	onTurn := s.room.CurrentPlayer()
	removed := s.room.RemovePlayer(connID)
	if removed == nil && !wasHost {
		return false
	}

	if s.room.Empty() {
		return true
	}

	s.emit(domain.EventLobbyUpdated, s.room.GetLobbyState())

	// The index rebase can hand the turn to a new seat with no settle timer
	// pending to announce it
	if now := s.room.CurrentPlayer(); onTurn != nil && now != nil && now != onTurn {
		s.emit(domain.EventTurnChanged, &domain.TurnChangedPayload{
			CurrentPlayerID: now.DisplayID,
		})
	}

	return false
}

// Snapshot returns the room state for info endpoints and join acks
func (s *RoomSession) Snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := map[string]interface{}{
		"code":     s.room.Code,
		"phase":    s.room.Phase,
		"players":  s.room.PlayerInfoList(),
		"hostId":   s.room.HostDisplayID(),
		"canStart": s.room.CanStart(),
	}

	if s.room.Phase == domain.PhasePlaying {
		if current := s.room.CurrentPlayer(); current != nil {
			state["currentPlayerId"] = current.DisplayID
		}
		state["spinLocked"] = s.room.SpinLocked
		state["deckRemaining"] = s.room.Deck.Remaining()
		state["seq"] = s.room.Seq()
	}

	return state
}

// roll produces one server-authoritative spin result
func (s *RoomSession) roll() int {
	return rand.Intn(s.cfg.Game.SpinMax) + 1
}

// scheduleTurnAdvance arms the settle-delay timer. Caller must hold mu.
// Observers use the delay to finish presenting the result, and the settling
// seat may still issue side actions until the timer fires.
func (s *RoomSession) scheduleTurnAdvance() {
	if s.turnTimer != nil {
		s.turnTimer.Stop()
	}
	s.turnTimer = time.AfterFunc(s.cfg.Game.SettleDelay, s.advanceTurn)
}

// advanceTurn fires after the settle delay. The room may have been torn
// down or the roster reshaped while the timer was pending, so everything is
// rechecked under the lock before the rotation.
func (s *RoomSession) advanceTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	next := s.room.AdvanceTurn()
	if next == nil {
		return
	}

	s.emit(domain.EventTurnChanged, &domain.TurnChangedPayload{
		CurrentPlayerID: next.DisplayID,
	})
}

// emit stamps the next sequence number on a broadcast and queues it. Caller
// must hold mu, which is what keeps stamping order and queue order aligned.
func (s *RoomSession) emit(eventType domain.EventType, payload interface{}) {
	if s.closed {
		return
	}

	event := domain.NewRoomEvent(eventType, s.room.Code, s.room.NextSeq(), payload)
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type, "room", s.room.Code)
	}
}

// eventLoop drains the queue and fans events out to subscribers in order
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to every subscribed client
func (s *RoomSession) broadcastEvent(event *domain.RoomEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for connID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "connId", connID, "error", err)
		}
	}
}

// Close shuts the session down, cancelling the pending turn timer before
// the room is released
func (s *RoomSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.turnTimer != nil {
		s.turnTimer.Stop()
		s.turnTimer = nil
	}
	s.mu.Unlock()

	close(s.done)

	// Subscribers are dropped without closing their connections; one
	// connection can be subscribed to several rooms
	s.clientsMu.Lock()
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
