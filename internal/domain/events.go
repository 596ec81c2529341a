package domain

import "time"

// EventType represents the type of room broadcast
type EventType string

const (
	EventLobbyUpdated       EventType = "lobby_updated"
	EventGameStarted        EventType = "game_started"
	EventTurnChanged        EventType = "turn_changed"
	EventMoveSpinResolved   EventType = "move_spin_resolved"
	EventExtraSpinResolved  EventType = "extra_spin_resolved"
	EventRescueSpinResolved EventType = "rescue_spin_resolved"
	EventTardDrawResolved   EventType = "tard_draw_resolved"
	EventFinishBonusAwarded EventType = "finish_bonus_awarded"
)

// RoomEvent is the envelope every room broadcast travels in. Seq strictly
// increases within a room so receivers can detect drops and discard stale
// deliveries; no ordering is implied across rooms.
type RoomEvent struct {
	Type      EventType   `json:"type"`
	Room      string      `json:"room"`
	Seq       uint64      `json:"seq"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewRoomEvent creates a new sequenced room event
func NewRoomEvent(eventType EventType, room string, seq uint64, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		Room:      room,
		Seq:       seq,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// LobbyUpdatePayload is sent whenever the roster or host changes before play
type LobbyUpdatePayload struct {
	Players  []PlayerInfo `json:"players"`
	HostID   int          `json:"hostId"`
	Code     string       `json:"code"`
	CanStart bool         `json:"canStart"`
}

// GameStartedPayload is sent once when the room enters play
type GameStartedPayload struct {
	Players         []PlayerInfo `json:"players"`
	CurrentPlayerID int          `json:"currentPlayerId"`
}

// TurnChangedPayload is sent when the turn passes to the next seat
type TurnChangedPayload struct {
	CurrentPlayerID int `json:"currentPlayerId"`
}

// MoveSpinResolvedPayload carries the authoritative result of a movement spin
type MoveSpinResolvedPayload struct {
	PlayerID int  `json:"playerId"`
	Roll     int  `json:"roll"`
	Position int  `json:"position"`
	Payday   bool `json:"payday"` // true when the move completed a lap
}

// ExtraSpinResolvedPayload carries the result of a bonus spin
type ExtraSpinResolvedPayload struct {
	PlayerID   int `json:"playerId"`
	Roll       int `json:"roll"`
	Amount     int `json:"amount"`
	Multiplier int `json:"multiplier"`
}

// RescueSpinResolvedPayload carries the result of a bankruptcy-recovery spin
type RescueSpinResolvedPayload struct {
	PlayerID int `json:"playerId"`
	Roll     int `json:"roll"`
}

// TardDrawResolvedPayload carries a drawn card and the count left in the pile
type TardDrawResolvedPayload struct {
	PlayerID  int    `json:"playerId"`
	Card      string `json:"card"`
	Remaining int    `json:"remaining"`
}

// FinishBonusAwardedPayload is sent at most once per room
type FinishBonusAwardedPayload struct {
	PlayerID int `json:"playerId"`
	Amount   int `json:"amount"`
}
