package ws

import (
	"encoding/json"
	"errors"
	"time"

	"lowlife/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom       MessageType = "create_room"
	MsgJoinRoom         MessageType = "join_room"
	MsgStartGame        MessageType = "start_game"
	MsgMoveSpin         MessageType = "move_spin"
	MsgExtraSpin        MessageType = "extra_spin"
	MsgRescueSpin       MessageType = "rescue_spin"
	MsgTardDraw         MessageType = "tard_draw"
	MsgClaimFinishBonus MessageType = "claim_finish_bonus"
	MsgPing             MessageType = "ping"
)

// Server → Client message types. Room broadcasts travel as domain.RoomEvent
// envelopes; these cover the direct caller-only frames.
const (
	MsgAck  MessageType = "ack"
	MsgPong MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a direct message from server to one client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateRoomPayload is the payload for create_room. Name is only used when
// the server is configured to auto-seat the creator.
type CreateRoomPayload struct {
	Name string `json:"name,omitempty"`
}

// JoinRoomPayload is the payload for join_room
type JoinRoomPayload struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	DeckSeed []string `json:"deckSeed,omitempty"`
}

// StartGamePayload is the payload for start_game
type StartGamePayload struct {
	Code string `json:"code"`
}

// ActionPayload is the payload for the in-game action requests
type ActionPayload struct {
	Code       string `json:"code"`
	PlayerID   int    `json:"playerId"`
	Multiplier int    `json:"multiplier,omitempty"`
}

// AckPayload is the direct acknowledgement every request yields
type AckPayload struct {
	Op    MessageType `json:"op"`
	OK    bool        `json:"ok"`
	Error *ErrorInfo  `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeRoomNotFound        = "ROOM_NOT_FOUND"
	ErrCodeRoomFull            = "ROOM_FULL"
	ErrCodeRoomAlreadyStarted  = "ROOM_ALREADY_STARTED"
	ErrCodeRoomNotStarted      = "ROOM_NOT_STARTED"
	ErrCodeNotHost             = "NOT_HOST"
	ErrCodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	ErrCodeNotYourTurn         = "NOT_YOUR_TURN"
	ErrCodeIdentityMismatch    = "IDENTITY_MISMATCH"
	ErrCodeActionInProgress    = "ACTION_IN_PROGRESS"
	ErrCodeNoDeckSeeded        = "NO_DECK_SEEDED"
	ErrCodeCapacityExceeded    = "CAPACITY_EXCEEDED"
	ErrCodePlayerNotFound      = "PLAYER_NOT_FOUND"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// errorCode maps a domain error to its stable wire code
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return ErrCodeRoomNotFound
	case errors.Is(err, domain.ErrRoomFull):
		return ErrCodeRoomFull
	case errors.Is(err, domain.ErrRoomAlreadyStarted):
		return ErrCodeRoomAlreadyStarted
	case errors.Is(err, domain.ErrRoomNotStarted):
		return ErrCodeRoomNotStarted
	case errors.Is(err, domain.ErrNotHost):
		return ErrCodeNotHost
	case errors.Is(err, domain.ErrInsufficientPlayers):
		return ErrCodeInsufficientPlayers
	case errors.Is(err, domain.ErrNotYourTurn):
		return ErrCodeNotYourTurn
	case errors.Is(err, domain.ErrIdentityMismatch):
		return ErrCodeIdentityMismatch
	case errors.Is(err, domain.ErrActionInProgress):
		return ErrCodeActionInProgress
	case errors.Is(err, domain.ErrNoDeckSeeded):
		return ErrCodeNoDeckSeeded
	case errors.Is(err, domain.ErrCapacityExceeded):
		return ErrCodeCapacityExceeded
	case errors.Is(err, domain.ErrPlayerNotFound):
		return ErrCodePlayerNotFound
	default:
		return ErrCodeInternalError
	}
}
