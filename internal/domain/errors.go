package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrRoomAlreadyStarted  = errors.New("room already started")
	ErrRoomNotStarted      = errors.New("room has not started")
	ErrInsufficientPlayers = errors.New("not enough players to start")
	ErrNotHost             = errors.New("only host can perform this action")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrIdentityMismatch    = errors.New("connection does not own this seat")
	ErrActionInProgress    = errors.New("an action is still resolving")
	ErrNoDeckSeeded        = errors.New("no deck has been seeded")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrCapacityExceeded    = errors.New("room code space exhausted")
)
