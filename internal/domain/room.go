package domain

import "time"

// RoomSettings holds configurable room parameters
type RoomSettings struct {
	MinPlayers int `json:"minPlayers"`
	MaxPlayers int `json:"maxPlayers"`
}

// DefaultRoomSettings returns the default room settings
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MinPlayers: 2,
		MaxPlayers: 8,
	}
}

// Room is one isolated game session. Methods are plain state transitions;
// callers are expected to serialize all access to a given Room (the session
// layer holds one mutex per room for the duration of every call).
type Room struct {
	Code         string
	HostID       string
	Phase        Phase
	Players      []*Player // insertion order is turn order
	TurnIndex    int
	SpinLocked   bool
	Deck         Deck
	BonusAwarded bool
	Settings     RoomSettings
	CreatedAt    time.Time

	seq        uint64
	nextSeatID int
}

// NewRoom creates a room in the lobby phase with hostConnID as host. The
// host is not seated; joining is a separate, explicit step.
func NewRoom(code, hostConnID string, settings RoomSettings) *Room {
	return &Room{
		Code:       code,
		HostID:     hostConnID,
		Phase:      PhaseLobby,
		Players:    make([]*Player, 0, settings.MaxPlayers),
		Settings:   settings,
		CreatedAt:  time.Now(),
		nextSeatID: 1,
	}
}

// AddPlayer appends a new seat for connID. Seat ids are small integers and
// are never reused within a room.
func (r *Room) AddPlayer(connID, name string, character Character) (*Player, error) {
	if r.Phase != PhaseLobby {
		return nil, ErrRoomAlreadyStarted
	}
	if len(r.Players) >= r.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}
	if name == "" {
		name = "Player"
	}

	player := NewPlayer(connID, r.nextSeatID, name, character)
	r.nextSeatID++
	r.Players = append(r.Players, player)

	return player, nil
}

// RemovePlayer splices the seat owned by connID out of the turn order and
// returns it, or nil if the connection holds no seat. In the lobby the host
// role migrates to the earliest-joined remaining player; mid-game the turn
// index is rebased so it stays within the shrunken roster.
func (r *Room) RemovePlayer(connID string) *Player {
	var removed *Player
	for i, p := range r.Players {
		if p.ConnID == connID {
			removed = p
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}

	if r.HostID == connID && r.Phase == PhaseLobby {
		r.HostID = ""
		if len(r.Players) > 0 {
			r.HostID = r.Players[0].ConnID
		}
	}

	if r.Phase == PhasePlaying && len(r.Players) > 0 {
		r.TurnIndex %= len(r.Players)
	}

	return removed
}

// Empty reports whether the room has no seated players
func (r *Room) Empty() bool {
	return len(r.Players) == 0
}

// Start moves the room into the playing phase. Only the host may start, and
// only with enough players seated.
func (r *Room) Start(connID string) error {
	if r.Phase != PhaseLobby {
		return ErrRoomAlreadyStarted
	}
	if r.HostID != connID {
		return ErrNotHost
	}
	if len(r.Players) < r.Settings.MinPlayers {
		return ErrInsufficientPlayers
	}

	r.Phase = PhasePlaying
	r.TurnIndex = 0
	r.SpinLocked = false
	r.BonusAwarded = false

	return nil
}

// PlayerByConnID returns the seat owned by the given connection
func (r *Room) PlayerByConnID(connID string) *Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// PlayerByDisplayID returns the seat with the given display id
func (r *Room) PlayerByDisplayID(displayID int) *Player {
	for _, p := range r.Players {
		if p.DisplayID == displayID {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the seat holding the turn, or nil outside of play
func (r *Room) CurrentPlayer() *Player {
	if r.Phase != PhasePlaying || len(r.Players) == 0 {
		return nil
	}
	return r.Players[r.TurnIndex]
}

// AuthorizeTurn checks that connID, claiming the seat displayID, may begin
// a turn-consuming action. The error kind lets a client tell "wait"
// (ErrActionInProgress) from "error".
func (r *Room) AuthorizeTurn(connID string, displayID int) error {
	if r.Phase != PhasePlaying {
		return ErrRoomNotStarted
	}
	seat := r.PlayerByDisplayID(displayID)
	if seat == nil {
		return ErrPlayerNotFound
	}
	if seat.ConnID != connID {
		return ErrIdentityMismatch
	}
	if r.Players[r.TurnIndex] != seat {
		return ErrNotYourTurn
	}
	if r.SpinLocked {
		return ErrActionInProgress
	}
	return nil
}

// AuthorizeSideAction checks that connID, claiming the seat displayID, may
// invoke a non-turn-consuming action. With restricted set, only the seat
// currently holding the turn qualifies.
func (r *Room) AuthorizeSideAction(connID string, displayID int, restricted bool) error {
	if r.Phase != PhasePlaying {
		return ErrRoomNotStarted
	}
	seat := r.PlayerByDisplayID(displayID)
	if seat == nil {
		return ErrPlayerNotFound
	}
	if seat.ConnID != connID {
		return ErrIdentityMismatch
	}
	if restricted && r.Players[r.TurnIndex] != seat {
		return ErrNotYourTurn
	}
	return nil
}

// AdvanceTurn releases the spin lock and passes the turn to the next seat
// in rotation, returning the seat now on turn.
func (r *Room) AdvanceTurn() *Player {
	r.SpinLocked = false
	if r.Phase != PhasePlaying || len(r.Players) == 0 {
		return nil
	}
	r.TurnIndex = (r.TurnIndex + 1) % len(r.Players)
	return r.Players[r.TurnIndex]
}

// ClaimBonus flips the one-shot first-finisher latch. Only the first call
// per room reports true.
func (r *Room) ClaimBonus() bool {
	if r.BonusAwarded {
		return false
	}
	r.BonusAwarded = true
	return true
}

// NextSeq increments and returns the room's event sequence number
func (r *Room) NextSeq() uint64 {
	r.seq++
	return r.seq
}

// Seq returns the last sequence number handed out
func (r *Room) Seq() uint64 {
	return r.seq
}

// CanStart checks if the room can be started
func (r *Room) CanStart() bool {
	return r.Phase == PhaseLobby && len(r.Players) >= r.Settings.MinPlayers
}

// PlayerInfoList returns the broadcast view of every seat in turn order
func (r *Room) PlayerInfoList() []PlayerInfo {
	players := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p.ToInfo())
	}
	return players
}

// HostDisplayID returns the display id of the host's seat, or 0 if the
// host has not joined.
func (r *Room) HostDisplayID() int {
	if p := r.PlayerByConnID(r.HostID); p != nil {
		return p.DisplayID
	}
	return 0
}

// GetLobbyState returns the current lobby state for broadcasting
func (r *Room) GetLobbyState() *LobbyUpdatePayload {
	return &LobbyUpdatePayload{
		Players:  r.PlayerInfoList(),
		HostID:   r.HostDisplayID(),
		Code:     r.Code,
		CanStart: r.CanStart(),
	}
}
