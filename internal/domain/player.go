package domain

import "time"

// Character is the persona dealt to a player on join. Payday is collected
// each time the player completes a lap of the board.
type Character struct {
	Name   string `json:"name"`
	Payday int    `json:"payday"`
}

// Player represents one seat in a room. Seats are never reused: a rejoin
// after disconnect creates a fresh Player with a fresh display id.
type Player struct {
	ConnID    string    `json:"-"`
	DisplayID int       `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Money     int       `json:"money"`
	Family    int       `json:"family"`
	Character Character `json:"character"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given connection binding and seat id
func NewPlayer(connID string, displayID int, name string, character Character) *Player {
	return &Player{
		ConnID:    connID,
		DisplayID: displayID,
		Name:      name,
		Character: character,
		JoinedAt:  time.Now(),
	}
}

// PlayerInfo is the broadcast view of a player
type PlayerInfo struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Money     int       `json:"money"`
	Family    int       `json:"family"`
	Character Character `json:"character"`
}

// ToInfo converts a Player to its broadcast view
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:        p.DisplayID,
		Name:      p.Name,
		Position:  p.Position,
		Money:     p.Money,
		Family:    p.Family,
		Character: p.Character,
	}
}
