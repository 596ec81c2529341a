package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby   Phase = "LOBBY"   // Waiting for players to join
	PhasePlaying Phase = "PLAYING" // Game in progress
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from the current phase to the
// target phase is valid. A room only ever moves LOBBY -> PLAYING; it is
// torn down rather than returned to the lobby.
func (p Phase) CanTransitionTo(target Phase) bool {
	return p == PhaseLobby && target == PhasePlaying
}
