package domain

import (
	"fmt"
	"testing"
)

func testCharacter() Character {
	return Character{Name: "Slum Lord", Payday: 2500}
}

// seatPlayers fills a lobby room with n players, conn ids conn-1..conn-n,
// with conn-1 as host.
func seatPlayers(t *testing.T, r *Room, n int) []*Player {
	t.Helper()
	players := make([]*Player, 0, n)
	for i := 1; i <= n; i++ {
		p, err := r.AddPlayer(fmt.Sprintf("conn-%d", i), fmt.Sprintf("p%d", i), testCharacter())
		if err != nil {
			t.Fatalf("AddPlayer %d: %v", i, err)
		}
		players = append(players, p)
	}
	return players
}

func newLobbyRoom() *Room {
	return NewRoom("ABCDE", "conn-1", DefaultRoomSettings())
}

func TestAddPlayer(t *testing.T) {
	r := newLobbyRoom()

	p1, err := r.AddPlayer("conn-1", "", testCharacter())
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if p1.Name != "Player" {
		t.Errorf("empty name = %q, want default %q", p1.Name, "Player")
	}
	if p1.DisplayID != 1 {
		t.Errorf("first DisplayID = %d, want 1", p1.DisplayID)
	}

	p2, err := r.AddPlayer("conn-2", "bob", testCharacter())
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if p2.DisplayID != 2 {
		t.Errorf("second DisplayID = %d, want 2", p2.DisplayID)
	}
	if r.Players[0] != p1 || r.Players[1] != p2 {
		t.Error("players not kept in insertion order")
	}
}

func TestAddPlayerRoomFull(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, r.Settings.MaxPlayers)

	if _, err := r.AddPlayer("conn-extra", "late", testCharacter()); err != ErrRoomFull {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
}

func TestAddPlayerAfterStart(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, 2)
	if err := r.Start("conn-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := r.AddPlayer("conn-3", "late", testCharacter()); err != ErrRoomAlreadyStarted {
		t.Fatalf("err = %v, want ErrRoomAlreadyStarted", err)
	}
}

func TestSeatIDsNeverReused(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, 2)

	r.RemovePlayer("conn-2")
	p, err := r.AddPlayer("conn-3", "next", testCharacter())
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if p.DisplayID != 3 {
		t.Errorf("DisplayID after removal = %d, want 3", p.DisplayID)
	}
}

func TestStart(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, 2)

	if err := r.Start("conn-2"); err != ErrNotHost {
		t.Fatalf("non-host start: err = %v, want ErrNotHost", err)
	}
	if err := r.Start("conn-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.Phase != PhasePlaying {
		t.Errorf("Phase = %v, want PLAYING", r.Phase)
	}
	if r.TurnIndex != 0 {
		t.Errorf("TurnIndex = %d, want 0", r.TurnIndex)
	}
	if r.SpinLocked {
		t.Error("SpinLocked true after start")
	}
	if err := r.Start("conn-1"); err != ErrRoomAlreadyStarted {
		t.Fatalf("double start: err = %v, want ErrRoomAlreadyStarted", err)
	}
}

func TestStartInsufficientPlayers(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, 1)

	if err := r.Start("conn-1"); err != ErrInsufficientPlayers {
		t.Fatalf("err = %v, want ErrInsufficientPlayers", err)
	}
}

func TestRemovePlayerHostMigration(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, 3)

	r.RemovePlayer("conn-1")

	if r.HostID != "conn-2" {
		t.Errorf("HostID = %q, want earliest-joined remaining %q", r.HostID, "conn-2")
	}
	if len(r.Players) != 2 {
		t.Errorf("len(Players) = %d, want 2", len(r.Players))
	}
}

func TestRemoveUnjoinedHostMigratesRole(t *testing.T) {
	r := NewRoom("ABCDE", "creator", DefaultRoomSettings())
	seatPlayers(t, r, 2)

	if removed := r.RemovePlayer("creator"); removed != nil {
		t.Fatalf("removed = %v, want nil for unseated host", removed)
	}
	if r.HostID != "conn-1" {
		t.Errorf("HostID = %q, want %q", r.HostID, "conn-1")
	}
}

func TestRemovePlayerTurnRebase(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, 3)
	if err := r.Start("conn-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	r.TurnIndex = 2
	r.RemovePlayer("conn-3")

	if r.TurnIndex != 0 {
		t.Errorf("TurnIndex = %d, want 0 after rebase", r.TurnIndex)
	}
}

func TestTurnIndexInvariantUnderRemovals(t *testing.T) {
	r := newLobbyRoom()
	seatPlayers(t, r, 5)
	if err := r.Start("conn-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, conn := range []string{"conn-4", "conn-1", "conn-3"} {
		r.AdvanceTurn()
		r.RemovePlayer(conn)
		if len(r.Players) == 0 {
			break
		}
		if r.TurnIndex < 0 || r.TurnIndex >= len(r.Players) {
			t.Fatalf("after removing %s: TurnIndex = %d out of [0, %d)", conn, r.TurnIndex, len(r.Players))
		}
	}
}

func TestAuthorizeTurn(t *testing.T) {
	r := newLobbyRoom()
	players := seatPlayers(t, r, 2)

	if err := r.AuthorizeTurn("conn-1", players[0].DisplayID); err != ErrRoomNotStarted {
		t.Fatalf("lobby: err = %v, want ErrRoomNotStarted", err)
	}

	if err := r.Start("conn-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := r.AuthorizeTurn("conn-2", players[1].DisplayID); err != ErrNotYourTurn {
		t.Errorf("off-turn seat: err = %v, want ErrNotYourTurn", err)
	}
	if err := r.AuthorizeTurn("conn-2", players[0].DisplayID); err != ErrIdentityMismatch {
		t.Errorf("foreign connection claiming seat: err = %v, want ErrIdentityMismatch", err)
	}
	if err := r.AuthorizeTurn("conn-1", 99); err != ErrPlayerNotFound {
		t.Errorf("unknown seat: err = %v, want ErrPlayerNotFound", err)
	}
	if err := r.AuthorizeTurn("conn-1", players[0].DisplayID); err != nil {
		t.Errorf("turn holder: err = %v, want nil", err)
	}

	r.SpinLocked = true
	if err := r.AuthorizeTurn("conn-1", players[0].DisplayID); err != ErrActionInProgress {
		t.Errorf("locked: err = %v, want ErrActionInProgress", err)
	}
}

func TestAuthorizeSideAction(t *testing.T) {
	r := newLobbyRoom()
	players := seatPlayers(t, r, 2)
	if err := r.Start("conn-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.SpinLocked = true

	// The spin lock never blocks side actions
	if err := r.AuthorizeSideAction("conn-1", players[0].DisplayID, true); err != nil {
		t.Errorf("turn holder restricted: err = %v, want nil", err)
	}
	if err := r.AuthorizeSideAction("conn-2", players[1].DisplayID, true); err != ErrNotYourTurn {
		t.Errorf("off-turn restricted: err = %v, want ErrNotYourTurn", err)
	}
	if err := r.AuthorizeSideAction("conn-2", players[1].DisplayID, false); err != nil {
		t.Errorf("off-turn unrestricted: err = %v, want nil", err)
	}
	if err := r.AuthorizeSideAction("conn-1", 99, false); err != ErrPlayerNotFound {
		t.Errorf("unknown seat: err = %v, want ErrPlayerNotFound", err)
	}
	if err := r.AuthorizeSideAction("conn-2", players[0].DisplayID, false); err != ErrIdentityMismatch {
		t.Errorf("foreign connection claiming seat: err = %v, want ErrIdentityMismatch", err)
	}
}

func TestAdvanceTurnRotation(t *testing.T) {
	r := newLobbyRoom()
	players := seatPlayers(t, r, 3)
	if err := r.Start("conn-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.SpinLocked = true

	want := []int{players[1].DisplayID, players[2].DisplayID, players[0].DisplayID}
	for i, id := range want {
		next := r.AdvanceTurn()
		if next == nil {
			t.Fatalf("advance %d returned nil", i+1)
		}
		if next.DisplayID != id {
			t.Errorf("advance %d: on turn %d, want %d", i+1, next.DisplayID, id)
		}
	}
	if r.SpinLocked {
		t.Error("SpinLocked still held after advance")
	}
}

func TestClaimBonusOnce(t *testing.T) {
	r := newLobbyRoom()

	if !r.ClaimBonus() {
		t.Fatal("first claim rejected")
	}
	if r.ClaimBonus() {
		t.Fatal("second claim accepted")
	}
}

func TestNextSeqStrictlyIncreasing(t *testing.T) {
	r := newLobbyRoom()

	last := r.Seq()
	for i := 0; i < 100; i++ {
		seq := r.NextSeq()
		if seq <= last {
			t.Fatalf("NextSeq = %d after %d, want strictly increasing", seq, last)
		}
		last = seq
	}
}

func TestPhaseTransitions(t *testing.T) {
	if !PhaseLobby.CanTransitionTo(PhasePlaying) {
		t.Error("LOBBY -> PLAYING should be allowed")
	}
	if PhasePlaying.CanTransitionTo(PhaseLobby) {
		t.Error("PLAYING -> LOBBY must never be allowed")
	}
}
