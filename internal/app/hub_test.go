package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowlife/internal/domain"
)

func newTestHub(t *testing.T) *RoomHub {
	t.Helper()
	hub := NewRoomHub(testConfig(), testLogger())
	t.Cleanup(hub.Close)
	return hub
}

func TestCreateRoomRegistersSession(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("host-conn")
	require.NoError(t, err)
	assert.Len(t, session.Code(), DefaultRoomCodeLength)
	assert.Equal(t, domain.PhaseLobby, session.Phase())
	assert.Equal(t, 0, session.PlayerCount(), "creating a room must not seat the host")

	got, err := hub.GetSession(session.Code())
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestGetSessionCaseInsensitive(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("host-conn")
	require.NoError(t, err)

	got, err := hub.GetSession(strings.ToLower(session.Code()))
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestGetSessionNotFound(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.GetSession("ZZZZZ")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomCodesUnique(t *testing.T) {
	hub := newTestHub(t)

	codes := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := hub.CreateRoom("host-conn")
		require.NoError(t, err)
		require.False(t, codes[session.Code()], "duplicate code %q", session.Code())
		codes[session.Code()] = true
	}
}

func TestDisconnectDestroysEmptiedRoom(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("conn-1")
	require.NoError(t, err)
	_, err = session.Join("conn-1", "solo", nil)
	require.NoError(t, err)

	hub.HandleDisconnect("conn-1")

	_, err = hub.GetSession(session.Code())
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestCreatorDisconnectDestroysUnjoinedRoom(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("creator")
	require.NoError(t, err)

	hub.HandleDisconnect("creator")

	_, err = hub.GetSession(session.Code())
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestHubCounts(t *testing.T) {
	hub := newTestHub(t)

	a, err := hub.CreateRoom("conn-1")
	require.NoError(t, err)
	_, err = hub.CreateRoom("conn-9")
	require.NoError(t, err)

	_, err = a.Join("conn-1", "p1", nil)
	require.NoError(t, err)
	_, err = a.Join("conn-2", "p2", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, hub.GetSessionCount())
	assert.Equal(t, 2, hub.GetTotalPlayerCount())
}
