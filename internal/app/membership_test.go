package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/partyline/partyline/internal/directory"
	"github.com/partyline/partyline/internal/domain"
)

func testRoom(id uint, name string, maxPeople int) *domain.Room {
	return &domain.Room{
		ID:         id,
		RoomName:   name,
		MaxPeople:  maxPeople,
		CreatorKey: "ck",
		ChannelKey: "ch-" + name,
	}
}

func TestAdmitEnforcesCapacity(t *testing.T) {
	m := NewMembershipManager()
	room := testRoom(1, "lobby", 2)

	_, err := m.Admit(room, "a", domain.Profile{Name: "ann"}, false)
	require.NoError(t, err)
	_, err = m.Admit(room, "b", domain.Profile{Name: "bob"}, false)
	require.NoError(t, err)
	_, err = m.Admit(room, "c", domain.Profile{Name: "cat"}, false)
	require.ErrorIs(t, err, ErrRoomFull)
	require.Equal(t, 2, m.Count(room.ID))
}

func TestRemoveIsIdempotent(t *testing.T) {
	m := NewMembershipManager()
	room := testRoom(1, "lobby", 4)

	ms, err := m.Admit(room, "a", domain.Profile{Name: "ann"}, false)
	require.NoError(t, err)
	_, err = m.Admit(room, "b", domain.Profile{Name: "bob"}, false)
	require.NoError(t, err)

	removed, retired := m.Remove(ms)
	require.True(t, removed)
	require.False(t, retired)

	removed, retired = m.Remove(ms)
	require.False(t, removed)
	require.False(t, retired)

	require.Equal(t, 1, m.Count(room.ID))
}

func TestLastRemovalRetiresExactlyOnce(t *testing.T) {
	m := NewMembershipManager()
	room := testRoom(1, "lobby", 4)

	ms, err := m.Admit(room, "a", domain.Profile{Name: "ann"}, false)
	require.NoError(t, err)

	removed, retired := m.Remove(ms)
	require.True(t, removed)
	require.True(t, retired)

	removed, retired = m.Remove(ms)
	require.False(t, removed)
	require.False(t, retired)
}

func TestAdmitAgainstRetiredRoomReadsAsGone(t *testing.T) {
	m := NewMembershipManager()
	room := testRoom(1, "lobby", 4)

	ms, err := m.Admit(room, "a", domain.Profile{Name: "ann"}, false)
	require.NoError(t, err)
	_, retired := m.Remove(ms)
	require.True(t, retired)

	_, err = m.Admit(room, "b", domain.Profile{Name: "bob"}, false)
	require.ErrorIs(t, err, directory.ErrRoomNotFound)
}

func TestUpdateProfileReturnsPrevious(t *testing.T) {
	m := NewMembershipManager()
	room := testRoom(1, "lobby", 4)

	ms, err := m.Admit(room, "a", domain.Profile{Name: "ann", Color: "red"}, false)
	require.NoError(t, err)

	prev := m.UpdateProfile(ms, domain.Profile{Name: "annie", Color: "blue"})
	require.Equal(t, domain.Profile{Name: "ann", Color: "red"}, prev)
	require.Equal(t, domain.Profile{Name: "annie", Color: "blue"}, ms.Profile)
}

func TestAdmitDecidesAdminOnce(t *testing.T) {
	m := NewMembershipManager()
	room := testRoom(1, "lobby", 4)

	ms, err := m.Admit(room, "a", domain.Profile{Name: "ann"}, true)
	require.NoError(t, err)
	require.True(t, ms.IsAdmin)

	m.UpdateProfile(ms, domain.Profile{Name: "other"})
	require.True(t, ms.IsAdmin)
}
