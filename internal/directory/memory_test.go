package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateRoomDefaults(t *testing.T) {
	d := NewMemoryDirectory(bcrypt.MinCost)

	room, err := d.CreateRoom(context.Background(), CreateRoomInput{
		RoomName:   "lobby",
		CreatorKey: "ck",
	})
	require.NoError(t, err)
	require.Equal(t, 4, room.MaxPeople)
	require.NotEmpty(t, room.ChannelKey)
	require.NotEqual(t, room.CreatorKey, room.ChannelKey)
	require.Empty(t, room.PasswordHash)
}

func TestCreateRoomRejectsDuplicateName(t *testing.T) {
	d := NewMemoryDirectory(bcrypt.MinCost)

	_, err := d.CreateRoom(context.Background(), CreateRoomInput{RoomName: "lobby", CreatorKey: "ck"})
	require.NoError(t, err)
	_, err = d.CreateRoom(context.Background(), CreateRoomInput{RoomName: "lobby", CreatorKey: "other"})
	require.ErrorIs(t, err, ErrDuplicateRoom)
}

func TestPrivateRoomPasswordIsHashed(t *testing.T) {
	d := NewMemoryDirectory(bcrypt.MinCost)

	room, err := d.CreateRoom(context.Background(), CreateRoomInput{
		RoomName:   "secret",
		IsPrivate:  true,
		Password:   "hunter2",
		CreatorKey: "ck",
	})
	require.NoError(t, err)
	require.NotEmpty(t, room.PasswordHash)
	require.NotEqual(t, "hunter2", room.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte("hunter2")))
}

func TestPublicRoomNeverKeepsPasswordHash(t *testing.T) {
	d := NewMemoryDirectory(bcrypt.MinCost)

	room, err := d.CreateRoom(context.Background(), CreateRoomInput{
		RoomName:   "open",
		Password:   "ignored",
		CreatorKey: "ck",
	})
	require.NoError(t, err)
	require.Empty(t, room.PasswordHash)
}

func TestChannelKeysAreDistinctPerRoom(t *testing.T) {
	d := NewMemoryDirectory(bcrypt.MinCost)

	a, err := d.CreateRoom(context.Background(), CreateRoomInput{RoomName: "a", CreatorKey: "ck"})
	require.NoError(t, err)
	b, err := d.CreateRoom(context.Background(), CreateRoomInput{RoomName: "b", CreatorKey: "ck"})
	require.NoError(t, err)
	require.NotEqual(t, a.ChannelKey, b.ChannelKey)
}

func TestFindAndDelete(t *testing.T) {
	d := NewMemoryDirectory(bcrypt.MinCost)

	room, err := d.CreateRoom(context.Background(), CreateRoomInput{RoomName: "lobby", CreatorKey: "ck"})
	require.NoError(t, err)

	found, err := d.FindRoomByName(context.Background(), "lobby")
	require.NoError(t, err)
	require.Equal(t, room.ID, found.ID)

	require.NoError(t, d.DeleteRoom(context.Background(), room.ID))
	_, err = d.FindRoomByName(context.Background(), "lobby")
	require.ErrorIs(t, err, ErrRoomNotFound)
	require.ErrorIs(t, d.DeleteRoom(context.Background(), room.ID), ErrRoomNotFound)
}

func TestListRoomsNewestFirst(t *testing.T) {
	d := NewMemoryDirectory(bcrypt.MinCost)

	for _, name := range []string{"a", "b", "c"} {
		_, err := d.CreateRoom(context.Background(), CreateRoomInput{RoomName: name, CreatorKey: "ck"})
		require.NoError(t, err)
	}

	rooms, err := d.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	require.Equal(t, "c", rooms[0].RoomName)
	require.Equal(t, "b", rooms[1].RoomName)
	require.Equal(t, "a", rooms[2].RoomName)
}
