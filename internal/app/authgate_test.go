package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/partyline/partyline/internal/domain"
)

const gateDelay = 50 * time.Millisecond

func privateRoom(t *testing.T, password string) *domain.Room {
	t.Helper()
	room := &domain.Room{
		ID:         1,
		RoomName:   "secret",
		MaxPeople:  4,
		IsPrivate:  true,
		CreatorKey: "creator-key",
		ChannelKey: "channel-key",
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		room.PasswordHash = string(hash)
	}
	return room
}

func TestAuthorizeCreatorKeySkipsPasswordAndDelay(t *testing.T) {
	gate := NewAuthGate(gateDelay)
	room := privateRoom(t, "hunter2")

	start := time.Now()
	isAdmin, err := gate.Authorize(context.Background(), room, "creator-key", "")
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.True(t, isAdmin)
	require.Less(t, elapsed, gateDelay)
}

func TestAuthorizePublicRoomAdmitsImmediately(t *testing.T) {
	gate := NewAuthGate(gateDelay)
	room := &domain.Room{ID: 2, RoomName: "lobby", MaxPeople: 4, CreatorKey: "ck", ChannelKey: "ch"}

	start := time.Now()
	isAdmin, err := gate.Authorize(context.Background(), room, "", "")
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.False(t, isAdmin)
	require.Less(t, elapsed, gateDelay)
}

func TestAuthorizeEmptyPasswordIsPasswordRequired(t *testing.T) {
	gate := NewAuthGate(gateDelay)
	room := privateRoom(t, "hunter2")

	start := time.Now()
	_, err := gate.Authorize(context.Background(), room, "", "")
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrPasswordRequired)
	require.GreaterOrEqual(t, elapsed, gateDelay)
}

func TestAuthorizeWrongPasswordAfterDelay(t *testing.T) {
	gate := NewAuthGate(gateDelay)
	room := privateRoom(t, "hunter2")

	start := time.Now()
	_, err := gate.Authorize(context.Background(), room, "", "x")
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrWrongPassword)
	require.GreaterOrEqual(t, elapsed, gateDelay)
}

func TestAuthorizeCorrectPasswordAdmitsNonAdmin(t *testing.T) {
	gate := NewAuthGate(gateDelay)
	room := privateRoom(t, "hunter2")

	start := time.Now()
	isAdmin, err := gate.Authorize(context.Background(), room, "", "hunter2")
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.False(t, isAdmin)
	require.GreaterOrEqual(t, elapsed, gateDelay)
}

func TestAuthorizePrivateRoomWithoutPasswordSetRejectsGuesses(t *testing.T) {
	gate := NewAuthGate(gateDelay)
	room := privateRoom(t, "")

	_, err := gate.Authorize(context.Background(), room, "", "anything")
	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthorizeCanceledContext(t *testing.T) {
	gate := NewAuthGate(time.Second)
	room := privateRoom(t, "hunter2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gate.Authorize(ctx, room, "", "hunter2")
	require.ErrorIs(t, err, context.Canceled)
}
