// Package app is the room-session core: admission, membership, event
// routing and room retirement. One routing process serves many
// connections; all per-room mutation funnels through the room's lock.
package app

import "errors"

var (
	ErrRoomFull         = errors.New("room is full")
	ErrPasswordRequired = errors.New("password required")
	ErrWrongPassword    = errors.New("wrong password")
	ErrAlreadyJoined    = errors.New("already in a room")
	ErrNotJoined        = errors.New("not in a room")
	ErrJoinRateLimited  = errors.New("too many join attempts")
)
