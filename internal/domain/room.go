// Package domain contains entity without logic, just meta-data
package domain

import "time"

// Room is the directory record for one named rendezvous room.
// PasswordHash is set iff the room is private and a password was chosen.
// CreatorKey proves room-creator identity on join; ChannelKey is the
// unguessable broadcast-channel identifier handed out after admission.
// The two are generated independently and are never equal.
type Room struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RoomName     string    `json:"room_name" gorm:"uniqueIndex"`
	Description  string    `json:"description"`
	MaxPeople    int       `json:"max_people"`
	IsPrivate    bool      `json:"is_private"`
	PasswordHash string    `json:"-"`
	CreatorKey   string    `json:"-"`
	ChannelKey   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
