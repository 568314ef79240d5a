// Package directory is the room record store the session core consults.
// The core only ever finds, counts against and deletes records; creation
// belongs to the HTTP glue surface.
package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/partyline/partyline/internal/domain"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrDuplicateRoom = errors.New("room name already taken")
)

// CreateRoomInput mirrors the public create form. CreatorKey is chosen by
// the client and proves creator identity on later joins.
type CreateRoomInput struct {
	RoomName    string `json:"room_name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=255"`
	MaxPeople   int    `json:"max_people" validate:"omitempty,min=1,max=64"`
	IsPrivate   bool   `json:"is_private"`
	Password    string `json:"password" validate:"omitempty,min=1,max=72"`
	CreatorKey  string `json:"creator_key" validate:"required,max=72"`
}

type Directory interface {
	FindRoomByName(ctx context.Context, name string) (*domain.Room, error)
	CreateRoom(ctx context.Context, input CreateRoomInput) (*domain.Room, error)
	DeleteRoom(ctx context.Context, id uint) error
	ListRooms(ctx context.Context) ([]*domain.Room, error)
}

// newRoom builds the record shared by both adapters: bcrypt-hashed
// password for private rooms, uuid channel key distinct from the
// creator key.
func newRoom(input CreateRoomInput, bcryptCost int) (*domain.Room, error) {
	room := &domain.Room{
		RoomName:    input.RoomName,
		Description: input.Description,
		MaxPeople:   input.MaxPeople,
		IsPrivate:   input.IsPrivate,
		CreatorKey:  input.CreatorKey,
		ChannelKey:  uuid.NewString(),
	}
	if room.MaxPeople == 0 {
		room.MaxPeople = 4
	}
	if input.IsPrivate && input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		room.PasswordHash = string(hash)
	}
	return room, nil
}
