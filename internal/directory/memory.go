package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partyline/partyline/internal/domain"
)

// MemoryDirectory keeps records in process memory. It is the default
// store when no database URL is configured, and the one tests use.
type MemoryDirectory struct {
	mu         sync.RWMutex
	byName     map[string]*domain.Room
	nextID     uint
	bcryptCost int
}

func NewMemoryDirectory(bcryptCost int) *MemoryDirectory {
	return &MemoryDirectory{
		byName:     make(map[string]*domain.Room),
		nextID:     1,
		bcryptCost: bcryptCost,
	}
}

func (d *MemoryDirectory) FindRoomByName(_ context.Context, name string) (*domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.byName[name]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (d *MemoryDirectory) CreateRoom(_ context.Context, input CreateRoomInput) (*domain.Room, error) {
	room, err := newRoom(input, d.bcryptCost)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byName[input.RoomName]; ok {
		return nil, ErrDuplicateRoom
	}
	room.ID = d.nextID
	d.nextID++
	room.CreatedAt = time.Now()
	d.byName[room.RoomName] = room
	log.Info().Str("module", "directory").Str("room", room.RoomName).Uint("id", room.ID).Msg("room created")
	return room, nil
}

func (d *MemoryDirectory) DeleteRoom(_ context.Context, id uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for name, room := range d.byName {
		if room.ID == id {
			delete(d.byName, name)
			log.Info().Str("module", "directory").Str("room", name).Uint("id", id).Msg("room deleted")
			return nil
		}
	}
	return ErrRoomNotFound
}

// ListRooms returns rooms newest first, matching the postgres adapter's
// created_at ordering. Creation times from one process can collide, so
// the id breaks ties.
func (d *MemoryDirectory) ListRooms(_ context.Context) ([]*domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*domain.Room, 0, len(d.byName))
	for _, room := range d.byName {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
