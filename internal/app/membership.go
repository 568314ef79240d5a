package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/partyline/partyline/internal/directory"
	"github.com/partyline/partyline/internal/domain"
)

// roomState is the live side of one room: its membership set and the
// retirement flag. Its mutex is the room's exclusive section; both
// check-then-act sequences (capacity on admit, empty-check on removal)
// run under it.
type roomState struct {
	mu      sync.Mutex
	room    *domain.Room
	members map[domain.ConnectionID]*domain.Membership
	retired bool
}

// MembershipManager owns the join/leave protocol for every room. Retired
// states stay in the map as tombstones; room ids are never reused, so a
// join racing the last disconnect always observes the retirement.
type MembershipManager struct {
	mu    sync.Mutex
	rooms map[uint]*roomState
}

func NewMembershipManager() *MembershipManager {
	return &MembershipManager{rooms: make(map[uint]*roomState)}
}

func (m *MembershipManager) state(room *domain.Room) *roomState {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.rooms[room.ID]
	if !ok {
		rs = &roomState{
			room:    room,
			members: make(map[domain.ConnectionID]*domain.Membership),
		}
		m.rooms[room.ID] = rs
	}
	return rs
}

// Admit creates a membership for the connection, or fails with
// ErrRoomFull at capacity. A room mid-retirement reads as gone.
func (m *MembershipManager) Admit(room *domain.Room, connID domain.ConnectionID, profile domain.Profile, isAdmin bool) (*domain.Membership, error) {
	rs := m.state(room)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.retired {
		return nil, directory.ErrRoomNotFound
	}
	if len(rs.members) >= rs.room.MaxPeople {
		return nil, ErrRoomFull
	}
	ms := &domain.Membership{
		ConnID:  connID,
		RoomID:  room.ID,
		Profile: profile,
		IsAdmin: isAdmin,
	}
	rs.members[connID] = ms
	log.Info().Str("module", "app.membership").Str("conn", string(connID)).Str("room", room.RoomName).Bool("admin", isAdmin).Msg("member admitted")
	return ms, nil
}

// Remove detaches the membership. Idempotent: a second removal of the
// same connection is a no-op because disconnect handling may race
// cleanup. It reports whether this call did the removal and whether it
// also retired the room (last member gone) -- retirement is decided
// exactly once, under the room lock.
func (m *MembershipManager) Remove(ms *domain.Membership) (removed, retired bool) {
	m.mu.Lock()
	rs, ok := m.rooms[ms.RoomID]
	m.mu.Unlock()
	if !ok {
		return false, false
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if _, ok := rs.members[ms.ConnID]; !ok {
		return false, false
	}
	delete(rs.members, ms.ConnID)
	if len(rs.members) == 0 && !rs.retired {
		rs.retired = true
		retired = true
	}
	log.Info().Str("module", "app.membership").Str("conn", string(ms.ConnID)).Uint("room_id", ms.RoomID).Bool("retired", retired).Msg("member removed")
	return true, retired
}

// UpdateProfile swaps the display fields in place and returns the
// previous pair so the caller can announce old and new values.
func (m *MembershipManager) UpdateProfile(ms *domain.Membership, profile domain.Profile) domain.Profile {
	m.mu.Lock()
	rs, ok := m.rooms[ms.RoomID]
	m.mu.Unlock()
	if !ok {
		prev := ms.Profile
		ms.Profile = profile
		return prev
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	prev := ms.Profile
	ms.Profile = profile
	return prev
}

// Count reports the live member count; zero for unknown or retired rooms.
func (m *MembershipManager) Count(roomID uint) int {
	m.mu.Lock()
	rs, ok := m.rooms[roomID]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.members)
}
