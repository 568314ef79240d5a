package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/partyline/partyline/internal/domain"
)

// disconnect transitions the session to leaving and, if it held a
// membership, runs cleanup. Returns immediately on a second call; a
// session leaves exactly once.
func (s *Session) disconnect(ctx context.Context) {
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return
	}
	s.live = false
	if s.state != stateJoined {
		s.mu.Unlock()
		return
	}
	s.state = stateLeaving
	ms, room := s.membership, s.room
	s.mu.Unlock()

	s.coord.cleanup(ctx, ms, room)
}

// cleanup announces the departure, removes the membership and retires
// the room if it emptied. Removal and the empty-check are one atomic
// step inside the membership manager, so a racing join either lands
// before this member left or observes the retirement; the directory
// delete fires at most once.
func (c *Coordinator) cleanup(ctx context.Context, ms *domain.Membership, room *domain.Room) {
	c.relay.Broadcast(room.ChannelKey, ms.ConnID, userDisconnected(ms.Profile, ms.ConnID))

	removed, retired := c.members.Remove(ms)
	if !removed {
		// Stale membership: another cleanup got here first.
		return
	}
	c.presence.MemberLeft(ctx, room.ID)
	if !retired {
		return
	}

	c.relay.ReleaseChannel(room.ChannelKey)
	if err := c.dir.DeleteRoom(ctx, room.ID); err != nil {
		log.Error().Err(err).Str("module", "app.cleanup").Str("room", room.RoomName).Msg("room delete failed")
	}
	c.presence.RoomRetired(ctx, room.ID)
	log.Info().Str("module", "app.cleanup").Str("room", room.RoomName).Uint("room_id", room.ID).Msg("room retired")
}
