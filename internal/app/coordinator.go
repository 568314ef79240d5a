package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/partyline/partyline/internal/directory"
	"github.com/partyline/partyline/internal/domain"
)

// Join attempts per connection; over-limit intents never reach the
// directory.
const (
	joinEvery = time.Second
	joinBurst = 5
)

type sessionState int

const (
	stateUnjoined sessionState = iota
	statePendingAuth
	stateJoined
	stateLeaving
)

// Coordinator is the process-owned registry of live sessions. It
// composes the gate, the membership manager and the relay; each
// connection talks to it through its Session.
type Coordinator struct {
	dir      directory.Directory
	gate     *AuthGate
	members  *MembershipManager
	relay    *Relay
	presence directory.PresenceMirror

	mu       sync.Mutex
	sessions map[domain.ConnectionID]*Session
}

func NewCoordinator(dir directory.Directory, gate *AuthGate, members *MembershipManager, relay *Relay, presence directory.PresenceMirror) *Coordinator {
	return &Coordinator{
		dir:      dir,
		gate:     gate,
		members:  members,
		relay:    relay,
		presence: presence,
		sessions: make(map[domain.ConnectionID]*Session),
	}
}

// Session is the per-connection facade. A connection starts unjoined,
// may cycle through pending-auth back to unjoined on rejection, and
// leaves exactly once.
type Session struct {
	coord   *Coordinator
	connID  domain.ConnectionID
	limiter *rate.Limiter

	mu         sync.Mutex
	state      sessionState
	live       bool
	membership *domain.Membership
	room       *domain.Room
}

// OpenSession binds a freshly connected transport to the coordinator
// and makes it addressable for single-target events.
func (c *Coordinator) OpenSession(id domain.ConnectionID, sender Sender) *Session {
	s := &Session{
		coord:   c,
		connID:  id,
		limiter: rate.NewLimiter(rate.Every(joinEvery), joinBurst),
		live:    true,
	}
	c.relay.Register(id, sender)
	c.mu.Lock()
	c.sessions[id] = s
	c.mu.Unlock()
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Msg("session opened")
	return s
}

// CloseSession runs disconnect cleanup and drops the session. Safe to
// call more than once for the same connection.
func (c *Coordinator) CloseSession(ctx context.Context, id domain.ConnectionID) {
	c.mu.Lock()
	s, ok := c.sessions[id]
	delete(c.sessions, id)
	c.mu.Unlock()
	if !ok {
		return
	}
	s.disconnect(ctx)
	c.relay.Unregister(id)
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Msg("session closed")
}

// Shutdown drops every live session without per-room teardown. Rooms
// are not retired here; a restart rebuilds live state from scratch.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	ids := make([]domain.ConnectionID, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	c.sessions = make(map[domain.ConnectionID]*Session)
	c.mu.Unlock()
	for _, id := range ids {
		c.relay.Unregister(id)
	}
	log.Info().Str("module", "app.coordinator").Int("dropped", len(ids)).Msg("coordinator shut down")
}

// MemberCount exposes the authoritative live count for the HTTP surface.
func (c *Coordinator) MemberCount(roomID uint) int {
	return c.members.Count(roomID)
}

// JoinRoom handles one join intent end to end: directory lookup, gate,
// admission, channel subscription and the join announcements. Every
// failure is reported to this connection only and leaves it free to
// retry.
func (s *Session) JoinRoom(ctx context.Context, roomName string, profile domain.Profile, creatorKey, password string) error {
	c := s.coord
	if !s.limiter.Allow() {
		c.relay.ToConnection(s.connID, serverError("too many join attempts"))
		return ErrJoinRateLimited
	}

	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return nil
	}
	if s.state != stateUnjoined {
		s.mu.Unlock()
		c.relay.ToConnection(s.connID, serverError("already in a room"))
		return ErrAlreadyJoined
	}
	s.state = statePendingAuth
	s.mu.Unlock()

	room, err := c.dir.FindRoomByName(ctx, roomName)
	if err != nil {
		s.reject()
		if errors.Is(err, directory.ErrRoomNotFound) {
			c.relay.ToConnection(s.connID, serverError(fmt.Sprintf("No room named %s", roomName)))
		} else {
			log.Error().Err(err).Str("module", "app.coordinator").Str("room", roomName).Msg("directory lookup failed")
			c.relay.ToConnection(s.connID, serverError("directory unavailable"))
		}
		return err
	}

	isAdmin, err := c.gate.Authorize(ctx, room, creatorKey, password)
	if err != nil {
		s.reject()
		switch {
		case errors.Is(err, ErrPasswordRequired):
			c.relay.ToConnection(s.connID, passwordRequired())
		case errors.Is(err, ErrWrongPassword):
			c.relay.ToConnection(s.connID, wrongPassword())
		}
		return err
	}

	s.mu.Lock()
	if !s.live {
		// Connection went away while the gate was deliberating; no
		// membership, no announcements.
		s.mu.Unlock()
		return nil
	}
	ms, err := c.members.Admit(room, s.connID, profile, isAdmin)
	if err != nil {
		s.state = stateUnjoined
		s.mu.Unlock()
		switch {
		case errors.Is(err, directory.ErrRoomNotFound):
			c.relay.ToConnection(s.connID, serverError(fmt.Sprintf("No room named %s", roomName)))
		case errors.Is(err, ErrRoomFull):
			c.relay.ToConnection(s.connID, serverError(fmt.Sprintf("Room %s is currently full", roomName)))
		}
		return err
	}
	s.membership = ms
	s.room = room
	s.state = stateJoined
	s.mu.Unlock()

	c.relay.Subscribe(room.ChannelKey, s.connID)
	c.presence.MemberJoined(ctx, room.ID)
	c.relay.ToConnection(s.connID, secretKey(room.ChannelKey))
	c.relay.Broadcast(room.ChannelKey, s.connID, userJoined(profile))
	log.Info().Str("module", "app.coordinator").Str("conn", string(s.connID)).Str("room", roomName).Bool("admin", isAdmin).Msg("joined room")
	return nil
}

func (s *Session) reject() {
	s.mu.Lock()
	if s.state == statePendingAuth {
		s.state = stateUnjoined
	}
	s.mu.Unlock()
}

// JoinVideo announces this connection's video stream to the channel's
// audience. The channel key itself is the capability; no membership
// check beyond holding it.
func (s *Session) JoinVideo(channelKey string) {
	s.coord.relay.Broadcast(channelKey, s.connID, userVideoJoined(s.connID))
}

// CallUser relays a signaling payload to one peer only.
func (s *Session) CallUser(payload json.RawMessage, target domain.ConnectionID) {
	s.coord.relay.ToConnection(target, callReceived(payload, s.connID))
}

// AnswerCall relays the final signaling leg back to the caller.
func (s *Session) AnswerCall(payload json.RawMessage, target domain.ConnectionID) {
	s.coord.relay.ToConnection(target, answeredCall(payload, s.connID))
}

// SendMessage relays chat text to the channel's audience.
func (s *Session) SendMessage(body string, sender domain.Profile, channelKey string) {
	s.coord.relay.Broadcast(channelKey, s.connID, chatMessage(body, sender))
}

// ChangeSetting mutates the caller's membership and announces both the
// previous and the new display values.
func (s *Session) ChangeSetting(profile domain.Profile) error {
	c := s.coord
	s.mu.Lock()
	if s.state != stateJoined {
		s.mu.Unlock()
		c.relay.ToConnection(s.connID, serverError("not in a room"))
		return ErrNotJoined
	}
	ms, room := s.membership, s.room
	s.mu.Unlock()

	prev := c.members.UpdateProfile(ms, profile)
	c.relay.Broadcast(room.ChannelKey, s.connID, userSettingChanged(prev, profile))
	return nil
}
