package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/partyline/partyline/internal/domain"
)

// Sender is the transport endpoint the relay fans out to. TrySend must
// not block; the adapter owns the connection and its buffering.
type Sender interface {
	TrySend([]byte) error
}

// Relay routes events to a room channel or to one connection. It holds
// no membership logic: gating happened before anything reaches it, and
// delivery is best effort with no retry.
type Relay struct {
	mu       sync.RWMutex
	conns    map[domain.ConnectionID]Sender
	channels map[string]map[domain.ConnectionID]Sender
}

func NewRelay() *Relay {
	return &Relay{
		conns:    make(map[domain.ConnectionID]Sender),
		channels: make(map[string]map[domain.ConnectionID]Sender),
	}
}

// Register makes a connection addressable for single-target events.
func (r *Relay) Register(id domain.ConnectionID, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = s
}

// Unregister drops the connection from the index and from every channel
// it subscribed to.
func (r *Relay) Unregister(id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	for _, subs := range r.channels {
		delete(subs, id)
	}
}

// Subscribe adds the connection to a room channel's audience.
func (r *Relay) Subscribe(channelKey string, id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.conns[id]
	if !ok {
		return
	}
	subs, ok := r.channels[channelKey]
	if !ok {
		subs = make(map[domain.ConnectionID]Sender)
		r.channels[channelKey] = subs
	}
	subs[id] = s
}

func (r *Relay) Unsubscribe(channelKey string, id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subs, ok := r.channels[channelKey]; ok {
		delete(subs, id)
	}
}

// ReleaseChannel drops a room's routing state when the room retires.
func (r *Relay) ReleaseChannel(channelKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, channelKey)
}

// Broadcast emits an event to every current subscriber of the channel
// except the originator. Fire and forget: a full or closed sink just
// loses this event. Fan-out holds the exclusive lock so concurrent
// broadcasts cannot interleave mid-channel; every subscriber sees the
// same emission order.
func (r *Relay) Broadcast(channelKey string, except domain.ConnectionID, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("event marshal")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.channels[channelKey] {
		if id == except {
			continue
		}
		if err := s.TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "app.relay").Str("conn", string(id)).Msg("dropped event")
		}
	}
}

// ToConnection emits an event to one connection only, addressed by id
// rather than by channel.
func (r *Relay) ToConnection(id domain.ConnectionID, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("event marshal")
		return
	}
	r.mu.RLock()
	s, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	if err := s.TrySend(data); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("conn", string(id)).Msg("dropped event")
	}
}
