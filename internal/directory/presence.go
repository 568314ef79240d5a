package directory

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PresenceMirror is a write-through copy of per-room online counts for
// dashboards and the list endpoint of other instances. It is advisory:
// admission decisions never read it back.
type PresenceMirror interface {
	MemberJoined(ctx context.Context, roomID uint)
	MemberLeft(ctx context.Context, roomID uint)
	RoomRetired(ctx context.Context, roomID uint)
}

type NoopPresence struct{}

func (NoopPresence) MemberJoined(context.Context, uint) {}
func (NoopPresence) MemberLeft(context.Context, uint)   {}
func (NoopPresence) RoomRetired(context.Context, uint)  {}

type RedisPresence struct {
	client *redis.Client
}

func NewRedisPresence(redisURL string) (*RedisPresence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisPresence{client: redis.NewClient(opts)}, nil
}

func presenceKey(roomID uint) string {
	return fmt.Sprintf("presence:%d", roomID)
}

func (p *RedisPresence) MemberJoined(ctx context.Context, roomID uint) {
	if err := p.client.Incr(ctx, presenceKey(roomID)).Err(); err != nil {
		log.Warn().Err(err).Str("module", "directory.presence").Uint("room_id", roomID).Msg("presence incr failed")
	}
}

func (p *RedisPresence) MemberLeft(ctx context.Context, roomID uint) {
	if err := p.client.Decr(ctx, presenceKey(roomID)).Err(); err != nil {
		log.Warn().Err(err).Str("module", "directory.presence").Uint("room_id", roomID).Msg("presence decr failed")
	}
}

func (p *RedisPresence) RoomRetired(ctx context.Context, roomID uint) {
	if err := p.client.Del(ctx, presenceKey(roomID)).Err(); err != nil {
		log.Warn().Err(err).Str("module", "directory.presence").Uint("room_id", roomID).Msg("presence del failed")
	}
}
