package livefeed

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster publica snapshots no canal consumido pelo hub WebSocket
type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}
