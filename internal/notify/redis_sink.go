package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes events on a Redis pub/sub channel.
type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(ctx context.Context, addr, password string, db int, channel string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSink{client: client, channel: channel}, nil
}

func (r *RedisSink) Name() string {
	return "redis:" + r.channel
}

func (r *RedisSink) Deliver(ctx context.Context, _ Event, payload []byte) error {
	return r.client.Publish(ctx, r.channel, payload).Err()
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
