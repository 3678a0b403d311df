package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tastybite/food-ordering/internal/pkg/config"
)

const (
	pingTimeout     = 5 * time.Second
	minPoolSize     = 1
	defaultPoolSize = 10
)

// Connect opens the client shared by the idempotency store and the readiness
// probe, and fails fast when the server does not answer a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(clientOptions(cfg))

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s db %d: ping: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}

func clientOptions(cfg config.RedisConfig) *redis.Options {
	pool := cfg.PoolSize
	if pool < minPoolSize {
		pool = defaultPoolSize
	}
	return &redis.Options{
		Addr:       cfg.Addr,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   pool,
		ClientName: "food-ordering",
	}
}
