// Package redis holds the console's durable key-value storage: session blobs
// and the map's connection overlay.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Config carries the connection settings for the console's Redis instance.
type Config struct {
	Addr string
	DB   int
}

// Connect opens a Redis client and proves it reachable with a bounded ping,
// so a misconfigured address fails the process at startup rather than on the
// first login.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
