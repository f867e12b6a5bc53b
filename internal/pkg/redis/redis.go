package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection shared by every API instance. It
// currently throttles opportunistic missed-shift scans.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Redis: connected", "addr", addr)

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

const scanGatePrefix = "attendance:scan:"

// ScanGate lets one caller per key through every ttl across all instances.
type ScanGate struct {
	client *Client
	ttl    time.Duration
}

func (c *Client) ScanGate(ttl time.Duration) *ScanGate {
	return &ScanGate{client: c, ttl: ttl}
}

// Allow claims key for the gate's ttl. Redis failures fail open: a scan is
// idempotent, so running it too often is harmless.
func (g *ScanGate) Allow(ctx context.Context, key string) bool {
	ok, err := g.client.rdb.SetNX(ctx, scanGatePrefix+key, "1", g.ttl).Result()
	if err != nil {
		slog.Warn("Redis: scan gate unavailable, allowing scan", "key", key, "error", err)
		return true
	}
	return ok
}
