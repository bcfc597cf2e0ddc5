// Package redisstore implements the data-service and session-store
// capabilities on redis. Participants live in geo sets plus JSON values,
// missions in JSON values with a per-requester open index, and assignment is
// a Lua compare-and-set on the mission's assigned flag.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config defines the redis connection parameters.
type Config struct {
	// URL is a redis connection URL; empty means redis is not configured.
	URL string `json:"url"`
	// SessionTTLSeconds bounds how long an idle session snapshot is kept.
	SessionTTLSeconds int `json:"session_ttl_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.SessionTTLSeconds <= 0 {
		c.SessionTTLSeconds = 3600
	}
}

// NewClient connects to redis and verifies the connection with a ping.
func NewClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
