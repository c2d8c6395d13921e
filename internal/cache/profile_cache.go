// Package cache keeps public profiles in Redis, keyed by username.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"seulink/internal/domain"
)

// DefaultTTL bounds how stale a cached public card can get.
const DefaultTTL = time.Hour

// ErrMiss is returned by Get when the username is not cached.
var ErrMiss = errors.New("cache miss")

// ProfileCache stores UserProfile JSON under profile:username:{username}.
type ProfileCache struct {
	r   *redis.Client
	ttl time.Duration
}

// NewProfileCache wraps an existing Redis client.
func NewProfileCache(r *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileCache{r: r, ttl: ttl}
}

// Connect dials Redis and checks the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return r, nil
}

func key(username string) string { return "profile:username:" + username }

// Get returns the cached profile or ErrMiss.
func (c *ProfileCache) Get(ctx context.Context, username string) (domain.UserProfile, error) {
	var p domain.UserProfile
	b, err := c.r.Get(ctx, key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return p, ErrMiss
	}
	if err != nil {
		return p, err
	}
	return p, json.Unmarshal(b, &p)
}

// Set caches p under its username.
func (c *ProfileCache) Set(ctx context.Context, p domain.UserProfile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.r.Set(ctx, key(p.Username), b, c.ttl).Err()
}

// Delete drops the given usernames.
func (c *ProfileCache) Delete(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	keys := make([]string, len(usernames))
	for i, u := range usernames {
		keys[i] = key(u)
	}
	return c.r.Del(ctx, keys...).Err()
}
