package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

const profileTTL = 60 * time.Second

// ProfileCache keeps fetched profiles as JSON under profile:<fingerprint>.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = profileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, key string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return &u, nil
}

func (c *ProfileCache) Set(ctx context.Context, key string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *ProfileCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *ProfileCache) key(k string) string {
	return "profile:" + k
}
