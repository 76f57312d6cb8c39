package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/api/metrics"
	"github.com/nebsit/hr-gateway/internal/core/domain"
)

const inflightTTL = 30 * time.Second

// InFlightGuard rejects duplicate concurrent submissions backed by Redis.
// Key format: inflight:<operation>:<fingerprint>
//
// When Redis is unreachable the guard logs and lets the request through.
type InFlightGuard struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewInFlightGuard creates an InFlightGuard wrapping the given Redis client.
func NewInFlightGuard(client *redis.Client, ttl time.Duration, log zerolog.Logger) *InFlightGuard {
	if ttl <= 0 {
		ttl = inflightTTL
	}
	return &InFlightGuard{client: client, ttl: ttl, log: log}
}

// Acquire sets the key if absent. The returned release deletes it.
func (g *InFlightGuard) Acquire(ctx context.Context, key string) (func(), error) {
	full := "inflight:" + key
	ok, err := g.client.SetNX(ctx, full, "1", g.ttl).Result()
	if err != nil {
		g.log.Warn().Err(err).Str("key", full).Msg("in-flight guard unavailable, letting request through")
		return func() {}, nil
	}
	if !ok {
		metrics.InFlightRejectionsTotal.WithLabelValues(operationOf(key)).Inc()
		return nil, domain.ErrInFlight
	}
	return func() {
		// The request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := g.client.Del(ctx, full).Err(); err != nil {
			g.log.Warn().Err(err).Str("key", full).Msg("in-flight guard release failed")
		}
	}, nil
}

func operationOf(key string) string {
	op, _, _ := strings.Cut(key, ":")
	return op
}
