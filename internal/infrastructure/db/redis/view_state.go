package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

const viewStateTTL = 24 * time.Hour

// ViewStateStore keeps the last notice query of a session as a hash under
// noticeview:<fingerprint>.
type ViewStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewViewStateStore(client *redis.Client, ttl time.Duration) *ViewStateStore {
	if ttl <= 0 {
		ttl = viewStateTTL
	}
	return &ViewStateStore{client: client, ttl: ttl}
}

func (s *ViewStateStore) Load(ctx context.Context, key string) (domain.NoticeQuery, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(fields) == 0) {
		return domain.NoticeQuery{}, false, nil
	}
	if err != nil {
		return domain.NoticeQuery{}, false, fmt.Errorf("view state load: %w", err)
	}
	q := domain.NoticeQuery{
		Target:      fields["target"],
		Search:      fields["search"],
		Status:      fields["status"],
		PublishedOn: fields["publishedOn"],
	}
	q.Page, _ = strconv.Atoi(fields["page"])
	q.Limit, _ = strconv.Atoi(fields["limit"])
	return q.Normalize(), true, nil
}

func (s *ViewStateStore) Save(ctx context.Context, key string, q domain.NoticeQuery) error {
	k := s.key(key)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, map[string]any{
		"target":      q.Target,
		"search":      q.Search,
		"status":      q.Status,
		"publishedOn": q.PublishedOn,
		"page":        q.Page,
		"limit":       q.Limit,
	})
	pipe.Expire(ctx, k, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("view state save: %w", err)
	}
	return nil
}

func (s *ViewStateStore) key(k string) string {
	return "noticeview:" + k
}
