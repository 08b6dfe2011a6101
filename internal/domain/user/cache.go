package user

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const summaryKeyPrefix = "user:summary:"

// CachedDirectory decorates a Directory with a Redis summary cache.
// Only summaries are cached: they feed paged listings and suggestion
// results, where a slightly stale display name is acceptable. Full
// profile reads go through uncached.
type CachedDirectory struct {
	inner Directory
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedDirectory wraps inner with a summary cache. A nil redis
// client makes it a passthrough.
func NewCachedDirectory(inner Directory, redisClient *redis.Client, ttl time.Duration) Directory {
	if redisClient == nil {
		return inner
	}
	return &CachedDirectory{inner: inner, redis: redisClient, ttl: ttl}
}

func (c *CachedDirectory) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return c.inner.GetByID(ctx, id)
}

func (c *CachedDirectory) GetSummary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	if s, ok := c.cached(ctx, id); ok {
		return s, nil
	}

	s, err := c.inner.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	if s != nil {
		c.store(ctx, s)
	}
	return s, nil
}

func (c *CachedDirectory) GetSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	summaries := make([]*Summary, 0, len(ids))
	var misses []uuid.UUID
	for _, id := range ids {
		if s, ok := c.cached(ctx, id); ok {
			summaries = append(summaries, s)
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) == 0 {
		return summaries, nil
	}

	fetched, err := c.inner.GetSummariesByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, s := range fetched {
		c.store(ctx, s)
	}

	return append(summaries, fetched...), nil
}

func (c *CachedDirectory) cached(ctx context.Context, id uuid.UUID) (*Summary, bool) {
	data, err := c.redis.Get(ctx, summaryKeyPrefix+id.String()).Bytes()
	if err != nil {
		return nil, false
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *CachedDirectory) store(ctx context.Context, s *Summary) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, summaryKeyPrefix+s.ID.String(), data, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("user_id", s.ID.String()).Msg("Failed to cache user summary")
	}
}
