package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// sentimentTTL bounds how long generated commentary is reused before the
// text-generation service is consulted again.
const sentimentTTL = 10 * time.Minute

// SentimentCache implements domain.SentimentCache with per-market string keys
// and a fixed TTL.
//
// Key schema:
//
//	sentiment:{marketID} - generated commentary text
type SentimentCache struct {
	rdb *redis.Client
}

// NewSentimentCache creates a SentimentCache backed by the given Client.
func NewSentimentCache(c *Client) *SentimentCache {
	return &SentimentCache{rdb: c.Underlying()}
}

func sentimentKey(marketID string) string { return "sentiment:" + marketID }

// Set stores commentary for a market with the cache TTL.
func (sc *SentimentCache) Set(ctx context.Context, marketID, text string) error {
	if err := sc.rdb.Set(ctx, sentimentKey(marketID), text, sentimentTTL).Err(); err != nil {
		return fmt.Errorf("redis: set sentiment %s: %w", marketID, err)
	}
	return nil
}

// Get returns cached commentary, or "" when none exists. A cache miss is not
// an error.
func (sc *SentimentCache) Get(ctx context.Context, marketID string) (string, error) {
	text, err := sc.rdb.Get(ctx, sentimentKey(marketID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis: get sentiment %s: %w", marketID, err)
	}
	return text, nil
}

// Invalidate drops the cached commentary for a market.
func (sc *SentimentCache) Invalidate(ctx context.Context, marketID string) error {
	if err := sc.rdb.Del(ctx, sentimentKey(marketID)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate sentiment %s: %w", marketID, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SentimentCache = (*SentimentCache)(nil)
