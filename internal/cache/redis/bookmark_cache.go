package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// BookmarkCache implements domain.BookmarkStore on a Redis hash per session.
//
// Key schema:
//
//	bookmarks:{session} - hash keyed by market ID, field present means bookmarked
type BookmarkCache struct {
	rdb *redis.Client
}

// NewBookmarkCache creates a BookmarkCache backed by the given Client.
func NewBookmarkCache(c *Client) *BookmarkCache {
	return &BookmarkCache{rdb: c.Underlying()}
}

func bookmarkKey(session string) string { return "bookmarks:" + session }

// Set stores or clears the bookmark flag for one market. Clearing removes the
// hash field so List stays proportional to the bookmarked set.
func (bc *BookmarkCache) Set(ctx context.Context, session, marketID string, bookmarked bool) error {
	key := bookmarkKey(session)
	var err error
	if bookmarked {
		err = bc.rdb.HSet(ctx, key, marketID, "1").Err()
	} else {
		err = bc.rdb.HDel(ctx, key, marketID).Err()
	}
	if err != nil {
		return fmt.Errorf("redis: set bookmark %s/%s: %w", session, marketID, err)
	}
	return nil
}

// Get reports whether the session has bookmarked the market. A missing field
// means false, not an error.
func (bc *BookmarkCache) Get(ctx context.Context, session, marketID string) (bool, error) {
	err := bc.rdb.HGet(ctx, bookmarkKey(session), marketID).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis: get bookmark %s/%s: %w", session, marketID, err)
	}
	return true, nil
}

// List returns the session's bookmarked market IDs as a set of true flags.
func (bc *BookmarkCache) List(ctx context.Context, session string) (map[string]bool, error) {
	fields, err := bc.rdb.HGetAll(ctx, bookmarkKey(session)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list bookmarks %s: %w", session, err)
	}

	out := make(map[string]bool, len(fields))
	for marketID := range fields {
		out[marketID] = true
	}
	return out, nil
}

// Compile-time interface check.
var _ domain.BookmarkStore = (*BookmarkCache)(nil)
