package domain

import (
	"context"
	"time"
)

// BookmarkStore holds per-session bookmark flags. Markets themselves are
// immutable; the flag lives here so the catalog stays shared and read-only.
type BookmarkStore interface {
	Set(ctx context.Context, session, marketID string, bookmarked bool) error
	Get(ctx context.Context, session, marketID string) (bool, error)
	List(ctx context.Context, session string) (map[string]bool, error)
}

// PreferenceStore persists the durable slice of session state: the theme
// color and the wallet-connected flag. Search and category selection are
// deliberately not durable.
type PreferenceStore interface {
	SetThemeColor(ctx context.Context, session, color string) error
	ThemeColor(ctx context.Context, session string) (string, error)
	SetWalletConnected(ctx context.Context, session string, connected bool) error
	WalletConnected(ctx context.Context, session string) (bool, error)
}

// SentimentCache stores generated sentiment text per market with a TTL so
// repeated requests do not re-hit the text-generation service.
type SentimentCache interface {
	Set(ctx context.Context, marketID, text string) error
	Get(ctx context.Context, marketID string) (string, error)
	Invalidate(ctx context.Context, marketID string) error
}

// RateLimiter provides distributed rate limiting for the HTTP API.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// LockManager provides distributed locking. The trade service takes a
// per-wallet lock around on-chain submissions so concurrent requests cannot
// race the account nonce.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// SignalBus provides pub/sub fanned out to WebSocket clients plus durable
// streams for the event trail.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}

// StreamMessage represents a single entry from a durable stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}
