package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// PreferenceCache implements domain.PreferenceStore on a Redis hash per
// session.
//
// Key schema:
//
//	prefs:{session} - hash with fields "theme_color" and "wallet_connected"
type PreferenceCache struct {
	rdb *redis.Client
}

// NewPreferenceCache creates a PreferenceCache backed by the given Client.
func NewPreferenceCache(c *Client) *PreferenceCache {
	return &PreferenceCache{rdb: c.Underlying()}
}

func prefKey(session string) string { return "prefs:" + session }

// SetThemeColor persists the session's theme color.
func (pc *PreferenceCache) SetThemeColor(ctx context.Context, session, color string) error {
	if err := pc.rdb.HSet(ctx, prefKey(session), "theme_color", color).Err(); err != nil {
		return fmt.Errorf("redis: set theme color %s: %w", session, err)
	}
	return nil
}

// ThemeColor returns the persisted theme color, or "" when none is stored.
func (pc *PreferenceCache) ThemeColor(ctx context.Context, session string) (string, error) {
	color, err := pc.rdb.HGet(ctx, prefKey(session), "theme_color").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis: get theme color %s: %w", session, err)
	}
	return color, nil
}

// SetWalletConnected persists the session's wallet-connected flag.
func (pc *PreferenceCache) SetWalletConnected(ctx context.Context, session string, connected bool) error {
	val := "0"
	if connected {
		val = "1"
	}
	if err := pc.rdb.HSet(ctx, prefKey(session), "wallet_connected", val).Err(); err != nil {
		return fmt.Errorf("redis: set wallet connected %s: %w", session, err)
	}
	return nil
}

// WalletConnected returns the persisted wallet-connected flag; missing means
// false.
func (pc *PreferenceCache) WalletConnected(ctx context.Context, session string) (bool, error) {
	val, err := pc.rdb.HGet(ctx, prefKey(session), "wallet_connected").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis: get wallet connected %s: %w", session, err)
	}
	return val == "1", nil
}

// Compile-time interface check.
var _ domain.PreferenceStore = (*PreferenceCache)(nil)
