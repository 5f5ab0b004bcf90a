package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memPrefs is an in-memory domain.PreferenceStore.
type memPrefs struct {
	colors    map[string]string
	connected map[string]bool
	failSet   bool
}

func newMemPrefs() *memPrefs {
	return &memPrefs{colors: map[string]string{}, connected: map[string]bool{}}
}

func (p *memPrefs) SetThemeColor(_ context.Context, session, color string) error {
	if p.failSet {
		return errors.New("store unavailable")
	}
	p.colors[session] = color
	return nil
}

func (p *memPrefs) ThemeColor(_ context.Context, session string) (string, error) {
	return p.colors[session], nil
}

func (p *memPrefs) SetWalletConnected(_ context.Context, session string, connected bool) error {
	if p.failSet {
		return errors.New("store unavailable")
	}
	p.connected[session] = connected
	return nil
}

func (p *memPrefs) WalletConnected(_ context.Context, session string) (bool, error) {
	return p.connected[session], nil
}

func TestStoreDefaults(t *testing.T) {
	s := NewStore(context.Background(), "s1", nil, discardLogger())
	snap := s.Snapshot()
	assert.Equal(t, DefaultCategory, snap.ActiveCategory)
	assert.Equal(t, DefaultColor, snap.ThemeColor)
	assert.Equal(t, "", snap.SearchQuery)
	assert.False(t, snap.IsSearchOpen)
}

func TestStoreSettersNotifySynchronously(t *testing.T) {
	s := NewStore(context.Background(), "s1", nil, discardLogger())

	var seen []Snapshot
	s.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	s.SetActiveCategory("politics")
	s.SetSearchOpen(true)
	s.SetSearchQuery("bit")
	s.SetSearchQuery("bitc")

	require.Len(t, seen, 4, "every setter notifies exactly once, synchronously")
	assert.Equal(t, "politics", seen[0].ActiveCategory)
	assert.True(t, seen[1].IsSearchOpen)
	assert.Equal(t, "bitc", seen[3].SearchQuery)
}

func TestNextColorCyclesWithWraparound(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, "s1", nil, discardLogger())

	// Starting from green, a full cycle returns to green.
	want := []string{"purple", "orange", "pink", "blue", "green"}
	for _, w := range want {
		assert.Equal(t, w, s.NextColor(ctx))
	}
}

func TestThemeColorPersistence(t *testing.T) {
	ctx := context.Background()
	prefs := newMemPrefs()

	s := NewStore(ctx, "s1", prefs, discardLogger())
	s.SetThemeColor(ctx, "purple")
	assert.Equal(t, "purple", prefs.colors["s1"])

	// A fresh store for the same session restores the color; category and
	// search are not durable.
	s.SetActiveCategory("crypto")
	s2 := NewStore(ctx, "s1", prefs, discardLogger())
	snap := s2.Snapshot()
	assert.Equal(t, "purple", snap.ThemeColor)
	assert.Equal(t, DefaultCategory, snap.ActiveCategory)
}

func TestThemeColorPersistFailureIsSoft(t *testing.T) {
	ctx := context.Background()
	prefs := newMemPrefs()
	prefs.failSet = true

	s := NewStore(ctx, "s1", prefs, discardLogger())
	s.SetThemeColor(ctx, "pink")
	assert.Equal(t, "pink", s.Snapshot().ThemeColor, "in-memory state wins even when persistence fails")
}

func TestWalletConnectedPersistence(t *testing.T) {
	ctx := context.Background()
	prefs := newMemPrefs()

	s := NewStore(ctx, "s1", prefs, discardLogger())
	assert.False(t, s.Snapshot().WalletConnected)

	s.SetWalletConnected(ctx, true)
	assert.True(t, prefs.connected["s1"])

	// A fresh store for the same session restores the flag.
	s2 := NewStore(ctx, "s1", prefs, discardLogger())
	assert.True(t, s2.Snapshot().WalletConnected)

	// Disconnecting is durable too.
	s2.SetWalletConnected(ctx, false)
	s3 := NewStore(ctx, "s1", prefs, discardLogger())
	assert.False(t, s3.Snapshot().WalletConnected)
}

func TestWalletConnectedPersistFailureIsSoft(t *testing.T) {
	ctx := context.Background()
	prefs := newMemPrefs()
	prefs.failSet = true

	s := NewStore(ctx, "s1", prefs, discardLogger())
	s.SetWalletConnected(ctx, true)
	assert.True(t, s.Snapshot().WalletConnected, "in-memory state wins even when persistence fails")
}

func TestSetThemeColorIgnoresUnknown(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, "s1", nil, discardLogger())
	s.SetThemeColor(ctx, "chartreuse")
	assert.Equal(t, DefaultColor, s.Snapshot().ThemeColor)
}

func TestIndependentInstances(t *testing.T) {
	ctx := context.Background()
	a := NewStore(ctx, "a", nil, discardLogger())
	b := NewStore(ctx, "b", nil, discardLogger())

	a.SetActiveCategory("tech")
	assert.Equal(t, DefaultCategory, b.Snapshot().ActiveCategory)
}
