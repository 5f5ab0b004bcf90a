package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// Manager hands out one Store per session ID, creating stores on demand.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store

	prefs  domain.PreferenceStore
	logger *slog.Logger
}

// NewManager creates a Manager whose stores persist durable preferences to
// prefs (which may be nil).
func NewManager(prefs domain.PreferenceStore, logger *slog.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		prefs:  prefs,
		logger: logger,
	}
}

// Get returns the store for a session, creating it on first use.
func (m *Manager) Get(ctx context.Context, id string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[id]; ok {
		return s
	}
	s := NewStore(ctx, id, m.prefs, m.logger)
	m.stores[id] = s
	return s
}
