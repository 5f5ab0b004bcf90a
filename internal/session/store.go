// Package session holds the per-user selection and theme state: active
// category, search box state, and theme color. Stores are explicit, injected
// instances rather than package-level singletons so tests and independent
// surfaces can run their own.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// DefaultCategory is the landing selection.
const DefaultCategory = "trending"

// themeColors is the fixed ordered palette that NextColor cycles through.
var themeColors = []string{"blue", "green", "purple", "orange", "pink"}

// DefaultColor is the initial theme when no durable preference exists.
const DefaultColor = "green"

// Snapshot is an immutable copy of the store's state handed to subscribers.
type Snapshot struct {
	ActiveCategory  string `json:"active_category"`
	SearchQuery     string `json:"search_query"`
	IsSearchOpen    bool   `json:"is_search_open"`
	ThemeColor      string `json:"theme_color"`
	WalletConnected bool   `json:"wallet_connected"`
}

// Listener receives a state snapshot synchronously after every change.
type Listener func(Snapshot)

// Store is an observable key-value holder for one session's UI state.
// Setters replace the field, persist the durable slice (theme color only;
// search and category are session-scoped by design), and notify subscribers
// synchronously. No validation is applied beyond type: an unknown category
// simply produces empty query results downstream.
type Store struct {
	mu        sync.Mutex
	snap      Snapshot
	listeners []Listener

	id     string
	prefs  domain.PreferenceStore // may be nil
	logger *slog.Logger
}

// NewStore creates a session store with defaults, restoring the persisted
// theme color when a preference store is supplied. Persistence errors are
// fail-soft: they are logged and the default is used.
func NewStore(ctx context.Context, id string, prefs domain.PreferenceStore, logger *slog.Logger) *Store {
	s := &Store{
		snap: Snapshot{
			ActiveCategory: DefaultCategory,
			ThemeColor:     DefaultColor,
		},
		id:     id,
		prefs:  prefs,
		logger: logger,
	}

	if prefs != nil {
		color, err := prefs.ThemeColor(ctx, id)
		switch {
		case err == nil && validColor(color):
			s.snap.ThemeColor = color
		case err != nil:
			logger.WarnContext(ctx, "session: restore theme failed",
				slog.String("session", id),
				slog.String("error", err.Error()),
			)
		}

		connected, err := prefs.WalletConnected(ctx, id)
		if err != nil {
			logger.WarnContext(ctx, "session: restore wallet flag failed",
				slog.String("session", id),
				slog.String("error", err.Error()),
			)
		} else {
			s.snap.WalletConnected = connected
		}
	}

	return s
}

// Subscribe registers a listener that is invoked synchronously, in
// registration order, after every state change.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// SetActiveCategory replaces the category selection.
func (s *Store) SetActiveCategory(category string) {
	s.update(func(snap *Snapshot) { snap.ActiveCategory = category })
}

// SetSearchQuery replaces the search text; called on every keystroke.
func (s *Store) SetSearchQuery(query string) {
	s.update(func(snap *Snapshot) { snap.SearchQuery = query })
}

// SetSearchOpen opens or closes the search surface.
func (s *Store) SetSearchOpen(open bool) {
	s.update(func(snap *Snapshot) { snap.IsSearchOpen = open })
}

// SetThemeColor replaces the theme color and persists it. Unknown colors are
// ignored.
func (s *Store) SetThemeColor(ctx context.Context, color string) {
	if !validColor(color) {
		return
	}
	s.update(func(snap *Snapshot) { snap.ThemeColor = color })
	s.persistColor(ctx, color)
}

// SetWalletConnected records whether the user's wallet is linked to this
// session and persists the flag so it survives restarts.
func (s *Store) SetWalletConnected(ctx context.Context, connected bool) {
	s.update(func(snap *Snapshot) { snap.WalletConnected = connected })
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetWalletConnected(ctx, s.id, connected); err != nil {
		s.logger.WarnContext(ctx, "session: persist wallet flag failed",
			slog.String("session", s.id),
			slog.String("error", err.Error()),
		)
	}
}

// NextColor advances the theme through the fixed palette with wraparound and
// persists the result.
func (s *Store) NextColor(ctx context.Context) string {
	s.mu.Lock()
	idx := 0
	for i, c := range themeColors {
		if c == s.snap.ThemeColor {
			idx = i
			break
		}
	}
	next := themeColors[(idx+1)%len(themeColors)]
	s.snap.ThemeColor = next
	snap := s.snap
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	s.persistColor(ctx, next)
	return next
}

// update applies a mutation and notifies listeners outside the lock, so a
// listener may read the store without deadlocking.
func (s *Store) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	snap := s.snap
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) persistColor(ctx context.Context, color string) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetThemeColor(ctx, s.id, color); err != nil {
		s.logger.WarnContext(ctx, "session: persist theme failed",
			slog.String("session", s.id),
			slog.String("error", err.Error()),
		)
	}
}

func validColor(color string) bool {
	for _, c := range themeColors {
		if c == color {
			return true
		}
	}
	return false
}

// Palette returns the ordered theme palette.
func Palette() []string {
	out := make([]string, len(themeColors))
	copy(out, themeColors)
	return out
}
