// Package service wires the catalog, buy flow, sentiment, and history logic
// to their stores, caches, and external adapters.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aryanbaranwal001/multiverse-finance/internal/catalog"
	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// MarketView is a catalog market decorated with per-session display state.
type MarketView struct {
	domain.Market
	IsBookmarked    bool   `json:"is_bookmarked"`
	FormattedVolume string `json:"formatted_volume"`
	IconPath        string `json:"icon_path"`
	IconFallback    string `json:"icon_fallback"`
}

// MarketService answers catalog queries and owns the bookmark flag, the one
// mutable bit attached to markets.
type MarketService struct {
	catalog   *catalog.Catalog
	bookmarks domain.BookmarkStore
	bus       domain.SignalBus
	logger    *slog.Logger
}

// NewMarketService creates a MarketService with all required dependencies.
func NewMarketService(
	cat *catalog.Catalog,
	bookmarks domain.BookmarkStore,
	bus domain.SignalBus,
	logger *slog.Logger,
) *MarketService {
	return &MarketService{
		catalog:   cat,
		bookmarks: bookmarks,
		bus:       bus,
		logger:    logger,
	}
}

// Categories returns the fixed category taxonomy.
func (s *MarketService) Categories() []string {
	return s.catalog.Categories()
}

// ListByCategory returns the markets tagged with the given category,
// decorated with the session's bookmark flags. Unknown categories yield an
// empty list.
func (s *MarketService) ListByCategory(ctx context.Context, session, category string) ([]MarketView, error) {
	return s.decorate(ctx, session, s.catalog.ByCategory(category))
}

// Search returns the full, unbounded result set for a query; display
// surfaces truncate themselves.
func (s *MarketService) Search(ctx context.Context, session, query string) ([]MarketView, error) {
	return s.decorate(ctx, session, s.catalog.Search(query))
}

// Resolve maps a navigation slug to its market. A miss returns
// domain.ErrNotFound, which callers render as an empty state.
func (s *MarketService) Resolve(ctx context.Context, session, slug string) (MarketView, error) {
	m, err := s.catalog.BySlug(slug)
	if err != nil {
		return MarketView{}, fmt.Errorf("market_service: resolve %q: %w", slug, err)
	}
	views, err := s.decorate(ctx, session, []domain.Market{m})
	if err != nil {
		return MarketView{}, err
	}
	return views[0], nil
}

// Get looks up a market by its stable ID.
func (s *MarketService) Get(id string) (domain.Market, error) {
	m, err := s.catalog.ByID(id)
	if err != nil {
		return domain.Market{}, fmt.Errorf("market_service: get %q: %w", id, err)
	}
	return m, nil
}

// ToggleBookmark flips the session's bookmark flag for a market and returns
// the new value. The flag lives in the bookmark store; the catalog record is
// never mutated.
func (s *MarketService) ToggleBookmark(ctx context.Context, session, marketID string) (bool, error) {
	if _, err := s.catalog.ByID(marketID); err != nil {
		return false, fmt.Errorf("market_service: bookmark %q: %w", marketID, err)
	}

	current, err := s.bookmarks.Get(ctx, session, marketID)
	if err != nil {
		return false, fmt.Errorf("market_service: read bookmark %q: %w", marketID, err)
	}
	next := !current
	if err := s.bookmarks.Set(ctx, session, marketID, next); err != nil {
		return false, fmt.Errorf("market_service: set bookmark %q: %w", marketID, err)
	}

	s.publish(ctx, "bookmarks", map[string]any{
		"market_id":  marketID,
		"bookmarked": next,
	})
	return next, nil
}

// decorate merges bookmark flags and display formatting into catalog rows.
func (s *MarketService) decorate(ctx context.Context, session string, markets []domain.Market) ([]MarketView, error) {
	if len(markets) == 0 {
		return nil, nil
	}

	flags := map[string]bool{}
	if s.bookmarks != nil {
		var err error
		flags, err = s.bookmarks.List(ctx, session)
		if err != nil {
			// Bookmark decoration is cosmetic; log and carry on without it.
			s.logger.WarnContext(ctx, "market_service: list bookmarks failed",
				slog.String("session", session),
				slog.String("error", err.Error()),
			)
			flags = map[string]bool{}
		}
	}

	views := make([]MarketView, 0, len(markets))
	for _, m := range markets {
		iconName := m.IconName
		if iconName == "" {
			// Catalog rows without an explicit icon resolve one from the
			// title and tags.
			iconName = catalog.CategoryIcon(m.Categories, m.Title)
		}
		views = append(views, MarketView{
			Market:          m,
			IsBookmarked:    flags[m.ID],
			FormattedVolume: catalog.FormatVolume(m.Volume),
			IconPath:        catalog.PrimaryIcon(iconName),
			IconFallback:    catalog.FallbackIcon(iconName),
		})
	}
	return views, nil
}

// publish emits a fire-and-forget event on the signal bus.
func (s *MarketService) publish(ctx context.Context, channel string, payload map[string]any) {
	if s.bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, channel, data); err != nil {
		s.logger.WarnContext(ctx, "market_service: publish failed",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}
