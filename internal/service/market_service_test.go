package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanbaranwal001/multiverse-finance/internal/catalog"
	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

func TestListByCategoryDecorates(t *testing.T) {
	ctx := context.Background()
	bookmarks := newMemBookmarks()
	require.NoError(t, bookmarks.Set(ctx, "s1", "mkt-btc", true))

	svc := NewMarketService(testCatalog(), bookmarks, newMemBus(), discardLogger())

	views, err := svc.ListByCategory(ctx, "s1", "crypto")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "mkt-btc", views[0].ID)
	assert.True(t, views[0].IsBookmarked)
	assert.Equal(t, "$2.1M", views[0].FormattedVolume)
	assert.Equal(t, "/icons/bitcoin.png", views[0].IconPath)
	assert.Equal(t, "/icons/bitcoin.svg", views[0].IconFallback)
}

func TestListByCategoryUnknownIsEmpty(t *testing.T) {
	svc := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())
	views, err := svc.ListByCategory(context.Background(), "s1", "no-such-category")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestSearchReturnsFullResultSet(t *testing.T) {
	svc := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())
	views, err := svc.Search(context.Background(), "s1", "rates")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "mkt-fed", views[0].ID)
}

func TestResolveSlug(t *testing.T) {
	svc := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())

	view, err := svc.Resolve(context.Background(), "s1", "bitcoin-above-150k-by-december-31")
	require.NoError(t, err)
	assert.Equal(t, "mkt-btc", view.ID)

	_, err = svc.Resolve(context.Background(), "s1", "not-a-market")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleBookmarkFlipsAndPublishes(t *testing.T) {
	ctx := context.Background()
	bookmarks := newMemBookmarks()
	bus := newMemBus()
	svc := NewMarketService(testCatalog(), bookmarks, bus, discardLogger())

	on, err := svc.ToggleBookmark(ctx, "s1", "mkt-fed")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := svc.ToggleBookmark(ctx, "s1", "mkt-fed")
	require.NoError(t, err)
	assert.False(t, off)

	assert.Len(t, bus.events["bookmarks"], 2)
}

func TestToggleBookmarkUnknownMarket(t *testing.T) {
	svc := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())
	_, err := svc.ToggleBookmark(context.Background(), "s1", "mkt-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecorateResolvesMissingIconFromTitleAndTags(t *testing.T) {
	cat, err := catalog.New(
		[]domain.Market{
			{
				ID:            "mkt-eth",
				Title:         "Ethereum flips Bitcoin?",
				Description:   "Resolves yes on a market-cap flip.",
				Volume:        500_000,
				Categories:    []string{"crypto"},
				YesPercentage: 9,
			},
			{
				ID:            "mkt-vote",
				Title:         "Turnout above 60%?",
				Description:   "Resolves yes on official turnout figures.",
				Volume:        120_000,
				Categories:    []string{"politics"},
				YesPercentage: 41,
			},
		},
		[]string{"crypto", "politics"},
	)
	require.NoError(t, err)

	svc := NewMarketService(cat, newMemBookmarks(), newMemBus(), discardLogger())

	views, err := svc.ListByCategory(context.Background(), "s1", "crypto")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "/icons/bitcoin.png", views[0].IconPath, "title keyword resolves the icon")
	assert.Equal(t, "/icons/bitcoin.svg", views[0].IconFallback)

	views, err = svc.ListByCategory(context.Background(), "s1", "politics")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "/icons/politics.png", views[0].IconPath, "tags resolve the icon when the title has no keyword")
	assert.Equal(t, "/icons/politics.svg", views[0].IconFallback)
}

func TestDecorateBookmarkFailureIsSoft(t *testing.T) {
	bookmarks := newMemBookmarks()
	bookmarks.failList = true
	svc := NewMarketService(testCatalog(), bookmarks, newMemBus(), discardLogger())

	views, err := svc.ListByCategory(context.Background(), "s1", "trending")
	require.NoError(t, err, "bookmark store outage must not break listing")
	require.Len(t, views, 1)
	assert.False(t, views[0].IsBookmarked)
}
