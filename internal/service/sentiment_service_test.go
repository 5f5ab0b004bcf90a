package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

func sentimentMarket() domain.Market {
	return domain.Market{
		ID:            "mkt-btc",
		Title:         "Bitcoin above $150K by December 31?",
		Description:   "Resolves yes if BTC trades above $150,000.",
		Volume:        2_100_000,
		YesPercentage: 62,
	}
}

func TestSentimentUsesProvider(t *testing.T) {
	var gotPrompt string
	provider := providerFunc(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "  Traders remain bullish.  ", nil
	})

	svc := NewSentimentService(SentimentConfig{}, provider, nil, rand.New(rand.NewSource(1)), discardLogger())

	text := svc.ForMarket(context.Background(), sentimentMarket())
	assert.Equal(t, "Traders remain bullish.", text)
	assert.Contains(t, gotPrompt, "Bitcoin above $150K by December 31?")
	assert.Contains(t, gotPrompt, "62%")
}

func TestSentimentProviderFailureFallsBack(t *testing.T) {
	provider := providerFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("quota exhausted")
	})

	svc := NewSentimentService(SentimentConfig{}, provider, nil, rand.New(rand.NewSource(7)), discardLogger())

	text := svc.ForMarket(context.Background(), sentimentMarket())
	assert.NotEmpty(t, text, "fallback text is always produced")
}

func TestSentimentFallbackIsDeterministicPerSeed(t *testing.T) {
	m := sentimentMarket()
	a := NewSentimentService(SentimentConfig{}, nil, nil, rand.New(rand.NewSource(42)), discardLogger())
	b := NewSentimentService(SentimentConfig{}, nil, nil, rand.New(rand.NewSource(42)), discardLogger())

	assert.Equal(t,
		a.ForMarket(context.Background(), m),
		b.ForMarket(context.Background(), m))
}

func TestSentimentEmptyProviderTextFallsBack(t *testing.T) {
	provider := providerFunc(func(_ context.Context, _ string) (string, error) {
		return "   ", nil
	})
	svc := NewSentimentService(SentimentConfig{}, provider, nil, rand.New(rand.NewSource(3)), discardLogger())
	assert.NotEmpty(t, svc.ForMarket(context.Background(), sentimentMarket()))
}

func TestSentimentCacheHitSkipsProvider(t *testing.T) {
	ctx := context.Background()
	cache := newMemSentimentCache()
	require.NoError(t, cache.Set(ctx, "mkt-btc", "cached commentary"))

	calls := 0
	provider := providerFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		return "fresh commentary", nil
	})

	svc := NewSentimentService(SentimentConfig{}, provider, cache, rand.New(rand.NewSource(1)), discardLogger())

	text := svc.ForMarket(ctx, sentimentMarket())
	assert.Equal(t, "cached commentary", text)
	assert.Zero(t, calls)
}

func TestSentimentCachesGeneratedText(t *testing.T) {
	ctx := context.Background()
	cache := newMemSentimentCache()
	provider := providerFunc(func(_ context.Context, _ string) (string, error) {
		return "fresh commentary", nil
	})

	svc := NewSentimentService(SentimentConfig{}, provider, cache, rand.New(rand.NewSource(1)), discardLogger())
	svc.ForMarket(ctx, sentimentMarket())

	cached, err := cache.Get(ctx, "mkt-btc")
	require.NoError(t, err)
	assert.Equal(t, "fresh commentary", cached)
}

func TestSentimentRefreshReplacesCachedText(t *testing.T) {
	ctx := context.Background()
	cache := newMemSentimentCache()
	require.NoError(t, cache.Set(ctx, "mkt-btc", "stale commentary"))

	provider := providerFunc(func(_ context.Context, _ string) (string, error) {
		return "fresh commentary", nil
	})

	svc := NewSentimentService(SentimentConfig{}, provider, cache, rand.New(rand.NewSource(1)), discardLogger())

	text := svc.Refresh(ctx, sentimentMarket())
	assert.Equal(t, "fresh commentary", text)

	// The cache now holds the regenerated text for subsequent reads.
	cached, err := cache.Get(ctx, "mkt-btc")
	require.NoError(t, err)
	assert.Equal(t, "fresh commentary", cached)
}

func TestSentimentProviderTimeout(t *testing.T) {
	provider := providerFunc(func(ctx context.Context, _ string) (string, error) {
		select {
		case <-time.After(time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})

	svc := NewSentimentService(
		SentimentConfig{GenerateTimeout: 10 * time.Millisecond},
		provider, nil, rand.New(rand.NewSource(1)), discardLogger())

	start := time.Now()
	text := svc.ForMarket(context.Background(), sentimentMarket())
	assert.NotEmpty(t, text)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "timeout bounds the provider call")
}
