package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/aryanbaranwal001/multiverse-finance/internal/catalog"
	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// SentimentConfig carries the knobs for sentiment generation.
type SentimentConfig struct {
	// GenerateTimeout bounds one call into the text-generation service.
	GenerateTimeout time.Duration
}

// SentimentService produces free-text commentary for a market: generated by
// the external provider when possible, otherwise one of several canned
// paragraphs chosen pseudorandomly. It never returns an error to the caller;
// every failure path degrades to fallback text.
type SentimentService struct {
	cfg      SentimentConfig
	provider domain.SentimentProvider // may be nil; then fallback only
	cache    domain.SentimentCache    // may be nil
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSentimentService creates a SentimentService. The rand source is injected
// so tests can seed it and assert structure without asserting exact text.
func NewSentimentService(
	cfg SentimentConfig,
	provider domain.SentimentProvider,
	cache domain.SentimentCache,
	rng *rand.Rand,
	logger *slog.Logger,
) *SentimentService {
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 15 * time.Second
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SentimentService{
		cfg:      cfg,
		provider: provider,
		cache:    cache,
		rng:      rng,
		logger:   logger,
	}
}

// ForMarket returns sentiment text for a market, preferring the cache, then
// the provider, then canned fallback.
func (s *SentimentService) ForMarket(ctx context.Context, m domain.Market) string {
	if s.cache != nil {
		if text, err := s.cache.Get(ctx, m.ID); err == nil && text != "" {
			return text
		}
	}

	text := s.generate(ctx, m)

	if s.cache != nil {
		if err := s.cache.Set(ctx, m.ID, text); err != nil {
			s.logger.WarnContext(ctx, "sentiment: cache set failed",
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return text
}

// Refresh drops any cached text for the market and generates fresh
// commentary. Invalidation failures are fail-soft; generation proceeds and
// overwrites the cache entry anyway.
func (s *SentimentService) Refresh(ctx context.Context, m domain.Market) string {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, m.ID); err != nil {
			s.logger.WarnContext(ctx, "sentiment: cache invalidate failed",
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	text := s.generate(ctx, m)

	if s.cache != nil {
		if err := s.cache.Set(ctx, m.ID, text); err != nil {
			s.logger.WarnContext(ctx, "sentiment: cache set failed",
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return text
}

func (s *SentimentService) generate(ctx context.Context, m domain.Market) string {
	if s.provider == nil {
		return s.fallback(m)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	defer cancel()

	text, err := s.provider.Generate(ctx, buildPrompt(m))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			s.logger.WarnContext(ctx, "sentiment: provider failed, using fallback",
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
		}
		return s.fallback(m)
	}
	return strings.TrimSpace(text)
}

// buildPrompt composes the provider prompt from the market's title,
// description, and current probability.
func buildPrompt(m domain.Market) string {
	return fmt.Sprintf(
		"In two or three sentences, summarise current market sentiment for the "+
			"prediction market %q (currently trading at %d%% yes). Context: %s",
		m.Title, m.YesPercentage, m.Description,
	)
}

// fallback picks one of the canned paragraphs pseudorandomly.
func (s *SentimentService) fallback(m domain.Market) string {
	paragraphs := []string{
		fmt.Sprintf("Current market sentiment for %q shows %d%% probability. Recent global surveys indicate mixed opinions with emerging markets showing more optimism than developed nations.",
			m.Title, m.YesPercentage),
		"Analysis suggests strong correlation with recent geopolitical developments. Market participants are closely watching policy announcements and economic indicators.",
		fmt.Sprintf("Technical analysis indicates potential volatility ahead. Trading volume of %s suggests high market interest and liquidity.",
			catalog.FormatVolume(m.Volume)),
	}

	s.mu.Lock()
	idx := s.rng.Intn(len(paragraphs))
	s.mu.Unlock()
	return paragraphs[idx]
}
