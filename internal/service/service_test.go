package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aryanbaranwal001/multiverse-finance/internal/catalog"
	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *catalog.Catalog {
	cat, err := catalog.New(
		[]domain.Market{
			{
				ID:            "mkt-btc",
				Title:         "Bitcoin above $150K by December 31?",
				Description:   "Resolves yes if BTC trades above $150,000.",
				Volume:        2_100_000,
				Categories:    []string{"trending", "crypto"},
				IconName:      "bitcoin",
				YesPercentage: 62,
			},
			{
				ID:            "mkt-fed",
				Title:         "Fed cuts rates in September?",
				Description:   "Resolves yes on a September rate cut.",
				Volume:        950_000,
				Categories:    []string{"economy"},
				IconName:      "chart",
				YesPercentage: 38,
			},
		},
		[]string{"trending", "crypto", "economy"},
	)
	if err != nil {
		panic(err)
	}
	return cat
}

// memBookmarks is an in-memory domain.BookmarkStore keyed by session.
type memBookmarks struct {
	mu       sync.Mutex
	flags    map[string]map[string]bool
	failList bool
}

func newMemBookmarks() *memBookmarks {
	return &memBookmarks{flags: map[string]map[string]bool{}}
}

func (b *memBookmarks) Set(_ context.Context, session, marketID string, bookmarked bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.flags[session] == nil {
		b.flags[session] = map[string]bool{}
	}
	b.flags[session][marketID] = bookmarked
	return nil
}

func (b *memBookmarks) Get(_ context.Context, session, marketID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flags[session][marketID], nil
}

func (b *memBookmarks) List(_ context.Context, session string) (map[string]bool, error) {
	if b.failList {
		return nil, errors.New("store unavailable")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := map[string]bool{}
	for id, v := range b.flags[session] {
		out[id] = v
	}
	return out, nil
}

// memBus records published events.
type memBus struct {
	mu       sync.Mutex
	events   map[string][][]byte
	appended map[string][][]byte
}

func newMemBus() *memBus {
	return &memBus{events: map[string][][]byte{}, appended: map[string][][]byte{}}
}

func (b *memBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[channel] = append(b.events[channel], payload)
	return nil
}

func (b *memBus) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return make(chan []byte), nil
}

func (b *memBus) StreamAppend(_ context.Context, stream string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appended[stream] = append(b.appended[stream], payload)
	return nil
}

func (b *memBus) StreamRead(_ context.Context, _ string, _ string, _ int) ([]domain.StreamMessage, error) {
	return nil, nil
}

// fakeWallet scripts SubmitPurchase outcomes for the trade service tests.
type fakeWallet struct {
	connected bool
	result    domain.TxResult
	err       error
	delay     time.Duration
	balance   float64

	mu    sync.Mutex
	calls int
}

func (w *fakeWallet) Connected() bool { return w.connected }

func (w *fakeWallet) SubmitPurchase(ctx context.Context, _ string, _ domain.Side, _ float64) (domain.TxResult, error) {
	w.mu.Lock()
	w.calls++
	w.mu.Unlock()
	if w.delay > 0 {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			return domain.TxResult{}, ctx.Err()
		}
	}
	return w.result, w.err
}

func (w *fakeWallet) NativeBalance(_ context.Context) (float64, error) {
	return w.balance, nil
}

// memJournal is an in-memory domain.PurchaseStore.
type memJournal struct {
	mu   sync.Mutex
	rows []domain.Purchase
	fail bool
}

func (j *memJournal) Insert(_ context.Context, p domain.Purchase) error {
	if j.fail {
		return errors.New("journal unavailable")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rows = append(j.rows, p)
	return nil
}

func (j *memJournal) GetByID(_ context.Context, id string) (domain.Purchase, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, p := range j.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Purchase{}, domain.ErrNotFound
}

func (j *memJournal) ListByMarket(_ context.Context, marketID string, _ domain.ListOpts) ([]domain.Purchase, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []domain.Purchase
	for _, p := range j.rows {
		if p.MarketID == marketID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (j *memJournal) ListRecent(_ context.Context, limit int) ([]domain.Purchase, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit <= 0 || limit > len(j.rows) {
		limit = len(j.rows)
	}
	out := make([]domain.Purchase, limit)
	copy(out, j.rows[len(j.rows)-limit:])
	return out, nil
}

func (j *memJournal) ListBefore(_ context.Context, _ time.Time) ([]domain.Purchase, error) {
	return nil, nil
}

// memAudit records audit actions.
type memAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *memAudit) Log(_ context.Context, action string, _ map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

func (a *memAudit) List(_ context.Context, _ domain.ListOpts) ([]domain.AuditEntry, error) {
	return nil, nil
}

func (a *memAudit) ListBefore(_ context.Context, _ time.Time) ([]domain.AuditEntry, error) {
	return nil, nil
}

// memSentimentCache is an in-memory domain.SentimentCache.
type memSentimentCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemSentimentCache() *memSentimentCache {
	return &memSentimentCache{data: map[string]string{}}
}

func (c *memSentimentCache) Set(_ context.Context, marketID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[marketID] = text
	return nil
}

func (c *memSentimentCache) Get(_ context.Context, marketID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[marketID], nil
}

func (c *memSentimentCache) Invalidate(_ context.Context, marketID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, marketID)
	return nil
}

// providerFunc adapts a function to domain.SentimentProvider.
type providerFunc func(ctx context.Context, prompt string) (string, error)

func (f providerFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
