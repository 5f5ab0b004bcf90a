package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

func newTradeFixture(t *testing.T, cfg TradeConfig, wallet domain.Wallet) (*TradeService, *memJournal, *memAudit, *memBus) {
	t.Helper()
	markets := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())
	journal := &memJournal{}
	audit := &memAudit{}
	bus := newMemBus()
	svc := NewTradeService(cfg, markets, wallet, journal, audit, nil, bus, discardLogger())
	return svc, journal, audit, bus
}

func TestSubmitSimulated(t *testing.T) {
	svc, journal, audit, bus := newTradeFixture(t,
		TradeConfig{Mode: domain.PurchaseModeSimulated}, nil)

	res, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, "100")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Purchase.ID)
	assert.Equal(t, "mkt-btc", res.Purchase.MarketID)
	assert.Equal(t, domain.SideYes, res.Purchase.Side)
	assert.Equal(t, 100.0, res.Purchase.USDAmount)
	assert.InDelta(t, 61.29, res.Purchase.ProjectedProfit, 0.01)
	assert.Empty(t, res.Purchase.TxHash, "simulated purchases have no transaction")
	assert.Equal(t, `Placed YES order for $100 on "Bitcoin above $150K by December 31?"`, res.Message)

	require.Len(t, journal.rows, 1)
	assert.Equal(t, []string{"purchase_submitted"}, audit.actions)
	assert.Len(t, bus.events["purchases"], 1)
	assert.Len(t, bus.appended["stream:purchases"], 1)
}

func TestSubmitRejectsInvalidAmount(t *testing.T) {
	svc, journal, _, _ := newTradeFixture(t,
		TradeConfig{Mode: domain.PurchaseModeSimulated}, nil)

	for _, amount := range []string{"", "abc", "0", "-5"} {
		_, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, amount)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %q", amount)
	}
	assert.Empty(t, journal.rows, "rejected submissions are never journaled")
}

func TestSubmitUnknownMarket(t *testing.T) {
	svc, _, _, _ := newTradeFixture(t,
		TradeConfig{Mode: domain.PurchaseModeSimulated}, nil)

	_, err := svc.Submit(context.Background(), "mkt-missing", domain.SideYes, "50")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitWalletSuccess(t *testing.T) {
	wallet := &fakeWallet{
		connected: true,
		result:    domain.TxResult{Hash: "0xabc", NativeAmount: 23.75},
		balance:   410.5,
	}
	svc, journal, _, _ := newTradeFixture(t,
		TradeConfig{Mode: domain.PurchaseModeWallet}, wallet)

	res, err := svc.Submit(context.Background(), "mkt-fed", domain.SideNo, "42.50")
	require.NoError(t, err)

	assert.Equal(t, "0xabc", res.Purchase.TxHash)
	assert.Equal(t, 23.75, res.Purchase.NativeAmount)
	assert.Equal(t, domain.PurchaseModeWallet, res.Purchase.Mode)
	require.Len(t, journal.rows, 1)
	assert.Equal(t, 410.5, svc.Balance(context.Background()))
}

func TestSubmitWalletNotConnected(t *testing.T) {
	wallet := &fakeWallet{connected: false}
	svc, journal, _, _ := newTradeFixture(t,
		TradeConfig{Mode: domain.PurchaseModeWallet}, wallet)

	_, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, "10")
	assert.ErrorIs(t, err, domain.ErrWalletNotConnected)
	assert.Empty(t, journal.rows)
	assert.Zero(t, wallet.calls, "disconnected wallet is never called")
}

func TestSubmitWalletFailureIsRetryable(t *testing.T) {
	wallet := &fakeWallet{connected: true, err: errors.New("rpc: connection refused")}
	svc, journal, audit, _ := newTradeFixture(t,
		TradeConfig{Mode: domain.PurchaseModeWallet}, wallet)

	_, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, "10")
	require.Error(t, err)
	assert.Empty(t, journal.rows, "failed submissions leave no journal row")
	assert.Empty(t, audit.actions)

	// Same inputs succeed once the wallet recovers.
	wallet.err = nil
	wallet.result = domain.TxResult{Hash: "0xdef"}
	res, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, "10")
	require.NoError(t, err)
	assert.Equal(t, "0xdef", res.Purchase.TxHash)
	assert.Equal(t, 2, wallet.calls)
}

func TestSubmitWalletTimeout(t *testing.T) {
	wallet := &fakeWallet{connected: true, delay: time.Second}
	svc, journal, _, _ := newTradeFixture(t,
		TradeConfig{Mode: domain.PurchaseModeWallet, SubmitTimeout: 10 * time.Millisecond}, wallet)

	_, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, "10")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, journal.rows)
}

func TestSubmitHoldsLock(t *testing.T) {
	wallet := &fakeWallet{connected: true, result: domain.TxResult{Hash: "0x1"}}
	markets := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())

	var acquired, released int
	locks := lockFunc(func(_ context.Context, key string, _ time.Duration) (func(), error) {
		assert.Equal(t, "lock:wallet:submit", key)
		acquired++
		return func() { released++ }, nil
	})

	svc := NewTradeService(
		TradeConfig{Mode: domain.PurchaseModeWallet},
		markets, wallet, &memJournal{}, &memAudit{}, locks, newMemBus(), discardLogger())

	_, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, "10")
	require.NoError(t, err)
	assert.Equal(t, 1, acquired)
	assert.Equal(t, 1, released)
}

func TestListRecentWithoutJournal(t *testing.T) {
	markets := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())
	svc := NewTradeService(
		TradeConfig{Mode: domain.PurchaseModeSimulated},
		markets, nil, nil, nil, nil, newMemBus(), discardLogger())

	rows, err := svc.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// lockFunc adapts a function to domain.LockManager.
type lockFunc func(ctx context.Context, key string, ttl time.Duration) (func(), error)

func (f lockFunc) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return f(ctx, key, ttl)
}

func TestBalanceConcurrentWithSubmissions(t *testing.T) {
	wallet := &fakeWallet{
		connected: true,
		result:    domain.TxResult{Hash: "0xabc", NativeAmount: 23.75},
		balance:   410.5,
	}
	markets := NewMarketService(testCatalog(), newMemBookmarks(), newMemBus(), discardLogger())
	svc := NewTradeService(
		TradeConfig{Mode: domain.PurchaseModeWallet},
		markets, wallet, nil, nil, nil, nil, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), "mkt-btc", domain.SideYes, "100")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			svc.Balance(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 410.5, svc.Balance(context.Background()))
}
