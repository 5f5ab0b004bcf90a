package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/trade"
)

// TradeConfig carries the deployment-mode knobs for submissions.
type TradeConfig struct {
	// Mode selects the settlement collaborator: "simulated" confirms
	// immediately, "wallet" routes through the chain adapter.
	Mode domain.PurchaseMode

	// SubmitTimeout bounds one wallet submission end to end.
	SubmitTimeout time.Duration

	// LockTTL bounds how long the per-wallet submission lock may be held.
	LockTTL time.Duration
}

// SubmitResult is what the buy flow surfaces to the user after an accepted
// submission.
type SubmitResult struct {
	Purchase domain.Purchase `json:"purchase"`
	Message  string          `json:"message"`
}

// TradeService executes accepted buy-flow submissions. Validation mirrors the
// ticket state machine: only positive finite USD amounts get here. Every
// failure is caught at this boundary and reported back so the caller's panel
// stays open for a manual retry.
type TradeService struct {
	cfg       TradeConfig
	markets   *MarketService
	wallet    domain.Wallet
	purchases domain.PurchaseStore // may be nil in lite mode
	audit     domain.AuditStore    // may be nil in lite mode
	locks     domain.LockManager   // may be nil; then submissions are unserialized
	bus       domain.SignalBus
	logger    *slog.Logger

	// balanceMu guards balance; submissions and balance reads arrive on
	// concurrent requests.
	balanceMu sync.Mutex
	// balance is refreshed after each confirmed wallet purchase.
	balance float64
}

// NewTradeService creates a TradeService.
func NewTradeService(
	cfg TradeConfig,
	markets *MarketService,
	wallet domain.Wallet,
	purchases domain.PurchaseStore,
	audit domain.AuditStore,
	locks domain.LockManager,
	bus domain.SignalBus,
	logger *slog.Logger,
) *TradeService {
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 30 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.SubmitTimeout + 10*time.Second
	}
	return &TradeService{
		cfg:       cfg,
		markets:   markets,
		wallet:    wallet,
		purchases: purchases,
		audit:     audit,
		locks:     locks,
		bus:       bus,
		logger:    logger,
	}
}

// Submit settles a validated buy-flow submission for the given market and
// side. The amount has already passed trade.ParseAmount; it is re-checked
// here because this is also an HTTP entry point.
func (s *TradeService) Submit(ctx context.Context, marketID string, side domain.Side, amountText string) (SubmitResult, error) {
	usd, err := trade.ParseAmount(amountText)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("trade_service: amount %q: %w", amountText, err)
	}

	m, err := s.markets.Get(marketID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("trade_service: %w", err)
	}

	p := domain.Purchase{
		ID:              uuid.NewString(),
		MarketID:        m.ID,
		MarketTitle:     m.Title,
		Side:            side,
		USDAmount:       usd,
		ProjectedProfit: trade.ProjectedProfit(usd, m.YesPercentage, side),
		Mode:            s.cfg.Mode,
		CreatedAt:       time.Now().UTC(),
	}

	switch s.cfg.Mode {
	case domain.PurchaseModeWallet:
		if err := s.submitOnChain(ctx, &p); err != nil {
			s.logger.ErrorContext(ctx, "trade_service: wallet submission failed",
				slog.String("market_id", m.ID),
				slog.String("side", string(side)),
				slog.String("error", err.Error()),
			)
			return SubmitResult{}, err
		}
	default:
		// Simulated mode succeeds immediately.
	}

	s.record(ctx, p)

	msg := fmt.Sprintf("Placed %s order for $%s on %q", sideLabel(side), amountText, m.Title)
	return SubmitResult{Purchase: p, Message: msg}, nil
}

// submitOnChain routes the purchase through the wallet adapter under a
// per-wallet lock and an explicit timeout. Any failure leaves the caller's
// panel open; nothing is journaled for a failed submission.
func (s *TradeService) submitOnChain(ctx context.Context, p *domain.Purchase) error {
	if s.wallet == nil || !s.wallet.Connected() {
		return fmt.Errorf("trade_service: %w", domain.ErrWalletNotConnected)
	}

	if s.locks != nil {
		unlock, err := s.locks.Acquire(ctx, "lock:wallet:submit", s.cfg.LockTTL)
		if err != nil {
			return fmt.Errorf("trade_service: submission lock: %w", err)
		}
		defer unlock()
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SubmitTimeout)
	defer cancel()

	res, err := s.wallet.SubmitPurchase(ctx, p.MarketID, p.Side, p.USDAmount)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("trade_service: submission timed out: %w", err)
		}
		return fmt.Errorf("trade_service: submit purchase: %w", err)
	}

	p.TxHash = res.Hash
	p.NativeAmount = res.NativeAmount

	// Refresh the cached balance; a failure here does not fail the purchase.
	if bal, err := s.wallet.NativeBalance(ctx); err == nil {
		s.setBalance(bal)
	} else {
		s.logger.WarnContext(ctx, "trade_service: balance refresh failed",
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Balance returns the last cached native-token balance, refreshing it from
// the wallet when possible.
func (s *TradeService) Balance(ctx context.Context) float64 {
	if s.wallet != nil && s.wallet.Connected() {
		if bal, err := s.wallet.NativeBalance(ctx); err == nil {
			s.setBalance(bal)
		}
	}
	s.balanceMu.Lock()
	defer s.balanceMu.Unlock()
	return s.balance
}

func (s *TradeService) setBalance(bal float64) {
	s.balanceMu.Lock()
	defer s.balanceMu.Unlock()
	s.balance = bal
}

// record journals and broadcasts an accepted purchase. Journal errors are
// logged, not surfaced: the purchase already succeeded from the user's view.
func (s *TradeService) record(ctx context.Context, p domain.Purchase) {
	if s.purchases != nil {
		if err := s.purchases.Insert(ctx, p); err != nil {
			s.logger.ErrorContext(ctx, "trade_service: journal purchase failed",
				slog.String("purchase_id", p.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	if s.audit != nil {
		detail := map[string]any{
			"purchase_id": p.ID,
			"market_id":   p.MarketID,
			"side":        string(p.Side),
			"usd_amount":  p.USDAmount,
			"mode":        string(p.Mode),
		}
		if p.TxHash != "" {
			detail["tx_hash"] = p.TxHash
		}
		if err := s.audit.Log(ctx, "purchase_submitted", detail); err != nil {
			s.logger.WarnContext(ctx, "trade_service: audit log failed",
				slog.String("error", err.Error()),
			)
		}
	}
	if s.bus != nil {
		if data, err := json.Marshal(p); err == nil {
			if err := s.bus.Publish(ctx, "purchases", data); err != nil {
				s.logger.WarnContext(ctx, "trade_service: publish purchase failed",
					slog.String("error", err.Error()),
				)
			}
			_ = s.bus.StreamAppend(ctx, "stream:purchases", data)
		}
	}
}

// ListRecent returns recent journal rows when the journal is wired, or an
// empty slice in lite mode.
func (s *TradeService) ListRecent(ctx context.Context, limit int) ([]domain.Purchase, error) {
	if s.purchases == nil {
		return nil, nil
	}
	out, err := s.purchases.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("trade_service: list recent: %w", err)
	}
	return out, nil
}

func sideLabel(side domain.Side) string {
	if side == domain.SideNo {
		return "NO"
	}
	return "YES"
}
