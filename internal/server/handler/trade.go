package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/service"
)

// TradeHandler serves the buy-flow endpoints.
type TradeHandler struct {
	trades *service.TradeService
	logger *slog.Logger
}

// NewTradeHandler creates a TradeHandler.
func NewTradeHandler(trades *service.TradeService, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{trades: trades, logger: logger}
}

type submitRequest struct {
	MarketID string `json:"market_id"`
	Side     string `json:"side"`
	Amount   string `json:"amount"`
}

// SubmitTrade settles an accepted buy-flow submission.
// POST /api/trades
func (h *TradeHandler) SubmitTrade(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	side, err := domain.ParseSide(req.Side)
	if err != nil {
		writeError(w, http.StatusBadRequest, "side must be yes or no")
		return
	}

	res, err := h.trades.Submit(r.Context(), req.MarketID, side, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "amount must be a positive number")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "market not found")
		case errors.Is(err, domain.ErrWalletNotConnected):
			writeError(w, http.StatusConflict, "wallet not connected")
		case errors.Is(err, domain.ErrLockHeld):
			writeError(w, http.StatusConflict, "another submission is in flight")
		default:
			h.logger.ErrorContext(r.Context(), "handler: submit trade failed",
				slog.String("market_id", req.MarketID),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusBadGateway, "submission failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// ListRecent returns the newest journaled purchases.
// GET /api/trades/recent?limit=50
func (h *TradeHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	purchases, err := h.trades.ListRecent(r.Context(), opts.Limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list recent trades failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}
	if purchases == nil {
		purchases = []domain.Purchase{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"purchases": purchases,
		"total":     len(purchases),
	})
}

// Balance returns the wallet's native-token balance.
// GET /api/wallet/balance
func (h *TradeHandler) Balance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"balance": h.trades.Balance(r.Context()),
	})
}
