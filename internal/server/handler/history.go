package handler

import (
	"errors"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/server/middleware"
	"github.com/aryanbaranwal001/multiverse-finance/internal/service"
)

// HistoryHandler serves synthesized probability series for market charts.
type HistoryHandler struct {
	markets *service.MarketService
	logger  *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(markets *service.MarketService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{markets: markets, logger: logger}
}

// GetHistory returns the probability series for one market. The series is
// seeded from the market ID so repeated requests draw the same chart.
// GET /api/markets/{slug}/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	view, err := h.markets.Resolve(r.Context(), middleware.SessionID(r.Context()), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: history resolve failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to resolve market")
		return
	}

	rng := rand.New(rand.NewSource(seedFor(view.ID)))
	writeJSON(w, http.StatusOK, map[string]any{
		"market_id": view.ID,
		"points":    service.HistorySeries(view.YesPercentage, rng),
	})
}

func seedFor(marketID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(marketID))
	return int64(h.Sum64())
}
