package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/server/middleware"
	"github.com/aryanbaranwal001/multiverse-finance/internal/service"
)

// SentimentHandler serves generated market commentary.
type SentimentHandler struct {
	markets   *service.MarketService
	sentiment *service.SentimentService
	logger    *slog.Logger
}

// NewSentimentHandler creates a SentimentHandler.
func NewSentimentHandler(markets *service.MarketService, sentiment *service.SentimentService, logger *slog.Logger) *SentimentHandler {
	return &SentimentHandler{markets: markets, sentiment: sentiment, logger: logger}
}

// GetSentiment returns commentary for one market. Generation failures degrade
// to canned text, so this endpoint only errors on an unknown slug. Passing
// refresh=true bypasses and replaces the cached text.
// GET /api/markets/{slug}/sentiment?refresh=true
func (h *SentimentHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	view, err := h.markets.Resolve(r.Context(), middleware.SessionID(r.Context()), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: sentiment resolve failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to resolve market")
		return
	}

	var text string
	if r.URL.Query().Get("refresh") == "true" {
		text = h.sentiment.Refresh(r.Context(), view.Market)
	} else {
		text = h.sentiment.ForMarket(r.Context(), view.Market)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"market_id": view.ID,
		"sentiment": text,
	})
}
