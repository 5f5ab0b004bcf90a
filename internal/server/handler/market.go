package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/server/middleware"
	"github.com/aryanbaranwal001/multiverse-finance/internal/service"
)

// defaultSearchLimit caps how many search hits the list endpoint returns.
// The query itself is unbounded; truncation is a display concern.
const defaultSearchLimit = 8

// defaultCategory is the landing tab when none is requested.
const defaultCategory = "trending"

// MarketHandler serves the catalog endpoints.
type MarketHandler struct {
	markets *service.MarketService
	logger  *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(markets *service.MarketService, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{markets: markets, logger: logger}
}

type listMarketsResponse struct {
	Markets  []service.MarketView `json:"markets"`
	Category string               `json:"category"`
	Total    int                  `json:"total"`
}

// ListMarkets returns the markets for one category tab.
// GET /api/markets?category=crypto
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = defaultCategory
	}

	views, err := h.markets.ListByCategory(r.Context(), middleware.SessionID(r.Context()), category)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list markets failed",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list markets")
		return
	}
	if views == nil {
		views = []service.MarketView{}
	}

	writeJSON(w, http.StatusOK, listMarketsResponse{
		Markets:  views,
		Category: category,
		Total:    len(views),
	})
}

type searchResponse struct {
	Markets []service.MarketView `json:"markets"`
	Query   string               `json:"query"`
	Total   int                  `json:"total"`
}

// SearchMarkets returns markets whose title or category contains the query.
// The response is truncated to the display limit; Total carries the full
// match count.
// GET /api/markets/search?q=bitcoin&limit=8
func (h *MarketHandler) SearchMarkets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	views, err := h.markets.Search(r.Context(), middleware.SessionID(r.Context()), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: search failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	total := len(views)
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if len(views) > limit {
		views = views[:limit]
	}
	if views == nil {
		views = []service.MarketView{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Markets: views,
		Query:   query,
		Total:   total,
	})
}

// ListCategories returns the fixed category taxonomy in display order.
// GET /api/markets/categories
func (h *MarketHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.markets.Categories(),
	})
}

// GetMarket resolves a navigation slug to its market.
// GET /api/markets/{slug}
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing market slug")
		return
	}

	view, err := h.markets.Resolve(r.Context(), middleware.SessionID(r.Context()), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: resolve market failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to resolve market")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// ToggleBookmark flips the session's bookmark flag for a market.
// POST /api/markets/{id}/bookmark
func (h *MarketHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	bookmarked, err := h.markets.ToggleBookmark(r.Context(), middleware.SessionID(r.Context()), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: toggle bookmark failed",
			slog.String("market_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to toggle bookmark")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"market_id":  id,
		"bookmarked": bookmarked,
	})
}
