package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aryanbaranwal001/multiverse-finance/internal/server/middleware"
	"github.com/aryanbaranwal001/multiverse-finance/internal/session"
)

// SessionHandler serves the per-session UI state: category tab, search box,
// and theme.
type SessionHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

type sessionResponse struct {
	session.Snapshot
	Palette []string `json:"palette"`
}

// GetSession returns the session's current state and the theme palette.
// GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	store := h.sessions.Get(r.Context(), middleware.SessionID(r.Context()))
	writeJSON(w, http.StatusOK, sessionResponse{
		Snapshot: store.Snapshot(),
		Palette:  session.Palette(),
	})
}

type updateSessionRequest struct {
	ActiveCategory  *string `json:"active_category"`
	SearchQuery     *string `json:"search_query"`
	IsSearchOpen    *bool   `json:"is_search_open"`
	ThemeColor      *string `json:"theme_color"`
	WalletConnected *bool   `json:"wallet_connected"`
}

// UpdateSession applies the fields present in the request body. Absent fields
// are left untouched.
// PUT /api/session
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store := h.sessions.Get(r.Context(), middleware.SessionID(r.Context()))
	if req.ActiveCategory != nil {
		store.SetActiveCategory(*req.ActiveCategory)
	}
	if req.SearchQuery != nil {
		store.SetSearchQuery(*req.SearchQuery)
	}
	if req.IsSearchOpen != nil {
		store.SetSearchOpen(*req.IsSearchOpen)
	}
	if req.ThemeColor != nil {
		store.SetThemeColor(r.Context(), *req.ThemeColor)
	}
	if req.WalletConnected != nil {
		store.SetWalletConnected(r.Context(), *req.WalletConnected)
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Snapshot: store.Snapshot(),
		Palette:  session.Palette(),
	})
}

// NextTheme advances the theme through the palette with wraparound.
// POST /api/session/theme/next
func (h *SessionHandler) NextTheme(w http.ResponseWriter, r *http.Request) {
	store := h.sessions.Get(r.Context(), middleware.SessionID(r.Context()))
	color := store.NextColor(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"theme_color": color,
		"palette":     session.Palette(),
	})
}
