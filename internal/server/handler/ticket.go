package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/server/middleware"
	"github.com/aryanbaranwal001/multiverse-finance/internal/service"
)

// TicketHandler serves the per-session buy-flow tickets. Each session keeps
// one ticket per market; clicks and keystrokes are posted as actions and the
// updated ticket state comes back.
type TicketHandler struct {
	tickets *service.TicketService
	logger  *slog.Logger
}

// NewTicketHandler creates a TicketHandler.
func NewTicketHandler(tickets *service.TicketService, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{tickets: tickets, logger: logger}
}

type ticketActionRequest struct {
	// Action is one of "yes", "no", "amount", "cancel", "submit".
	Action string `json:"action"`
	// Amount carries the raw input text for the "amount" action.
	Amount string `json:"amount"`
}

type ticketResponse struct {
	Ticket service.TicketView    `json:"ticket"`
	Result *service.SubmitResult `json:"result,omitempty"`
}

// GetTicket returns the ticket's current state.
// GET /api/markets/{id}/ticket
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	marketID := pathParam(r, "id")
	view := h.tickets.View(middleware.SessionID(r.Context()), marketID)
	writeJSON(w, http.StatusOK, ticketResponse{Ticket: view})
}

// ApplyAction runs one buy-flow transition on the ticket.
// POST /api/markets/{id}/ticket
func (h *TicketHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	var req ticketActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	marketID := pathParam(r, "id")
	sessionID := middleware.SessionID(r.Context())

	switch req.Action {
	case "yes":
		writeJSON(w, http.StatusOK, ticketResponse{Ticket: h.tickets.ClickYes(sessionID, marketID)})
	case "no":
		writeJSON(w, http.StatusOK, ticketResponse{Ticket: h.tickets.ClickNo(sessionID, marketID)})
	case "amount":
		writeJSON(w, http.StatusOK, ticketResponse{Ticket: h.tickets.SetAmount(sessionID, marketID, req.Amount)})
	case "cancel":
		writeJSON(w, http.StatusOK, ticketResponse{Ticket: h.tickets.Cancel(sessionID, marketID)})
	case "submit":
		h.submit(w, r, sessionID, marketID)
	default:
		writeError(w, http.StatusBadRequest, "action must be yes, no, amount, cancel, or submit")
	}
}

func (h *TicketHandler) submit(w http.ResponseWriter, r *http.Request, sessionID, marketID string) {
	view, result, err := h.tickets.Submit(r.Context(), sessionID, marketID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "market not found")
		case errors.Is(err, domain.ErrWalletNotConnected):
			writeError(w, http.StatusConflict, "wallet not connected")
		case errors.Is(err, domain.ErrLockHeld):
			writeError(w, http.StatusConflict, "another submission is in flight")
		default:
			h.logger.ErrorContext(r.Context(), "handler: ticket submit failed",
				slog.String("market_id", marketID),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusBadGateway, "submission failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, ticketResponse{Ticket: view, Result: result})
}
