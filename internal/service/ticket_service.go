package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/trade"
)

// TicketView is the wire shape of one buy-flow ticket.
type TicketView struct {
	State  trade.State `json:"state"`
	Amount string      `json:"amount"`
}

// TicketService keeps one buy-flow ticket per session and market, so the side
// panel survives page reloads and every click lands on the same state
// machine. Accepted submissions are delegated to the TradeService.
type TicketService struct {
	trades *TradeService
	logger *slog.Logger

	mu      sync.Mutex
	tickets map[string]*ticketEntry
}

// ticketEntry pairs a ticket with its own lock; tickets are single-threaded
// state machines, and a wallet submission may hold one for seconds without
// blocking other sessions.
type ticketEntry struct {
	mu     sync.Mutex
	ticket *trade.Ticket
	result *SubmitResult
}

// NewTicketService creates a TicketService.
func NewTicketService(trades *TradeService, logger *slog.Logger) *TicketService {
	return &TicketService{
		trades:  trades,
		logger:  logger,
		tickets: make(map[string]*ticketEntry),
	}
}

// entry returns the ticket for the session and market, creating it closed on
// first use.
func (s *TicketService) entry(sessionID, marketID string) *ticketEntry {
	key := sessionID + "|" + marketID
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tickets[key]
	if !ok {
		e = &ticketEntry{}
		e.ticket = trade.NewTicket(trade.SubmitterFunc(
			func(ctx context.Context, side domain.Side, usdAmount float64) error {
				amount := strconv.FormatFloat(usdAmount, 'f', -1, 64)
				res, err := s.trades.Submit(ctx, marketID, side, amount)
				if err != nil {
					return err
				}
				e.result = &res
				return nil
			},
		))
		s.tickets[key] = e
	}
	return e
}

// View returns the ticket's current state without changing it.
func (s *TicketService) View(sessionID, marketID string) TicketView {
	e := s.entry(sessionID, marketID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return viewOf(e.ticket)
}

// ClickYes toggles the yes panel.
func (s *TicketService) ClickYes(sessionID, marketID string) TicketView {
	e := s.entry(sessionID, marketID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticket.ClickYes()
	return viewOf(e.ticket)
}

// ClickNo toggles the no panel.
func (s *TicketService) ClickNo(sessionID, marketID string) TicketView {
	e := s.entry(sessionID, marketID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticket.ClickNo()
	return viewOf(e.ticket)
}

// SetAmount stores the raw amount text for the open side.
func (s *TicketService) SetAmount(sessionID, marketID, text string) TicketView {
	e := s.entry(sessionID, marketID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticket.AmountChanged(text)
	return viewOf(e.ticket)
}

// Cancel closes the open panel and clears its amount.
func (s *TicketService) Cancel(sessionID, marketID string) TicketView {
	e := s.entry(sessionID, marketID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticket.Cancel()
	return viewOf(e.ticket)
}

// Submit runs the ticket's submit transition. The result is non-nil only when
// a purchase was actually accepted; an invalid or empty amount is a no-op
// that leaves the panel open, and a settlement failure returns the error with
// the amount preserved for a retry.
func (s *TicketService) Submit(ctx context.Context, sessionID, marketID string) (TicketView, *SubmitResult, error) {
	e := s.entry(sessionID, marketID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.result = nil
	err := e.ticket.Submit(ctx)
	return viewOf(e.ticket), e.result, err
}

func viewOf(t *trade.Ticket) TicketView {
	return TicketView{State: t.State(), Amount: t.Amount()}
}
