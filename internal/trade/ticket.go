// Package trade implements the buy-flow state machine that governs a single
// trading surface: side selection, amount entry, and submission.
package trade

import (
	"context"
	"math"
	"strconv"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// State is the ticket's position in the buy flow.
type State string

const (
	// StateClosed means no side panel is open. This is the initial and the
	// only terminal state.
	StateClosed State = "closed"
	// StateEnteringYes means the yes panel is open and accepting an amount.
	StateEnteringYes State = "entering_yes"
	// StateEnteringNo means the no panel is open and accepting an amount.
	StateEnteringNo State = "entering_no"
)

// Submitter executes an accepted submission. The ticket does no I/O itself;
// success closes the panel, any error keeps it open with the amount intact.
type Submitter interface {
	Submit(ctx context.Context, side domain.Side, usdAmount float64) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, side domain.Side, usdAmount float64) error

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, side domain.Side, usdAmount float64) error {
	return f(ctx, side, usdAmount)
}

// Ticket is the per-surface buy-flow controller. At most one side is open at
// a time: opening one closes the other, clicking the open side again toggles
// it shut. Amounts are kept as raw text per side and only coerced on submit.
//
// Ticket is driven from a single UI event loop and is not safe for
// concurrent use.
type Ticket struct {
	state     State
	yesAmount string
	noAmount  string
	submitter Submitter
}

// NewTicket creates a closed ticket that delegates submissions to s.
func NewTicket(s Submitter) *Ticket {
	return &Ticket{state: StateClosed, submitter: s}
}

// State returns the current buy-flow state.
func (t *Ticket) State() State {
	return t.state
}

// Amount returns the raw amount text for the currently open side, or "" when
// closed.
func (t *Ticket) Amount() string {
	switch t.state {
	case StateEnteringYes:
		return t.yesAmount
	case StateEnteringNo:
		return t.noAmount
	default:
		return ""
	}
}

// ClickYes opens the yes panel, or closes it (clearing its amount) when it is
// already open. Switching from the no side is allowed and closes it.
func (t *Ticket) ClickYes() {
	if t.state == StateEnteringYes {
		t.yesAmount = ""
		t.state = StateClosed
		return
	}
	t.state = StateEnteringYes
}

// ClickNo mirrors ClickYes for the no side.
func (t *Ticket) ClickNo() {
	if t.state == StateEnteringNo {
		t.noAmount = ""
		t.state = StateClosed
		return
	}
	t.state = StateEnteringNo
}

// AmountChanged stores the raw input text for the open side. No coercion or
// validation happens until submit. Ignored while closed.
func (t *Ticket) AmountChanged(text string) {
	switch t.state {
	case StateEnteringYes:
		t.yesAmount = text
	case StateEnteringNo:
		t.noAmount = text
	}
}

// Cancel closes the open panel and clears its amount.
func (t *Ticket) Cancel() {
	switch t.state {
	case StateEnteringYes:
		t.yesAmount = ""
	case StateEnteringNo:
		t.noAmount = ""
	}
	t.state = StateClosed
}

// Submit validates the open side's amount and delegates to the submitter.
// An empty or non-positive amount is a silent no-op that leaves the panel
// open (submission is simply not enabled). A submitter failure also leaves
// the panel open, amount preserved, so the user can retry; the error is
// returned for surfacing but never panics upward. Success resets to Closed.
func (t *Ticket) Submit(ctx context.Context) error {
	var side domain.Side
	switch t.state {
	case StateEnteringYes:
		side = domain.SideYes
	case StateEnteringNo:
		side = domain.SideNo
	default:
		return nil
	}

	amount, err := ParseAmount(t.Amount())
	if err != nil {
		// Invalid input keeps the state unchanged; nothing to surface.
		return nil
	}

	if err := t.submitter.Submit(ctx, side, amount); err != nil {
		return err
	}

	if side == domain.SideYes {
		t.yesAmount = ""
	} else {
		t.noAmount = ""
	}
	t.state = StateClosed
	return nil
}

// ParseAmount coerces raw amount text. Only positive finite numbers are
// acceptable.
func ParseAmount(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, domain.ErrInvalidAmount
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, domain.ErrInvalidAmount
	}
	return v, nil
}
