package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// recordingSubmitter captures submissions and can be told to fail.
type recordingSubmitter struct {
	calls []struct {
		side   domain.Side
		amount float64
	}
	err error
}

func (r *recordingSubmitter) Submit(_ context.Context, side domain.Side, amount float64) error {
	r.calls = append(r.calls, struct {
		side   domain.Side
		amount float64
	}{side, amount})
	return r.err
}

func TestTicketSideToggle(t *testing.T) {
	tk := NewTicket(&recordingSubmitter{})
	assert.Equal(t, StateClosed, tk.State())

	tk.ClickYes()
	assert.Equal(t, StateEnteringYes, tk.State())

	// Clicking the open side toggles it shut and clears the amount.
	tk.AmountChanged("25")
	tk.ClickYes()
	assert.Equal(t, StateClosed, tk.State())
	tk.ClickYes()
	assert.Equal(t, "", tk.Amount())
	tk.ClickYes()

	// Opening the opposite side always closes the current one.
	tk.ClickYes()
	tk.ClickNo()
	assert.Equal(t, StateEnteringNo, tk.State())
	tk.ClickYes()
	assert.Equal(t, StateEnteringYes, tk.State())
}

func TestTicketCancel(t *testing.T) {
	tk := NewTicket(&recordingSubmitter{})
	tk.ClickNo()
	tk.AmountChanged("10")
	tk.Cancel()
	assert.Equal(t, StateClosed, tk.State())

	tk.ClickNo()
	assert.Equal(t, "", tk.Amount(), "cancel clears the amount")
}

func TestTicketAmountIsRawText(t *testing.T) {
	tk := NewTicket(&recordingSubmitter{})
	tk.ClickYes()
	tk.AmountChanged("12.")
	assert.Equal(t, "12.", tk.Amount(), "no coercion before submit")

	// Amounts are tracked per side.
	tk.ClickNo()
	tk.AmountChanged("7")
	tk.ClickYes()
	assert.Equal(t, "12.", tk.Amount())
}

func TestTicketSubmitRejectsInvalidAmounts(t *testing.T) {
	sub := &recordingSubmitter{}
	tk := NewTicket(sub)
	tk.ClickYes()

	for _, bad := range []string{"", "abc", "0", "-5", "NaN", "+Inf", "1e999"} {
		tk.AmountChanged(bad)
		err := tk.Submit(context.Background())
		require.NoError(t, err, "amount %q", bad)
		assert.Equal(t, StateEnteringYes, tk.State(), "amount %q must leave state unchanged", bad)
		assert.Equal(t, bad, tk.Amount())
	}
	assert.Empty(t, sub.calls, "invalid amounts never reach the submitter")
}

func TestTicketSubmitSuccess(t *testing.T) {
	sub := &recordingSubmitter{}
	tk := NewTicket(sub)

	tk.ClickNo()
	tk.AmountChanged("42.5")
	require.NoError(t, tk.Submit(context.Background()))

	assert.Equal(t, StateClosed, tk.State())
	require.Len(t, sub.calls, 1)
	assert.Equal(t, domain.SideNo, sub.calls[0].side)
	assert.Equal(t, 42.5, sub.calls[0].amount)

	// The amount was cleared on success.
	tk.ClickNo()
	assert.Equal(t, "", tk.Amount())
}

func TestTicketSubmitFailureKeepsStateForRetry(t *testing.T) {
	sub := &recordingSubmitter{err: errors.New("user rejected")}
	tk := NewTicket(sub)

	tk.ClickYes()
	tk.AmountChanged("100")
	err := tk.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateEnteringYes, tk.State())
	assert.Equal(t, "100", tk.Amount(), "failed submit preserves the entry")

	// Manual retry after the collaborator recovers.
	sub.err = nil
	require.NoError(t, tk.Submit(context.Background()))
	assert.Equal(t, StateClosed, tk.State())
	assert.Len(t, sub.calls, 2)
}

func TestTicketSubmitWhileClosedIsNoop(t *testing.T) {
	sub := &recordingSubmitter{}
	tk := NewTicket(sub)
	require.NoError(t, tk.Submit(context.Background()))
	assert.Empty(t, sub.calls)
}

func TestProjectedProfit(t *testing.T) {
	// $100 on yes at 62% pays 100*(100/62)-100.
	assert.InDelta(t, 61.29, ProjectedProfit(100, 62, domain.SideYes), 0.01)

	// The no side prices at the complement.
	assert.InDelta(t, 163.16, ProjectedProfit(100, 62, domain.SideNo), 0.01)

	// Even odds double the stake.
	assert.InDelta(t, 100, ProjectedProfit(100, 50, domain.SideYes), 1e-9)

	// Degenerate price driver yields no projection instead of dividing by
	// zero.
	assert.Zero(t, ProjectedProfit(100, 0, domain.SideYes))
	assert.Zero(t, ProjectedProfit(100, 100, domain.SideNo))
}
