package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimumRaise(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(25, 50), withStacks(1000, 1000, 1000, 1000))

	act(t, h, 3, Raise, 100)
	assert.Equal(t, 100, h.CurrentBet())
	assert.Equal(t, 50, h.MinRaise())

	res, err := h.Submit(Action{Seat: 0, Type: Raise, Amount: 120})
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, CodeInvalidAmount, res.Code)
	assert.Contains(t, res.Reason, "150")
	assert.Equal(t, 0, h.ActiveSeat())

	act(t, h, 0, Raise, 150)
	assert.Equal(t, 150, h.CurrentBet())
	assert.Equal(t, 50, h.MinRaise())
	p := player(t, h, 0)
	assert.Equal(t, 150, p.Bet)
	assert.Equal(t, 850, p.Chips)
}

func TestShortCallBecomesAllIn(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withStacks(30, 1000, 1000, 1000))

	act(t, h, 3, Raise, 50)
	res := act(t, h, 0, Call)
	assert.True(t, res.Converted)
	assert.Equal(t, Action{Seat: 0, Type: AllIn, Amount: 30}, res.Action)
	assert.NotEmpty(t, res.Reason)

	p := player(t, h, 0)
	assert.Equal(t, StatusAllIn, p.Status)
	assert.Equal(t, 30, p.Bet)
	assert.Zero(t, p.Chips)
	assert.Equal(t, 50, h.CurrentBet(), "a short call does not lower the bet")
}

func TestShortAllInKeepsMinRaise(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10), withStacks(70, 1000, 1000, 1000))

	act(t, h, 3, Raise, 50)
	require.Equal(t, 40, h.MinRaise())

	act(t, h, 0, AllIn)
	assert.Equal(t, 70, h.CurrentBet())
	assert.Equal(t, 40, h.MinRaise(), "an incomplete raise leaves the increment")

	raise, ok := h.Snapshot(1).Legal(Raise)
	require.True(t, ok)
	assert.Equal(t, 110, raise.Min)
	assert.Equal(t, 1000, raise.Max)

	_, err := h.Submit(Action{Seat: 1, Type: Raise, Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestOversizedRaiseBecomesAllIn(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)

	res := act(t, h, 0, Raise, 500)
	assert.True(t, res.Converted)
	assert.Equal(t, Action{Seat: 0, Type: AllIn, Amount: 100}, res.Action)
	assert.Equal(t, 100, h.CurrentBet())
	assert.Equal(t, 98, h.MinRaise())
}

func TestBetBelowMinimumWithShortStack(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10), withStacks(15, 100, 100))

	act(t, h, 0, Call)
	act(t, h, 1, Call)
	act(t, h, 2, Check)
	require.Equal(t, PhaseFlop, h.Phase())

	act(t, h, 1, Check)
	act(t, h, 2, Check)

	_, err := h.Submit(Action{Seat: 0, Type: Raise, Amount: 5})
	assert.ErrorIs(t, err, ErrIllegalAction, "nothing to raise")

	res := act(t, h, 0, Bet, 3)
	assert.True(t, res.Converted)
	assert.Equal(t, Action{Seat: 0, Type: AllIn, Amount: 5}, res.Action)
	assert.Equal(t, 5, h.CurrentBet())
	assert.Equal(t, 10, h.MinRaise(), "a short bet does not set the increment")
}

func TestBetAndRaiseValidation(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10), withStacks(500, 500, 500))
	act(t, h, 0, Call)
	act(t, h, 1, Call)
	act(t, h, 2, Check)
	require.Equal(t, PhaseFlop, h.Phase())

	tests := []struct {
		name   string
		action Action
		target error
	}{
		{"call with nothing owed", Action{Seat: 1, Type: Call}, ErrIllegalAction},
		{"raise with no bet", Action{Seat: 1, Type: Raise, Amount: 40}, ErrIllegalAction},
		{"bet below big blind", Action{Seat: 1, Type: Bet, Amount: 5}, ErrInvalidAmount},
		{"negative bet", Action{Seat: 1, Type: Bet, Amount: -10}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Validate(tt.action)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	v, err := h.Validate(Action{Seat: 1, Type: Bet, Amount: 10})
	require.NoError(t, err)
	assert.False(t, v.Converted)
	assert.Equal(t, 0, h.CurrentBet(), "validation does not apply the action")
}

func TestLegalActions(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)

	assert.Equal(t, []LegalAction{
		{Type: Fold},
		{Type: Call, Min: 2, Max: 2},
		{Type: Raise, Min: 4, Max: 100},
		{Type: AllIn, Min: 100, Max: 100},
	}, h.LegalActions())

	act(t, h, 0, Call)
	act(t, h, 1, Call)

	// Big blind option.
	assert.Equal(t, []LegalAction{
		{Type: Fold},
		{Type: Check},
		{Type: Raise, Min: 4, Max: 100},
		{Type: AllIn, Min: 98, Max: 98},
	}, h.LegalActions())

	act(t, h, 2, Check)
	assert.Equal(t, []LegalAction{
		{Type: Fold},
		{Type: Check},
		{Type: Bet, Min: 2, Max: 98},
		{Type: AllIn, Min: 98, Max: 98},
	}, h.LegalActions())
}

func TestLegalActionsShortStack(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withStacks(3, 100, 100))

	// Three chips cannot cover a full raise to 4.
	assert.Equal(t, []LegalAction{
		{Type: Fold},
		{Type: Call, Min: 2, Max: 2},
		{Type: AllIn, Min: 3, Max: 3},
	}, h.LegalActions())
}

func TestLegalActionsMatchValidate(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10), withStacks(200, 200, 200, 200))

	for !h.IsFinished() {
		seat := h.ActiveSeat()
		legal := h.LegalActions()
		require.NotEmpty(t, legal)
		for _, la := range legal {
			_, err := h.Validate(Action{Seat: seat, Type: la.Type, Amount: la.Min})
			assert.NoError(t, err, "%s at %d", la.Type, la.Min)
			_, err = h.Validate(Action{Seat: seat, Type: la.Type, Amount: la.Max})
			assert.NoError(t, err, "%s at %d", la.Type, la.Max)
		}
		// Always take the last-but-one option to keep betting going.
		choice := legal[len(legal)-2]
		_, err := h.Submit(Action{Seat: seat, Type: choice.Type, Amount: choice.Min})
		require.NoError(t, err)
	}
}
