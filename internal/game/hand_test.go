package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/poker"
)

func TestNewHandValidation(t *testing.T) {
	t.Parallel()

	seats := func(chips ...int) []Seat {
		out := make([]Seat, len(chips))
		for i, c := range chips {
			out[i] = Seat{ID: i, Name: testNames[i], Chips: c}
		}
		return out
	}

	tests := []struct {
		name   string
		rules  Rules
		seats  []Seat
		dealer int
		target error
	}{
		{name: "one seat", rules: DefaultRules(), seats: seats(100), dealer: 0},
		{name: "eleven seats", rules: DefaultRules(), seats: append(seats(1, 1, 1, 1, 1, 1, 1, 1, 1, 1), Seat{ID: 10, Chips: 1}), dealer: 0},
		{name: "unknown dealer", rules: DefaultRules(), seats: seats(100, 100), dealer: 42},
		{name: "bad blinds", rules: Rules{SmallBlind: 2, BigBlind: 1, MinRaiseMultiplier: 1}, seats: seats(100, 100), dealer: 0},
		{name: "one player with chips", rules: DefaultRules(), seats: seats(100, 0, 0), dealer: 0, target: ErrNotEnoughPlayers},
		{name: "dealer without chips", rules: DefaultRules(), seats: seats(100, 100, 0), dealer: 2},
		{name: "negative chips", rules: DefaultRules(), seats: seats(100, -5), dealer: 0},
		{name: "duplicate seat", rules: DefaultRules(), seats: []Seat{{ID: 1, Chips: 10}, {ID: 1, Chips: 10}}, dealer: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewHand(poker.NewRand(1), tt.rules, tt.seats, tt.dealer)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestBlindsAndFirstActor(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10), withStacks(1000, 1000, 1000, 1000))

	assert.Equal(t, PhasePreFlop, h.Phase())
	assert.Equal(t, 0, h.DealerSeat())
	assert.Equal(t, 3, h.ActiveSeat(), "UTG acts first preflop")
	assert.Equal(t, 10, h.CurrentBet())
	assert.Equal(t, 10, h.MinRaise())

	sb, bb := player(t, h, 1), player(t, h, 2)
	assert.True(t, sb.IsSmallBlind)
	assert.Equal(t, 5, sb.Bet)
	assert.Equal(t, 995, sb.Chips)
	assert.True(t, bb.IsBigBlind)
	assert.Equal(t, 10, bb.Bet)
	assert.Equal(t, 990, bb.Chips)

	// Blinds stay in front of the players until the round closes.
	assert.Empty(t, h.Pots())
	snap := h.Snapshot(NoSeat)
	assert.Equal(t, 15, snap.PotTotal)
	assert.Equal(t, 15, snap.Uncollected)
	assert.Equal(t, 0, snap.MainPot)
	assert.Equal(t, 4000, h.TotalChipsInPlay())

	for seat := range 4 {
		assert.Len(t, player(t, h, seat).HoleCards, 2)
	}
	assert.Empty(t, h.Board())
}

func TestHeadsUpOrder(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withStacks(100, 100))

	dealer := player(t, h, 0)
	assert.True(t, dealer.IsDealer)
	assert.True(t, dealer.IsSmallBlind, "button posts the small blind heads-up")
	assert.True(t, player(t, h, 1).IsBigBlind)
	assert.Equal(t, 0, h.ActiveSeat(), "button acts first preflop")

	res := act(t, h, 0, Call)
	assert.Equal(t, 1, res.Action.Amount)
	assert.Equal(t, 1, h.ActiveSeat(), "big blind keeps the option")
	act(t, h, 1, Check)

	assert.Equal(t, PhaseFlop, h.Phase())
	assert.Len(t, h.Board(), 3)
	assert.Equal(t, 1, h.ActiveSeat(), "non-button acts first after the flop")
	require.Len(t, h.Pots(), 1)
	assert.Equal(t, 4, h.Pots()[0].Amount)
}

func TestAllInPreflopRunsOutBoard(t *testing.T) {
	t.Parallel()
	h := newTestHand(t,
		withStacks(100, 100, 100, 100),
		withStackedDeck(map[int]string{
			0: "2c 7d",
			1: "3c 8d",
			2: "Ah Ad",
			3: "4s 9h",
		}, "Kc Qd 5h Jc 6s"),
	)

	res := act(t, h, 3, AllIn)
	assert.False(t, res.Converted)
	assert.Equal(t, 100, res.Action.Amount)
	assert.Equal(t, 98, h.MinRaise())

	for _, seat := range []int{0, 1, 2} {
		res := act(t, h, seat, Call)
		assert.True(t, res.Converted, "seat %d", seat)
		assert.Equal(t, AllIn, res.Action.Type)
	}

	require.True(t, h.IsFinished())
	require.NoError(t, h.Err())
	result, ok := h.Result()
	require.True(t, ok)

	assert.Equal(t, map[int]int{0: 0, 1: 0, 2: 400, 3: 0}, result.FinalChips)
	assert.Equal(t, []int{2}, result.Winners)
	assert.True(t, result.Showdown)
	assert.Equal(t, "Kc Qd 5h Jc 6s", poker.FormatCards(result.Board))
	assert.Equal(t, []Phase{PhaseInit, PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver, PhaseShowdown, PhaseFinished}, result.Phases)
	require.Len(t, result.Pots, 1)
	assert.Equal(t, 400, result.Pots[0].Amount)
	assert.Equal(t, "Pair of Aces", result.Pots[0].Hand)
	assert.Len(t, result.Revealed, 4)
	assert.Len(t, result.Actions, 4)
	assert.Equal(t, 400, result.TotalPot())
}

func TestSidePotsAtShowdown(t *testing.T) {
	t.Parallel()
	h := newTestHand(t,
		withStacks(100, 200, 300),
		withStackedDeck(map[int]string{
			0: "Ah Ad",
			1: "2s 9d",
			2: "Kh Kd",
		}, "7c 8d 3h Js 4c"),
	)

	act(t, h, 0, AllIn)
	act(t, h, 1, Call)
	act(t, h, 2, Call)
	require.Equal(t, PhaseFlop, h.Phase())
	require.Equal(t, []Pot{{Amount: 300, Eligible: []int{0, 1, 2}}}, h.Pots())

	act(t, h, 1, AllIn)
	act(t, h, 2, Call)

	require.True(t, h.IsFinished())
	result, ok := h.Result()
	require.True(t, ok)
	assert.Equal(t, map[int]int{0: 300, 1: 0, 2: 300}, result.FinalChips)
	assert.Equal(t, []int{2, 0}, result.Winners, "winners are listed from the dealer's left")

	require.Len(t, result.Pots, 2)
	assert.Equal(t, 300, result.Pots[0].Amount)
	assert.Equal(t, []int{0}, result.Pots[0].Winners)
	assert.Equal(t, 200, result.Pots[1].Amount)
	assert.Equal(t, []int{1, 2}, result.Pots[1].Eligible)
	assert.Equal(t, []int{2}, result.Pots[1].Winners)

	for _, s := range result.Seats {
		assert.Equal(t, s.FinalChips-s.StartingChips, s.Net())
	}
}

func TestSplitPotOddChip(t *testing.T) {
	t.Parallel()
	// Seats 0 and 2 both play the board; seat 1 folds after the blinds.
	h := newTestHand(t,
		withStacks(100, 100, 100),
		withStackedDeck(map[int]string{
			0: "2c 3d",
			1: "7h 8h",
			2: "2d 3c",
		}, "As Ks Qs Js Ts"),
	)

	act(t, h, 0, Call)
	act(t, h, 1, Fold)
	act(t, h, 2, Check)
	playOut(t, h, Check)

	result, ok := h.Result()
	require.True(t, ok)
	// Pot is 5: two each and the odd chip to seat 2, first clockwise from the
	// button.
	assert.Equal(t, map[int]int{0: 100, 1: 99, 2: 101}, result.FinalChips)
	require.Len(t, result.Pots, 1)
	assert.Equal(t, 1, result.Pots[0].OddChips)
	assert.Equal(t, 2, result.Pots[0].OddChipSeat)
	assert.Equal(t, "Royal Flush", result.Pots[0].Hand)
}

func TestFoldWinsUncontested(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10))

	act(t, h, 0, Fold)
	res := act(t, h, 1, Fold)
	assert.True(t, res.Finished)
	assert.Equal(t, PhaseFinished, res.Phase)

	result, ok := h.Result()
	require.True(t, ok)
	assert.Equal(t, map[int]int{0: 100, 1: 95, 2: 105}, result.FinalChips)
	assert.Equal(t, []int{2}, result.Winners)
	assert.False(t, result.Showdown)
	assert.Empty(t, result.Revealed)
	assert.Empty(t, result.Board)
	assert.Equal(t, []Phase{PhaseInit, PhasePreFlop, PhaseFinished}, result.Phases)
	require.Len(t, result.Pots, 1)
	assert.Equal(t, 15, result.Pots[0].Amount)
	assert.Empty(t, result.Pots[0].Hand)

	for seat := range 3 {
		assert.Empty(t, player(t, h, seat).HoleCards, "hole cards are cleared")
	}
}

func TestPostflopBettingRound(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10), withStacks(500, 500, 500))

	act(t, h, 0, Call)
	act(t, h, 1, Call)
	act(t, h, 2, Check)
	require.Equal(t, PhaseFlop, h.Phase())
	assert.Equal(t, 0, h.CurrentBet())
	assert.Equal(t, 10, h.MinRaise())

	act(t, h, 1, Check)
	act(t, h, 2, Bet, 40)
	assert.Equal(t, 40, h.CurrentBet())
	assert.Equal(t, 40, h.MinRaise())
	act(t, h, 0, Raise, 100)
	assert.Equal(t, 60, h.MinRaise())
	act(t, h, 1, Fold)
	act(t, h, 2, Call)

	require.Equal(t, PhaseTurn, h.Phase())
	assert.Len(t, h.Board(), 4)
	assert.Equal(t, 2, h.ActiveSeat())
	require.Len(t, h.Pots(), 1)
	assert.Equal(t, 230, h.Pots()[0].Amount)
	assert.Equal(t, []int{0, 2}, h.Pots()[0].Eligible)
}

func TestBigBlindOption(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)

	act(t, h, 0, Call)
	act(t, h, 1, Call)
	require.Equal(t, PhasePreFlop, h.Phase(), "big blind has not acted")
	act(t, h, 2, Raise, 6)
	assert.Equal(t, 0, h.ActiveSeat())
	act(t, h, 0, Call)
	act(t, h, 1, Call)
	assert.Equal(t, PhaseFlop, h.Phase())
}

func TestRejectedActionsLeaveHandUnchanged(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)
	before := h.Snapshot(ViewAll)

	tests := []struct {
		name   string
		action Action
		code   ReasonCode
		target error
	}{
		{"out of turn", Action{Seat: 1, Type: Call}, CodeOutOfTurn, ErrOutOfTurn},
		{"unknown seat", Action{Seat: 9, Type: Fold}, CodeOutOfTurn, ErrOutOfTurn},
		{"check facing bet", Action{Seat: 0, Type: Check}, CodeIllegalAction, ErrIllegalAction},
		{"bet into bet", Action{Seat: 0, Type: Bet, Amount: 10}, CodeIllegalAction, ErrIllegalAction},
		{"raise below minimum", Action{Seat: 0, Type: Raise, Amount: 3}, CodeInvalidAmount, ErrInvalidAmount},
		{"no action", Action{Seat: 0, Type: NoAction}, CodeIllegalAction, ErrIllegalAction},
	}

	for _, tt := range tests {
		res, err := h.Submit(tt.action)
		require.Error(t, err, tt.name)
		assert.ErrorIs(t, err, tt.target, tt.name)
		var ae *ActionError
		require.ErrorAs(t, err, &ae, tt.name)
		assert.Equal(t, tt.code, ae.Code, tt.name)
		assert.False(t, res.Accepted, tt.name)
		assert.Equal(t, tt.code, res.Code, tt.name)
		assert.NotEmpty(t, res.Reason, tt.name)
	}

	assert.Equal(t, before, h.Snapshot(ViewAll))
	assert.NoError(t, h.Err(), "rejections are not fatal")

	// The same player can still act.
	act(t, h, 0, Fold)
}

func TestActionsAfterFinishAreRejected(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)
	playOut(t, h, Fold)

	_, err := h.Submit(Action{Seat: 0, Type: Fold})
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, NoSeat, h.ActiveSeat())
	assert.Nil(t, h.LegalActions())
}

func TestSnapshotVisibility(t *testing.T) {
	t.Parallel()
	h := newTestHand(t)

	own := h.Snapshot(0)
	for _, v := range own.Seats {
		if v.Seat == 0 {
			assert.Len(t, v.HoleCards, 2)
		} else {
			assert.Nil(t, v.HoleCards, "seat %d visible to seat 0", v.Seat)
		}
	}
	assert.NotEmpty(t, own.LegalActions, "active seat sees its options")
	assert.Empty(t, h.Snapshot(1).LegalActions)

	for _, v := range h.Snapshot(NoSeat).Seats {
		assert.Nil(t, v.HoleCards)
	}
	for _, v := range h.Snapshot(ViewAll).Seats {
		assert.Len(t, v.HoleCards, 2)
	}

	// Snapshots are copies.
	hole := player(t, h, 0).HoleCards
	own.Seats[0].HoleCards[0] = poker.NewCard(poker.Two, poker.Clubs)
	own.Board = append(own.Board, poker.NewCard(poker.Ace, poker.Spades))
	assert.Equal(t, h.Snapshot(0), h.Snapshot(0))
	assert.Empty(t, h.Snapshot(0).Board)
	assert.Equal(t, hole, player(t, h, 0).HoleCards)
}

func TestArchivedResultIsImmutable(t *testing.T) {
	t.Parallel()

	var forged poker.Card
	bus := NewEventBus()
	bus.Subscribe(EventSubscriberFunc(func(ev GameEvent) {
		e, ok := ev.(HandEndedEvent)
		if !ok {
			return
		}
		e.Result.Revealed[0].Cards[0] = forged
		e.Result.Revealed[0].Hand.Best[0] = forged
		e.Result.Revealed[0].Hand.Tiebreak[0] = 0
		e.Result.Pots[0].Winners[0] = 99
		e.Result.Pots[0].Eligible[0] = 99
	}))

	h := newTestHand(t, withStacks(50, 50, 50), withHandOptions(WithEventBus(bus)))
	act(t, h, 0, Fold)
	act(t, h, 1, AllIn)
	act(t, h, 2, Call)
	require.True(t, h.IsFinished())

	check := func(res HandResult) {
		t.Helper()
		require.NotEmpty(t, res.Revealed)
		for _, sh := range res.Revealed {
			for _, c := range sh.Cards {
				assert.True(t, c.Valid(), "seat %d hole card", sh.Seat)
			}
			for _, c := range sh.Hand.Best {
				assert.True(t, c.Valid(), "seat %d best card", sh.Seat)
			}
			assert.NotZero(t, sh.Hand.Tiebreak[0])
		}
		require.NotEmpty(t, res.Pots)
		assert.NotContains(t, res.Pots[0].Winners, 99)
		assert.NotContains(t, res.Pots[0].Eligible, 99)
	}

	res, ok := h.Result()
	require.True(t, ok)
	check(res)

	// Mutating a returned result does not reach the archive.
	res.Revealed[0].Cards[0] = forged
	res.Pots[0].Winners[0] = 99
	again, _ := h.Result()
	check(again)

	for _, v := range h.Snapshot(ViewAll).Seats {
		for _, c := range v.HoleCards {
			assert.True(t, c.Valid(), "seat %d", v.Seat)
		}
	}
}

func TestSnapshotRevealsShowdownHands(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withStacks(50, 50, 50))
	act(t, h, 0, Fold)
	act(t, h, 1, AllIn)
	act(t, h, 2, Call)
	require.True(t, h.IsFinished())

	snap := h.Snapshot(NoSeat)
	folded, _ := snap.Seat(0)
	assert.Nil(t, folded.HoleCards)
	for _, seat := range []int{1, 2} {
		v, ok := snap.Seat(seat)
		require.True(t, ok)
		assert.Len(t, v.HoleCards, 2, "seat %d", seat)
	}
}

func TestForceSettle(t *testing.T) {
	t.Parallel()

	t.Run("before start", func(t *testing.T) {
		t.Parallel()
		h, err := NewHand(poker.NewRand(1), DefaultRules(), []Seat{{ID: 0, Chips: 10}, {ID: 1, Chips: 10}}, 0)
		require.NoError(t, err)
		assert.ErrorIs(t, h.ForceSettle(), ErrHandNotStarted)
	})

	t.Run("mid hand", func(t *testing.T) {
		t.Parallel()
		h := newTestHand(t,
			withStackedDeck(map[int]string{
				0: "Ac Ad",
				1: "Kc Kd",
				2: "2h 7s",
			}, "3c 4d 9h Ts Jc"),
		)
		act(t, h, 0, Call)
		act(t, h, 1, Call)
		act(t, h, 2, Check)
		act(t, h, 1, Bet, 10)

		require.NoError(t, h.ForceSettle())
		assert.True(t, h.IsFinished())
		assert.Len(t, h.Board(), 5)

		result, ok := h.Result()
		require.True(t, ok)
		assert.True(t, result.Showdown)
		// Seat 1's unmatched bet forms a tier only seat 1 can win.
		assert.Equal(t, map[int]int{0: 104, 1: 98, 2: 98}, result.FinalChips)
		assert.Equal(t, 300, h.TotalChipsInPlay())

		require.NoError(t, h.ForceSettle(), "settling twice is a no-op")
	})

	t.Run("heads-up preflop", func(t *testing.T) {
		t.Parallel()
		h := newTestHand(t, withStacks(100, 100))
		require.NoError(t, h.ForceSettle())
		result, ok := h.Result()
		require.True(t, ok)
		assert.True(t, result.Showdown)
		assert.Equal(t, 200, result.FinalChips[0]+result.FinalChips[1])
	})
}

func TestInvariantViolationAbortsHand(t *testing.T) {
	t.Parallel()

	t.Run("chips created", func(t *testing.T) {
		t.Parallel()
		h := newTestHand(t)
		h.players[0].Chips += 10

		_, err := h.Submit(Action{Seat: 0, Type: Call})
		require.ErrorIs(t, err, ErrChipConservation)

		var inv *InvariantError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, 300, inv.Diagnostic.Expected)
		assert.Equal(t, 310, inv.Diagnostic.Actual)
		assert.Equal(t, PhasePreFlop, inv.Diagnostic.Phase)
		assert.Equal(t, "seat 0 call 2", inv.Diagnostic.LastOp)
		assert.Len(t, inv.Diagnostic.Seats, 3)
		assert.Contains(t, inv.Diagnostic.String(), "seat=0 name=alice chips=108")

		// The abort is sticky.
		assert.ErrorIs(t, h.Err(), ErrChipConservation)
		_, err = h.Submit(Action{Seat: 1, Type: Fold})
		assert.ErrorIs(t, err, ErrChipConservation)
		assert.ErrorIs(t, h.ForceSettle(), ErrChipConservation)
		assert.True(t, h.Snapshot(ViewAll).Aborted)
		assert.Nil(t, h.LegalActions())
		_, ok := h.Result()
		assert.False(t, ok)
	})

	t.Run("contribution mismatch", func(t *testing.T) {
		t.Parallel()
		h := newTestHand(t)
		h.players[1].TotalBet += 5

		_, err := h.Submit(Action{Seat: 0, Type: Fold})
		require.ErrorIs(t, err, ErrPotMismatch)
		var inv *InvariantError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, 8, inv.Diagnostic.Expected)
		assert.Equal(t, 3, inv.Diagnostic.Actual)
	})

	t.Run("duplicate card", func(t *testing.T) {
		t.Parallel()
		h := newTestHand(t)
		h.players[1].HoleCards[0] = h.players[0].HoleCards[0]

		_, err := h.Submit(Action{Seat: 0, Type: Call})
		assert.True(t, errors.Is(err, ErrDeckIntegrity))
	})
}

func TestSittingOutSeatIsSkipped(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withStacks(100, 100, 100, 100), withSittingOut(1))

	sitting := player(t, h, 1)
	assert.Equal(t, StatusSittingOut, sitting.Status)
	assert.Empty(t, sitting.HoleCards)
	assert.True(t, player(t, h, 2).IsSmallBlind)
	assert.True(t, player(t, h, 3).IsBigBlind)
	assert.Equal(t, 0, h.ActiveSeat())
}

func TestShortBigBlindAllIn(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, withRules(5, 10), withStacks(100, 100, 4))

	bb := player(t, h, 2)
	assert.Equal(t, StatusAllIn, bb.Status)
	assert.Equal(t, 4, bb.Bet)
	assert.Equal(t, 5, h.CurrentBet(), "small blind is the highest bet")
	require.NoError(t, h.CheckInvariants())
}
