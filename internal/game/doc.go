// Package game implements the Texas Hold'em hand engine.
//
// The main type is Hand, which enacts one hand from blinds through showdown
// and payout for 2 to 10 seats. A Table chains hands together, carrying
// stacks forward and moving the button.
//
// # Basic Usage
//
//	rng := poker.NewRand(42)
//	seats := []game.Seat{{ID: 0, Name: "alice", Chips: 100}, {ID: 1, Name: "bob", Chips: 100}}
//	h, err := game.NewHand(rng, game.DefaultRules(), seats, 0)
//	if err != nil {
//	    return err
//	}
//	if err := h.Start(); err != nil {
//	    return err
//	}
//	for !h.IsFinished() {
//	    snap := h.Snapshot(h.ActiveSeat())
//	    res, err := h.Submit(agent.MakeDecision(snap).Action)
//	    ...
//	}
//	result, _ := h.Result()
//
// # Errors
//
// Rejected actions return an *ActionError (ErrOutOfTurn, ErrIllegalAction,
// ErrInvalidAmount) and leave the hand untouched. Short stacks are never
// rejected: calls and raises they cannot cover become all-ins. Broken
// accounting returns an *InvariantError with a full Diagnostic and aborts
// the hand; the engine never adjusts totals to hide a mismatch.
//
// # Architecture
//
// Hand delegates to a handler per phase (init, the four streets, showdown,
// finished) with enter, action, exit and transition hooks:
//   - Validate: checks and normalizes actions
//   - Player.Deduct: the only way chips leave a stack
//   - PotManager: collects round bets and builds side pots
//   - poker.Evaluate: ranks hands at showdown
//
// Bets reach the pot only when a betting round closes, blinds included.
package game
