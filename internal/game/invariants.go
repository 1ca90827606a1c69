package game

import "github.com/lox/holdem-engine/poker"

// CheckInvariants verifies the accounting of the hand:
//   - stacks, round bets and pots add up to the chips the hand started with
//   - until payout, pots plus round bets equal every player's total bet
//   - during betting, the current bet is the highest round bet and the board
//     has the right number of cards
//   - no card appears twice across hole cards, board and deck
//
// A violation is returned as *InvariantError.
func (h *Hand) CheckInvariants() error {
	if got := h.TotalChipsInPlay(); got != h.initialChips {
		err := invariant(ErrChipConservation, "%d chips in play, hand started with %d", got, h.initialChips)
		err.Diagnostic.Expected, err.Diagnostic.Actual = h.initialChips, got
		return err
	}

	roundBets, totalBets, maxBet := 0, 0, 0
	for _, p := range h.players {
		if p.Chips < 0 || p.Bet < 0 || p.TotalBet < p.Bet {
			return invariant(ErrChipConservation, "seat %d has chips=%d bet=%d total=%d", p.Seat, p.Chips, p.Bet, p.TotalBet)
		}
		if p.Status == StatusActive && p.Chips == 0 && h.phase != PhaseInit {
			return invariant(ErrBettingState, "seat %d is active with no chips", p.Seat)
		}
		roundBets += p.Bet
		totalBets += p.TotalBet
		maxBet = max(maxBet, p.Bet)
	}

	if !h.settled {
		if got := h.pot.Total() + roundBets; got != totalBets {
			err := invariant(ErrPotMismatch, "pot %d plus round bets %d, players bet %d", h.pot.Total(), roundBets, totalBets)
			err.Diagnostic.Expected, err.Diagnostic.Actual = totalBets, got
			return err
		}
	}

	if h.phase.IsBetting() {
		if maxBet != h.currentBet {
			return invariant(ErrBettingState, "current bet %d, highest round bet %d", h.currentBet, maxBet)
		}
		if want := h.phase.boardSize(); len(h.board) != want {
			return invariant(ErrBettingState, "%d community cards during %s, want %d", len(h.board), h.phase, want)
		}
	}

	return h.checkCards()
}

func (h *Hand) checkCards() error {
	seen := make(map[poker.Card]bool, poker.DeckSize)
	count := 0
	mark := func(c poker.Card, where string) error {
		if seen[c] {
			return invariant(ErrDeckIntegrity, "card %s appears twice (%s)", c, where)
		}
		seen[c] = true
		count++
		return nil
	}
	for _, p := range h.players {
		for _, c := range p.HoleCards {
			if err := mark(c, "hole cards"); err != nil {
				return err
			}
		}
	}
	for _, c := range h.board {
		if err := mark(c, "board"); err != nil {
			return err
		}
	}
	for _, c := range h.deck.Cards() {
		if err := mark(c, "deck"); err != nil {
			return err
		}
	}
	if h.phase != PhaseFinished && count != poker.DeckSize {
		return invariant(ErrDeckIntegrity, "%d cards accounted for, want %d", count, poker.DeckSize)
	}
	return nil
}
