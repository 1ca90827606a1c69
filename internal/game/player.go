package game

import (
	"fmt"

	"github.com/lox/holdem-engine/poker"
)

// Player is one seat's chip ledger for the duration of a hand.
type Player struct {
	Seat      int
	Name      string
	Chips     int
	HoleCards []poker.Card
	Bet       int // Current bet in this round
	TotalBet  int // Total bet in the hand
	Status    Status

	IsDealer     bool
	IsSmallBlind bool
	IsBigBlind   bool

	// LastAction is the last action taken in the current betting round.
	LastAction ActionType
}

// Deduct moves amount from the player's stack into their round and hand
// bets. A player left with no chips goes all-in.
func (p *Player) Deduct(amount int) error {
	if amount < 0 {
		return fmt.Errorf("seat %d: negative deduction %d: %w", p.Seat, amount, ErrInvalidAmount)
	}
	if amount > p.Chips {
		return fmt.Errorf("seat %d has %d chips, needs %d: %w", p.Seat, p.Chips, amount, ErrInsufficientChips)
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return nil
}

// ResetRoundBet prepares the player for a new betting round. The last action
// must be cleared along with the bet or round completion is misdetected.
func (p *Player) ResetRoundBet() {
	p.Bet = 0
	p.LastAction = NoAction
}

// CanAct returns true if the player can still make decisions.
func (p *Player) CanAct() bool {
	return p.Status == StatusActive
}

// InHand returns true if the player still contests the pot.
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// DealtIn returns true if the player received cards this hand.
func (p *Player) DealtIn() bool {
	return p.Status != StatusOut && p.Status != StatusSittingOut
}
