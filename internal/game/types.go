package game

import (
	"errors"
	"fmt"
)

// Phase is a stage of a hand.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhasePreFlop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// IsBetting reports whether players act during the phase.
func (p Phase) IsBetting() bool {
	return p >= PhasePreFlop && p <= PhaseRiver
}

// boardSize is the number of community cards showing once the phase has been entered.
func (p Phase) boardSize() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn:
		return 4
	case PhaseRiver, PhaseShowdown:
		return 5
	default:
		return 0
	}
}

// Status is a player's standing within the current hand.
type Status uint8

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusOut
	StatusSittingOut
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all_in"
	case StatusOut:
		return "out"
	case StatusSittingOut:
		return "sitting_out"
	default:
		return "unknown"
	}
}

// ActionType is the kind of move a player makes.
type ActionType uint8

const (
	NoAction ActionType = iota
	Fold
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	switch a {
	case NoAction:
		return "none"
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// ParseActionType converts a lowercase action name back to its ActionType.
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	case "allin", "all_in", "all-in":
		return AllIn, nil
	}
	return NoAction, fmt.Errorf("unknown action %q", s)
}

// Action is a move submitted by the player in Seat.
//
// For Bet and Raise, Amount is the total the player's round bet is raised to.
// For Call and AllIn, Amount is ignored on input; normalized actions carry the
// chips committed by the move. Fold and Check carry no amount.
type Action struct {
	Seat   int
	Type   ActionType
	Amount int
}

func (a Action) String() string {
	switch a.Type {
	case Bet, Raise, Call, AllIn:
		return fmt.Sprintf("seat %d %s %d", a.Seat, a.Type, a.Amount)
	default:
		return fmt.Sprintf("seat %d %s", a.Seat, a.Type)
	}
}

// Rules are the betting limits for a hand. They are immutable for its duration.
type Rules struct {
	SmallBlind int
	BigBlind   int
	// MinRaiseMultiplier scales the big blind to give the minimum opening bet
	// and the initial raise increment on every street.
	MinRaiseMultiplier int
}

// DefaultRules returns 1/2 blinds with a minimum bet of one big blind.
func DefaultRules() Rules {
	return Rules{SmallBlind: 1, BigBlind: 2, MinRaiseMultiplier: 1}
}

// Validate checks the blind structure.
func (r Rules) Validate() error {
	var errs []error
	if r.SmallBlind <= 0 {
		errs = append(errs, fmt.Errorf("small blind must be positive, got %d", r.SmallBlind))
	}
	if r.BigBlind <= 0 {
		errs = append(errs, fmt.Errorf("big blind must be positive, got %d", r.BigBlind))
	}
	if r.BigBlind < r.SmallBlind {
		errs = append(errs, fmt.Errorf("big blind %d is smaller than small blind %d", r.BigBlind, r.SmallBlind))
	}
	if r.MinRaiseMultiplier < 1 {
		errs = append(errs, fmt.Errorf("min raise multiplier must be at least 1, got %d", r.MinRaiseMultiplier))
	}
	return errors.Join(errs...)
}

// MinBet is the smallest opening bet and the initial raise increment.
func (r Rules) MinBet() int {
	return r.BigBlind * max(1, r.MinRaiseMultiplier)
}

// Seat describes a player sitting down for a hand.
type Seat struct {
	ID         int
	Name       string
	Chips      int
	SittingOut bool
}
