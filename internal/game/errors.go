package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/holdem-engine/poker"
)

// Recoverable rejections. The hand is left unchanged and the same player
// keeps the turn.
var (
	ErrOutOfTurn     = errors.New("action out of turn")
	ErrIllegalAction = errors.New("illegal action")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ErrInsufficientChips is returned by Player.Deduct.
var ErrInsufficientChips = errors.New("insufficient chips")

// Fatal invariant violations. Any of these aborts the hand.
var (
	ErrChipConservation     = errors.New("chip conservation violated")
	ErrPotMismatch          = errors.New("pot does not match bets")
	ErrDistributionMismatch = errors.New("distribution does not match pot")
	ErrCorruptEligibility   = errors.New("corrupt pot eligibility")
	ErrBettingState         = errors.New("inconsistent betting state")
	ErrInvalidTransition    = errors.New("invalid phase transition")
	ErrDeckIntegrity        = poker.ErrDeckIntegrity
	ErrEmptyDeck            = poker.ErrEmptyDeck
)

// ReasonCode is the stable identifier of a rejected action.
type ReasonCode string

const (
	CodeOutOfTurn     ReasonCode = "out_of_turn"
	CodeIllegalAction ReasonCode = "illegal_action"
	CodeInvalidAmount ReasonCode = "invalid_amount"
)

// ActionError describes why a submitted action was rejected.
type ActionError struct {
	Code   ReasonCode
	Seat   int
	Action ActionType
	Reason string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("seat %d %s rejected (%s): %s", e.Seat, e.Action, e.Code, e.Reason)
}

// Unwrap maps the reason code to its sentinel so errors.Is works.
func (e *ActionError) Unwrap() error {
	switch e.Code {
	case CodeOutOfTurn:
		return ErrOutOfTurn
	case CodeInvalidAmount:
		return ErrInvalidAmount
	default:
		return ErrIllegalAction
	}
}

func reject(code ReasonCode, a Action, format string, args ...any) *ActionError {
	return &ActionError{Code: code, Seat: a.Seat, Action: a.Type, Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports corrupted hand state. It is never recovered from.
type InvariantError struct {
	Kind       error
	Detail     string
	Diagnostic Diagnostic
}

func (e *InvariantError) Error() string {
	if e.Diagnostic.LastOp != "" {
		return fmt.Sprintf("%v after %s: %s", e.Kind, e.Diagnostic.LastOp, e.Detail)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *InvariantError) Unwrap() error { return e.Kind }

func invariant(kind error, format string, args ...any) *InvariantError {
	return &InvariantError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// SeatDiagnostic is one player's chip accounting at the time of a failure.
type SeatDiagnostic struct {
	Seat     int
	Name     string
	Chips    int
	RoundBet int
	TotalBet int
	Status   Status
}

// Diagnostic is a full dump of the accounting state of an aborted hand.
type Diagnostic struct {
	HandID   string
	Phase    Phase
	LastOp   string
	Seats    []SeatDiagnostic
	MainPot  int
	SidePots []int
	Expected int
	Actual   int
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hand=%s phase=%s op=%q main_pot=%d side_pots=%v expected=%d actual=%d",
		d.HandID, d.Phase, d.LastOp, d.MainPot, d.SidePots, d.Expected, d.Actual)
	for _, s := range d.Seats {
		fmt.Fprintf(&b, "\n  seat=%d name=%s chips=%d round_bet=%d total_bet=%d status=%s",
			s.Seat, s.Name, s.Chips, s.RoundBet, s.TotalBet, s.Status)
	}
	return b.String()
}
