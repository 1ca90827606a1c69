package game

import (
	"maps"
	"slices"
	"time"

	"github.com/lox/holdem-engine/poker"
)

// ActionRecord is one accepted action in the hand's log.
type ActionRecord struct {
	Phase  Phase
	Seat   int
	Name   string
	Type   ActionType
	Amount int
	// RoundBet is the player's total bet for the round after the action.
	RoundBet  int
	Converted bool
	Reason    string
	PotAfter  int
}

// ShowdownHand is a hand revealed at showdown.
type ShowdownHand struct {
	Seat  int
	Cards []poker.Card
	Hand  poker.HandResult
}

// SeatSummary is a seat's chip movement over the hand.
type SeatSummary struct {
	Seat          int
	Name          string
	StartingChips int
	FinalChips    int
	Contributed   int
	Status        Status
}

// Net returns the chips won or lost.
func (s SeatSummary) Net() int {
	return s.FinalChips - s.StartingChips
}

// HandResult is the archived outcome of a finished hand.
type HandResult struct {
	HandID     string
	DealerSeat int
	SmallBlind int
	BigBlind   int
	// MinBet is the opening bet and initial raise increment on each street.
	MinBet int
	Seats  []SeatSummary

	Winners    []int
	Payouts    map[int]int
	Board      []poker.Card
	Revealed   []ShowdownHand
	Phases     []Phase
	FinalChips map[int]int
	Pots       []PotAward
	Showdown   bool
	Actions    []ActionRecord

	StartedAt time.Time
	EndedAt   time.Time
}

func (r HandResult) clone() HandResult {
	out := r
	out.Seats = slices.Clone(r.Seats)
	out.Winners = slices.Clone(r.Winners)
	out.Payouts = maps.Clone(r.Payouts)
	out.Board = slices.Clone(r.Board)
	out.Revealed = cloneRevealed(r.Revealed)
	out.Phases = slices.Clone(r.Phases)
	out.FinalChips = maps.Clone(r.FinalChips)
	out.Pots = cloneAwards(r.Pots)
	out.Actions = slices.Clone(r.Actions)
	return out
}

func cloneRevealed(hands []ShowdownHand) []ShowdownHand {
	if hands == nil {
		return nil
	}
	out := make([]ShowdownHand, len(hands))
	for i, sh := range hands {
		out[i] = ShowdownHand{
			Seat:  sh.Seat,
			Cards: slices.Clone(sh.Cards),
			Hand: poker.HandResult{
				Category: sh.Hand.Category,
				Tiebreak: slices.Clone(sh.Hand.Tiebreak),
				Best:     slices.Clone(sh.Hand.Best),
			},
		}
	}
	return out
}

func cloneAwards(awards []PotAward) []PotAward {
	if awards == nil {
		return nil
	}
	out := make([]PotAward, len(awards))
	for i, a := range awards {
		out[i] = a
		out[i].Eligible = slices.Clone(a.Eligible)
		out[i].Winners = slices.Clone(a.Winners)
	}
	return out
}

// TotalPot returns the chips paid out.
func (r HandResult) TotalPot() int {
	total := 0
	for _, amount := range r.Payouts {
		total += amount
	}
	return total
}

// ActionResult is returned for every submitted action.
type ActionResult struct {
	Accepted bool
	// Action is the normalized action when accepted, or the submitted one.
	Action    Action
	Converted bool
	Code      ReasonCode
	Reason    string
	// Phase is the phase after the action was processed.
	Phase    Phase
	Finished bool
}
