package phh

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// Option customises conversion.
type Option func(*converter)

// WithTable sets the table name recorded in the history.
func WithTable(name string) Option {
	return func(c *converter) { c.table = name }
}

// WithHoleCards records the hole cards each seat was dealt. Without them
// only hands shown at showdown are written; the rest appear as "????".
func WithHoleCards(holes map[int][]poker.Card) Option {
	return func(c *converter) { c.holes = holes }
}

type converter struct {
	table string
	holes map[int][]poker.Card
}

// FromResult builds a hand history from a finished hand. Players are listed
// starting with the small blind and ending with the button.
func FromResult(res game.HandResult, opts ...Option) (*HandHistory, error) {
	c := &converter{}
	for _, opt := range opts {
		opt(c)
	}

	var dealt []game.SeatSummary
	dealer := -1
	for _, s := range res.Seats {
		if s.Status == game.StatusOut || s.Status == game.StatusSittingOut {
			continue
		}
		if s.Seat == res.DealerSeat {
			dealer = len(dealt)
		}
		dealt = append(dealt, s)
	}
	if len(dealt) < game.MinPlayers {
		return nil, fmt.Errorf("phh: hand %s dealt %d players", res.HandID, len(dealt))
	}
	if dealer < 0 {
		return nil, fmt.Errorf("phh: hand %s: dealer seat %d was not dealt in", res.HandID, res.DealerSeat)
	}

	// Heads-up the button posts the small blind.
	start := (dealer + 1) % len(dealt)
	if len(dealt) == 2 {
		start = dealer
	}
	n := len(dealt)
	hist := &HandHistory{
		Variant:           Variant,
		Table:             c.table,
		SeatCount:         len(res.Seats),
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            res.MinBet,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            res.HandID,
		Timestamp:         res.StartedAt,
	}
	if hist.MinBet == 0 {
		hist.MinBet = res.BigBlind
	}
	for i := range n {
		s := dealt[(start+i)%n]
		hist.Seats[i] = s.Seat + 1
		hist.Players[i] = s.Name
		hist.StartingStacks[i] = s.StartingChips
		hist.FinishingStacks[i] = s.FinalChips
		hist.Winnings[i] = res.Payouts[s.Seat]
	}
	hist.BlindsOrStraddles[0] = min(res.SmallBlind, hist.StartingStacks[0])
	hist.BlindsOrStraddles[1] = min(res.BigBlind, hist.StartingStacks[1])

	shown := make(map[int][]poker.Card, len(res.Revealed))
	for _, r := range res.Revealed {
		shown[r.Seat] = r.Cards
	}
	for i := range n {
		seat := hist.Seats[i] - 1
		cards := unknownHole
		if hole, ok := c.holes[seat]; ok && len(hole) == 2 {
			cards = FormatCards(hole)
		} else if hole, ok := shown[seat]; ok {
			cards = FormatCards(hole)
		}
		hist.Actions = append(hist.Actions, fmt.Sprintf("d dh p%d %s", i+1, cards))
	}

	street := game.PhasePreFlop
	high := max(hist.BlindsOrStraddles[0], hist.BlindsOrStraddles[1])
	for _, rec := range res.Actions {
		if rec.Phase < street {
			return nil, fmt.Errorf("phh: hand %s: %s action after %s", res.HandID, rec.Phase, street)
		}
		for street < rec.Phase {
			street++
			hist.dealBoard(res.Board, street)
			high = 0
		}
		pos := hist.Position(rec.Seat)
		if pos == 0 {
			return nil, fmt.Errorf("phh: hand %s: action from seat %d which was not dealt in", res.HandID, rec.Seat)
		}
		hist.Actions = append(hist.Actions, FormatAction(pos, rec, high))
		high = max(high, rec.RoundBet)
	}
	for street < game.PhaseRiver && len(res.Board) > boardSize(street) {
		street++
		hist.dealBoard(res.Board, street)
	}

	for _, r := range res.Revealed {
		pos := hist.Position(r.Seat)
		if pos == 0 {
			return nil, errors.New("phh: revealed hand for a seat that was not dealt in")
		}
		hist.Actions = append(hist.Actions, fmt.Sprintf("p%d sm %s", pos, FormatCards(r.Cards)))
	}

	hist.Board = make([]string, len(res.Board))
	for i, card := range res.Board {
		hist.Board[i] = card.String()
	}
	hist.populateTimeFields()
	return hist, nil
}

func (h *HandHistory) dealBoard(board []poker.Card, street game.Phase) {
	from, to := boardSize(street-1), boardSize(street)
	if to > len(board) || from >= to {
		return
	}
	h.Actions = append(h.Actions, "d db "+FormatCards(board[from:to]))
}

func boardSize(p game.Phase) int {
	switch p {
	case game.PhaseFlop:
		return 3
	case game.PhaseTurn:
		return 4
	case game.PhaseRiver, game.PhaseShowdown:
		return 5
	default:
		return 0
	}
}
