package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
)

// ErrHandInProgress is returned when a new hand is requested before the
// current one has been completed.
var ErrHandInProgress = errors.New("hand in progress")

// Table runs consecutive hands with persistent seats. Each hand starts from
// the previous hand's ending stacks and the button moves to the next seat
// that can play.
type Table struct {
	rng   *rand.Rand
	rules Rules
	seats []Seat
	opts  []HandOption

	dealer  int // position of the button, -1 before the first hand
	hands   int
	current *Hand
}

// NewTable creates a table. opts are applied to every hand.
func NewTable(rng *rand.Rand, rules Rules, seats []Seat, opts ...HandOption) (*Table, error) {
	if rng == nil {
		return nil, errors.New("rng is required")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, fmt.Errorf("need %d-%d seats, got %d", MinPlayers, MaxPlayers, len(seats))
	}
	ids := make(map[int]bool, len(seats))
	for _, s := range seats {
		if ids[s.ID] {
			return nil, fmt.Errorf("duplicate seat %d", s.ID)
		}
		if s.Chips < 0 {
			return nil, fmt.Errorf("seat %d has negative chips %d", s.ID, s.Chips)
		}
		ids[s.ID] = true
	}
	return &Table{
		rng:    rng,
		rules:  rules,
		seats:  slices.Clone(seats),
		opts:   opts,
		dealer: -1,
	}, nil
}

// NextHand moves the button and starts a new hand.
func (t *Table) NextHand(opts ...HandOption) (*Hand, error) {
	if t.current != nil {
		return nil, ErrHandInProgress
	}
	if t.Playable() < MinPlayers {
		return nil, fmt.Errorf("%w: %d seats can play", ErrNotEnoughPlayers, t.Playable())
	}

	n := len(t.seats)
	for i := 1; i <= n; i++ {
		pos := (t.dealer + i + n) % n
		if t.dealer < 0 {
			pos = i - 1
		}
		if t.canPlay(t.seats[pos]) {
			t.dealer = pos
			break
		}
	}

	handOpts := append(slices.Clone(t.opts), opts...)
	h, err := NewHand(t.rng, t.rules, slices.Clone(t.seats), t.seats[t.dealer].ID, handOpts...)
	if err != nil {
		return nil, err
	}
	if err := h.Start(); err != nil {
		return nil, err
	}
	t.current = h
	t.hands++
	return h, nil
}

// Complete applies a finished hand's stacks to the table. An aborted hand is
// voided: stacks stay as they were before it and its error is returned.
func (t *Table) Complete(h *Hand) error {
	if h == nil || h != t.current {
		return errors.New("hand does not belong to this table")
	}
	if err := h.Err(); err != nil {
		t.current = nil
		return fmt.Errorf("hand %s voided: %w", h.ID(), err)
	}
	res, ok := h.Result()
	if !ok {
		return fmt.Errorf("hand %s is still in %s", h.ID(), h.Phase())
	}

	before := t.TotalChips()
	after := 0
	for _, chips := range res.FinalChips {
		after += chips
	}
	if before != after {
		err := invariant(ErrChipConservation, "table held %d chips before hand %s, %d after", before, h.ID(), after)
		err.Diagnostic.Expected, err.Diagnostic.Actual = before, after
		return err
	}

	for i := range t.seats {
		t.seats[i].Chips = res.FinalChips[t.seats[i].ID]
	}
	t.current = nil
	return nil
}

// SetSittingOut marks a seat as sitting out from the next hand.
func (t *Table) SetSittingOut(id int, sittingOut bool) error {
	for i := range t.seats {
		if t.seats[i].ID == id {
			t.seats[i].SittingOut = sittingOut
			return nil
		}
	}
	return fmt.Errorf("unknown seat %d", id)
}

// Seats returns a copy of the seats with their current stacks.
func (t *Table) Seats() []Seat {
	return slices.Clone(t.seats)
}

// TotalChips returns the chips held by all seats between hands.
func (t *Table) TotalChips() int {
	total := 0
	for _, s := range t.seats {
		total += s.Chips
	}
	return total
}

// Playable returns the number of seats that would be dealt in.
func (t *Table) Playable() int {
	n := 0
	for _, s := range t.seats {
		if t.canPlay(s) {
			n++
		}
	}
	return n
}

// HandsPlayed returns the number of hands started.
func (t *Table) HandsPlayed() int { return t.hands }

// Rules returns the table's betting limits.
func (t *Table) Rules() Rules { return t.rules }

func (t *Table) canPlay(s Seat) bool {
	return s.Chips > 0 && !s.SittingOut
}
