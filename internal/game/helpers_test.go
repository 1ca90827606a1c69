package game

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/poker"
)

var testNames = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy"}

// testHandOption configures test hand creation
type testHandOption func(*testHandBuilder)

type testHandBuilder struct {
	seed    int64
	rules   Rules
	stacks  []int
	dealer  int
	holes   map[int]string
	board   string
	sitting map[int]bool
	opts    []HandOption
}

func withRules(small, big int) testHandOption {
	return func(b *testHandBuilder) {
		b.rules = Rules{SmallBlind: small, BigBlind: big, MinRaiseMultiplier: 1}
	}
}

func withStacks(stacks ...int) testHandOption {
	return func(b *testHandBuilder) { b.stacks = stacks }
}

func withDealer(seat int) testHandOption {
	return func(b *testHandBuilder) { b.dealer = seat }
}

func withSeed(seed int64) testHandOption {
	return func(b *testHandBuilder) { b.seed = seed }
}

func withSittingOut(seat int) testHandOption {
	return func(b *testHandBuilder) { b.sitting[seat] = true }
}

// withStackedDeck arranges the deck so each seat receives holes[seat] and the
// board comes out as given. Every dealt-in seat needs an entry.
func withStackedDeck(holes map[int]string, board string) testHandOption {
	return func(b *testHandBuilder) {
		b.holes = holes
		b.board = board
	}
}

func withHandOptions(opts ...HandOption) testHandOption {
	return func(b *testHandBuilder) { b.opts = append(b.opts, opts...) }
}

func (b *testHandBuilder) seats() []Seat {
	seats := make([]Seat, len(b.stacks))
	for i, chips := range b.stacks {
		seats[i] = Seat{ID: i, Name: testNames[i], Chips: chips, SittingOut: b.sitting[i]}
	}
	return seats
}

// stackedDeck lays out hole cards in dealing order: one card at a time
// starting left of the dealer, two rounds, followed by the board.
func (b *testHandBuilder) stackedDeck(t *testing.T) *poker.Deck {
	t.Helper()
	seats := b.seats()
	var order []int
	for i := 1; i <= len(seats); i++ {
		s := seats[(b.dealer+i)%len(seats)]
		if s.Chips > 0 && !s.SittingOut {
			order = append(order, s.ID)
		}
	}

	var top []poker.Card
	for round := range 2 {
		for _, seat := range order {
			hole, ok := b.holes[seat]
			require.True(t, ok, "no hole cards for seat %d", seat)
			cards := poker.MustParseCards(hole)
			require.Len(t, cards, 2, "seat %d", seat)
			top = append(top, cards[round])
		}
	}
	if b.board != "" {
		top = append(top, poker.MustParseCards(b.board)...)
	}

	deck, err := poker.NewDeckFromCards(top...)
	require.NoError(t, err)
	return deck
}

// newTestHand creates and starts a hand. Defaults: three seats with 100
// chips, 1/2 blinds, dealer in seat 0.
func newTestHand(t *testing.T, opts ...testHandOption) *Hand {
	t.Helper()
	b := &testHandBuilder{
		seed:    42,
		rules:   DefaultRules(),
		stacks:  []int{100, 100, 100},
		sitting: map[int]bool{},
	}
	for _, opt := range opts {
		opt(b)
	}

	handOpts := slices.Clone(b.opts)
	if b.holes != nil {
		handOpts = append(handOpts, WithDeck(b.stackedDeck(t)))
	}

	h, err := NewHand(poker.NewRand(b.seed), b.rules, b.seats(), b.dealer, handOpts...)
	require.NoError(t, err)
	require.NoError(t, h.Start())
	return h
}

// act submits an action for seat and requires it to be accepted.
func act(t *testing.T, h *Hand, seat int, typ ActionType, amount ...int) ActionResult {
	t.Helper()
	a := Action{Seat: seat, Type: typ}
	if len(amount) > 0 {
		a.Amount = amount[0]
	}
	require.Equal(t, seat, h.ActiveSeat(), "seat %d is not to act", seat)
	res, err := h.Submit(a)
	require.NoError(t, err, "submitting %s", a)
	require.True(t, res.Accepted)
	return res
}

// playOut folds or checks every remaining decision.
func playOut(t *testing.T, h *Hand, typ ActionType) {
	t.Helper()
	for steps := 0; !h.IsFinished(); steps++ {
		require.Less(t, steps, 100, "hand did not finish")
		seat := h.ActiveSeat()
		a := Action{Seat: seat, Type: typ}
		if typ == Check && h.Snapshot(seat).ToCall() > 0 {
			a.Type = Call
		}
		_, err := h.Submit(a)
		require.NoError(t, err, "phase %s", h.Phase())
	}
}

func player(t *testing.T, h *Hand, seat int) Player {
	t.Helper()
	p, ok := h.Player(seat)
	require.True(t, ok, "seat %d", seat)
	return p
}
