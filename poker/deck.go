package poker

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

var (
	// ErrEmptyDeck is returned when drawing from an exhausted deck.
	ErrEmptyDeck = errors.New("deck is empty")
	// ErrDeckIntegrity is returned when a deck would contain a duplicate or
	// invalid card.
	ErrDeckIntegrity = errors.New("deck integrity violated")
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is an ordered sequence of the 52 distinct cards. Cards are drawn from
// the front; a card leaves the deck exactly once.
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a shuffled deck using rng. A nil rng falls back to a
// time-seeded source, which is not reproducible.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = newTimeRand()
	}
	d := &Deck{rng: rng}
	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	d.Shuffle()
	return d
}

// NewDeckFromCards builds a stacked deck. The given cards are drawn first, in
// order, followed by the remaining cards of the standard deck in rank/suit
// order. Duplicate or invalid cards are rejected.
func NewDeckFromCards(top ...Card) (*Deck, error) {
	var seen [DeckSize]bool
	d := &Deck{}
	i := 0
	for _, c := range top {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: invalid card %v", ErrDeckIntegrity, c)
		}
		if seen[c.index()] {
			return nil, fmt.Errorf("%w: duplicate card %s", ErrDeckIntegrity, c)
		}
		seen[c.index()] = true
		d.cards[i] = c
		i++
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if seen[c.index()] {
				continue
			}
			d.cards[i] = c
			i++
		}
	}
	return d, nil
}

// Shuffle resets the deck to full and shuffles it with Fisher-Yates.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		d.rng = newTimeRand()
	}
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// DrawN removes and returns the top n cards. The deck is left untouched when
// fewer than n cards remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrEmptyDeck, n, d.Remaining())
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// Remaining returns the number of undrawn cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undrawn cards in draw order.
func (d *Deck) Cards() []Card {
	out := make([]Card, d.Remaining())
	copy(out, d.cards[d.next:])
	return out
}

// Verify checks that the deck still holds 52 distinct valid cards.
func (d *Deck) Verify() error {
	var seen [DeckSize]bool
	for _, c := range d.cards {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %v", ErrDeckIntegrity, c)
		}
		if seen[c.index()] {
			return fmt.Errorf("%w: duplicate card %s", ErrDeckIntegrity, c)
		}
		seen[c.index()] = true
	}
	return nil
}
