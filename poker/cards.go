package poker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCard is returned when card notation cannot be parsed.
var ErrInvalidCard = errors.New("invalid card")

// Suit represents a card suit. Suits are ordered clubs < diamonds < hearts < spades
// for tie-free card ordering; suits never affect hand strength.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the single letter notation for the suit.
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Symbol returns the unicode symbol for the suit.
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Rank represents a card rank, 2 through 14 with the ace high.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the single character notation for the rank.
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether r is one of the 13 ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Card is an immutable playing card value.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from a rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two character notation, e.g. "As" or "Td".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Pretty returns the card with a suit symbol, e.g. "A♠".
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit <= Spades
}

// Compare orders cards by rank, then suit.
func (c Card) Compare(other Card) int {
	switch {
	case c.Rank < other.Rank:
		return -1
	case c.Rank > other.Rank:
		return 1
	case c.Suit < other.Suit:
		return -1
	case c.Suit > other.Suit:
		return 1
	}
	return 0
}

// index returns a unique 0-51 index for the card.
func (c Card) index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// ParseCard parses notation like "As", "Td", "10h" or "A♠".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	rankPart := strings.ToUpper(string(runes[:len(runes)-1]))
	suitPart := runes[len(runes)-1]

	var rank Rank
	switch rankPart {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Rank(rankPart[0] - '0')
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("%w: bad rank in %q", ErrInvalidCard, s)
	}

	var suit Suit
	switch suitPart {
	case 'c', 'C', '♣':
		suit = Clubs
	case 'd', 'D', '♦':
		suit = Diamonds
	case 'h', 'H', '♥':
		suit = Hearts
	case 's', 'S', '♠':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("%w: bad suit in %q", ErrInvalidCard, s)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a list of cards. Cards may be separated by spaces or commas,
// or written back to back ("AsKsQs").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	var cards []Card
	for _, field := range fields {
		runes := []rune(field)
		for len(runes) > 0 {
			n := 2
			if len(runes) >= 3 && runes[0] == '1' && runes[1] == '0' {
				n = 3
			}
			if len(runes) < n {
				return nil, fmt.Errorf("%w: trailing %q", ErrInvalidCard, string(runes))
			}
			card, err := ParseCard(string(runes[:n]))
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
			runes = runes[n:]
		}
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards using their two character notation.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
