package poker

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidHand is returned when the evaluator is given an impossible card set.
var ErrInvalidHand = errors.New("invalid hand")

// Category enumerates the categories of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult is the value of the best hand found for a set of cards. Two
// results are ordered by Category, then lexicographically by Tiebreak.
type HandResult struct {
	Category Category
	// Tiebreak holds the significant ranks in comparison order: grouped ranks
	// by multiplicity then rank, or the high card for straights.
	Tiebreak []Rank
	// Best is the five card hand that produced the result, in Tiebreak order.
	// It holds fewer cards when fewer than five were evaluated.
	Best []Card
}

// String describes the hand, e.g. "Pair of Kings" or "Straight, Nine high".
func (h HandResult) String() string {
	if len(h.Tiebreak) == 0 {
		return h.Category.String()
	}
	top := h.Tiebreak[0]
	switch h.Category {
	case HighCard:
		return fmt.Sprintf("High Card, %s", rankName(top))
	case Pair:
		return fmt.Sprintf("Pair of %s", rankPlural(top))
	case TwoPair:
		if len(h.Tiebreak) < 2 {
			return h.Category.String()
		}
		return fmt.Sprintf("Two Pair, %s and %s", rankPlural(top), rankPlural(h.Tiebreak[1]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three %s", rankPlural(top))
	case Straight:
		return fmt.Sprintf("Straight, %s high", rankName(top))
	case Flush:
		return fmt.Sprintf("Flush, %s high", rankName(top))
	case FullHouse:
		if len(h.Tiebreak) < 2 {
			return h.Category.String()
		}
		return fmt.Sprintf("Full House, %s full of %s", rankPlural(top), rankPlural(h.Tiebreak[1]))
	case FourOfAKind:
		return fmt.Sprintf("Four %s", rankPlural(top))
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", rankName(top))
	default:
		return h.Category.String()
	}
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 for a tie.
func Compare(a, b HandResult) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			if a.Tiebreak[i] > b.Tiebreak[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case len(a.Tiebreak) > len(b.Tiebreak):
		return 1
	case len(a.Tiebreak) < len(b.Tiebreak):
		return -1
	}
	return 0
}

// Evaluate finds the best hand made from two hole cards and zero to five
// community cards. With five or more cards in total every five card
// combination is scored; with fewer only rank groups (pairs, trips, quads)
// are recognised.
func Evaluate(hole, board []Card) (HandResult, error) {
	if len(hole) != 2 {
		return HandResult{}, fmt.Errorf("%w: need 2 hole cards, got %d", ErrInvalidHand, len(hole))
	}
	if len(board) > 5 {
		return HandResult{}, fmt.Errorf("%w: at most 5 community cards, got %d", ErrInvalidHand, len(board))
	}
	cards := make([]Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	return EvaluateCards(cards)
}

// EvaluateCards finds the best hand among one to seven distinct cards.
func EvaluateCards(cards []Card) (HandResult, error) {
	if len(cards) == 0 || len(cards) > 7 {
		return HandResult{}, fmt.Errorf("%w: cannot evaluate %d cards", ErrInvalidHand, len(cards))
	}
	var seen [DeckSize]bool
	for _, c := range cards {
		if !c.Valid() {
			return HandResult{}, fmt.Errorf("%w: invalid card %v", ErrInvalidHand, c)
		}
		if seen[c.index()] {
			return HandResult{}, fmt.Errorf("%w: duplicate card %s", ErrInvalidHand, c)
		}
		seen[c.index()] = true
	}

	if len(cards) < 5 {
		return scoreGroups(cards), nil
	}

	var (
		best  HandResult
		found bool
		combo [5]Card
	)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo = [5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						res := scoreFive(combo)
						if !found || Compare(res, best) > 0 {
							best = res
							found = true
						}
					}
				}
			}
		}
	}
	return best, nil
}

// MustEvaluate is like Evaluate but panics on error. Intended for tests.
func MustEvaluate(hole, board []Card) HandResult {
	res, err := Evaluate(hole, board)
	if err != nil {
		panic(err)
	}
	return res
}

// scoreFive scores exactly five cards.
func scoreFive(cards [5]Card) HandResult {
	ordered := groupOrder(cards[:])

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	high, straight := straightHigh(ordered)
	if straight {
		best := ordered
		if high == Five {
			// Wheel: the ace plays low.
			best = append(slices.Clone(ordered[1:]), ordered[0])
		}
		res := HandResult{Category: Straight, Tiebreak: []Rank{high}, Best: best}
		if flush {
			res.Category = StraightFlush
			if high == Ace {
				res.Category = RoyalFlush
			}
		}
		return res
	}

	res := HandResult{Tiebreak: distinctRanks(ordered), Best: ordered}
	counts := groupCounts(ordered)
	switch {
	case counts[0] == 4:
		res.Category = FourOfAKind
	case counts[0] == 3 && counts[1] == 2:
		res.Category = FullHouse
	case flush:
		res.Category = Flush
	case counts[0] == 3:
		res.Category = ThreeOfAKind
	case counts[0] == 2 && counts[1] == 2:
		res.Category = TwoPair
	case counts[0] == 2:
		res.Category = Pair
	default:
		res.Category = HighCard
	}
	return res
}

// scoreGroups scores fewer than five cards using rank multiplicity only.
func scoreGroups(cards []Card) HandResult {
	ordered := groupOrder(cards)
	res := HandResult{Tiebreak: distinctRanks(ordered), Best: ordered}
	counts := groupCounts(ordered)
	switch {
	case counts[0] == 4:
		res.Category = FourOfAKind
	case counts[0] == 3:
		res.Category = ThreeOfAKind
	case counts[0] == 2 && len(counts) > 1 && counts[1] == 2:
		res.Category = TwoPair
	case counts[0] == 2:
		res.Category = Pair
	default:
		res.Category = HighCard
	}
	return res
}

// groupOrder sorts cards by rank multiplicity descending, then rank
// descending, then suit descending.
func groupOrder(cards []Card) []Card {
	var counts [Ace + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}
	out := slices.Clone(cards)
	slices.SortFunc(out, func(a, b Card) int {
		if counts[a.Rank] != counts[b.Rank] {
			return counts[b.Rank] - counts[a.Rank]
		}
		return b.Compare(a)
	})
	return out
}

// distinctRanks returns each rank once, preserving group order.
func distinctRanks(ordered []Card) []Rank {
	out := make([]Rank, 0, len(ordered))
	for i, c := range ordered {
		if i == 0 || c.Rank != ordered[i-1].Rank {
			out = append(out, c.Rank)
		}
	}
	return out
}

// groupCounts returns the size of each rank group in group order.
func groupCounts(ordered []Card) []int {
	var out []int
	for i, c := range ordered {
		if i == 0 || c.Rank != ordered[i-1].Rank {
			out = append(out, 1)
			continue
		}
		out[len(out)-1]++
	}
	return out
}

// straightHigh reports the high card of a five card straight. ordered must be
// in group order; a straight has five distinct ranks.
func straightHigh(ordered []Card) (Rank, bool) {
	if len(ordered) != 5 {
		return 0, false
	}
	for i := 1; i < 5; i++ {
		if ordered[i].Rank == ordered[i-1].Rank {
			return 0, false
		}
	}
	if ordered[0].Rank-ordered[4].Rank == 4 {
		return ordered[0].Rank, true
	}
	if ordered[0].Rank == Ace && ordered[1].Rank == Five && ordered[4].Rank == Two {
		return Five, true
	}
	return 0, false
}

func rankName(r Rank) string {
	switch r {
	case Ace:
		return "Ace"
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Jack:
		return "Jack"
	case Ten:
		return "Ten"
	case Nine:
		return "Nine"
	case Eight:
		return "Eight"
	case Seven:
		return "Seven"
	case Six:
		return "Six"
	case Five:
		return "Five"
	case Four:
		return "Four"
	case Three:
		return "Three"
	case Two:
		return "Two"
	default:
		return "?"
	}
}

func rankPlural(r Rank) string {
	if r == Six {
		return "Sixes"
	}
	return rankName(r) + "s"
}

// DescribeBest renders the best five cards, e.g. "As Ks Qs Js Ts".
func (h HandResult) DescribeBest() string {
	return FormatCards(h.Best)
}
