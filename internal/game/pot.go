package game

import (
	"slices"

	"github.com/lox/holdem-engine/poker"
)

// Pot represents a pot tier (main or side). Eligible holds the seats that can
// win it.
type Pot struct {
	Amount   int
	Eligible []int
}

func (p Pot) clone() Pot {
	return Pot{Amount: p.Amount, Eligible: slices.Clone(p.Eligible)}
}

// PotManager owns the chips that have left players' round bets. Bets only
// enter the pot through CollectBets, blinds included.
type PotManager struct {
	pots      []Pot
	collected int
}

// NewPotManager creates an empty pot manager
func NewPotManager() *PotManager {
	return &PotManager{}
}

// Total returns the total amount in all pots
func (pm *PotManager) Total() int {
	total := 0
	for _, pot := range pm.pots {
		total += pot.Amount
	}
	return total
}

// MainPot returns the amount of the first tier.
func (pm *PotManager) MainPot() int {
	if len(pm.pots) == 0 {
		return 0
	}
	return pm.pots[0].Amount
}

// SidePots returns copies of every tier after the main pot.
func (pm *PotManager) SidePots() []Pot {
	if len(pm.pots) < 2 {
		return nil
	}
	out := make([]Pot, 0, len(pm.pots)-1)
	for _, p := range pm.pots[1:] {
		out = append(out, p.clone())
	}
	return out
}

// Pots returns copies of all tiers, main pot first.
func (pm *PotManager) Pots() []Pot {
	out := make([]Pot, len(pm.pots))
	for i, p := range pm.pots {
		out[i] = p.clone()
	}
	return out
}

// CollectBets moves every round bet into the pot and rebuilds the tiers from
// each player's total contribution. The rebuilt tiers must account for
// exactly the chips collected so far.
func (pm *PotManager) CollectBets(players []*Player) error {
	totalBets := 0
	for _, p := range players {
		pm.collected += p.Bet
		p.Bet = 0
		totalBets += p.TotalBet
	}

	if pm.collected != totalBets {
		return invariant(ErrPotMismatch, "collected %d chips but players bet %d in total", pm.collected, totalBets)
	}

	pots, err := CalculateSidePots(players)
	if err != nil {
		return err
	}
	pm.pots = pots

	if got := pm.Total(); got != pm.collected {
		return invariant(ErrPotMismatch, "pot tiers hold %d chips, collected %d", got, pm.collected)
	}
	return nil
}

// clear empties the pot once it has been paid out.
func (pm *PotManager) clear() {
	pm.pots = nil
	pm.collected = 0
}

// CalculateSidePots splits total contributions into tiers. Each distinct
// contribution level forms a tier worth the level difference times the number
// of players who reached it. Folded players fund the tiers they reached but are
// never eligible. A tier nobody can win is merged into the nearest lower tier
// with eligible players (or the next higher one), and adjacent tiers with the
// same eligibility are combined.
func CalculateSidePots(players []*Player) ([]Pot, error) {
	var levels []int
	for _, p := range players {
		if p.TotalBet > 0 && !slices.Contains(levels, p.TotalBet) {
			levels = append(levels, p.TotalBet)
		}
	}
	slices.Sort(levels)

	tiers := make([]Pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		tier := Pot{}
		for _, p := range players {
			if p.TotalBet < level {
				continue
			}
			tier.Amount += level - prev
			if p.InHand() {
				tier.Eligible = append(tier.Eligible, p.Seat)
			}
		}
		tiers = append(tiers, tier)
		prev = level
	}

	// Fold chips from dead tiers into a live neighbour.
	for i := 0; i < len(tiers); i++ {
		if len(tiers[i].Eligible) > 0 {
			continue
		}
		target := -1
		for j := i - 1; j >= 0; j-- {
			if len(tiers[j].Eligible) > 0 {
				target = j
				break
			}
		}
		if target < 0 {
			for j := i + 1; j < len(tiers); j++ {
				if len(tiers[j].Eligible) > 0 {
					target = j
					break
				}
			}
		}
		if target < 0 {
			if tiers[i].Amount == 0 {
				continue
			}
			return nil, invariant(ErrCorruptEligibility, "%d chips contributed but no player remains in the hand", tiers[i].Amount)
		}
		tiers[target].Amount += tiers[i].Amount
		tiers[i].Amount = 0
	}

	pots := make([]Pot, 0, len(tiers))
	for _, t := range tiers {
		if len(t.Eligible) == 0 {
			continue
		}
		if n := len(pots); n > 0 && slices.Equal(pots[n-1].Eligible, t.Eligible) {
			pots[n-1].Amount += t.Amount
			continue
		}
		pots = append(pots, t)
	}
	return pots, nil
}

// PotAward records how one pot tier was paid out.
type PotAward struct {
	Index    int
	Amount   int
	Eligible []int
	Winners  []int
	Share    int
	// OddChips went to OddChipSeat on top of its share.
	OddChips    int
	OddChipSeat int
	Hand        string
}

// Distribution is the outcome of settling every pot tier.
type Distribution struct {
	Payouts map[int]int
	Awards  []PotAward
}

// DistributeWinnings settles each tier independently among its eligible
// contenders with the best hand. Ties split evenly; the remainder goes to the
// first winner in order, which lists seats clockwise from the dealer's left.
// Seats absent from results are treated as no longer contending.
func DistributeWinnings(pots []Pot, results map[int]poker.HandResult, order []int) (Distribution, error) {
	dist := Distribution{Payouts: make(map[int]int)}
	position := make(map[int]int, len(order))
	for i, seat := range order {
		position[seat] = i
	}

	total := 0
	for i, pot := range pots {
		total += pot.Amount

		var contenders []int
		for _, seat := range pot.Eligible {
			if _, ok := results[seat]; ok {
				contenders = append(contenders, seat)
			}
		}
		if len(contenders) == 0 {
			return Distribution{}, invariant(ErrCorruptEligibility, "pot %d (%d chips) has no contender among %v", i, pot.Amount, pot.Eligible)
		}

		for _, seat := range contenders {
			if _, ok := position[seat]; !ok {
				return Distribution{}, invariant(ErrCorruptEligibility, "seat %d in pot %d is missing from odd chip order", seat, i)
			}
		}

		best := results[contenders[0]]
		for _, seat := range contenders[1:] {
			if poker.Compare(results[seat], best) > 0 {
				best = results[seat]
			}
		}
		var winners []int
		for _, seat := range contenders {
			if poker.Compare(results[seat], best) == 0 {
				winners = append(winners, seat)
			}
		}
		slices.SortFunc(winners, func(a, b int) int { return position[a] - position[b] })

		share := pot.Amount / len(winners)
		odd := pot.Amount % len(winners)
		for _, seat := range winners {
			dist.Payouts[seat] += share
		}
		dist.Payouts[winners[0]] += odd

		award := PotAward{
			Index:       i,
			Amount:      pot.Amount,
			Eligible:    slices.Clone(pot.Eligible),
			Winners:     winners,
			Share:       share,
			OddChips:    odd,
			OddChipSeat: winners[0],
		}
		if len(best.Tiebreak) > 0 {
			award.Hand = best.String()
		}
		dist.Awards = append(dist.Awards, award)
	}

	paid := 0
	for _, amount := range dist.Payouts {
		paid += amount
	}
	if paid != total {
		return Distribution{}, invariant(ErrDistributionMismatch, "distributed %d chips from pots totalling %d", paid, total)
	}
	return dist, nil
}
