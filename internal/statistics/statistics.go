// Package statistics accumulates per-seat results over simulated hands.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/holdem-engine/internal/game"
)

// BigPotBB is the pot size, in big blinds, counted as a big pot.
const BigPotBB = 50

// Sample is one seat's outcome of a single hand.
type Sample struct {
	Seat     int
	Net      int // chips won or lost
	BigBlind int
	// Position counts seats clockwise from the button, which is 0.
	Position int
	Showdown bool
	Pot      int
}

// NetBB returns the result in big blinds.
func (s Sample) NetBB() float64 {
	if s.BigBlind <= 0 {
		return 0
	}
	return float64(s.Net) / float64(s.BigBlind)
}

// Samples returns one sample per seat dealt into a finished hand.
func Samples(res game.HandResult) []Sample {
	var dealt []game.SeatSummary
	dealer := 0
	for _, s := range res.Seats {
		if s.Status == game.StatusOut || s.Status == game.StatusSittingOut {
			continue
		}
		if s.Seat == res.DealerSeat {
			dealer = len(dealt)
		}
		dealt = append(dealt, s)
	}

	pot := res.TotalPot()
	samples := make([]Sample, 0, len(dealt))
	for i, s := range dealt {
		samples = append(samples, Sample{
			Seat:     s.Seat,
			Net:      s.Net(),
			BigBlind: res.BigBlind,
			Position: (i - dealer + len(dealt)) % len(dealt),
			Showdown: res.Showdown && s.Status != game.StatusFolded,
			Pot:      pot,
		})
	}
	return samples
}

// PositionStats tracks statistics for a specific table position
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics tracks one seat's results across hands.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // every result, for median and percentiles

	NetChips int

	ShowdownWins    int     // Hands won at showdown
	NonShowdownWins int     // Hands won without showdown (fold equity)
	ShowdownBB      float64 // BB from showdown (wins AND losses)
	NonShowdownBB   float64 // BB from fold equity (wins AND losses)
	AllBB           float64

	Positions [game.MaxPlayers]PositionStats

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int     // Pots >= BigPotBB
	BigPotsBB   float64 // BB from big pots
}

// Mean returns the arithmetic mean of all results in big blinds per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// BB100 returns the win rate in big blinds per hundred hands.
func (s *Statistics) BB100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a hand result.
func (s *Statistics) Add(sample Sample) {
	netBB := sample.NetBB()
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)
	s.NetChips += sample.Net

	if sample.Net > 0 {
		if sample.Showdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if sample.Showdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	if pos := sample.Position; pos >= 0 && pos < len(s.Positions) {
		s.Positions[pos].Hands++
		s.Positions[pos].SumBB += netBB
		s.Positions[pos].SumBB2 += netBB * netBB
	}

	if sample.BigBlind > 0 {
		potBB := float64(sample.Pot) / float64(sample.BigBlind)
		if sample.Pot > s.MaxPotChips {
			s.MaxPotChips = sample.Pot
			s.MaxPotBB = potBB
		}
		if potBB >= BigPotBB {
			s.BigPots++
			s.BigPotsBB += netBB
		}
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.NetChips += other.NetChips
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.AllBB += other.AllBB
	for i := range s.Positions {
		s.Positions[i].Hands += other.Positions[i].Hands
		s.Positions[i].SumBB += other.Positions[i].SumBB
		s.Positions[i].SumBB2 += other.Positions[i].SumBB2
	}
	if other.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = other.MaxPotChips
		s.MaxPotBB = other.MaxPotBB
	}
	s.BigPots += other.BigPots
	s.BigPotsBB += other.BigPotsBB
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Sorted(slices.Values(s.Values))
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Sorted(slices.Values(s.Values))

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result at a position (0 is the button).
func (s *Statistics) PositionMean(position int) float64 {
	if position < 0 || position >= len(s.Positions) {
		return 0
	}
	ps := s.Positions[position]
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the accumulated totals against each other.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	positioned := 0
	for _, ps := range s.Positions {
		positioned += ps.Hands
	}
	if positioned != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)",
			positioned, s.Hands)
	}
	return nil
}
