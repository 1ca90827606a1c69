// Package bot provides reference agents that drive the engine in simulations
// and tests. Every bot picks from the legal actions in the snapshot it is
// given, so a well-behaved engine never rejects their decisions.
package bot

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// Strategy names a built-in bot.
type Strategy string

const (
	StrategyCall   Strategy = "call"
	StrategyFold   Strategy = "fold"
	StrategyRandom Strategy = "random"
	StrategyManiac Strategy = "maniac"
	StrategyChart  Strategy = "chart"
	StrategyTAG    Strategy = "tag"
)

// ErrUnknownStrategy is returned by New for an unrecognised strategy name.
var ErrUnknownStrategy = errors.New("unknown bot strategy")

// Strategies lists the built-in strategies.
func Strategies() []Strategy {
	return []Strategy{StrategyCall, StrategyFold, StrategyRandom, StrategyManiac, StrategyChart, StrategyTAG}
}

// New creates the bot for a strategy. rng is only used by strategies with a
// random element and may be nil for the others.
func New(strategy string, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	if logger == nil {
		logger = log.Default()
	}
	needsRNG := func() error {
		if rng == nil {
			return fmt.Errorf("strategy %q needs a random source", strategy)
		}
		return nil
	}

	switch Strategy(strings.ToLower(strategy)) {
	case StrategyCall:
		return NewCallBot(logger), nil
	case StrategyFold:
		return NewFoldBot(logger), nil
	case StrategyChart:
		return NewChartBot(logger), nil
	case StrategyRandom:
		if err := needsRNG(); err != nil {
			return nil, err
		}
		return NewRandBot(rng, logger), nil
	case StrategyManiac:
		if err := needsRNG(); err != nil {
			return nil, err
		}
		return NewManiacBot(rng, logger), nil
	case StrategyTAG:
		if err := needsRNG(); err != nil {
			return nil, err
		}
		return NewTAGBot(rng, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

// decide builds a decision for the acting seat and logs it.
func decide(logger *log.Logger, s game.Snapshot, t game.ActionType, amount int, reasoning string) game.Decision {
	d := game.Decision{
		Action:    game.Action{Seat: s.ActiveSeat, Type: t, Amount: amount},
		Reasoning: reasoning,
	}
	logger.Debug("bot decision", "hand", s.HandID, "seat", s.ActiveSeat, "phase", s.Phase, "action", t, "amount", amount, "reason", reasoning)
	return d
}

// prefer returns the first of the preferred action types that is legal.
func prefer(s game.Snapshot, types ...game.ActionType) (game.LegalAction, bool) {
	for _, t := range types {
		if la, ok := s.Legal(t); ok {
			return la, true
		}
	}
	return game.LegalAction{}, false
}

// passive checks when free, otherwise calls or folds.
func passive(logger *log.Logger, s game.Snapshot, name string) game.Decision {
	if _, ok := s.Legal(game.Check); ok {
		return decide(logger, s, game.Check, 0, name+" checking")
	}
	if la, ok := s.Legal(game.Call); ok {
		return decide(logger, s, game.Call, la.Min, name+" calling")
	}
	return decide(logger, s, game.Fold, 0, name+" folding")
}

// holeCards returns the acting seat's cards when visible.
func holeCards(s game.Snapshot) []poker.Card {
	v, ok := s.Seat(s.ActiveSeat)
	if !ok {
		return nil
	}
	return v.HoleCards
}

// stack returns the acting seat's chips behind.
func stack(s game.Snapshot) int {
	v, _ := s.Seat(s.ActiveSeat)
	return v.Chips
}

// aggressive returns the bet or raise open to the acting seat.
func aggressive(s game.Snapshot) (game.LegalAction, bool) {
	return prefer(s, game.Raise, game.Bet)
}
