package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger.WithPrefix("rand-bot")}
}

func (r *RandBot) MakeDecision(s game.Snapshot) game.Decision {
	if len(s.LegalActions) == 0 {
		return decide(r.logger, s, game.Fold, 0, "rand-bot no legal actions")
	}

	la := s.LegalActions[r.rng.IntN(len(s.LegalActions))]

	// For bets and raises, pick a random total between min and max
	amount := la.Min
	if la.Max > la.Min {
		amount += r.rng.IntN(la.Max - la.Min + 1)
	}
	return decide(r.logger, s, la.Type, amount, "rand-bot random action")
}
