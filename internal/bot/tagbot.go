package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// TAGBot is a Tight Aggressive bot that plays premium hands aggressively
type TAGBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewTAGBot creates a new TAGBot instance
func NewTAGBot(rng *rand.Rand, logger *log.Logger) *TAGBot {
	return &TAGBot{rng: rng, logger: logger.WithPrefix("tag-bot")}
}

func (t *TAGBot) MakeDecision(s game.Snapshot) game.Decision {
	if cards := holeCards(s); s.Phase == game.PhasePreFlop && len(cards) == 2 {
		if poker.CategorizeHoleCards(cards[0], cards[1]) == poker.CategoryPremium {
			if la, ok := aggressive(s); ok {
				return decide(t.logger, s, la.Type, la.Min+(la.Max-la.Min)/4, "TAG raise premium")
			}
		}
	}

	// Default tight behavior - check/call, rarely raise
	if _, ok := s.Legal(game.Check); ok {
		return decide(t.logger, s, game.Check, 0, "TAG check")
	}
	if la, ok := s.Legal(game.Call); ok && t.rng.Float64() < 0.3 {
		return decide(t.logger, s, game.Call, la.Min, "TAG call")
	}
	return decide(t.logger, s, game.Fold, 0, "TAG fold")
}
