package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

// ChartBot implements a simple push-fold pre-flop chart and check/call post-flop
type ChartBot struct {
	logger *log.Logger
}

// NewChartBot creates a new ChartBot instance
func NewChartBot(logger *log.Logger) *ChartBot {
	return &ChartBot{logger: logger.WithPrefix("chart-bot")}
}

func (c *ChartBot) MakeDecision(s game.Snapshot) game.Decision {
	if s.Phase == game.PhasePreFlop {
		if cards := holeCards(s); len(cards) == 2 {
			category := poker.CategorizeHoleCards(cards[0], cards[1])
			push := category == poker.CategoryPremium || category == poker.CategoryStrong
			if push && stack(s) <= 20*s.BigBlind {
				if la, ok := s.Legal(game.AllIn); ok {
					return decide(c.logger, s, game.AllIn, la.Min, "chart-bot push "+string(category))
				}
			}
			// Trash never pays to see a flop
			if category == poker.CategoryTrash && s.ToCall() > 0 {
				return decide(c.logger, s, game.Fold, 0, "chart-bot folding trash")
			}
		}
	}
	return passive(c.logger, s, "chart-bot")
}
