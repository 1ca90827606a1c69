package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// CallBot checks and calls down, folding the river to a large bet and
// shoving a short stack into an unraised pot.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger.WithPrefix("call-bot")}
}

func (c *CallBot) MakeDecision(s game.Snapshot) game.Decision {
	toCall := s.ToCall()

	// Fold the river to a bet bigger than most of the pot
	if s.Phase == game.PhaseRiver && toCall > 0 {
		if pot := s.PotTotal - toCall; pot > 0 && float64(toCall)/float64(pot) > 0.8 {
			return decide(c.logger, s, game.Fold, 0, "folding river to large bet")
		}
	}

	// Short stack: shove when nobody has raised yet
	unraised := s.CurrentBet <= s.BigBlind
	if stack(s) < 10*s.BigBlind && unraised {
		if la, ok := s.Legal(game.AllIn); ok {
			return decide(c.logger, s, game.AllIn, la.Min, "shoving with short stack")
		}
	}

	return passive(c.logger, s, "call-bot")
}
