package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// FoldBot is a simple bot that always folds (or checks when possible)
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger.WithPrefix("fold-bot")}
}

func (f *FoldBot) MakeDecision(s game.Snapshot) game.Decision {
	if _, ok := s.Legal(game.Check); ok {
		return decide(f.logger, s, game.Check, 0, "fold-bot checking")
	}
	return decide(f.logger, s, game.Fold, 0, "fold-bot folding")
}
