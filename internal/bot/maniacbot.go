package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// ManiacBot is an extremely aggressive bot that shoves frequently
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger.WithPrefix("maniac-bot")}
}

func (m *ManiacBot) MakeDecision(s game.Snapshot) game.Decision {
	raise, canRaise := aggressive(s)
	allIn, canShove := s.Legal(game.AllIn)

	if _, ok := s.Legal(game.Check); ok {
		// We can check - but maniacs prefer to bet
		if m.rng.Float64() < 0.85 {
			if stack(s) <= 20*s.BigBlind || m.rng.Float64() < 0.3 {
				// Shove if short stack or 30% of the time
				if canShove {
					return decide(m.logger, s, game.AllIn, allIn.Min, "maniac shove")
				}
			} else if canRaise {
				size := raise.Min + (raise.Max-raise.Min)*3/4
				return decide(m.logger, s, raise.Type, size, "maniac big bet")
			}
		}
		return decide(m.logger, s, game.Check, 0, "maniac checking")
	}

	// Facing a bet
	roll := m.rng.Float64()
	if roll < 0.4 && canShove {
		return decide(m.logger, s, game.AllIn, allIn.Min, "maniac shove over bet")
	}
	if call, ok := s.Legal(game.Call); ok && roll < 0.8 {
		return decide(m.logger, s, game.Call, call.Min, "maniac call")
	}
	return decide(m.logger, s, game.Fold, 0, "maniac fold")
}
