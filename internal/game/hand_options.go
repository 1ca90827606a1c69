package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/poker"
)

// HandOption configures a Hand during creation.
type HandOption func(*handConfig)

// handConfig holds optional configuration for creating a hand.
type handConfig struct {
	deck   *poker.Deck // If provided, used instead of shuffling with the RNG
	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
	handID string
}

func defaultHandConfig() *handConfig {
	return &handConfig{
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
}

// WithDeck sets a specific pre-arranged deck. Hole cards are dealt one at a
// time starting left of the dealer, then the board is dealt without burns.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithLogger routes engine debug and error output to logger.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventBus publishes hand events to bus.
func WithEventBus(bus EventBus) HandOption {
	return func(c *handConfig) {
		c.bus = bus
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) HandOption {
	return func(c *handConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithHandID overrides the generated hand identifier.
func WithHandID(id string) HandOption {
	return func(c *handConfig) {
		c.handID = id
	}
}
