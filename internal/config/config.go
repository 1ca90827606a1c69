// Package config loads table configuration from HCL files, with overrides
// from the environment.
//
// A configuration file looks like:
//
//	table {
//	  small_blind    = 5
//	  big_blind      = 10
//	  starting_stack = 1000
//
//	  seat "alice" {
//	    strategy = "tag"
//	  }
//	  seat "you" {
//	    kind  = "human"
//	    stack = 500
//	  }
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/game"
)

// Environment variables that override file values.
const (
	EnvSeed          = "HOLDEM_SEED"
	EnvSmallBlind    = "HOLDEM_SMALL_BLIND"
	EnvBigBlind      = "HOLDEM_BIG_BLIND"
	EnvStartingStack = "HOLDEM_STARTING_STACK"
)

// Seat kinds.
const (
	KindBot   = "bot"
	KindHuman = "human"
)

// Config is the complete configuration file.
type Config struct {
	Table *TableConfig `hcl:"table,block"`

	// derived records which amounts were filled in from other amounts, so
	// environment overrides can re-derive them.
	derived struct {
		bigBlind, startingStack bool
	}
}

// TableConfig holds the betting structure and seats of a table.
type TableConfig struct {
	SmallBlind         int          `hcl:"small_blind,optional"`
	BigBlind           int          `hcl:"big_blind,optional"`
	StartingStack      int          `hcl:"starting_stack,optional"`
	MinRaiseMultiplier int          `hcl:"min_raise_multiplier,optional"`
	Seed               int64        `hcl:"seed,optional"`
	MaxStepsPerHand    int          `hcl:"max_steps_per_hand,optional"`
	MaxActionsPerRound int          `hcl:"max_actions_per_round,optional"`
	Seats              []SeatConfig `hcl:"seat,block"`
}

// SeatConfig describes one seat. A zero Stack uses the table's starting
// stack.
type SeatConfig struct {
	Name     string `hcl:"name,label"`
	Kind     string `hcl:"kind,optional"`
	Strategy string `hcl:"strategy,optional"`
	Stack    int    `hcl:"stack,optional"`
}

// Default returns a 1/2 table with four bots.
func Default() *Config {
	cfg := &Config{Table: &TableConfig{
		Seats: []SeatConfig{
			{Name: "caller", Strategy: string(bot.StrategyCall)},
			{Name: "random", Strategy: string(bot.StrategyRandom)},
			{Name: "tag", Strategy: string(bot.StrategyTAG)},
			{Name: "maniac", Strategy: string(bot.StrategyManiac)},
		},
	}}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if cfg.Table == nil {
		return Default(), nil
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadDotEnv loads .env files into the process environment without
// replacing variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides file values with environment variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	t := c.Table
	ints := []struct {
		name   string
		target *int
	}{
		{EnvSmallBlind, &t.SmallBlind},
		{EnvBigBlind, &t.BigBlind},
		{EnvStartingStack, &t.StartingStack},
	}
	set := make(map[string]bool, len(ints))
	for _, o := range ints {
		v, ok := lookup(o.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", o.name, err)
		}
		*o.target = n
		set[o.name] = true
	}

	// Amounts the file left out follow the ones that were overridden.
	if set[EnvBigBlind] {
		c.derived.bigBlind = false
	} else if c.derived.bigBlind {
		t.BigBlind = 2 * t.SmallBlind
	}
	if set[EnvStartingStack] {
		c.derived.startingStack = false
	} else if c.derived.startingStack {
		t.StartingStack = 100 * t.BigBlind
	}

	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		t.Seed = seed
	}
	return nil
}

func (c *Config) applyDefaults() {
	t := c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = 1
	}
	if t.BigBlind == 0 {
		t.BigBlind = 2 * t.SmallBlind
		c.derived.bigBlind = true
	}
	if t.StartingStack == 0 {
		t.StartingStack = 100 * t.BigBlind
		c.derived.startingStack = true
	}
	if t.MinRaiseMultiplier == 0 {
		t.MinRaiseMultiplier = 1
	}
	for i := range t.Seats {
		s := &t.Seats[i]
		s.Kind = strings.ToLower(s.Kind)
		if s.Kind == "" {
			s.Kind = KindBot
		}
		if s.Kind == KindBot && s.Strategy == "" {
			s.Strategy = string(bot.StrategyCall)
		}
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Table == nil {
		return errors.New("a table block is required")
	}
	t := c.Table
	var errs []error
	if err := c.Rules().Validate(); err != nil {
		errs = append(errs, err)
	}
	if t.StartingStack <= 0 {
		errs = append(errs, fmt.Errorf("starting stack must be positive, got %d", t.StartingStack))
	}
	if t.MaxStepsPerHand < 0 || t.MaxActionsPerRound < 0 {
		errs = append(errs, errors.New("step limits cannot be negative"))
	}
	if n := len(t.Seats); n < game.MinPlayers || n > game.MaxPlayers {
		errs = append(errs, fmt.Errorf("need %d-%d seats, got %d", game.MinPlayers, game.MaxPlayers, n))
	}

	names := make(map[string]bool, len(t.Seats))
	for _, s := range t.Seats {
		if names[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate seat name %q", s.Name))
		}
		names[s.Name] = true
		if s.Stack < 0 {
			errs = append(errs, fmt.Errorf("seat %s: stack must be positive, got %d", s.Name, s.Stack))
		}
		switch s.Kind {
		case KindHuman:
		case KindBot:
			if !slices.Contains(bot.Strategies(), bot.Strategy(strings.ToLower(s.Strategy))) {
				errs = append(errs, fmt.Errorf("seat %s: %w %q", s.Name, bot.ErrUnknownStrategy, s.Strategy))
			}
		default:
			errs = append(errs, fmt.Errorf("seat %s: kind must be %q or %q, got %q", s.Name, KindBot, KindHuman, s.Kind))
		}
	}
	return errors.Join(errs...)
}

// Rules returns the betting limits for each hand.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		SmallBlind:         c.Table.SmallBlind,
		BigBlind:           c.Table.BigBlind,
		MinRaiseMultiplier: c.Table.MinRaiseMultiplier,
	}
}

// Stack returns the chips a seat starts with.
func (c *Config) Stack(s SeatConfig) int {
	if s.Stack > 0 {
		return s.Stack
	}
	return c.Table.StartingStack
}

// GameSeats converts the configured seats to engine seats, numbered in
// file order.
func (c *Config) GameSeats() []game.Seat {
	seats := make([]game.Seat, len(c.Table.Seats))
	for i, s := range c.Table.Seats {
		seats[i] = game.Seat{ID: i, Name: s.Name, Chips: c.Stack(s)}
	}
	return seats
}

// HasHumans reports whether any seat is played by a person.
func (c *Config) HasHumans() bool {
	return slices.ContainsFunc(c.Table.Seats, func(s SeatConfig) bool { return s.Kind == KindHuman })
}
