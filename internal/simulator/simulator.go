// Package simulator drives tables of bots through many hands. It is the
// engine's external driver: it owns the decision loop, enforces step
// ceilings and records results, while every rule stays in internal/game.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/phh"
	"github.com/lox/holdem-engine/internal/statistics"
	"github.com/lox/holdem-engine/poker"
)

// SeatConfig describes one bot seat.
type SeatConfig struct {
	Name     string
	Strategy string
	Chips    int
}

// Config holds configuration for running simulations
type Config struct {
	// Tables are played concurrently; each has its own seats and RNG.
	Tables int
	// Hands is the number of hands per table. A table stops early when
	// fewer than two seats have chips.
	Hands  int
	Rules  game.Rules
	Seats  []SeatConfig
	Seed   int64
	Limits Limits
	Logger *log.Logger
	// HistoryDir, when set, receives one PHH session file per table.
	HistoryDir string
	Clock      quartz.Clock
	// Events receives every table's events and must be safe for
	// concurrent use.
	Events game.EventSubscriber
}

// SeatResult is one seat's performance.
type SeatResult struct {
	Name       string
	Strategy   string
	FinalChips int
	Stats      *statistics.Statistics
}

// TableResult is the outcome of one table.
type TableResult struct {
	Index       int
	Seed        int64
	Hands       int
	StepLimited int
	HistoryFile string
	Seats       []SeatResult
}

// Result aggregates every table.
type Result struct {
	Tables []TableResult
	// Seats merges each seat's statistics across tables.
	Seats []SeatResult
}

// Hands returns the number of hands played across all tables.
func (r *Result) Hands() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Hands
	}
	return n
}

func (c *Config) validate() error {
	var errs []error
	if c.Tables < 1 {
		errs = append(errs, fmt.Errorf("tables must be at least 1, got %d", c.Tables))
	}
	if c.Hands < 1 {
		errs = append(errs, fmt.Errorf("hands must be at least 1, got %d", c.Hands))
	}
	if n := len(c.Seats); n < game.MinPlayers || n > game.MaxPlayers {
		errs = append(errs, fmt.Errorf("need %d-%d seats, got %d", game.MinPlayers, game.MaxPlayers, n))
	}
	if err := c.Rules.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run plays every table and returns the combined results. Table i is
// seeded with Seed+i, so a run is reproducible table by table.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.HistoryDir != "" {
		if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	results := make([]TableResult, cfg.Tables)
	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Tables {
		g.Go(func() error {
			tr, err := runTable(ctx, cfg, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i+1, err)
			}
			results[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Tables: results, Seats: make([]SeatResult, len(cfg.Seats))}
	for i, s := range cfg.Seats {
		res.Seats[i] = SeatResult{Name: s.Name, Strategy: s.Strategy, Stats: &statistics.Statistics{}}
	}
	for _, tr := range results {
		for i, sr := range tr.Seats {
			res.Seats[i].FinalChips += sr.FinalChips
			res.Seats[i].Stats.Merge(sr.Stats)
		}
	}
	return res, nil
}

func runTable(ctx context.Context, cfg Config, index int) (TableResult, error) {
	seed := cfg.Seed + int64(index)
	logger := cfg.Logger.With("table", index+1)
	tr := TableResult{Index: index, Seed: seed}

	rng := poker.NewRand(seed)
	botRNG := poker.NewRand(rng.Int64())

	seats := make([]game.Seat, len(cfg.Seats))
	agents := make(map[int]game.Agent, len(cfg.Seats))
	stats := make([]*statistics.Statistics, len(cfg.Seats))
	for i, s := range cfg.Seats {
		agent, err := bot.New(s.Strategy, botRNG, logger)
		if err != nil {
			return tr, fmt.Errorf("seat %s: %w", s.Name, err)
		}
		seats[i] = game.Seat{ID: i, Name: s.Name, Chips: s.Chips}
		agents[i] = agent
		stats[i] = &statistics.Statistics{}
	}

	opts := []game.HandOption{game.WithLogger(logger), game.WithClock(cfg.Clock)}
	if cfg.Events != nil {
		bus := game.NewEventBus()
		bus.Subscribe(cfg.Events)
		opts = append(opts, game.WithEventBus(bus))
	}
	table, err := game.NewTable(rng, cfg.Rules, seats, opts...)
	if err != nil {
		return tr, err
	}
	initial := table.TotalChips()
	tableName := fmt.Sprintf("table-%d", index+1)

	var histories []*phh.HandHistory
	for tr.Hands < cfg.Hands {
		if err := ctx.Err(); err != nil {
			return tr, err
		}
		if table.Playable() < game.MinPlayers {
			logger.Info("table finished early", "hands", tr.Hands, "playable", table.Playable())
			break
		}

		h, err := table.NextHand()
		if err != nil {
			return tr, err
		}
		holes := make(map[int][]poker.Card, len(seats))
		for _, s := range seats {
			if p, ok := h.Player(s.ID); ok && len(p.HoleCards) == 2 {
				holes[s.ID] = p.HoleCards
			}
		}

		playErr := PlayHand(ctx, h, agents, cfg.Limits, logger)
		if errors.Is(playErr, ErrStepLimit) {
			tr.StepLimited++
			playErr = nil
		}
		if err := table.Complete(h); err != nil {
			return tr, errors.Join(playErr, err)
		}
		if playErr != nil {
			return tr, playErr
		}
		tr.Hands++

		res, _ := h.Result()
		for _, sample := range statistics.Samples(res) {
			stats[sample.Seat].Add(sample)
		}
		if cfg.HistoryDir != "" {
			hist, err := phh.FromResult(res, phh.WithTable(tableName), phh.WithHoleCards(holes))
			if err != nil {
				return tr, err
			}
			histories = append(histories, hist)
		}
	}

	if total := table.TotalChips(); total != initial {
		return tr, fmt.Errorf("%w: table started with %d chips and ended with %d", game.ErrChipConservation, initial, total)
	}
	if len(histories) > 0 {
		tr.HistoryFile = filepath.Join(cfg.HistoryDir, tableName+".phhs")
		if err := phh.WriteSession(tr.HistoryFile, histories); err != nil {
			return tr, fmt.Errorf("write hand histories: %w", err)
		}
	}

	for _, s := range table.Seats() {
		tr.Seats = append(tr.Seats, SeatResult{
			Name:       s.Name,
			Strategy:   cfg.Seats[s.ID].Strategy,
			FinalChips: s.Chips,
			Stats:      stats[s.ID],
		})
	}
	logger.Debug("table complete", "hands", tr.Hands, "step_limited", tr.StepLimited)
	return tr, nil
}
