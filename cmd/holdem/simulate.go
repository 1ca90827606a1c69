package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/simulator"
)

// SimulateCmd runs bot-only tables.
type SimulateCmd struct {
	Tables     int    `short:"t" default:"1" help:"Number of tables played concurrently"`
	Hands      int    `short:"n" default:"1000" help:"Hands per table"`
	Seed       int64  `help:"RNG seed (overrides the configuration; 0 picks one)"`
	HistoryDir string `name:"history-dir" type:"path" help:"Write one PHH session per table to this directory"`
	Events     bool   `help:"Log every engine event"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	logger := g.logger()
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if cfg.HasHumans() {
		return errors.New("simulate needs bot seats only; use play for human seats")
	}

	simCfg := c.simulatorConfig(cfg)
	simCfg.Logger = logger
	if c.Events {
		simCfg.Events = game.NewLogSubscriber(logger)
	}
	if simCfg.Seed == 0 {
		simCfg.Seed = time.Now().UnixNano()
	}
	logger.Info("starting simulation", "tables", simCfg.Tables, "hands", simCfg.Hands, "seed", simCfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := simulator.Run(ctx, simCfg)
	if err != nil {
		return err
	}
	logger.Info("simulation complete", "hands", res.Hands(), "duration", time.Since(start).Round(time.Millisecond))

	fmt.Println(titleStyle.Render("Simulation Results"))
	fmt.Println()
	simulator.PrintSummary(os.Stdout, res)
	for _, tr := range res.Tables {
		if tr.HistoryFile != "" {
			fmt.Println(dimStyle.Render(fmt.Sprintf("table %d history: %s", tr.Index+1, tr.HistoryFile)))
		}
	}
	return nil
}

// simulatorConfig maps the table configuration and flags onto a simulator
// run. The seed flag wins over the file when set.
func (c *SimulateCmd) simulatorConfig(cfg *config.Config) simulator.Config {
	t := cfg.Table
	sc := simulator.Config{
		Tables:     c.Tables,
		Hands:      c.Hands,
		Rules:      cfg.Rules(),
		Seed:       t.Seed,
		HistoryDir: c.HistoryDir,
		Limits: simulator.Limits{
			MaxStepsPerHand:    t.MaxStepsPerHand,
			MaxActionsPerRound: t.MaxActionsPerRound,
		},
	}
	if c.Seed != 0 {
		sc.Seed = c.Seed
	}
	for _, s := range t.Seats {
		sc.Seats = append(sc.Seats, simulator.SeatConfig{
			Name:     s.Name,
			Strategy: s.Strategy,
			Chips:    cfg.Stack(s),
		})
	}
	return sc
}
