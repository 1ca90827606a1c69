package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/phh"
	"github.com/lox/holdem-engine/internal/simulator"
	"github.com/lox/holdem-engine/poker"
)

// PlayCmd plays a table at the terminal. Human seats are prompted on
// stdin; bot seats use their configured strategy.
type PlayCmd struct {
	Hands   int    `short:"n" default:"0" help:"Stop after this many hands (0 plays until one seat is left)"`
	Seed    int64  `help:"RNG seed (overrides the configuration; 0 picks one)"`
	History string `type:"path" help:"Write the session as a PHH file when play ends"`
}

func (c *PlayCmd) Run(g *Globals) error {
	logger := g.logger()
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &session{
		cfg:    cfg,
		hands:  c.Hands,
		seed:   c.Seed,
		in:     os.Stdin,
		out:    os.Stdout,
		logger: logger,
	}
	if s.seed == 0 {
		s.seed = cfg.Table.Seed
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	logger.Debug("starting session", "seed", s.seed, "seats", len(cfg.Table.Seats))

	histories, err := s.play(ctx)
	if c.History != "" && len(histories) > 0 {
		if werr := phh.WriteSession(c.History, histories); werr != nil {
			err = errors.Join(err, fmt.Errorf("write history: %w", werr))
		} else {
			logger.Info("session saved", "file", c.History, "hands", len(histories))
		}
	}
	return err
}

// session is one sitting at a table.
type session struct {
	cfg    *config.Config
	hands  int
	seed   int64
	in     io.Reader
	out    io.Writer
	logger *log.Logger
}

// play deals hands until the hand limit, a human quits or fewer than two
// seats have chips. It returns the history of every completed hand.
func (s *session) play(ctx context.Context) ([]*phh.HandHistory, error) {
	rng := poker.NewRand(s.seed)
	botRNG := poker.NewRand(rng.Int64())

	// Human seats share one console; without them output goes straight to
	// s.out.
	out := s.out
	var con *console
	if s.cfg.HasHumans() {
		con = newConsole(s.in, s.out)
		con.Start()
		defer con.Close()
		out = con
	}

	agents := make(map[int]game.Agent, len(s.cfg.Table.Seats))
	var humans []*terminalAgent
	for i, seat := range s.cfg.Table.Seats {
		if seat.Kind == config.KindHuman {
			h := newTerminalAgent(con)
			humans = append(humans, h)
			agents[i] = h
			continue
		}
		agent, err := bot.New(seat.Strategy, botRNG, s.logger)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat.Name, err)
		}
		agents[i] = agent
	}

	bus := game.NewEventBus()
	bus.Subscribe(&tableView{w: out})
	table, err := game.NewTable(rng, s.cfg.Rules(), s.cfg.GameSeats(),
		game.WithLogger(s.logger), game.WithEventBus(bus))
	if err != nil {
		return nil, err
	}
	limits := simulator.Limits{
		MaxStepsPerHand:    s.cfg.Table.MaxStepsPerHand,
		MaxActionsPerRound: s.cfg.Table.MaxActionsPerRound,
	}

	var histories []*phh.HandHistory
	for s.hands == 0 || len(histories) < s.hands {
		if ctx.Err() != nil || allDone(humans) {
			break
		}
		if table.Playable() < game.MinPlayers {
			break
		}

		h, err := table.NextHand()
		if err != nil {
			return histories, err
		}
		holes := make(map[int][]poker.Card)
		for _, seat := range table.Seats() {
			if p, ok := h.Player(seat.ID); ok && len(p.HoleCards) == 2 {
				holes[seat.ID] = p.HoleCards
			}
		}

		playErr := simulator.PlayHand(ctx, h, agents, limits, s.logger)
		if errors.Is(playErr, simulator.ErrStepLimit) || errors.Is(playErr, context.Canceled) {
			playErr = nil
		}
		if err := table.Complete(h); err != nil {
			return histories, errors.Join(playErr, err)
		}
		if playErr != nil {
			return histories, playErr
		}

		res, _ := h.Result()
		hist, err := phh.FromResult(res, phh.WithTable("play"), phh.WithHoleCards(holes))
		if err != nil {
			return histories, err
		}
		histories = append(histories, hist)
	}

	s.renderStandings(out, table.Seats(), len(histories))
	return histories, nil
}

func allDone(humans []*terminalAgent) bool {
	if len(humans) == 0 {
		return false
	}
	for _, h := range humans {
		if !h.done {
			return false
		}
	}
	return true
}

func (s *session) renderStandings(w io.Writer, seats []game.Seat, hands int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Standings after %d hands", hands)))
	for i, seat := range seats {
		net := seat.Chips - s.cfg.Stack(s.cfg.Table.Seats[i])
		fmt.Fprintf(w, "  %-10s %6d  %s\n", seat.Name, seat.Chips, chips(net))
	}
}
