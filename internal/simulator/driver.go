package simulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// ErrStepLimit is returned when a hand needs more decisions than the
// configured ceilings allow.
var ErrStepLimit = errors.New("step limit exceeded")

// Limits bound the driver loop so that a misbehaving engine or agent cannot
// spin forever.
type Limits struct {
	// MaxStepsPerHand counts every submission, rejected ones included.
	MaxStepsPerHand int
	// MaxActionsPerRound counts accepted actions within one betting round.
	MaxActionsPerRound int
}

// DefaultLimits are far above anything a legal hand needs: each round ends
// once every player has acted since the last full raise, and a raise must
// grow the bet by at least one big blind.
func DefaultLimits() Limits {
	return Limits{MaxStepsPerHand: 1000, MaxActionsPerRound: 200}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxStepsPerHand <= 0 {
		l.MaxStepsPerHand = d.MaxStepsPerHand
	}
	if l.MaxActionsPerRound <= 0 {
		l.MaxActionsPerRound = d.MaxActionsPerRound
	}
	return l
}

// PlayHand asks agents for decisions until h finishes. A rejected decision
// is logged and replaced with a check, or a fold when a check is not legal.
//
// When ctx is cancelled or a ceiling is hit the hand is force-settled from
// its current state, so it still finishes with every chip accounted for, and
// the cause is returned. Invariant violations abort the hand and are
// returned as is.
func PlayHand(ctx context.Context, h *game.Hand, agents map[int]game.Agent, limits Limits, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	limits = limits.withDefaults()

	steps, roundActions := 0, 0
	phase := h.Phase()
	for !h.IsFinished() {
		if err := h.Err(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			logger.Warn("hand cancelled", "hand", h.ID(), "phase", h.Phase(), "steps", steps)
			return errors.Join(err, h.ForceSettle())
		}
		if steps >= limits.MaxStepsPerHand || roundActions >= limits.MaxActionsPerRound {
			snap := h.Snapshot(game.ViewAll)
			logger.Error("step limit reached",
				"hand", h.ID(),
				"phase", snap.Phase,
				"active_seat", snap.ActiveSeat,
				"steps", steps,
				"round_actions", roundActions,
				"current_bet", snap.CurrentBet,
				"pot", snap.PotTotal,
			)
			err := fmt.Errorf("%w: hand %s after %d steps (%d this round) in %s",
				ErrStepLimit, h.ID(), steps, roundActions, snap.Phase)
			return errors.Join(err, h.ForceSettle())
		}

		seat := h.ActiveSeat()
		agent, ok := agents[seat]
		if !ok {
			return fmt.Errorf("no agent for seat %d", seat)
		}

		snap := h.Snapshot(seat)
		decision := agent.MakeDecision(snap)
		action := decision.Action
		action.Seat = seat

		steps++
		res, err := h.Submit(action)
		if err != nil {
			var invErr *game.InvariantError
			if errors.As(err, &invErr) {
				logger.Error("hand aborted", "hand", h.ID(), "error", err, "diagnostic", invErr.Diagnostic.String())
				return err
			}

			fallback := game.Action{Seat: seat, Type: game.Fold}
			if _, ok := snap.Legal(game.Check); ok {
				fallback.Type = game.Check
			}
			logger.Warn("decision rejected",
				"hand", h.ID(),
				"seat", seat,
				"action", action,
				"code", res.Code,
				"reason", res.Reason,
				"fallback", fallback.Type,
			)
			steps++
			if _, err := h.Submit(fallback); err != nil {
				return fmt.Errorf("fallback %s for seat %d: %w", fallback.Type, seat, err)
			}
		} else if decision.Reasoning != "" {
			logger.Debug("decision", "hand", h.ID(), "seat", seat, "action", res.Action, "reasoning", decision.Reasoning)
		}

		if h.Phase() != phase {
			phase = h.Phase()
			roundActions = 0
		} else {
			roundActions++
		}
	}
	return nil
}
