package game

import (
	"slices"

	"github.com/lox/holdem-engine/poker"
)

// phaseHandler implements one phase of the hand.
type phaseHandler interface {
	phase() Phase
	// onEnter prepares the phase and returns the phase to move to next. It
	// returns its own phase when a player must act.
	onEnter(h *Hand) (Phase, error)
	handleAction(h *Hand, v Validation) (Phase, error)
	onExit(h *Hand) error
	canTransition(to Phase) bool
}

func newPhaseHandlers() map[Phase]phaseHandler {
	handlers := []phaseHandler{
		initPhase{},
		bettingPhase{street: PhasePreFlop, next: PhaseFlop},
		bettingPhase{street: PhaseFlop, deal: 3, next: PhaseTurn},
		bettingPhase{street: PhaseTurn, deal: 1, next: PhaseRiver},
		bettingPhase{street: PhaseRiver, deal: 1, next: PhaseShowdown},
		showdownPhase{},
		finishedPhase{},
	}
	m := make(map[Phase]phaseHandler, len(handlers))
	for _, ph := range handlers {
		m[ph.phase()] = ph
	}
	return m
}

type initPhase struct{}

func (initPhase) phase() Phase { return PhaseInit }
func (initPhase) onEnter(*Hand) (Phase, error) { return PhaseInit, nil }
func (initPhase) onExit(*Hand) error { return nil }
func (initPhase) canTransition(to Phase) bool { return to == PhasePreFlop }
func (initPhase) handleAction(*Hand, Validation) (Phase, error) {
	return PhaseInit, invariant(ErrBettingState, "action submitted before the hand started")
}

// bettingPhase covers the four streets.
type bettingPhase struct {
	street Phase
	deal   int
	next   Phase
}

func (b bettingPhase) phase() Phase { return b.street }

func (b bettingPhase) canTransition(to Phase) bool {
	return to == b.next || to == PhaseFinished
}

func (b bettingPhase) onEnter(h *Hand) (Phase, error) {
	if b.street == PhasePreFlop {
		if err := h.postBlinds(); err != nil {
			return b.street, err
		}
		if err := h.dealHoleCards(); err != nil {
			return b.street, err
		}
	} else {
		for _, p := range h.players {
			p.ResetRoundBet()
		}
		h.currentBet = 0
		h.minRaise = h.rules.MinBet()
		if err := h.dealBoard(b.deal); err != nil {
			return b.street, err
		}
	}

	if h.roundComplete() {
		h.logger.Debug("no betting possible", "hand", h.id, "street", b.street)
		return b.next, nil
	}

	from := h.dealerPos
	if b.street == PhasePreFlop {
		from = h.bbPos
	}
	h.activePos = h.nextToAct(from)
	if h.activePos < 0 {
		return b.street, invariant(ErrBettingState, "no player can open %s betting", b.street)
	}
	return b.street, nil
}

func (b bettingPhase) handleAction(h *Hand, v Validation) (Phase, error) {
	if err := h.apply(v); err != nil {
		return b.street, err
	}
	h.record(v)

	if h.countInHand() == 1 {
		return PhaseFinished, nil
	}
	if h.roundComplete() {
		return b.next, nil
	}
	h.activePos = h.nextToAct(h.activePos)
	if h.activePos < 0 {
		return b.street, invariant(ErrBettingState, "round incomplete but nobody left to act")
	}
	return b.street, nil
}

func (b bettingPhase) onExit(h *Hand) error {
	h.activePos = -1
	if err := h.pot.CollectBets(h.players); err != nil {
		return err
	}
	h.publish(PotCollectedEvent{
		HandID:    h.id,
		Phase:     b.street,
		Pots:      h.pot.Pots(),
		Total:     h.pot.Total(),
		timestamp: h.clock.Now(),
	})
	return nil
}

type showdownPhase struct{}

func (showdownPhase) phase() Phase { return PhaseShowdown }
func (showdownPhase) onExit(*Hand) error { return nil }
func (showdownPhase) canTransition(to Phase) bool { return to == PhaseFinished }
func (showdownPhase) handleAction(*Hand, Validation) (Phase, error) {
	return PhaseShowdown, invariant(ErrBettingState, "action submitted during showdown")
}

func (showdownPhase) onEnter(h *Hand) (Phase, error) {
	if n := 5 - len(h.board); n > 0 {
		if err := h.dealBoard(n); err != nil {
			return PhaseShowdown, err
		}
	}

	results := make(map[int]poker.HandResult)
	for _, seat := range h.payoutOrder() {
		p := h.players[h.index[seat]]
		if !p.InHand() {
			continue
		}
		res, err := poker.Evaluate(p.HoleCards, h.board)
		if err != nil {
			return PhaseShowdown, invariant(ErrDeckIntegrity, "evaluating seat %d: %v", seat, err)
		}
		results[seat] = res
		h.revealed = append(h.revealed, ShowdownHand{
			Seat:  seat,
			Cards: slices.Clone(p.HoleCards),
			Hand:  res,
		})
	}
	h.showdown = true
	if err := h.settle(results); err != nil {
		return PhaseShowdown, err
	}
	return PhaseFinished, nil
}

type finishedPhase struct{}

func (finishedPhase) phase() Phase { return PhaseFinished }
func (finishedPhase) onExit(*Hand) error { return nil }
func (finishedPhase) canTransition(Phase) bool { return false }
func (finishedPhase) handleAction(*Hand, Validation) (Phase, error) {
	return PhaseFinished, invariant(ErrBettingState, "action submitted after the hand finished")
}

func (finishedPhase) onEnter(h *Hand) (Phase, error) {
	if !h.settled {
		// Uncontested: everyone else folded.
		results := make(map[int]poker.HandResult)
		for _, p := range h.players {
			if p.InHand() {
				results[p.Seat] = poker.HandResult{}
			}
		}
		if err := h.settle(results); err != nil {
			return PhaseFinished, err
		}
	}
	h.finish()
	return PhaseFinished, nil
}

// Dealing

func (h *Hand) postBlinds() error {
	if h.countDealt() == 2 {
		// Heads-up: button posts small blind
		h.sbPos = h.dealerPos
	} else {
		h.sbPos = h.nextDealt(h.dealerPos)
	}
	h.bbPos = h.nextDealt(h.sbPos)

	h.players[h.dealerPos].IsDealer = true
	sb, bb := h.players[h.sbPos], h.players[h.bbPos]
	sb.IsSmallBlind = true
	bb.IsBigBlind = true

	if err := sb.Deduct(min(h.rules.SmallBlind, sb.Chips)); err != nil {
		return err
	}
	if err := bb.Deduct(min(h.rules.BigBlind, bb.Chips)); err != nil {
		return err
	}
	h.currentBet = max(sb.Bet, bb.Bet)
	h.minRaise = h.rules.MinBet()
	// Blinds stay in player.Bet until the round is collected.
	h.logger.Debug("blinds posted", "hand", h.id, "sb_seat", sb.Seat, "sb", sb.Bet, "bb_seat", bb.Seat, "bb", bb.Bet)
	return nil
}

// dealHoleCards deals one card at a time starting left of the dealer.
func (h *Hand) dealHoleCards() error {
	for round := 0; round < 2; round++ {
		pos := h.dealerPos
		for range h.countDealt() {
			pos = h.nextDealt(pos)
			card, err := h.deck.Draw()
			if err != nil {
				return invariant(ErrEmptyDeck, "dealing hole cards: %v", err)
			}
			h.players[pos].HoleCards = append(h.players[pos].HoleCards, card)
		}
	}
	return nil
}

func (h *Hand) dealBoard(n int) error {
	cards, err := h.deck.DrawN(n)
	if err != nil {
		return invariant(ErrEmptyDeck, "dealing %d community cards: %v", n, err)
	}
	h.board = append(h.board, cards...)
	return nil
}

// Settlement

func (h *Hand) settle(results map[int]poker.HandResult) error {
	dist, err := DistributeWinnings(h.pot.Pots(), results, h.payoutOrder())
	if err != nil {
		return err
	}
	for seat, amount := range dist.Payouts {
		h.players[h.index[seat]].Chips += amount
	}
	h.payouts = dist.Payouts
	h.awards = dist.Awards
	h.pot.clear()
	h.settled = true
	for _, a := range dist.Awards {
		h.logger.Debug("pot awarded", "hand", h.id, "pot", a.Index, "amount", a.Amount, "winners", a.Winners, "hand_rank", a.Hand)
	}
	return nil
}

func (h *Hand) record(v Validation) {
	p := h.players[h.activePos]
	rec := ActionRecord{
		Phase:     h.phase,
		Seat:      p.Seat,
		Name:      p.Name,
		Type:      v.Action.Type,
		Amount:    v.Action.Amount,
		RoundBet:  p.Bet,
		Converted: v.Converted,
		Reason:    v.Reason,
		PotAfter:  h.TotalChipsInPlay() - h.stacks(),
	}
	h.actions = append(h.actions, rec)
	h.logger.Debug("action applied", "hand", h.id, "seat", rec.Seat, "action", rec.Type, "amount", rec.Amount, "converted", rec.Converted)
	h.publish(ActionAppliedEvent{HandID: h.id, Record: rec, timestamp: h.clock.Now()})
}

func (h *Hand) stacks() int {
	total := 0
	for _, p := range h.players {
		total += p.Chips
	}
	return total
}

// finish archives the result and clears hole cards.
func (h *Hand) finish() {
	res := &HandResult{
		HandID:     h.id,
		DealerSeat: h.players[h.dealerPos].Seat,
		SmallBlind: h.rules.SmallBlind,
		BigBlind:   h.rules.BigBlind,
		MinBet:     h.rules.MinBet(),
		Board:      slices.Clone(h.board),
		Revealed:   cloneRevealed(h.revealed),
		Phases:     slices.Clone(h.phases),
		Payouts:    h.payouts,
		FinalChips: make(map[int]int, len(h.players)),
		Pots:       cloneAwards(h.awards),
		Showdown:   h.showdown,
		Actions:    h.actions,
		StartedAt:  h.startedAt,
		EndedAt:    h.clock.Now(),
	}
	for _, seat := range h.payoutOrder() {
		if h.payouts[seat] > 0 {
			res.Winners = append(res.Winners, seat)
		}
	}
	for _, p := range h.players {
		res.FinalChips[p.Seat] = p.Chips
		res.Seats = append(res.Seats, SeatSummary{
			Seat:          p.Seat,
			Name:          p.Name,
			StartingChips: h.startingChips[p.Seat],
			FinalChips:    p.Chips,
			Contributed:   p.TotalBet,
			Status:        p.Status,
		})
		p.HoleCards = nil
	}
	h.result = res
	h.logger.Debug("hand finished", "hand", h.id, "winners", res.Winners, "showdown", res.Showdown)
}
