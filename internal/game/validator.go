package game

// Validation is a legal action after normalization.
type Validation struct {
	Action Action
	// Converted is set when the submitted type was changed, e.g. a call the
	// player cannot cover becoming an all-in.
	Converted bool
	Reason    string
}

// LegalAction describes one move open to the active player. Min and Max use
// the same units as Action.Amount.
type LegalAction struct {
	Type ActionType
	Min  int
	Max  int
}

// Validate checks a proposed action against the current betting state without
// changing it. Rejections are returned as *ActionError.
func (h *Hand) Validate(a Action) (Validation, error) {
	if !h.phase.IsBetting() || h.activePos < 0 {
		return Validation{}, reject(CodeIllegalAction, a, "no betting round in progress (phase %s)", h.phase)
	}
	active := h.players[h.activePos]
	if a.Seat != active.Seat {
		return Validation{}, reject(CodeOutOfTurn, a, "seat %d is to act", active.Seat)
	}
	p := active
	if !p.CanAct() {
		return Validation{}, reject(CodeIllegalAction, a, "player is %s", p.Status)
	}

	owed := h.currentBet - p.Bet
	stackTotal := p.Bet + p.Chips
	allIn := func(reason string) (Validation, error) {
		return Validation{
			Action:    Action{Seat: a.Seat, Type: AllIn, Amount: p.Chips},
			Converted: a.Type != AllIn,
			Reason:    reason,
		}, nil
	}

	switch a.Type {
	case Fold:
		return Validation{Action: Action{Seat: a.Seat, Type: Fold}}, nil

	case Check:
		if owed > 0 {
			return Validation{}, reject(CodeIllegalAction, a, "cannot check facing %d to call", owed)
		}
		return Validation{Action: Action{Seat: a.Seat, Type: Check}}, nil

	case Call:
		if owed <= 0 {
			return Validation{}, reject(CodeIllegalAction, a, "nothing to call")
		}
		if p.Chips <= owed {
			return allIn("stack does not cover the call")
		}
		return Validation{Action: Action{Seat: a.Seat, Type: Call, Amount: owed}}, nil

	case Bet, Raise:
		if a.Type == Bet && h.currentBet > 0 {
			return Validation{}, reject(CodeIllegalAction, a, "cannot bet into %d, raise instead", h.currentBet)
		}
		if a.Type == Raise && h.currentBet == 0 {
			return Validation{}, reject(CodeIllegalAction, a, "nothing to raise, bet instead")
		}
		minTotal := h.minRaiseTo()
		switch {
		case a.Amount >= stackTotal:
			return allIn("amount commits the whole stack")
		case stackTotal < minTotal:
			return allIn("stack is below the minimum " + a.Type.String())
		case a.Amount < minTotal:
			return Validation{}, reject(CodeInvalidAmount, a, "%s to %d is below the minimum of %d", a.Type, a.Amount, minTotal)
		}
		return Validation{Action: Action{Seat: a.Seat, Type: a.Type, Amount: a.Amount}}, nil

	case AllIn:
		if p.Chips <= 0 {
			return Validation{}, reject(CodeIllegalAction, a, "no chips left")
		}
		return allIn("")
	}

	return Validation{}, reject(CodeIllegalAction, a, "unknown action type %d", a.Type)
}

// minRaiseTo is the smallest legal total for a bet or raise this round.
func (h *Hand) minRaiseTo() int {
	if h.currentBet == 0 {
		return h.rules.MinBet()
	}
	return h.currentBet + h.minRaise
}

// LegalActions lists the moves open to the active player.
func (h *Hand) LegalActions() []LegalAction {
	if !h.phase.IsBetting() || h.activePos < 0 || h.err != nil {
		return nil
	}
	p := h.players[h.activePos]
	if !p.CanAct() {
		return nil
	}

	owed := h.currentBet - p.Bet
	stackTotal := p.Bet + p.Chips
	minTotal := h.minRaiseTo()

	actions := []LegalAction{{Type: Fold}}
	if owed <= 0 {
		actions = append(actions, LegalAction{Type: Check})
	} else if p.Chips > owed {
		actions = append(actions, LegalAction{Type: Call, Min: owed, Max: owed})
	}
	if stackTotal > minTotal {
		kind := Raise
		if h.currentBet == 0 {
			kind = Bet
		}
		actions = append(actions, LegalAction{Type: kind, Min: minTotal, Max: stackTotal})
	}
	if p.Chips > 0 {
		actions = append(actions, LegalAction{Type: AllIn, Min: p.Chips, Max: p.Chips})
	}
	return actions
}

// apply moves chips for a validated action and updates the betting state.
func (h *Hand) apply(v Validation) error {
	p := h.players[h.activePos]
	a := v.Action

	switch a.Type {
	case Fold:
		p.Status = StatusFolded
	case Check:
	case Call:
		if err := p.Deduct(a.Amount); err != nil {
			return err
		}
	case Bet, Raise:
		if err := p.Deduct(a.Amount - p.Bet); err != nil {
			return err
		}
		h.raiseTo(p.Bet)
	case AllIn:
		if err := p.Deduct(p.Chips); err != nil {
			return err
		}
		h.raiseTo(p.Bet)
	}
	p.LastAction = a.Type
	return nil
}

// raiseTo lifts the current bet. Only a full raise changes the minimum
// increment; a short all-in leaves it alone.
func (h *Hand) raiseTo(total int) {
	if total <= h.currentBet {
		return
	}
	increment := total - h.currentBet
	if increment >= h.minRaise {
		h.minRaise = increment
	}
	h.currentBet = total
}
