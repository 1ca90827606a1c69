package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

var errQuit = errors.New("quit")

// terminalAgent asks a person for each decision through the play console.
// Input is checked against the snapshot's legal actions before it is handed
// to the engine, so mistakes are re-prompted instead of rejected.
type terminalAgent struct {
	console *console
	// done is set once input closes or the player quits; every later
	// decision passes or folds.
	done bool
}

func newTerminalAgent(c *console) *terminalAgent {
	return &terminalAgent{console: c}
}

func (a *terminalAgent) MakeDecision(s game.Snapshot) game.Decision {
	if a.done {
		return giveUp(s, "player left")
	}
	renderDecision(a.console, s)
	for {
		line, ok := a.console.ReadLine()
		if !ok {
			a.done = true
			return giveUp(s, "input closed")
		}
		action, err := parseAction(line, s)
		if errors.Is(err, errQuit) {
			a.done = true
			return giveUp(s, "player quit")
		}
		if err != nil {
			fmt.Fprintln(a.console, loseStyle.Render(err.Error()))
			continue
		}
		return game.Decision{Action: action, Reasoning: "human"}
	}
}

// giveUp checks when it is free and folds otherwise.
func giveUp(s game.Snapshot, reason string) game.Decision {
	t := game.Fold
	if _, ok := s.Legal(game.Check); ok {
		t = game.Check
	}
	return game.Decision{Action: game.Action{Seat: s.ActiveSeat, Type: t}, Reasoning: reason}
}

var actionAliases = map[string]string{
	"f": "fold",
	"k": "check",
	"x": "check",
	"c": "call",
	"b": "bet",
	"r": "raise",
	"a": "allin",
}

// parseAction reads commands such as "call", "r 40" or "allin". Amounts
// for bet and raise are the total to raise the round bet to. "c" checks
// when there is nothing to call.
func parseAction(line string, s game.Snapshot) (game.Action, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return game.Action{}, errors.New("enter an action: " + legalSummary(s))
	}
	verb := fields[0]
	if verb == "q" || verb == "quit" {
		return game.Action{}, errQuit
	}
	if full, ok := actionAliases[verb]; ok {
		verb = full
	}
	t, err := game.ParseActionType(verb)
	if err != nil {
		return game.Action{}, fmt.Errorf("%w; choose from %s", err, legalSummary(s))
	}
	if t == game.Call && s.ToCall() == 0 {
		t = game.Check
	}
	la, ok := s.Legal(t)
	if !ok {
		return game.Action{}, fmt.Errorf("cannot %s now; choose from %s", t, legalSummary(s))
	}

	action := game.Action{Seat: s.ActiveSeat, Type: t}
	switch t {
	case game.Bet, game.Raise:
		if len(fields) < 2 {
			return game.Action{}, fmt.Errorf("%s needs an amount between %d and %d", t, la.Min, la.Max)
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			return game.Action{}, fmt.Errorf("invalid amount %q", fields[1])
		}
		if amount < la.Min || amount > la.Max {
			return game.Action{}, fmt.Errorf("%s must be between %d and %d", t, la.Min, la.Max)
		}
		action.Amount = amount
	case game.Call, game.AllIn:
		action.Amount = la.Min
	}
	return action, nil
}

func legalSummary(s game.Snapshot) string {
	parts := make([]string, 0, len(s.LegalActions))
	for _, la := range s.LegalActions {
		switch la.Type {
		case game.Bet, game.Raise:
			parts = append(parts, fmt.Sprintf("%s %d-%d", la.Type, la.Min, la.Max))
		case game.Call, game.AllIn:
			parts = append(parts, fmt.Sprintf("%s %d", la.Type, la.Min))
		default:
			parts = append(parts, la.Type.String())
		}
	}
	return strings.Join(parts, ", ")
}

func prettyCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return dimStyle.Render("--")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Pretty()
	}
	return strings.Join(parts, " ")
}

// renderDecision shows the active seat what it needs to decide.
func renderDecision(w io.Writer, s game.Snapshot) {
	me, _ := s.Seat(s.ActiveSeat)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  board %s  pot %d\n", headerStyle.Render(s.Phase.String()), prettyCards(s.Board), s.PotTotal)
	for _, v := range s.Seats {
		if v.Status == game.StatusOut || v.Status == game.StatusSittingOut {
			continue
		}
		marker := "  "
		if v.Seat == s.ActiveSeat {
			marker = handStyle.Render("→ ")
		}
		var tags []string
		if v.IsDealer {
			tags = append(tags, "D")
		}
		if v.IsSB {
			tags = append(tags, "SB")
		}
		if v.IsBB {
			tags = append(tags, "BB")
		}
		line := fmt.Sprintf("%s%-10s %6d chips  bet %-5d %s", marker, v.Name, v.Chips, v.Bet, strings.Join(tags, " "))
		if v.Status != game.StatusActive {
			line = dimStyle.Render(line + " " + v.Status.String())
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%s %s", headerStyle.Render("Your hand:"), prettyCards(me.HoleCards))
	if len(me.HoleCards) == 2 && len(s.Board) >= 3 {
		if res, err := poker.Evaluate(me.HoleCards, s.Board); err == nil {
			fmt.Fprintf(w, "  (%s)", res)
		}
	}
	fmt.Fprintln(w)
	if toCall := s.ToCall(); toCall > 0 {
		fmt.Fprintf(w, "%d to call. ", toCall)
	}
	fmt.Fprintln(w, dimStyle.Render(legalSummary(s)))
}

// tableView narrates a hand from the events the engine publishes.
type tableView struct {
	w io.Writer
}

func (v *tableView) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandStartedEvent:
		fmt.Fprintln(v.w)
		fmt.Fprintln(v.w, titleStyle.Render(fmt.Sprintf("Hand %s  blinds %d/%d", e.HandID, e.SmallBlind, e.BigBlind)))
	case game.PhaseChangedEvent:
		if len(e.Board) > 0 {
			fmt.Fprintf(v.w, "%s %s\n", headerStyle.Render(e.To.String()), prettyCards(e.Board))
		}
	case game.ActionAppliedEvent:
		r := e.Record
		switch r.Type {
		case game.Fold, game.Check:
			fmt.Fprintf(v.w, "  %s %ss\n", r.Name, r.Type)
		default:
			fmt.Fprintf(v.w, "  %s %ss %d (pot %d)\n", r.Name, r.Type, r.Amount, r.PotAfter)
		}
	case game.HandEndedEvent:
		renderResult(v.w, e.Result)
	}
}

func renderResult(w io.Writer, res game.HandResult) {
	names := make(map[int]string, len(res.Seats))
	for _, s := range res.Seats {
		names[s.Seat] = s.Name
	}
	for _, r := range res.Revealed {
		fmt.Fprintf(w, "  %s shows %s  %s\n", names[r.Seat], prettyCards(r.Cards), r.Hand)
	}
	for _, p := range res.Pots {
		winners := make([]string, len(p.Winners))
		for i, seat := range p.Winners {
			winners[i] = names[seat]
		}
		line := fmt.Sprintf("  %s wins %d", strings.Join(winners, " and "), p.Amount)
		if p.Hand != "" {
			line += " with " + p.Hand
		}
		fmt.Fprintln(w, winStyle.Render(line))
	}
}
