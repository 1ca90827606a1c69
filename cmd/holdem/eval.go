package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/lox/holdem-engine/poker"
)

// EvalCmd ranks hands against a board.
type EvalCmd struct {
	Board string   `short:"b" help:"Community cards, e.g. \"Kc Qd 5h\""`
	Hands []string `arg:"" help:"Hole cards for each player, e.g. AsKd 7c7h"`
}

func (c *EvalCmd) Run(g *Globals) error {
	evals, err := evaluateHands(c.Board, c.Hands)
	if err != nil {
		return err
	}
	if c.Board != "" {
		fmt.Println(headerStyle.Render("Board:"), c.Board)
	}
	renderEvaluations(os.Stdout, evals)
	return nil
}

type evaluation struct {
	Hole   []poker.Card
	Result poker.HandResult
	// Rank is 1 for the best hand; tied hands share a rank.
	Rank int
}

// evaluateHands scores each hand on the board and orders them best first.
func evaluateHands(board string, hands []string) ([]evaluation, error) {
	boardCards, err := poker.ParseCards(board)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	seen := make(map[poker.Card]string)
	for _, c := range boardCards {
		seen[c] = "board"
	}

	evals := make([]evaluation, 0, len(hands))
	for _, hand := range hands {
		hole, err := poker.ParseCards(hand)
		if err != nil {
			return nil, fmt.Errorf("hand %q: %w", hand, err)
		}
		for _, c := range hole {
			if where, dup := seen[c]; dup {
				return nil, fmt.Errorf("hand %q: %s is already used by %s", hand, c, where)
			}
			seen[c] = hand
		}
		res, err := poker.Evaluate(hole, boardCards)
		if err != nil {
			return nil, fmt.Errorf("hand %q: %w", hand, err)
		}
		evals = append(evals, evaluation{Hole: hole, Result: res})
	}

	slices.SortStableFunc(evals, func(a, b evaluation) int {
		return poker.Compare(b.Result, a.Result)
	})
	for i := range evals {
		switch {
		case i == 0:
			evals[i].Rank = 1
		case poker.Compare(evals[i].Result, evals[i-1].Result) == 0:
			evals[i].Rank = evals[i-1].Rank
		default:
			evals[i].Rank = i + 1
		}
	}
	return evals, nil
}

func renderEvaluations(w io.Writer, evals []evaluation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("Rank")+"\t"+headerStyle.Render("Hand")+"\t"+headerStyle.Render("Best Five")+"\t"+headerStyle.Render("Result"))
	tied := len(evals) > 1 && evals[1].Rank == 1
	for _, e := range evals {
		result := e.Result.String()
		switch {
		case e.Rank == 1 && tied:
			result = tieStyle.Render(result + " (tie)")
		case e.Rank == 1:
			result = winStyle.Render(result)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Rank, handStyle.Render(prettyCards(e.Hole)), prettyCards(e.Result.Best), result)
	}
	tw.Flush()
}
