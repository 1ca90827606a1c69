package simulator

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintSummary writes per-seat results, aggregated across tables.
func PrintSummary(w io.Writer, r *Result) {
	fmt.Fprintf(w, "Tables: %d  Hands: %d\n", len(r.Tables), r.Hands())
	for _, t := range r.Tables {
		if t.StepLimited > 0 {
			fmt.Fprintf(w, "Table %d: %d hands hit the step limit and were force-settled\n", t.Index+1, t.StepLimited)
		}
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Seat\tStrategy\tHands\tNet\tbb/100\t95% CI (bb/hand)\tSD wins\tNon-SD wins\tMax pot (bb)\t")
	for _, s := range r.Seats {
		st := s.Stats
		low, high := st.ConfidenceInterval95()
		fmt.Fprintf(tw, "%s\t%s\t%d\t%+d\t%.2f\t[%.3f, %.3f]\t%d\t%d\t%.1f\t\n",
			s.Name, s.Strategy, st.Hands, st.NetChips, st.BB100(), low, high,
			st.ShowdownWins, st.NonShowdownWins, st.MaxPotBB)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Position analysis (bb/hand, 0 = button):")
	for _, s := range r.Seats {
		fmt.Fprintf(w, "  %s:", s.Name)
		for pos, ps := range s.Stats.Positions {
			if ps.Hands > 0 {
				fmt.Fprintf(w, " %d=%.3f", pos, s.Stats.PositionMean(pos))
			}
		}
		fmt.Fprintln(w)
	}
}
