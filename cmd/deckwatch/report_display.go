package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/deckwatch/deckwatch/internal/meta"
	"github.com/deckwatch/deckwatch/internal/stats"
)

// printReport renders the metagame report as aligned tables.
func printReport(out io.Writer, report *meta.Report, byTier bool, minMatches int) {
	fmt.Fprintf(out, "Metagame report: %s (%d players)\n\n", report.Format, report.TotalPlayers)

	view := report.Archetypes
	if byTier {
		view = report.SortedByTier()
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ARCHETYPE\tSHARE\tMATCHES\tRECORD\tWINRATE\t95% CI\tTIER")
	for _, ar := range view {
		fmt.Fprintf(w, "%s\t%.1f%%\t%d\t%d-%d\t%s\t%.3f-%.3f\t%s\n",
			ar.Archetype,
			ar.MetagameShare*100,
			ar.TotalMatches,
			ar.Wins, ar.Losses,
			formatWinrate(ar),
			ar.CILower, ar.CIUpper,
			formatTier(ar.Tier),
		)
	}
	w.Flush()

	if len(report.SignificantMatchups) > 0 {
		fmt.Fprintf(out, "\nSignificant matchups (>= %d matches):\n\n", minMatches)
		w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MATCHUP\tMATCHES\tWINRATE A\tWINRATE B")
		for _, m := range report.SignificantMatchups {
			fmt.Fprintf(w, "%s vs %s\t%d\t%.1f%%\t%.1f%%\n",
				m.ArchetypeA, m.ArchetypeB, m.Matches, m.WinrateA*100, m.WinrateB*100)
		}
		w.Flush()
	}

	if len(report.InsufficientSample) > 0 {
		fmt.Fprintf(out, "\nInsufficient sample: %d archetypes below the significance floor\n", len(report.InsufficientSample))
	}
}

func formatWinrate(ar meta.ArchetypeReport) string {
	if ar.TotalMatches == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", ar.WinrateMean*100)
}

func formatTier(t stats.Tier) string {
	if t == stats.TierNone {
		return "-"
	}
	return fmt.Sprintf("Tier %d", t)
}
