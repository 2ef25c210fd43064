package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crewdash/crewdash/internal/stats"
)

// tabwriterPadding is the minimum padding between stat columns.
const tabwriterPadding = 2

// newStatsCmd creates the "stats" command printing roster aggregates.
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print city and company aggregates for the roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, orch, err := buildRuntime(cmd)
			if err != nil {
				return err
			}

			data, err := loadRoster(ctx, orch)
			if err != nil {
				return err
			}

			sum := stats.Compute(data, data)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d people · %d cities · %d companies\n\n",
				sum.Total, sum.UniqueCities(), sum.UniqueCompanies())

			w := tabwriter.NewWriter(out, 0, 0, tabwriterPadding, ' ', 0)
			fmt.Fprintln(w, "CITY\tPEOPLE")
			for _, e := range sum.CityCounts {
				fmt.Fprintf(w, "%s\t%d\n", e.Key, e.Count)
			}
			fmt.Fprintln(w, "\t")
			fmt.Fprintln(w, "COMPANY\tPEOPLE")
			for _, e := range sum.CompanyCounts {
				fmt.Fprintf(w, "%s\t%d\n", e.Key, e.Count)
			}
			return w.Flush()
		},
	}
}
