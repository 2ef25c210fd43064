package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/crewdash/crewdash/internal/export"
	"github.com/crewdash/crewdash/internal/fetch"
	"github.com/crewdash/crewdash/internal/filter"
	"github.com/crewdash/crewdash/internal/roster"
)

// exportParams holds the flags of the export command.
type exportParams struct {
	query   string
	city    string
	company string
	out     string
	full    bool
}

// newExportCmd creates the "export" command: fetch (or reuse the cached)
// roster, apply the optional filters, and write the CSV.
func newExportCmd() *cobra.Command {
	var params exportParams

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the roster as a date-stamped CSV file",
		Example: `  # Export everyone
  crewdash export

  # Export the filtered view
  crewdash export --query ann --city "New York"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.query, "query", "", "name substring filter")
	cmd.Flags().StringVar(&params.city, "city", "", "exact city filter")
	cmd.Flags().StringVar(&params.company, "company", "", "exact company filter")
	cmd.Flags().StringVar(&params.out, "out", ".", "output directory")
	cmd.Flags().BoolVar(&params.full, "full", false, "ignore filters and export the full roster")
	return cmd
}

func runExport(cmd *cobra.Command, params exportParams) error {
	ctx, _, orch, err := buildRuntime(cmd)
	if err != nil {
		return err
	}

	data, err := loadRoster(ctx, orch)
	if err != nil {
		return err
	}

	state := filter.State{Query: params.query, City: params.city, Company: params.company}
	entries := data
	label := "full"
	if !params.full && state.Active() {
		entries = filter.Apply(data, filter.BuildIndex(data), state)
		label = "filtered"
	}

	res, err := export.Write(entries, label, params.out)
	if err != nil {
		return err
	}
	cmd.Println(res.Message)
	return nil
}

// loadRoster obtains the roster the way the dashboard would: cache first,
// fetching only when the cache is absent or stale.
func loadRoster(ctx context.Context, orch *fetch.Orchestrator) (roster.Roster, error) {
	act := orch.Activate(ctx)
	if act.Plan == fetch.PlanNone {
		return act.Cached, nil
	}

	data, err := orch.Refresh(ctx)
	if err != nil {
		if act.FromCache() {
			// Degrade to the stale roster rather than failing outright.
			return act.Cached, nil
		}
		return nil, err
	}
	return data, nil
}
