package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/crewdash/crewdash/internal/logging"
	"github.com/crewdash/crewdash/internal/tui"
)

// newDashCmd creates the "dash" command that opens the interactive
// dashboard. It is also what the bare root invocation runs.
func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive roster dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd)
		},
	}
}

// runDashboard builds the runtime and hands control to Bubble Tea.
func runDashboard(cmd *cobra.Command) error {
	if !isTerminal(os.Stdout) {
		return errors.New("the dashboard needs an interactive terminal; use 'crewdash export' or 'crewdash stats' in scripts")
	}

	ctx, _, orch, err := buildRuntime(cmd)
	if err != nil {
		return err
	}

	log := logging.FromContext(ctx)
	log.Debug().Str("component", "cli").Msg("starting dashboard")

	model := tui.NewModel(ctx, orch)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
