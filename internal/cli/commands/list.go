package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dct/internal/config"
	"dct/internal/ui"
	"dct/internal/workspace"
)

// ListCommand handles the list command
type ListCommand struct {
	config *config.Config
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config) *ListCommand {
	return &ListCommand{config: cfg}
}

// Execute runs the command. Nothing is written to the output root.
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	logger := ui.NewLogger(cmd.ErrOrStderr(), lc.config.Flags.Verbose, lc.config.Flags.Debug)

	inputs, err := discoverInputs(lc.config, logger)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No test-cases found")
		return nil
	}

	jobs, err := workspace.NewPreparer(lc.config).Plan(inputs)
	if err != nil {
		return err
	}
	ui.NewFormatter(lc.config, cmd.OutOrStdout()).PrintList(jobs)
	return nil
}
