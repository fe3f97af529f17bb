package commands

import (
	"github.com/spf13/cobra"

	"dct/internal/cli"
	"dct/internal/config"
	"dct/internal/discovery"
	"dct/internal/domain"
	"dct/internal/history"
	"dct/internal/parser"
	"dct/internal/storage"
	"dct/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies. Components that depend
// on the final configuration are built when a command executes, after the
// config file, environment and flags have been applied.
func NewCommands(cfg *config.Config) *Commands {
	jsonStorage := storage.NewJSONStorage(cfg)
	failureViewer := ui.NewFailureViewer(parser.NewLogParser())

	return &Commands{
		Run:      NewRunCommand(cfg, jsonStorage, failureViewer, newHistoryRecorder),
		List:     NewListCommand(cfg),
		Failures: NewFailuresCommand(cfg, jsonStorage, failureViewer),
	}
}

// newHistoryRecorder reads the DB_* settings once .env has been loaded
func newHistoryRecorder() history.Recorder {
	return history.NewMySQLRecorder(history.SettingsFromEnv())
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	loadConfig := func(cmd *cobra.Command, args []string) error {
		return flags.LoadConfig(cmd, cfg, args)
	}

	runCmd := &cobra.Command{
		Use:   "run PATH...",
		Short: "Compare the candidate compiler against the reference on C test-cases",
		Long: "For each path given: if it's a file, use this file; if it's a directory, use all " +
			config.DefaultSourceSuffix + " files in this subtree. Every test-case is compiled, linked " +
			"and executed with both toolchains and the outcomes are compared.",
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       loadConfig,
		RunE:          c.Run.Execute,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.RegisterRun(runCmd)
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:           "list PATH...",
		Short:         "List discovered test-cases and their workspaces",
		Long:          "Scan the given paths and print every test-case with the workspace it would run in, without running anything",
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       loadConfig,
		RunE:          c.List.Execute,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.RegisterCommon(listCmd)
	rootCmd.AddCommand(listCmd)

	failuresCmd := &cobra.Command{
		Use:           "failures",
		Short:         "View failed test-cases interactively",
		Long:          "Display the failed test-cases of the last run, with their stage logs, in an interactive viewer",
		Args:          cobra.NoArgs,
		PreRunE:       loadConfig,
		RunE:          c.Failures.Execute,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	failuresCmd.Flags().StringVar(&flags.ConfigPath, "config", "", "Path to a YAML config file (default "+config.DefaultConfigFile+" if present)")
	failuresCmd.Flags().StringVarP(&flags.OutputRoot, "output", "o", "", "Directory holding the last run (default "+config.DefaultOutputRoot+")")
	rootCmd.AddCommand(failuresCmd)
}

// discoverInputs scans the configured inputs and applies the name filter
func discoverInputs(cfg *config.Config, logger *ui.Logger) ([]domain.InputFile, error) {
	scanner := discovery.NewScanner(cfg.SourceSuffix, []string{cfg.GetOutputRoot()})
	inputs, err := scanner.Scan(cfg.Flags.Inputs)
	if err != nil {
		return nil, err
	}
	logger.Debugf(1, "list of files after tree walk: %s", inputPaths(inputs))

	inputs = discovery.NewFilter().FilterByName(inputs, cfg.Flags.NameFilter)
	if cfg.Flags.NameFilter != "" {
		logger.Debugf(1, "list of files after filter %q: %s", cfg.Flags.NameFilter, inputPaths(inputs))
	}
	return inputs, nil
}

func inputPaths(inputs []domain.InputFile) []string {
	paths := make([]string, len(inputs))
	for i, input := range inputs {
		paths[i] = input.Path
	}
	return paths
}
