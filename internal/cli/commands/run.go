package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dct/internal/classify"
	"dct/internal/config"
	"dct/internal/discovery"
	"dct/internal/domain"
	"dct/internal/driver"
	"dct/internal/execution"
	"dct/internal/history"
	"dct/internal/storage"
	"dct/internal/toolchain"
	"dct/internal/ui"
	"dct/internal/workspace"
)

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	storage     storage.Storage
	viewer      ui.Viewer
	newRecorder func() history.Recorder
	scheduler   execution.Scheduler
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	st storage.Storage,
	viewer ui.Viewer,
	newRecorder func() history.Recorder,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		storage:     st,
		viewer:      viewer,
		newRecorder: newRecorder,
		scheduler:   execution.NewRoundRobinScheduler(),
	}
}

// Execute runs the command. Every precondition is checked before the first
// job starts; a campaign with failures returns domain.ErrTestsFailed.
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.config
	ctx := cmd.Context()
	logger := ui.NewLogger(cmd.ErrOrStderr(), cfg.Flags.Verbose, cfg.Flags.Debug)
	formatter := ui.NewFormatter(cfg, cmd.OutOrStdout())
	logger.Debugf(2, "command-line arguments %v", args)

	preparer := workspace.NewPreparer(cfg)
	if err := preparer.Reset(); err != nil {
		return err
	}

	inputs, err := discoverInputs(cfg, logger)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No test-cases to execute")
		return nil
	}
	if err := discovery.CheckReadable(inputs); err != nil {
		return err
	}

	wrapper, err := toolchain.ResolveWrapper(cfg.Wrapper)
	if err != nil {
		return err
	}
	if err := toolchain.CheckReference(cfg.ReferenceCC); err != nil {
		return err
	}
	logger.Debugf(1, "wrapper path: %s", wrapper)

	jobs, err := preparer.Plan(inputs)
	if err != nil {
		return err
	}
	if cfg.Flags.ShardCount > 1 {
		jobs = rc.scheduler.Schedule(jobs, cfg.Flags.ShardCount)[cfg.Flags.Shard]
		logger.Debugf(1, "shard %d/%d: %d test-case(s)", cfg.Flags.Shard, cfg.Flags.ShardCount, len(jobs))
	}
	if err := preparer.Materialize(jobs); err != nil {
		return err
	}
	for _, job := range jobs {
		logger.Debugf(1, "prepared %s in %s", job.Input.Path, job.Workspace)
	}

	runner := toolchain.NewRunner(cfg, logger)
	jobDriver := driver.NewDriver(runner, toolchain.New(cfg, wrapper), classify.NewClassifier(cfg), logger)
	pool := execution.NewWorkerPool(cfg, jobDriver, logger)
	if ui.ShowProgress(cfg.Flags.Verbose) {
		pool.SetProgress(ui.NewProgressBar(len(jobs)))
	}

	verdicts, duration, err := pool.Execute(ctx, jobs)
	formatter.PrintVerdicts(verdicts)
	if err != nil {
		return fmt.Errorf("campaign aborted after %d of %d test-case(s): %w", len(verdicts), len(jobs), err)
	}

	workers := min(cfg.Processors, len(jobs))
	report := execution.Summarize(uuid.NewString(), verdicts, len(jobs), duration, workers)
	if err := rc.storage.Save(report); err != nil {
		return fmt.Errorf("failed to save campaign report: %w", err)
	}
	formatter.PrintSummary(report)

	if cfg.Flags.Record {
		if err := rc.newRecorder().Record(ctx, report); err != nil {
			logger.Warnf("failed to record history: %v", err)
		} else {
			logger.Verbosef(1, "recorded run %s", report.Meta.RunID)
		}
	}

	if execution.ExitCode(report) == 0 {
		return nil
	}
	if cfg.Flags.OpenFailures && report.Meta.FailedJobs > 0 {
		if err := rc.viewer.View(&report); err != nil {
			return err
		}
	}
	return domain.ErrTestsFailed
}
