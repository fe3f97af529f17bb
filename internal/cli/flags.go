package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dct/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigPath   string
	Verbose      int
	Debug        int
	Wrapper      string
	ReferenceCC  string
	OutputRoot   string
	Processors   int
	NameFilter   string
	FailFast     bool
	Shard        string
	Timeout      time.Duration
	Compare      string
	Collision    string
	Record       bool
	OpenFailures bool
}

// RegisterCommon adds the flags shared by every command that discovers inputs
func (f *Flags) RegisterCommon(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ConfigPath, "config", "", "Path to a YAML config file (default "+config.DefaultConfigFile+" if present)")
	cmd.Flags().CountVarP(&f.Verbose, "verbose", "v", "Increase verbosity level (repeatable)")
	cmd.Flags().CountVarP(&f.Debug, "debug", "d", "Increase quantity of debugging messages (repeatable)")
	cmd.Flags().StringVarP(&f.OutputRoot, "output", "o", "", "Directory receiving one workspace per test-case (default "+config.DefaultOutputRoot+")")
	cmd.Flags().StringVarP(&f.NameFilter, "filter", "f", "", "Filter test-cases by file name pattern (supports wildcards, e.g. '*loop*')")
	cmd.Flags().StringVar(&f.Collision, "collision", "", "Workspace name collision policy: hash, error or last-wins")
}

// RegisterRun adds the flags of the run command
func (f *Flags) RegisterRun(cmd *cobra.Command) {
	f.RegisterCommon(cmd)
	cmd.Flags().StringVarP(&f.Wrapper, "wrapper", "w", "", "Path to the candidate compiler wrapper (default "+config.DefaultWrapperName+" next to dct)")
	cmd.Flags().StringVar(&f.ReferenceCC, "cc", "", "Reference compiler (default "+config.DefaultReferenceCC+")")
	cmd.Flags().IntVarP(&f.Processors, "jobs", "j", 0, "Number of test-cases to run in parallel (default number of CPUs)")
	cmd.Flags().BoolVar(&f.FailFast, "fail-fast", false, "Stop scheduling test-cases after the first failure")
	cmd.Flags().StringVar(&f.Shard, "shard", "", "Run only shard i of n of the sorted test-cases, as i/n (0-based)")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0, "Per-command timeout, 0 disables it (default "+config.DefaultTimeout.String()+")")
	cmd.Flags().StringVar(&f.Compare, "compare", "", "What execution results are compared on: stdout or combined")
	cmd.Flags().BoolVar(&f.Record, "record", false, "Record verdicts in the MySQL history database (DB_* environment)")
	cmd.Flags().BoolVar(&f.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
}

// LoadConfig overlays the config file, the environment and the flags that
// were explicitly set on cmd onto cfg, in increasing precedence
func (f *Flags) LoadConfig(cmd *cobra.Command, cfg *config.Config, args []string) error {
	path, required := config.DefaultConfigFile, false
	if f.ConfigPath != "" {
		path, required = f.ConfigPath, true
	}
	if err := cfg.LoadFile(path, required); err != nil {
		return err
	}
	if err := cfg.LoadEnv(config.DefaultEnvFile); err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.OutputRoot = f.OutputRoot
	}
	if changed("collision") {
		cfg.Collision = f.Collision
	}
	if changed("wrapper") {
		cfg.Wrapper = f.Wrapper
	}
	if changed("cc") {
		cfg.ReferenceCC = f.ReferenceCC
	}
	if changed("jobs") {
		cfg.Processors = f.Processors
	}
	if changed("timeout") {
		cfg.Timeout = f.Timeout
	}
	if changed("compare") {
		cfg.Compare = f.Compare
	}

	flags := config.Flags{
		Inputs:       args,
		Verbose:      f.Verbose,
		Debug:        f.Debug,
		NameFilter:   f.NameFilter,
		FailFast:     f.FailFast,
		ShardCount:   1,
		Record:       f.Record,
		OpenFailures: f.OpenFailures,
	}
	if f.Shard != "" {
		shard, count, err := ParseShard(f.Shard)
		if err != nil {
			return err
		}
		flags.Shard, flags.ShardCount = shard, count
	}
	cfg.Flags = flags

	return cfg.Validate()
}

// ParseShard parses a shard selector of the form i/n
func ParseShard(value string) (int, int, error) {
	index, count, ok := strings.Cut(value, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid shard %q (want i/n)", value)
	}
	i, err := strconv.Atoi(strings.TrimSpace(index))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid shard index %q: %w", index, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid shard count %q: %w", count, err)
	}
	if n < 1 || i < 0 || i >= n {
		return 0, 0, fmt.Errorf("shard %d/%d out of range", i, n)
	}
	return i, n, nil
}
