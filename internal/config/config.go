package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Workspace settings
	OutputRoot      string
	SourceSuffix    string
	CanonicalSource string
	ReportFile      string

	// Toolchain settings
	Wrapper     string
	ReferenceCC string
	Toolchain   Toolchain
	Timeout     time.Duration

	// Execution settings
	Processors int
	Compare    string
	Collision  string

	// Command flags
	Flags Flags
}

// Toolchain holds argv templates for each external stage
type Toolchain struct {
	ReferenceCompile []string `yaml:"reference_compile"`
	ReferenceLink    []string `yaml:"reference_link"`
	CandidateCompile []string `yaml:"candidate_compile"`
	CandidateLink    []string `yaml:"candidate_link"`
}

// Flags holds command-line flags
type Flags struct {
	Inputs       []string
	Verbose      int
	Debug        int
	NameFilter   string
	FailFast     bool
	Shard        int
	ShardCount   int
	Record       bool
	OpenFailures bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		OutputRoot:      DefaultOutputRoot,
		SourceSuffix:    DefaultSourceSuffix,
		CanonicalSource: DefaultCanonicalSource,
		ReportFile:      DefaultReportFile,
		Wrapper:         defaultWrapperPath(),
		ReferenceCC:     DefaultReferenceCC,
		Toolchain:       DefaultToolchain(),
		Timeout:         DefaultTimeout,
		Processors:      runtime.NumCPU(),
		Compare:         CompareStdout,
		Collision:       CollisionHash,
		Flags:           Flags{ShardCount: 1},
	}
}

// defaultWrapperPath locates the wrapper script next to the running executable
func defaultWrapperPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultWrapperName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultWrapperName)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Processors < 1 {
		return fmt.Errorf("processors must be at least 1, got %d", c.Processors)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch c.Compare {
	case CompareStdout, CompareCombined:
	default:
		return fmt.Errorf("unknown compare mode %q (want %s or %s)", c.Compare, CompareStdout, CompareCombined)
	}
	switch c.Collision {
	case CollisionHash, CollisionError, CollisionLastWins:
	default:
		return fmt.Errorf("unknown collision policy %q (want %s, %s or %s)", c.Collision, CollisionHash, CollisionError, CollisionLastWins)
	}
	if c.Flags.ShardCount < 1 {
		return fmt.Errorf("shard count must be at least 1, got %d", c.Flags.ShardCount)
	}
	if c.Flags.Shard < 0 || c.Flags.Shard >= c.Flags.ShardCount {
		return fmt.Errorf("shard index %d out of range for %d shard(s)", c.Flags.Shard, c.Flags.ShardCount)
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("output root must not be empty")
	}
	templates := map[string][]string{
		"reference_compile": c.Toolchain.ReferenceCompile,
		"reference_link":    c.Toolchain.ReferenceLink,
		"candidate_compile": c.Toolchain.CandidateCompile,
		"candidate_link":    c.Toolchain.CandidateLink,
	}
	for name, argv := range templates {
		if len(argv) == 0 || argv[0] == "" {
			return fmt.Errorf("toolchain template %s is empty", name)
		}
	}
	return nil
}

// GetOutputRoot returns the absolute path of the output root
func (c *Config) GetOutputRoot() string {
	if abs, err := filepath.Abs(c.OutputRoot); err == nil {
		return abs
	}
	return c.OutputRoot
}

// GetReportPath returns the full path to the JSON report of the last run
func (c *Config) GetReportPath() string {
	return filepath.Join(c.GetOutputRoot(), c.ReportFile)
}
