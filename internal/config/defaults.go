package config

import "time"

const (
	// DefaultOutputRoot is the directory holding one workspace per job
	DefaultOutputRoot = "dct-output"
	// DefaultSourceSuffix is the suffix identifying source files
	DefaultSourceSuffix = ".c"
	// DefaultCanonicalSource is the file name of the input inside a workspace
	DefaultCanonicalSource = "input.c"
	// DefaultWrapperName is the candidate wrapper looked up next to the executable
	DefaultWrapperName = "ifcc-wrapper.sh"
	// DefaultReferenceCC is the reference compiler and linker driver
	DefaultReferenceCC = "gcc"
	// DefaultReportFile is the JSON report written inside the output root
	DefaultReportFile = "results.json"
	// DefaultConfigFile is the optional YAML configuration in the working directory
	DefaultConfigFile = ".dct.yaml"
	// DefaultTimeout bounds each external command
	DefaultTimeout = 10 * time.Second
	// DefaultHistoryDatabase is the MySQL database used by --record
	DefaultHistoryDatabase = "dct_history"
	// DefaultEnvFile is the optional dotenv file in the working directory
	DefaultEnvFile = ".env"
)

// Compare modes for execution results
const (
	CompareStdout   = "stdout"
	CompareCombined = "combined"
)

// Collision policies for inputs sharing a workspace name
const (
	CollisionHash     = "hash"
	CollisionError    = "error"
	CollisionLastWins = "last-wins"
)

// Argv template placeholders
const (
	PlaceholderCC      = "{cc}"
	PlaceholderWrapper = "{wrapper}"
	PlaceholderSource  = "{source}"
	PlaceholderAsm     = "{asm}"
	PlaceholderExe     = "{exe}"
)

// DefaultToolchain mirrors the gcc based reference and the wrapper calling convention
func DefaultToolchain() Toolchain {
	return Toolchain{
		ReferenceCompile: []string{PlaceholderCC, "-S", "-o", PlaceholderAsm, PlaceholderSource},
		ReferenceLink:    []string{PlaceholderCC, "-o", PlaceholderExe, PlaceholderAsm},
		CandidateCompile: []string{PlaceholderWrapper, PlaceholderAsm, PlaceholderSource},
		CandidateLink:    []string{PlaceholderCC, "-o", PlaceholderExe, PlaceholderAsm},
	}
}
