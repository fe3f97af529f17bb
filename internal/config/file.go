package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML representation of .dct.yaml
type fileConfig struct {
	OutputRoot      string     `yaml:"output_root"`
	SourceSuffix    string     `yaml:"source_suffix"`
	CanonicalSource string     `yaml:"canonical_source"`
	Wrapper         string     `yaml:"wrapper"`
	ReferenceCC     string     `yaml:"reference_cc"`
	Jobs            int        `yaml:"jobs"`
	Timeout         string     `yaml:"timeout"`
	Compare         string     `yaml:"compare"`
	Collision       string     `yaml:"collision"`
	Toolchain       *Toolchain `yaml:"toolchain"`
}

// LoadFile overlays the YAML file at path onto the config.
// A missing file is not an error unless required is set.
func (c *Config) LoadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.OutputRoot, fc.OutputRoot)
	setString(&c.SourceSuffix, fc.SourceSuffix)
	setString(&c.CanonicalSource, fc.CanonicalSource)
	setString(&c.Wrapper, fc.Wrapper)
	setString(&c.ReferenceCC, fc.ReferenceCC)
	setString(&c.Compare, fc.Compare)
	setString(&c.Collision, fc.Collision)
	if fc.Jobs > 0 {
		c.Processors = fc.Jobs
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in %s: %w", fc.Timeout, path, err)
		}
		c.Timeout = d
	}
	if fc.Toolchain != nil {
		mergeToolchain(&c.Toolchain, *fc.Toolchain)
	}
	return nil
}

// LoadEnv loads .env (if present) and applies DCT_* environment variables
func (c *Config) LoadEnv(envFile string) error {
	// .env is optional, plain environment variables still apply
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	setString(&c.Wrapper, os.Getenv("DCT_WRAPPER"))
	setString(&c.ReferenceCC, os.Getenv("DCT_CC"))
	setString(&c.OutputRoot, os.Getenv("DCT_OUTPUT"))
	if raw := os.Getenv("DCT_JOBS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid DCT_JOBS %q", raw)
		}
		c.Processors = n
	}
	if raw := os.Getenv("DCT_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid DCT_TIMEOUT %q: %w", raw, err)
		}
		c.Timeout = d
	}
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func mergeToolchain(dst *Toolchain, src Toolchain) {
	if len(src.ReferenceCompile) > 0 {
		dst.ReferenceCompile = src.ReferenceCompile
	}
	if len(src.ReferenceLink) > 0 {
		dst.ReferenceLink = src.ReferenceLink
	}
	if len(src.CandidateCompile) > 0 {
		dst.CandidateCompile = src.CandidateCompile
	}
	if len(src.CandidateLink) > 0 {
		dst.CandidateLink = src.CandidateLink
	}
}
