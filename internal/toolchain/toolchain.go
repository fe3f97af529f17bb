// Package toolchain runs the reference and candidate compilers as black-box
// processes using argv templates, never through a shell.
package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"dct/internal/config"
	"dct/internal/domain"
)

// Artifact names produced inside each workspace
const (
	RefAsm  = "asm-ref.s"
	RefExe  = "exe-ref"
	CandAsm = "asm-cand.s"
	CandExe = "exe-cand"
)

// Toolchain expands the configured argv templates for every stage
type Toolchain struct {
	templates config.Toolchain
	cc        string
	wrapper   string
	source    string
}

// New creates a new Toolchain. wrapper must already be resolved.
func New(cfg *config.Config, wrapper string) *Toolchain {
	return &Toolchain{
		templates: cfg.Toolchain,
		cc:        cfg.ReferenceCC,
		wrapper:   wrapper,
		source:    cfg.CanonicalSource,
	}
}

// Argv returns the command line of stage for the job rooted at workspace
func (t *Toolchain) Argv(stage domain.Stage, workspace string) []string {
	switch stage {
	case domain.StageRefCompile:
		return t.expand(t.templates.ReferenceCompile, RefAsm, RefExe)
	case domain.StageRefLink:
		return t.expand(t.templates.ReferenceLink, RefAsm, RefExe)
	case domain.StageRefExecute:
		return []string{filepath.Join(workspace, RefExe)}
	case domain.StageCandCompile:
		return t.expand(t.templates.CandidateCompile, CandAsm, CandExe)
	case domain.StageCandLink:
		return t.expand(t.templates.CandidateLink, CandAsm, CandExe)
	case domain.StageCandExecute:
		return []string{filepath.Join(workspace, CandExe)}
	}
	return nil
}

func (t *Toolchain) expand(template []string, asm, exe string) []string {
	replacer := strings.NewReplacer(
		config.PlaceholderCC, t.cc,
		config.PlaceholderWrapper, t.wrapper,
		config.PlaceholderSource, t.source,
		config.PlaceholderAsm, asm,
		config.PlaceholderExe, exe,
	)
	argv := make([]string, len(template))
	for i, arg := range template {
		argv[i] = replacer.Replace(arg)
	}
	return argv
}

// ResolveWrapper returns the absolute path of the candidate wrapper after
// checking that it exists and is executable
func ResolveWrapper(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %s: %v", domain.ErrEnvironment, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: cannot find %s in directory: %s", domain.ErrEnvironment, filepath.Base(abs), filepath.Dir(abs))
	}
	if info.Mode().Perm()&0111 == 0 {
		return "", fmt.Errorf("%w: %s is not executable", domain.ErrEnvironment, abs)
	}
	return abs, nil
}

// CheckReference verifies that the reference compiler can be found
func CheckReference(cc string) error {
	if _, err := exec.LookPath(cc); err != nil {
		return fmt.Errorf("%w: reference compiler %s not found: %v", domain.ErrEnvironment, cc, err)
	}
	return nil
}
