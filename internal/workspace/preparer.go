// Package workspace materializes one isolated directory per test-case.
package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dct/internal/config"
	"dct/internal/domain"
)

// separatorReplacement replaces path separators in workspace names
const separatorReplacement = "-"

// Preparer creates the job workspaces under the output root
type Preparer struct {
	outputRoot      string
	suffix          string
	canonicalSource string
	collision       string
}

// NewPreparer creates a new Preparer
func NewPreparer(cfg *config.Config) *Preparer {
	return &Preparer{
		outputRoot:      cfg.GetOutputRoot(),
		suffix:          cfg.SourceSuffix,
		canonicalSource: cfg.CanonicalSource,
		collision:       cfg.Collision,
	}
}

// Name computes the workspace name of an input path: the suffix is stripped,
// leading "/" and "./" are dropped and separators are replaced.
func Name(path, suffix string) string {
	name := filepath.ToSlash(filepath.Clean(path))
	name = strings.TrimSuffix(name, suffix)
	name = strings.TrimLeft(name, "/")
	for strings.HasPrefix(name, "./") {
		name = strings.TrimPrefix(name, "./")
	}
	name = strings.ReplaceAll(name, "..", "__")
	if name == "" || name == "." {
		name = "_"
	}
	return strings.ReplaceAll(name, "/", separatorReplacement)
}

// pathHash returns a short stable digest of an absolute input path
func pathHash(absPath string) string {
	sum := sha256.Sum256([]byte(absPath))
	return hex.EncodeToString(sum[:])[:8]
}

// Reset removes the output root and recreates it empty
func (p *Preparer) Reset() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%w: cannot determine working directory: %v", domain.ErrEnvironment, err)
	}
	if within(cwd, p.outputRoot) {
		return fmt.Errorf("%w: cannot run from within the output directory %s", domain.ErrScopeViolation, p.outputRoot)
	}
	if err := os.RemoveAll(p.outputRoot); err != nil {
		return fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(p.outputRoot, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Plan computes the jobs for the given inputs without touching the filesystem.
// Jobs are deduplicated by workspace and sorted by workspace path.
func (p *Preparer) Plan(inputs []domain.InputFile) ([]domain.Job, error) {
	byName := make(map[string][]domain.InputFile)
	seen := make(map[string]bool)
	for _, input := range inputs {
		if seen[input.AbsPath] {
			continue
		}
		seen[input.AbsPath] = true
		if within(input.AbsPath, p.outputRoot) {
			return nil, fmt.Errorf("%w: input filename is within output directory: %s", domain.ErrScopeViolation, input.Path)
		}
		name := Name(input.Path, p.suffix)
		byName[name] = append(byName[name], input)
	}

	var jobs []domain.Job
	for name, group := range byName {
		if len(group) == 1 {
			jobs = append(jobs, p.job(name, group[0]))
			continue
		}

		switch p.collision {
		case config.CollisionError:
			paths := make([]string, 0, len(group))
			for _, input := range group {
				paths = append(paths, input.Path)
			}
			return nil, fmt.Errorf("%w: %s all map to workspace %q", domain.ErrWorkspaceCollision, strings.Join(paths, ", "), name)
		case config.CollisionLastWins:
			jobs = append(jobs, p.job(name, group[len(group)-1]))
		default:
			for _, input := range group {
				jobs = append(jobs, p.job(name+separatorReplacement+pathHash(input.AbsPath), input))
			}
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].Workspace < jobs[j].Workspace
	})
	return jobs, nil
}

// Prepare plans the jobs and materializes each workspace with a canonical copy of its input
func (p *Preparer) Prepare(inputs []domain.InputFile) ([]domain.Job, error) {
	jobs, err := p.Plan(inputs)
	if err != nil {
		return nil, err
	}
	if err := p.Materialize(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Materialize creates the workspace of each planned job
func (p *Preparer) Materialize(jobs []domain.Job) error {
	for _, job := range jobs {
		if err := os.MkdirAll(job.Workspace, 0755); err != nil {
			return fmt.Errorf("failed to create workspace %s: %w", job.Workspace, err)
		}
		if err := copyFile(job.Input.Path, filepath.Join(job.Workspace, p.canonicalSource)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Preparer) job(name string, input domain.InputFile) domain.Job {
	return domain.Job{
		Name:      name,
		Workspace: filepath.Join(p.outputRoot, name),
		Input:     input,
	}
}

// within reports whether path equals root or lies below it
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: unable to read file %s: %v", domain.ErrInput, src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
