package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dct/internal/config"
	"dct/internal/domain"
)

func TestName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "tests/basic/return42.c", want: "tests-basic-return42"},
		{path: "./tests//basic/./add.c", want: "tests-basic-add"},
		{path: "/abs/dir/prog.c", want: "abs-dir-prog"},
		{path: "single.c", want: "single"},
		{path: "../outside/prog.c", want: "__-outside-prog"},
		{path: ".c", want: "_"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.path, ".c"))
			// naming is a pure function of the path
			assert.Equal(t, Name(tt.path, ".c"), Name(tt.path, ".c"))
		})
	}
}

func newPreparer(t *testing.T, collision string) (*Preparer, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.New()
	cfg.OutputRoot = filepath.Join(root, "out")
	cfg.Collision = collision
	return NewPreparer(cfg), root
}

func writeInput(t *testing.T, root, rel, content string) domain.InputFile {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return domain.InputFile{Path: path, AbsPath: path}
}

func TestPreparer_Prepare(t *testing.T) {
	p, root := newPreparer(t, config.CollisionHash)
	require.NoError(t, p.Reset())

	b := writeInput(t, root, "src/b.c", "int main() { return 2; }")
	a := writeInput(t, root, "src/a.c", "int main() { return 1; }")

	jobs, err := p.Prepare([]domain.InputFile{b, a, b})
	require.NoError(t, err)
	require.Len(t, jobs, 2, "duplicates collapse to one job")

	assert.True(t, jobs[0].Workspace < jobs[1].Workspace, "jobs are sorted by workspace path")
	assert.Equal(t, a.Path, jobs[0].Input.Path)

	for _, job := range jobs {
		copied, err := os.ReadFile(filepath.Join(job.Workspace, config.DefaultCanonicalSource))
		require.NoError(t, err)
		original, err := os.ReadFile(job.Input.Path)
		require.NoError(t, err)
		assert.Equal(t, original, copied)
	}
}

func TestPreparer_Plan_Deterministic(t *testing.T) {
	p, root := newPreparer(t, config.CollisionHash)
	inputs := []domain.InputFile{
		writeInput(t, root, "x/one.c", ""),
		writeInput(t, root, "y/two.c", ""),
		writeInput(t, root, "a/three.c", ""),
	}

	first, err := p.Plan(inputs)
	require.NoError(t, err)
	reversed := []domain.InputFile{inputs[2], inputs[1], inputs[0]}
	second, err := p.Plan(reversed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPreparer_ScopeViolation(t *testing.T) {
	p, _ := newPreparer(t, config.CollisionHash)
	require.NoError(t, p.Reset())

	inside := writeInput(t, p.outputRoot, "old/input.c", "")
	_, err := p.Prepare([]domain.InputFile{inside})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

func TestPreparer_Reset(t *testing.T) {
	p, _ := newPreparer(t, config.CollisionHash)
	require.NoError(t, p.Reset())

	stale := filepath.Join(p.outputRoot, "stale", "asm-ref.s")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	require.NoError(t, p.Reset())
	entries, err := os.ReadDir(p.outputRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPreparer_Reset_RefusesInsideOutputRoot(t *testing.T) {
	p, _ := newPreparer(t, config.CollisionHash)
	require.NoError(t, os.MkdirAll(p.outputRoot, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(p.outputRoot))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.ErrorIs(t, p.Reset(), domain.ErrScopeViolation)
}

// Two distinct inputs whose names collide: "a-b/c.c" and "a/b-c.c" both map to "a-b-c".
func collidingInputs(t *testing.T) []domain.InputFile {
	t.Helper()
	root := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	first := writeInput(t, root, "a-b/c.c", "first")
	second := writeInput(t, root, "a/b-c.c", "second")
	first.Path, second.Path = "a-b/c.c", "a/b-c.c"
	return []domain.InputFile{first, second}
}

func TestPreparer_Collision(t *testing.T) {
	t.Run("hash keeps both inputs", func(t *testing.T) {
		inputs := collidingInputs(t)
		p, _ := newPreparer(t, config.CollisionHash)

		jobs, err := p.Plan(inputs)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.NotEqual(t, jobs[0].Workspace, jobs[1].Workspace)
		for _, job := range jobs {
			assert.True(t, strings.HasPrefix(job.Name, "a-b-c-"), job.Name)
			assert.Len(t, job.Name, len("a-b-c-")+8)
		}
	})

	t.Run("error rejects ambiguous names", func(t *testing.T) {
		inputs := collidingInputs(t)
		p, _ := newPreparer(t, config.CollisionError)

		_, err := p.Plan(inputs)
		assert.ErrorIs(t, err, domain.ErrWorkspaceCollision)
	})

	t.Run("last-wins keeps the last input", func(t *testing.T) {
		inputs := collidingInputs(t)
		p, _ := newPreparer(t, config.CollisionLastWins)

		jobs, err := p.Plan(inputs)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "a-b-c", jobs[0].Name)
		assert.Equal(t, "a/b-c.c", jobs[0].Input.Path)
	})
}
