package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dct/internal/classify"
	"dct/internal/config"
	"dct/internal/domain"
)

func newRunner(timeout time.Duration) *Runner {
	cfg := config.New()
	cfg.Timeout = timeout
	return NewRunner(cfg, nil)
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	runner := newRunner(5 * time.Second)
	ctx := context.Background()

	t.Run("captures output and status", func(t *testing.T) {
		result, err := runner.Run(ctx, []string{"/bin/sh", "-c", "echo out; echo err >&2; exit 3"}, dir, "")
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitStatus)
		assert.Equal(t, "out\n", result.Stdout)
		assert.Contains(t, result.Output, "out\n")
		assert.Contains(t, result.Output, "err\n")
		assert.False(t, result.Succeeded())
		assert.Empty(t, result.LogPath)
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		result, err := runner.Run(ctx, []string{"/bin/sh", "-c", "pwd -P"}, dir, "")
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		assert.Equal(t, want, strings.TrimSpace(result.Stdout))
		assert.True(t, result.Succeeded())
	})

	t.Run("writes log artifact", func(t *testing.T) {
		result, err := runner.Run(ctx, []string{"/bin/sh", "-c", "echo hello; exit 42"}, dir, "stage.txt")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "stage.txt"), result.LogPath)

		content, err := os.ReadFile(result.LogPath)
		require.NoError(t, err)
		assert.Equal(t, "hello\n\nexit status: 42\n", string(content))
	})

	t.Run("overwrites previous log", func(t *testing.T) {
		_, err := runner.Run(ctx, []string{"/bin/sh", "-c", "echo first"}, dir, "again.txt")
		require.NoError(t, err)
		_, err = runner.Run(ctx, []string{"/bin/sh", "-c", "true"}, dir, "again.txt")
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dir, "again.txt"))
		require.NoError(t, err)
		assert.Equal(t, "\nexit status: 0\n", string(content))
	})

	t.Run("missing binary is an environment error", func(t *testing.T) {
		_, err := runner.Run(ctx, []string{filepath.Join(dir, "no-such-binary")}, dir, "")
		assert.ErrorIs(t, err, domain.ErrEnvironment)
	})

	t.Run("empty argv is an environment error", func(t *testing.T) {
		_, err := runner.Run(ctx, nil, dir, "")
		assert.ErrorIs(t, err, domain.ErrEnvironment)
	})
}

func TestRunner_KilledBySignal(t *testing.T) {
	dir := t.TempDir()
	runner := newRunner(5 * time.Second)

	segv, err := runner.Run(context.Background(), []string{"/bin/sh", "-c", "kill -SEGV $$"}, dir, "segv.txt")
	require.NoError(t, err)
	fpe, err := runner.Run(context.Background(), []string{"/bin/sh", "-c", "kill -FPE $$"}, dir, "fpe.txt")
	require.NoError(t, err)

	assert.Equal(t, 128+11, segv.ExitStatus)
	assert.Equal(t, 128+8, fpe.ExitStatus)
	assert.False(t, segv.TimedOut)
	assert.False(t, segv.Succeeded())

	classifier := classify.NewClassifier(config.New())
	assert.False(t, classifier.SameExecution(segv, fpe))

	content, err := os.ReadFile(segv.LogPath)
	require.NoError(t, err)
	assert.Equal(t, "\nexit status: 139\n", string(content))
}

func TestRunner_Timeout(t *testing.T) {
	dir := t.TempDir()
	runner := newRunner(200 * time.Millisecond)

	result, err := runner.Run(context.Background(), []string{"/bin/sh", "-c", "exec sleep 5"}, dir, "slow.txt")
	require.NoError(t, err)
	assert.True(t, result.TimedOut)
	assert.Equal(t, -1, result.ExitStatus)
	assert.False(t, result.Succeeded())

	content, err := os.ReadFile(result.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "timed out after 200ms")
}

func TestRunner_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(0).Run(ctx, []string{"/bin/sh", "-c", "true"}, t.TempDir(), "")
	assert.ErrorIs(t, err, context.Canceled)
}
