package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"dct/internal/config"
	"dct/internal/domain"
	"dct/internal/ui"
)

// waitDelay bounds how long Wait lingers on pipes held open by grandchildren
const waitDelay = 2 * time.Second

// Runner executes one external command inside a job workspace
type Runner struct {
	timeout time.Duration
	logger  *ui.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, logger *ui.Logger) *Runner {
	return &Runner{timeout: cfg.Timeout, logger: logger}
}

// Run executes argv in dir with the current environment, capturing stdout and
// stderr merged. A non-zero exit is reported in the result, not as an error.
// The error is non-nil only when the command cannot be spawned at all, the
// parent context is cancelled, or the log artifact cannot be written.
// When logName is set the output and exit status are written to dir/logName.
func (r *Runner) Run(ctx context.Context, argv []string, dir, logName string) (*domain.ExecutionResult, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("%w: empty command", domain.ErrEnvironment)
	}
	r.logger.Verbosef(1, "dct: %s", strings.Join(argv, " "))

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// #nosec G204 -- argv comes from the configured toolchain templates.
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = cmd.Environ()
	cmd.WaitDelay = waitDelay

	var combined lockedBuffer
	var stdout bytes.Buffer
	cmd.Stdout = io.MultiWriter(&stdout, &combined)
	cmd.Stderr = &combined

	start := time.Now()
	err := cmd.Run()
	result := &domain.ExecutionResult{
		Argv:     argv,
		Output:   combined.String(),
		Stdout:   stdout.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitStatus = 0
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case runCtx.Err() == context.DeadlineExceeded:
		result.TimedOut = true
		result.ExitStatus = -1
	case errors.As(err, &exitErr):
		result.ExitStatus = exitStatus(exitErr)
	default:
		return nil, fmt.Errorf("%w: cannot run %s: %v", domain.ErrEnvironment, argv[0], err)
	}

	if logName != "" {
		result.LogPath = filepath.Join(dir, logName)
		if err := writeLog(result.LogPath, result, r.timeout); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// exitStatus reports the status the way a shell does: a process killed by a
// signal gets 128+signal so that different signals never compare equal
func exitStatus(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

// writeLog persists the captured output followed by the exit status line
func writeLog(path string, result *domain.ExecutionResult, timeout time.Duration) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close log %s: %w", path, cerr)
		}
	}()

	var b strings.Builder
	b.WriteString(result.Output)
	b.WriteString("\n")
	if result.TimedOut {
		fmt.Fprintf(&b, "timed out after %s\n", timeout)
	}
	fmt.Fprintf(&b, "exit status: %d\n", result.ExitStatus)
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write log %s: %w", path, err)
	}
	return nil
}

// lockedBuffer serializes writes coming from the stdout and stderr copiers
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
