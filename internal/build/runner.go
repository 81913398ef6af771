package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes toolchain commands.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// ExecRunner runs commands as child processes. Each child leads its own
// process group, which is killed when ctx is cancelled.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts c and waits for it. A non-zero exit, a start failure or a
// cancellation is returned as *ToolchainError.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = os.Environ()
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return &ToolchainError{Command: c.String(), ExitCode: -1, Err: err}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			killProcessGroup(cmd)
		case <-done:
		}
	}()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return &ToolchainError{Command: c.String(), ExitCode: -1, Err: fmt.Errorf("command aborted: %w", ctx.Err())}
		}
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ToolchainError{Command: c.String(), ExitCode: code, Err: err}
	}
	return nil
}
