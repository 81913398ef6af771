package build

import (
	"errors"
	"fmt"

	"github.com/Electrux/CCP4M-Final/internal/project"
)

var (
	// ErrNoDescriptor indicates the project root has no ccp4m.yaml
	ErrNoDescriptor = errors.New("project descriptor not found")
	// ErrUnnamedProject indicates a descriptor that was never initialized
	ErrUnnamedProject = errors.New("project has no name")
	// ErrWorkspace indicates a build directory could not be created
	ErrWorkspace = errors.New("unable to create build directories")
	// ErrUnknownTarget indicates a target selector matched nothing
	ErrUnknownTarget = errors.New("no such target")
)

// ValidationError reports a malformed target; see project.ValidationError.
type ValidationError = project.ValidationError

// ToolchainError reports a compiler, archiver, linker or test harness
// invocation that did not exit zero. ExitCode is -1 when the process could
// not be started or was killed.
type ToolchainError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ToolchainError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("failed to run `%s`: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("`%s` exited with status %d", e.Command, e.ExitCode)
}

func (e *ToolchainError) Unwrap() error { return e.Err }
