//go:build unix

package build

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	var out bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &out}
	ctx := context.Background()

	require.NoError(t, r.Run(ctx, Command{Path: "sh", Args: []string{"-c", "echo hi"}, Dir: t.TempDir()}))
	assert.Equal(t, "hi\n", out.String())

	err := r.Run(ctx, Command{Path: "sh", Args: []string{"-c", "exit 3"}})
	var tcErr *ToolchainError
	require.ErrorAs(t, err, &tcErr)
	assert.Equal(t, 3, tcErr.ExitCode)
	assert.Equal(t, "sh -c 'exit 3'", tcErr.Command)

	err = r.Run(ctx, Command{Path: "definitely-not-a-compiler-xyz"})
	require.ErrorAs(t, err, &tcErr)
	assert.Equal(t, -1, tcErr.ExitCode)
}

func TestExecRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := (&ExecRunner{}).Run(ctx, Command{Path: "sh", Args: []string{"-c", "sleep 10"}})
	var tcErr *ToolchainError
	require.ErrorAs(t, err, &tcErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
