package build

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Electrux/CCP4M-Final/internal/config"
	"github.com/Electrux/CCP4M-Final/internal/display"
	"github.com/Electrux/CCP4M-Final/internal/history"
	"github.com/Electrux/CCP4M-Final/internal/paths"
	"github.com/Electrux/CCP4M-Final/internal/platform"
)

var stamp = time.Date(2026, 10, 17, 12, 30, 0, 0, time.UTC)

// clock hands out strictly increasing modification times.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// fakeRunner records commands and materializes their outputs.
type fakeRunner struct {
	mu    sync.Mutex
	clock *clock
	calls []Command
	fail  func(Command) bool
}

func (f *fakeRunner) Run(_ context.Context, c Command) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if f.fail != nil && f.fail(c) {
		return &ToolchainError{Command: c.String(), ExitCode: 1, Err: errors.New("exit status 1")}
	}
	out := outputOf(c)
	if out == "" {
		return nil
	}
	p := filepath.Join(c.Dir, out)
	if err := os.WriteFile(p, []byte(c.String()), 0o644); err != nil {
		return err
	}
	ts := f.clock.next()
	return os.Chtimes(p, ts, ts)
}

func (f *fakeRunner) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.String()
	}
	return out
}

func (f *fakeRunner) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func outputOf(c Command) string {
	if len(c.Args) >= 2 && c.Args[0] == "rcs" {
		return c.Args[1]
	}
	for i, a := range c.Args {
		if a == "-o" && i+1 < len(c.Args) {
			return c.Args[i+1]
		}
	}
	return ""
}

type fakeRecorder struct {
	runs []history.Run
}

func (r *fakeRecorder) Record(_ context.Context, run history.Run) error {
	r.runs = append(r.runs, run)
	return nil
}

// fixture is a project on disk plus the session that builds it.
type fixture struct {
	t        *testing.T
	root     string
	clock    *clock
	runner   *fakeRunner
	commands *bytes.Buffer
	status   *bytes.Buffer
	session  *Session
}

func newFixture(t *testing.T, descriptor string, files ...string) *fixture {
	t.Helper()
	c := &clock{t: stamp.Add(-time.Hour)}
	f := &fixture{
		t:        t,
		root:     t.TempDir(),
		clock:    c,
		runner:   &fakeRunner{clock: c},
		commands: &bytes.Buffer{},
		status:   &bytes.Buffer{},
	}
	f.write(paths.DescriptorFile, descriptor)
	for _, name := range files {
		f.write(name, "/* "+name+" */\n")
	}
	f.session = &Session{
		Root:      f.root,
		Toolchain: config.Toolchain{CC: "cc", CXX: "c++", AR: "ar"},
		Platform:  platform.Linux,
		Runner:    f.runner,
		Display:   &display.Display{Out: f.status, Err: f.status, Commands: f.commands},
		Jobs:      1,
		Now:       func() time.Time { return stamp },
	}
	return f
}

func (f *fixture) write(rel, content string) {
	f.t.Helper()
	p := filepath.Join(f.root, rel)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(f.t, os.WriteFile(p, []byte(content), 0o644))
	ts := f.clock.next()
	require.NoError(f.t, os.Chtimes(p, ts, ts))
}

func (f *fixture) touch(rel string) {
	f.t.Helper()
	ts := f.clock.next()
	require.NoError(f.t, os.Chtimes(filepath.Join(f.root, rel), ts, ts))
}

func (f *fixture) read(rel string) []byte {
	f.t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, rel))
	require.NoError(f.t, err)
	return data
}

func (f *fixture) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(f.root, rel))
	return err == nil
}

func (f *fixture) commandLines() []string {
	return strings.Split(strings.TrimSpace(f.commands.String()), "\n")
}

func deleteFile(f *fixture, rel string) error {
	return os.Remove(filepath.Join(f.root, rel))
}
