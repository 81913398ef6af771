// Package build compiles and links the targets of a project descriptor.
//
// A Session carries everything a build needs: the project root, the
// toolchain, the platform flags are resolved for, and the collaborators
// that run commands, judge staleness and report progress. Nothing in the
// package reads process-wide state.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Electrux/CCP4M-Final/internal/config"
	"github.com/Electrux/CCP4M-Final/internal/display"
	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/logging"
	"github.com/Electrux/CCP4M-Final/internal/platform"
)

// stagingSuffix marks an output that is still being written.
const stagingSuffix = ".tmp"

// Session is the context of one build invocation.
type Session struct {
	Root      string
	Toolchain config.Toolchain
	Platform  platform.Platform
	Runner    Runner
	Tracker   Tracker
	Display   *display.Display
	Logger    *slog.Logger
	// Jobs bounds concurrent compiles within a target. Values below one
	// mean one. Dry runs are always sequential.
	Jobs   int
	DryRun bool
	// NoRun skips executing the test harness after linking it.
	NoRun bool
	Now   func() time.Time
}

func (s *Session) withDefaults() *Session {
	c := *s
	if c.Runner == nil {
		c.Runner = &ExecRunner{}
	}
	if c.Tracker == nil {
		c.Tracker = ModTimeTracker{}
	}
	if c.Display == nil {
		c.Display = display.Discard()
	}
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Jobs < 1 || c.DryRun {
		c.Jobs = 1
	}
	return &c
}

func (s *Session) workspace() Workspace {
	return Workspace{Root: s.Root}
}

// unit is one source and the object it compiles to, both root-relative.
type unit struct {
	source string
	object string
}

func objectsOf(units []unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.object
	}
	return out
}

// compileUnits compiles every stale unit with base flags and returns how
// many were (or in a dry run would be) compiled and how many were current.
// The first failure cancels the remaining compiles.
func (s *Session) compileUnits(ctx context.Context, target, cc string, base []string, units []unit) (compiled, upToDate int, err error) {
	ws := s.workspace()
	var stale []unit
	for _, u := range units {
		if s.Tracker.IsStale(ws.Abs(u.source), ws.Abs(u.object)) {
			stale = append(stale, u)
		}
	}
	upToDate = len(units) - len(stale)
	if len(stale) == 0 {
		return 0, upToDate, nil
	}

	var bar display.Progress = display.NoProgress{}
	if !s.DryRun {
		bar = s.Display.Progress(len(stale), "compiling "+target)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Jobs)
	for _, u := range stale {
		u := u // per-iteration copy; go.mod targets Go 1.21 loop semantics
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			staged := u.object + stagingSuffix
			cmd := compileCommand(cc, s.Root, base, u.source, staged)
			if err := s.step(gctx, target, cmd, u.object, logging.Source(u.source)); err != nil {
				return err
			}
			_ = bar.Add(1)
			return nil
		})
	}
	err = g.Wait()
	_ = bar.Finish()
	if err != nil {
		return 0, upToDate, err
	}
	return len(stale), upToDate, nil
}

// needsRelink reports whether artifact is missing or older than any object.
func (s *Session) needsRelink(objects []string, artifact string) bool {
	ws := s.workspace()
	for _, obj := range objects {
		if s.Tracker.IsStale(ws.Abs(obj), ws.Abs(artifact)) {
			return true
		}
	}
	return false
}

// step runs cmd, which writes output+stagingSuffix, and moves the staged
// file over output on success. A failed step leaves output untouched. In a
// dry run the command line is printed instead.
func (s *Session) step(ctx context.Context, target string, cmd Command, output string, attrs ...slog.Attr) error {
	line := cmd.String()
	if s.DryRun {
		s.Display.Command(line)
		return nil
	}

	ws := s.workspace()
	final := ws.Abs(output)
	staged := final + stagingSuffix
	if err := fsutil.CreateDir(filepath.Dir(final)); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkspace, err)
	}
	if err := fsutil.Delete(staged); err != nil {
		return err
	}

	args := []any{logging.Target(target), logging.Artifact(output), logging.Command(line)}
	for _, a := range attrs {
		args = append(args, a)
	}
	s.Logger.Debug("running toolchain", args...)

	start := s.Now()
	if err := s.Runner.Run(ctx, cmd); err != nil {
		_ = fsutil.Delete(staged)
		var tcErr *ToolchainError
		if !errors.As(err, &tcErr) {
			err = &ToolchainError{Command: line, ExitCode: -1, Err: err}
			errors.As(err, &tcErr)
		}
		s.Logger.Error("toolchain failed", append(args, logging.ExitCode(tcErr.ExitCode), logging.Error(err))...)
		return err
	}
	if err := os.Rename(staged, final); err != nil {
		return fmt.Errorf("install %s: %w", output, err)
	}
	s.Logger.Info("built", append(args, logging.DurationMS(s.Now().Sub(start).Milliseconds()))...)
	return nil
}
