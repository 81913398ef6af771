package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/history"
	"github.com/Electrux/CCP4M-Final/internal/logging"
	"github.com/Electrux/CCP4M-Final/internal/paths"
	"github.com/Electrux/CCP4M-Final/internal/project"
)

// Recorder persists a summary of each run.
type Recorder interface {
	Record(ctx context.Context, r history.Run) error
}

// Report summarizes a Build or Test run.
type Report struct {
	RunID    string
	Project  string
	Kind     history.Kind
	DryRun   bool
	Targets  []*TargetResult
	Duration time.Duration
}

func (r *Report) totals() (compiled, upToDate, linked int) {
	for _, t := range r.Targets {
		compiled += t.Compiled
		upToDate += t.UpToDate
		if t.Linked {
			linked++
		}
	}
	return compiled, upToDate, linked
}

// Orchestrator runs whole-project builds and test builds.
type Orchestrator struct {
	Session  *Session
	Recorder Recorder
}

func NewOrchestrator(s *Session, rec Recorder) *Orchestrator {
	return &Orchestrator{Session: s, Recorder: rec}
}

// Build validates every target, then builds them in declaration order and
// stops at the first failure. On success outside a dry run the descriptor's
// build_date is stamped and saved; otherwise the descriptor is not written.
func (o *Orchestrator) Build(ctx context.Context) (*Report, error) {
	return o.run(ctx, history.KindBuild, func(s *Session, d *project.Descriptor, rep *Report) error {
		if err := d.Validate(s.Root); err != nil {
			return err
		}
		if len(d.Targets) == 0 {
			s.Display.Warn("Project %s declares no targets", d.Name)
		}
		ub := &UnitBuilder{s: s}
		for i := range d.Targets {
			s.Display.Step("Building %s [%s]", d.TargetName(i), d.Targets[i].Type)
			res, err := ub.Build(ctx, d, i)
			if res != nil {
				rep.Targets = append(rep.Targets, res)
			}
			if err != nil {
				return fmt.Errorf("target %s: %w", d.TargetName(i), err)
			}
			describe(s, res)
		}
		if s.DryRun {
			return nil
		}
		d.StampBuildDate(s.Now())
		if err := d.Save(filepath.Join(s.Root, paths.DescriptorFile)); err != nil {
			return fmt.Errorf("update build date: %w", err)
		}
		return nil
	})
}

// Test builds the harness of the target chosen by selector: a name, an
// index, or empty for the first target.
func (o *Orchestrator) Test(ctx context.Context, selector string) (*Report, error) {
	return o.run(ctx, history.KindTest, func(s *Session, d *project.Descriptor, rep *Report) error {
		i, err := selectTarget(d, selector)
		if err != nil {
			return err
		}
		s.Display.Step("Building tests for %s", d.TargetName(i))
		res, err := (&TestUnitBuilder{s: s}).Build(ctx, d, i)
		if res != nil {
			rep.Targets = append(rep.Targets, res)
		}
		if err != nil {
			return fmt.Errorf("target %s: %w", d.TargetName(i), err)
		}
		describe(s, res)
		return nil
	})
}

func selectTarget(d *project.Descriptor, selector string) (int, error) {
	if len(d.Targets) == 0 {
		return 0, fmt.Errorf("%w: project declares no targets", ErrUnknownTarget)
	}
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return 0, nil
	}
	if i, ok := d.TargetIndex(selector); ok {
		return i, nil
	}
	if i, err := strconv.Atoi(selector); err == nil && i >= 0 && i < len(d.Targets) {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, selector)
}

func describe(s *Session, res *TargetResult) {
	if s.DryRun {
		return
	}
	s.Display.Detail("%d compiled, %d up to date", res.Compiled, res.UpToDate)
	if res.Linked {
		s.Display.Success("%s", res.Artifact)
	} else {
		s.Display.Success("%s is up to date", res.Artifact)
	}
}

// load checks the preconditions shared by every run and parses the
// descriptor.
func load(s *Session) (*project.Descriptor, error) {
	path := filepath.Join(s.Root, paths.DescriptorFile)
	if !fsutil.Exists(path) {
		return nil, fmt.Errorf("%w in %s", ErrNoDescriptor, s.Root)
	}
	if err := s.workspace().Ensure(); err != nil {
		return nil, err
	}
	d, err := project.Load(path)
	if errors.Is(err, project.ErrEmptyDescriptor) {
		return nil, ErrUnnamedProject
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.Name) == "" {
		return nil, ErrUnnamedProject
	}
	return d, nil
}

func (o *Orchestrator) run(ctx context.Context, kind history.Kind, body func(*Session, *project.Descriptor, *Report) error) (*Report, error) {
	s := o.Session.withDefaults()
	rep := &Report{RunID: history.NewRunID(), Kind: kind, DryRun: s.DryRun}
	s.Logger = s.Logger.With(logging.RunID(rep.RunID))
	start := s.Now()

	d, err := load(s)
	if err == nil {
		rep.Project = d.Name
		s.Logger = s.Logger.With(logging.Project(d.Name))
		s.Logger.Info("run started", "kind", string(kind), logging.DryRun(s.DryRun))
		err = body(s, d, rep)
	}
	rep.Duration = s.Now().Sub(start)

	compiled, upToDate, linked := rep.totals()
	if err != nil {
		s.Logger.Error("run failed", logging.Error(err), logging.DurationMS(rep.Duration.Milliseconds()))
	} else {
		s.Logger.Info("run finished",
			"compiled", compiled, "up_to_date", upToDate, "linked", linked,
			logging.DurationMS(rep.Duration.Milliseconds()))
	}

	if o.Recorder != nil && rep.Project != "" {
		r := history.Run{
			ID:        rep.RunID,
			Project:   rep.Project,
			Root:      s.Root,
			Kind:      kind,
			DryRun:    s.DryRun,
			StartedAt: start,
			Duration:  rep.Duration,
			Compiled:  compiled,
			UpToDate:  upToDate,
			Linked:    linked,
			Success:   err == nil,
		}
		if err != nil {
			r.Error = err.Error()
		}
		if recErr := o.Recorder.Record(context.WithoutCancel(ctx), r); recErr != nil {
			s.Logger.Warn("unable to record run", logging.Error(recErr))
		}
	}
	return rep, err
}
