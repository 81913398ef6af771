package build

import (
	"context"
	"path/filepath"

	"github.com/Electrux/CCP4M-Final/internal/logging"
	"github.com/Electrux/CCP4M-Final/internal/project"
)

// DefaultTestLibs are linked into a harness whose target declares none.
var DefaultTestLibs = []string{"gtest", "gtest_main", "pthread"}

// TestUnitBuilder builds the test harness of a target: the target's
// sources minus its main source, plus the declared test sources, linked
// into bin/test_<output> and then run.
type TestUnitBuilder struct {
	s *Session
}

func NewTestUnitBuilder(s *Session) *TestUnitBuilder {
	return &TestUnitBuilder{s: s.withDefaults()}
}

// Build compiles and links the harness of target i and runs it unless the
// session has NoRun set. The release artifact and build_date are never
// touched.
func (b *TestUnitBuilder) Build(ctx context.Context, d *project.Descriptor, i int) (*TargetResult, error) {
	s := b.s
	if err := d.ValidateTarget(s.Root, i); err != nil {
		return nil, err
	}
	sources, err := d.Sources(s.Root, i)
	if err != nil {
		return nil, err
	}
	testSources, err := d.TestSources(s.Root, i)
	if err != nil {
		return nil, err
	}

	ws := s.workspace()
	name := d.TargetName(i)
	t := d.Targets[i]
	cc := s.Toolchain.Compiler(d.Language())
	main := ""
	if t.MainSource != "" {
		main = filepath.Clean(t.MainSource)
	}

	var units []unit
	for _, src := range sources {
		if src == main {
			continue
		}
		units = append(units, unit{source: src, object: ws.ObjectPath(name, src)})
	}
	for _, src := range testSources {
		units = append(units, unit{source: src, object: ws.TestObjectPath(name, src)})
	}

	res := &TargetResult{Target: name, Artifact: ws.TestBinaryPath(d.OutputName(i))}
	res.Compiled, res.UpToDate, err = s.compileUnits(ctx, name, cc, compileArgs(d, i, s.Platform), units)
	if err != nil {
		return res, err
	}

	libs := append([]string{}, t.Libs...)
	if t.Tests != nil && len(t.Tests.Libs) > 0 {
		libs = append(libs, t.Tests.Libs...)
	} else {
		libs = append(libs, DefaultTestLibs...)
	}
	objects := objectsOf(units)
	if res.Compiled > 0 || s.needsRelink(objects, res.Artifact) {
		cmd := linkCommand(cc, s.Root, objects, res.Artifact+stagingSuffix, linkArgs(t, s.Platform, libs))
		if err := s.step(ctx, name, cmd, res.Artifact); err != nil {
			return res, err
		}
		res.Linked = true
	}

	if s.NoRun {
		return res, nil
	}
	run := Command{Path: "./" + filepath.ToSlash(res.Artifact), Dir: s.Root}
	if s.DryRun {
		s.Display.Command(run.String())
		return res, nil
	}
	s.Display.Step("Running %s", res.Artifact)
	s.Logger.Info("running tests", logging.Target(name), logging.Artifact(res.Artifact))
	if err := s.Runner.Run(ctx, run); err != nil {
		s.Logger.Error("tests failed", logging.Target(name), logging.Error(err))
		return res, err
	}
	res.Ran = true
	return res, nil
}
