package build

import (
	"context"

	"github.com/Electrux/CCP4M-Final/internal/logging"
	"github.com/Electrux/CCP4M-Final/internal/project"
)

// TargetResult summarizes one target of a run.
type TargetResult struct {
	Target   string
	Artifact string
	Compiled int
	UpToDate int
	Linked   bool
	// Ran is set when a test harness was executed.
	Ran bool
}

// UnitBuilder compiles one target and links or archives its artifact.
type UnitBuilder struct {
	s *Session
}

func NewUnitBuilder(s *Session) *UnitBuilder {
	return &UnitBuilder{s: s.withDefaults()}
}

// Build brings target i of d up to date. Sources whose object is current
// are skipped; the artifact is relinked when anything was compiled, when
// it is missing, or when an object is newer than it.
func (b *UnitBuilder) Build(ctx context.Context, d *project.Descriptor, i int) (*TargetResult, error) {
	s := b.s
	if err := d.ValidateTarget(s.Root, i); err != nil {
		return nil, err
	}
	sources, err := d.Sources(s.Root, i)
	if err != nil {
		return nil, err
	}

	ws := s.workspace()
	name := d.TargetName(i)
	t := d.Targets[i]
	cc := s.Toolchain.Compiler(d.Language())

	units := make([]unit, len(sources))
	for k, src := range sources {
		units[k] = unit{source: src, object: ws.ObjectPath(name, src)}
	}

	res := &TargetResult{Target: name}
	res.Compiled, res.UpToDate, err = s.compileUnits(ctx, name, cc, compileArgs(d, i, s.Platform), units)
	if err != nil {
		return res, err
	}

	objects := objectsOf(units)
	var cmd Command
	switch t.Type {
	case project.Library:
		res.Artifact = ws.LibraryPath(d.OutputName(i))
		cmd = archiveCommand(s.Toolchain.AR, s.Root, objects, res.Artifact+stagingSuffix)
	default:
		res.Artifact = ws.BinaryPath(d.OutputName(i))
		cmd = linkCommand(cc, s.Root, objects, res.Artifact+stagingSuffix, linkArgs(t, s.Platform, t.Libs))
	}

	if res.Compiled == 0 && !s.needsRelink(objects, res.Artifact) {
		s.Logger.Debug("artifact up to date", logging.Target(name), logging.Artifact(res.Artifact))
		return res, nil
	}
	if err := s.step(ctx, name, cmd, res.Artifact); err != nil {
		return res, err
	}
	res.Linked = true
	return res, nil
}
