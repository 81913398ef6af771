package build

import (
	"io/fs"
	"os"
)

// Tracker decides whether a source must be recompiled.
type Tracker interface {
	IsStale(source, artifact string) bool
}

// ModTimeTracker compares modification times. Anything it cannot stat is
// stale.
type ModTimeTracker struct {
	Stat func(string) (fs.FileInfo, error)
}

// IsStale reports whether artifact is missing, older than source, or
// either cannot be inspected.
func (t ModTimeTracker) IsStale(source, artifact string) bool {
	stat := t.Stat
	if stat == nil {
		stat = os.Stat
	}
	a, err := stat(artifact)
	if err != nil {
		return true
	}
	s, err := stat(source)
	if err != nil {
		return true
	}
	return s.ModTime().After(a.ModTime())
}
