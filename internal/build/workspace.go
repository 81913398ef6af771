package build

import (
	"fmt"
	"path/filepath"

	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/paths"
)

// Workspace maps sources and targets to paths under the build directories.
// All returned paths are relative to Root.
type Workspace struct {
	Root string
}

// Ensure creates the objects, library and binary directories.
func (w Workspace) Ensure() error {
	for _, dir := range []string{paths.ObjectsDir, paths.LibDir, paths.BinDir} {
		if err := fsutil.CreateDir(filepath.Join(w.Root, dir)); err != nil {
			return fmt.Errorf("%w: %v", ErrWorkspace, err)
		}
	}
	return nil
}

// ObjectPath is the object file for source within target.
func (w Workspace) ObjectPath(target, source string) string {
	return filepath.Join(paths.ObjectsDir, target, filepath.Clean(source)+".o")
}

// TestObjectPath is the object file for a test harness source.
func (w Workspace) TestObjectPath(target, source string) string {
	return filepath.Join(paths.ObjectsDir, target, "test", filepath.Clean(source)+".o")
}

func (w Workspace) BinaryPath(output string) string {
	return filepath.Join(paths.BinDir, output)
}

func (w Workspace) LibraryPath(output string) string {
	return filepath.Join(paths.LibDir, "lib"+output+".a")
}

func (w Workspace) TestBinaryPath(output string) string {
	return filepath.Join(paths.BinDir, "test_"+output)
}

// Abs resolves a workspace-relative path against Root.
func (w Workspace) Abs(rel string) string {
	return filepath.Join(w.Root, rel)
}
