package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Electrux/CCP4M-Final/internal/platform"
)

// TargetType selects how a target's objects are combined.
type TargetType string

const (
	Binary  TargetType = "bin"
	Library TargetType = "lib"
)

// Normalize maps accepted aliases onto the canonical type names.
func (t TargetType) Normalize() TargetType {
	switch strings.ToLower(strings.TrimSpace(string(t))) {
	case "bin", "binary":
		return Binary
	case "lib", "library":
		return Library
	}
	return t
}

// TestSuite declares the harness built by `project test`.
type TestSuite struct {
	Sources []string `yaml:"sources,omitempty"`
	Libs    []string `yaml:"libs,omitempty"`
}

// Target is one buildable unit of the project.
type Target struct {
	Name        string                 `yaml:"name,omitempty"`
	Type        TargetType             `yaml:"type"`
	MainSource  string                 `yaml:"main_source,omitempty"`
	Sources     []string               `yaml:"sources"`
	IncludeDirs []string               `yaml:"include_dirs,omitempty"`
	LibDirs     []string               `yaml:"lib_dirs,omitempty"`
	Libs        []string               `yaml:"libs,omitempty"`
	Flags       platform.Value[string] `yaml:"flags,omitempty"`
	Defines     platform.Value[string] `yaml:"defines,omitempty"`
	LinkFlags   platform.Value[string] `yaml:"link_flags,omitempty"`
	OutputName  string                 `yaml:"output_name,omitempty"`
	Tests       *TestSuite             `yaml:"tests,omitempty"`
}

// ValidationError reports a malformed target.
type ValidationError struct {
	Index  int
	Target string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid target #%d (%s): %s", e.Index, e.Target, e.Reason)
}

// TargetName returns the name of target i, defaulting to the project name
// for the first target and <project>_<i> for the rest.
func (d *Descriptor) TargetName(i int) string {
	if n := strings.TrimSpace(d.Targets[i].Name); n != "" {
		return n
	}
	if i == 0 {
		return d.Name
	}
	return fmt.Sprintf("%s_%d", d.Name, i)
}

// OutputName returns the artifact base name of target i.
func (d *Descriptor) OutputName(i int) string {
	if n := strings.TrimSpace(d.Targets[i].OutputName); n != "" {
		return n
	}
	return d.TargetName(i)
}

// TargetIndex resolves a target by name.
func (d *Descriptor) TargetIndex(name string) (int, bool) {
	for i := range d.Targets {
		if d.TargetName(i) == name {
			return i, true
		}
	}
	return 0, false
}

// Validate checks every target in declaration order and returns the first
// problem as a *ValidationError.
func (d *Descriptor) Validate(root string) error {
	seen := make(map[string]int, len(d.Targets))
	for i := range d.Targets {
		name := d.TargetName(i)
		if prev, dup := seen[name]; dup {
			return &ValidationError{Index: i, Target: name, Reason: fmt.Sprintf("name already used by target #%d", prev)}
		}
		seen[name] = i
		if err := d.ValidateTarget(root, i); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTarget checks the names, type and source list of target i.
func (d *Descriptor) ValidateTarget(root string, i int) error {
	t := d.Targets[i]
	if reason := checkName("name", d.TargetName(i)); reason != "" {
		return d.invalid(i, reason)
	}
	if reason := checkName("output_name", d.OutputName(i)); reason != "" {
		return d.invalid(i, reason)
	}
	switch t.Type {
	case Binary, Library:
	case "":
		return d.invalid(i, "missing type (expected bin or lib)")
	default:
		return d.invalid(i, fmt.Sprintf("unknown type %q (expected bin or lib)", t.Type))
	}
	sources, err := d.Sources(root, i)
	if err != nil {
		return err
	}
	if t.MainSource != "" {
		main := filepath.Clean(t.MainSource)
		found := false
		for _, s := range sources {
			if s == main {
				found = true
				break
			}
		}
		if !found {
			return d.invalid(i, fmt.Sprintf("main_source %q is not among the sources", t.MainSource))
		}
	}
	return nil
}

// Sources returns the expanded, cleaned source list of target i.
func (d *Descriptor) Sources(root string, i int) ([]string, error) {
	out, reason := expandSources(root, d.Targets[i].Sources)
	if reason != "" {
		return nil, d.invalid(i, reason)
	}
	if len(out) == 0 {
		return nil, d.invalid(i, "no sources")
	}
	return out, nil
}

// TestSources returns the expanded test harness sources of target i.
func (d *Descriptor) TestSources(root string, i int) ([]string, error) {
	var patterns []string
	if d.Targets[i].Tests != nil {
		patterns = d.Targets[i].Tests.Sources
	}
	out, reason := expandSources(root, patterns)
	if reason != "" {
		return nil, d.invalid(i, "tests: "+reason)
	}
	if len(out) == 0 {
		return nil, d.invalid(i, "no test sources")
	}
	return out, nil
}

// checkName rejects names that would not stay a single path element under
// the build directories.
func checkName(field, name string) string {
	switch {
	case name == "":
		return field + " is empty"
	case name == "." || name == "..":
		return fmt.Sprintf("%s %q is not a valid file name", field, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Sprintf("%s %q must not contain a path separator", field, name)
	}
	return ""
}

func (d *Descriptor) invalid(i int, reason string) *ValidationError {
	return &ValidationError{Index: i, Target: d.TargetName(i), Reason: reason}
}

// expandSources resolves glob entries relative to root and rejects empty,
// absolute, escaping and duplicate entries. It returns a reason on failure.
func expandSources(root string, patterns []string) ([]string, string) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) string {
		p = filepath.Clean(p)
		if filepath.IsAbs(p) {
			return fmt.Sprintf("source %q must be relative to the project root", p)
		}
		if p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
			return fmt.Sprintf("source %q is outside the project root", p)
		}
		if seen[p] {
			return fmt.Sprintf("duplicate source %q", p)
		}
		seen[p] = true
		out = append(out, p)
		return ""
	}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			return nil, "empty source entry"
		}
		if !strings.ContainsAny(pattern, "*?[") {
			if reason := add(pattern); reason != "" {
				return nil, reason
			}
			continue
		}
		if filepath.IsAbs(pattern) {
			return nil, fmt.Sprintf("source %q must be relative to the project root", pattern)
		}
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Sprintf("bad source pattern %q: %v", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Sprintf("source pattern %q matches no files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			rel, err := filepath.Rel(root, m)
			if err != nil {
				return nil, fmt.Sprintf("bad source %q: %v", m, err)
			}
			if reason := add(rel); reason != "" {
				return nil, reason
			}
		}
	}
	return out, ""
}
