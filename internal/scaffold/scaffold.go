// Package scaffold lays out a new project directory.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/paths"
	"github.com/Electrux/CCP4M-Final/internal/platform"
	"github.com/Electrux/CCP4M-Final/internal/project"
)

var (
	ErrInvalidName = errors.New("invalid project name")
	ErrExists      = errors.New("project directory is not empty")
)

// Options describe the project to create.
type Options struct {
	Name string
	// Dir is the parent directory; the project is created in Dir/Name.
	Dir  string
	Type project.TargetType
	Lang string
	// Std is the language standard; zero picks 11 for C and 17 for C++.
	Std    int
	Author *project.Author
	// Git initializes a repository in the new directory.
	Git bool
}

// Create writes the project skeleton and returns its root.
func Create(opts Options) (string, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, opts.Name)
	}
	lang := "c++"
	if opts.Lang == "c" {
		lang = "c"
	} else if opts.Lang != "" && opts.Lang != "c++" && opts.Lang != "cpp" {
		return "", fmt.Errorf("unknown language %q (valid: c, c++)", opts.Lang)
	}
	kind := opts.Type.Normalize()
	if kind == "" {
		kind = project.Binary
	}
	if kind != project.Binary && kind != project.Library {
		return "", fmt.Errorf("unknown target type %q (valid: bin, lib)", opts.Type)
	}
	std := opts.Std
	if std == 0 {
		std = 17
		if lang == "c" {
			std = 11
		}
	}

	root := filepath.Join(opts.Dir, name)
	if entries, err := os.ReadDir(root); err == nil && len(entries) > 0 {
		return "", fmt.Errorf("%w: %s", ErrExists, root)
	}

	src, hdr := ".cpp", ".hpp"
	if lang == "c" {
		src, hdr = ".c", ".h"
	}

	target := project.Target{
		Type:        kind,
		Sources:     []string{"src/*" + src},
		IncludeDirs: []string{"include"},
		Flags:       platform.Of("-O2 -Wall"),
	}
	files := map[string]string{
		".gitignore": gitignore,
	}
	target.Tests = &project.TestSuite{Sources: []string{"tests/*" + src}}
	if lang == "c" {
		// C harnesses carry their own main instead of gtest_main.
		target.Tests.Libs = []string{"m"}
	}
	switch kind {
	case project.Binary:
		target.MainSource = "src/main" + src
		files[target.MainSource] = mainSource(lang)
		files["include/.gitkeep"] = ""
	case project.Library:
		files["src/"+name+src] = librarySource(name, hdr)
		files["include/"+name+hdr] = libraryHeader(name)
	}
	files["tests/test_"+ident(name)+src] = testSource(lang, name, hdr, kind)

	for rel, content := range files {
		p := filepath.Join(root, rel)
		if err := fsutil.CreateDir(filepath.Dir(p)); err != nil {
			return "", err
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", rel, err)
		}
	}

	d := &project.Descriptor{
		Name:    name,
		Version: "0.1.0",
		Lang:    lang,
		Std:     platform.Of(std),
		Author:  opts.Author,
		Targets: []project.Target{target},
	}
	if err := d.Save(filepath.Join(root, paths.DescriptorFile)); err != nil {
		return "", err
	}

	if opts.Git {
		if _, err := git.PlainInit(root, false); err != nil {
			return "", fmt.Errorf("initialize git repository: %w", err)
		}
	}
	return root, nil
}

var gitignore = strings.Join([]string{paths.ObjectsDir + "/", paths.LibDir + "/", paths.BinDir + "/", ".env", ""}, "\n")

func mainSource(lang string) string {
	if lang == "c" {
		return `#include <stdio.h>

int main(void)
{
	printf("Hello, world!\n");
	return 0;
}
`
	}
	return `#include <iostream>

int main()
{
	std::cout << "Hello, world!\n";
	return 0;
}
`
}

func testSource(lang, name, hdr string, kind project.TargetType) string {
	fn := ident(name) + "_version"
	switch {
	case lang == "c" && kind == project.Library:
		return fmt.Sprintf("#include <assert.h>\n#include \"%s%s\"\n\nint main(void)\n{\n\tassert(%s() == 1);\n\treturn 0;\n}\n", name, hdr, fn)
	case lang == "c":
		return "#include <assert.h>\n\nint main(void)\n{\n\tassert(1 + 1 == 2);\n\treturn 0;\n}\n"
	case kind == project.Library:
		return fmt.Sprintf("#include <gtest/gtest.h>\n#include \"%s%s\"\n\nTEST(%s, Version)\n{\n\tEXPECT_EQ(%s(), 1);\n}\n", name, hdr, testSuiteName(name), fn)
	}
	return fmt.Sprintf("#include <gtest/gtest.h>\n\nTEST(%s, Sample)\n{\n\tEXPECT_EQ(1 + 1, 2);\n}\n", testSuiteName(name))
}

// testSuiteName is a gtest suite name; gtest rejects underscores there.
func testSuiteName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range ident(name) {
		if r == '_' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	if b.Len() == 0 || (b.String()[0] >= '0' && b.String()[0] <= '9') {
		return "Project" + b.String()
	}
	return b.String()
}

func libraryHeader(name string) string {
	guard := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name)) + "_H"
	return fmt.Sprintf("#ifndef %s\n#define %s\n\nint %s_version(void);\n\n#endif\n", guard, guard, ident(name))
}

func librarySource(name, hdr string) string {
	return fmt.Sprintf("#include \"%s%s\"\n\nint %s_version(void)\n{\n\treturn 1;\n}\n", name, hdr, ident(name))
}

func ident(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
