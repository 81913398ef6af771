package build

import (
	"strconv"
	"strings"

	"github.com/Electrux/CCP4M-Final/internal/platform"
	"github.com/Electrux/CCP4M-Final/internal/project"
)

// Command is one external program invocation. Dir is the working directory;
// Args are relative to it.
type Command struct {
	Path string
	Args []string
	Dir  string
}

// String renders the command as a shell line.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellQuote(c.Path))
	for _, a := range c.Args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_+=./,:@%^", r):
		default:
			safe = false
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// compileArgs are the flags shared by every compile of a target: standard,
// free-form flags, include directories and defines, resolved for p.
// Free-form flag strings are split on whitespace; quoting is not supported.
func compileArgs(d *project.Descriptor, i int, p platform.Platform) []string {
	t := d.Targets[i]
	var args []string
	if std, ok := d.Std.Resolve(p); ok {
		args = append(args, "-std="+d.Language()+strconv.Itoa(std))
	}
	args = append(args, strings.Fields(t.Flags.Get(p))...)
	for _, dir := range t.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	for _, def := range strings.Fields(t.Defines.Get(p)) {
		args = append(args, "-D"+def)
	}
	return args
}

// linkArgs follow the output: link flags, library directories, libraries.
func linkArgs(t project.Target, p platform.Platform, libs []string) []string {
	args := strings.Fields(t.LinkFlags.Get(p))
	for _, dir := range t.LibDirs {
		args = append(args, "-L"+dir)
	}
	for _, lib := range libs {
		args = append(args, "-l"+lib)
	}
	return args
}

func compileCommand(cc, dir string, base []string, source, output string) Command {
	args := make([]string, 0, len(base)+4)
	args = append(args, base...)
	args = append(args, "-c", source, "-o", output)
	return Command{Path: cc, Args: args, Dir: dir}
}

func linkCommand(cc, dir string, objects []string, output string, tail []string) Command {
	args := make([]string, 0, len(objects)+len(tail)+2)
	args = append(args, objects...)
	args = append(args, "-o", output)
	args = append(args, tail...)
	return Command{Path: cc, Args: args, Dir: dir}
}

func archiveCommand(ar, dir string, objects []string, output string) Command {
	args := append([]string{"rcs", output}, objects...)
	return Command{Path: ar, Args: args, Dir: dir}
}
