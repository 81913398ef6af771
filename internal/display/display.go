// Package display renders human-readable progress for the terminal. It owns
// no state beyond its writers; the audit log lives in package logging.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

type styler interface {
	Sprint(a ...any) string
}

var (
	colStep    styler = color.HEX("#00ACC1")
	colDetail  styler = color.Yellow
	colSuccess styler = color.Success
	colWarn    styler = color.Warn
	colError   styler = color.Error
)

// Display writes status lines to Out and failures to Err. Command lines go
// to Commands when set, else Out.
type Display struct {
	Out         io.Writer
	Err         io.Writer
	Commands    io.Writer
	Color       bool
	Interactive bool
}

// New returns a Display over out and errw. Color and the progress bar are
// only enabled when out is a terminal.
func New(out, errw io.Writer, wantColor bool) *Display {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &Display{
		Out:         out,
		Err:         errw,
		Color:       wantColor && tty,
		Interactive: tty,
	}
}

// Discard returns a Display that prints nothing.
func Discard() *Display {
	return &Display{Out: io.Discard, Err: io.Discard}
}

func (d *Display) paint(s styler, text string) string {
	if d.Color {
		return s.Sprint(text)
	}
	return text
}

// Step announces a phase: "Compiling hello ...".
func (d *Display) Step(format string, args ...any) {
	fmt.Fprintln(d.Out, d.paint(colStep, "=> ")+fmt.Sprintf(format, args...))
}

// Detail prints an indented secondary line.
func (d *Display) Detail(format string, args ...any) {
	fmt.Fprintln(d.Out, "   "+d.paint(colDetail, fmt.Sprintf(format, args...)))
}

func (d *Display) Success(format string, args ...any) {
	fmt.Fprintln(d.Out, d.paint(colSuccess, "✔ "+fmt.Sprintf(format, args...)))
}

func (d *Display) Warn(format string, args ...any) {
	fmt.Fprintln(d.Out, d.paint(colWarn, "! "+fmt.Sprintf(format, args...)))
}

func (d *Display) Failure(format string, args ...any) {
	fmt.Fprintln(d.Err, d.paint(colError, "✘ "+fmt.Sprintf(format, args...)))
}

// Command prints a toolchain command line verbatim and uncolored.
func (d *Display) Command(line string) {
	w := d.Commands
	if w == nil {
		w = d.Out
	}
	fmt.Fprintln(w, line)
}

// Progress tracks completed units of work.
type Progress interface {
	Add(n int) error
	Finish() error
}

// NoProgress reports nothing.
type NoProgress struct{}

func (NoProgress) Add(int) error { return nil }
func (NoProgress) Finish() error { return nil }

// Progress returns a bar over total units on interactive terminals and a
// no-op otherwise.
func (d *Display) Progress(total int, description string) Progress {
	if !d.Interactive || total <= 1 {
		return NoProgress{}
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(d.Out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(d.Color),
		progressbar.OptionClearOnFinish(),
	)
}
