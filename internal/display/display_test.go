package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	d := &Display{Out: &out, Err: &errOut}

	d.Step("Building %s", "hello")
	d.Detail("2 of 3 sources up to date")
	d.Command("c++ -c a.cpp -o a.o")
	d.Success("done")
	d.Warn("no targets")
	d.Failure("link failed")

	assert.Equal(t,
		"=> Building hello\n   2 of 3 sources up to date\nc++ -c a.cpp -o a.o\n✔ done\n! no targets\n",
		out.String())
	assert.Equal(t, "✘ link failed\n", errOut.String())
}

func TestCommandIsNeverColored(t *testing.T) {
	var out bytes.Buffer
	d := &Display{Out: &out, Err: &out, Color: true}

	d.Command("cc -c a.c -o a.o")
	assert.Equal(t, "cc -c a.c -o a.o\n", out.String())
}

func TestProgressDisabledWhenNotInteractive(t *testing.T) {
	var out bytes.Buffer
	d := &Display{Out: &out, Err: &out}
	p := d.Progress(10, "compiling")
	assert.IsType(t, NoProgress{}, p)

	require.NoError(t, p.Add(3))
	require.NoError(t, p.Finish())
	assert.Empty(t, out.String())
}

func TestCommandsWriter(t *testing.T) {
	var status, cmds bytes.Buffer
	d := New(&status, &status, true)
	assert.False(t, d.Color, "buffers are not terminals")
	d.Commands = &cmds

	d.Step("Building")
	d.Command("cc -c a.c -o a.o")
	assert.Equal(t, "=> Building\n", status.String())
	assert.Equal(t, "cc -c a.c -o a.o\n", cmds.String())
}
