package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Electrux/CCP4M-Final/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# hello project
name: hello
version: 0.1.0
std: 17
custom_key: kept as is
targets:
  - name: hello
    type: bin
    main_source: src/main.cpp
    sources: [src/main.cpp, src/util.cpp]
    flags:
      linux: -O2 -pthread
      mac: -O2
    link_flags: ["-lrt"]
    libs: [m]
  - name: core
    type: library
    sources: [src/util.cpp]
`

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ccp4m.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	d, err := Load(writeDescriptor(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "hello", d.Name)
	assert.Equal(t, "c++", d.Language())
	assert.Equal(t, 17, d.Std.Get(platform.Linux))
	require.Len(t, d.Targets, 2)
	assert.Equal(t, Binary, d.Targets[0].Type)
	assert.Equal(t, Library, d.Targets[1].Type, "library alias is normalized")
	assert.Equal(t, "-O2 -pthread", d.Targets[0].Flags.Get(platform.Linux))
	assert.Equal(t, "-lrt", d.Targets[0].LinkFlags.Get(platform.Linux))
	_, ok := d.Targets[0].LinkFlags.Resolve(platform.Mac)
	assert.False(t, ok)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "ccp4m.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(writeDescriptor(t, ""))
	assert.ErrorIs(t, err, ErrEmptyDescriptor)
}

func TestRoundTripWithoutChanges(t *testing.T) {
	path := writeDescriptor(t, sample)
	d, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, d.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# hello project")
	assert.Contains(t, string(data), "custom_key: kept as is")
	assert.NotContains(t, string(data), "build_date")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, d.Name, again.Name)
	assert.Equal(t, d.Version, again.Version)
	require.Len(t, again.Targets, 2)
	for i := range d.Targets {
		assert.Equal(t, d.Targets[i].Name, again.Targets[i].Name)
		assert.Equal(t, d.Targets[i].Sources, again.Targets[i].Sources)
		assert.Equal(t, d.Targets[i].Flags.Get(platform.Linux), again.Targets[i].Flags.Get(platform.Linux))
	}
}

func TestStampBuildDate(t *testing.T) {
	path := writeDescriptor(t, sample)
	d, err := Load(path)
	require.NoError(t, err)

	when := time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
	d.StampBuildDate(when)
	require.NoError(t, d.Save(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17T08:30:00Z", again.BuildDate)
	assert.Equal(t, []string{"hello", "core"}, []string{again.Targets[0].Name, again.Targets[1].Name})

	later := when.Add(time.Hour)
	again.StampBuildDate(later)
	require.NoError(t, again.Save(path))

	third, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17T09:30:00Z", third.BuildDate)
}

func TestEncodeNewDescriptor(t *testing.T) {
	d := &Descriptor{
		Name: "fresh",
		Std:  platform.Of(17),
		Targets: []Target{{
			Type:    Binary,
			Sources: []string{"src/main.cpp"},
			Flags:   platform.Of("-O2"),
		}},
	}
	data, err := d.Encode()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "fresh", back.Name)
	assert.Equal(t, 17, back.Std.Get(platform.BSD))
	assert.Equal(t, "-O2", back.Targets[0].Flags.Get(platform.Other))
	assert.True(t, back.Targets[0].Defines.IsZero())
}
