package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CC", "CXX", "AR", "CCP4M_BUILD_JOBS", "CCP4M_TOOLCHAIN_CXX", "CCP4M_AUTHOR_NAME"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "cc", cfg.Toolchain.CC)
	assert.Equal(t, "c++", cfg.Toolchain.CXX)
	assert.Equal(t, "ar", cfg.Toolchain.AR)
	assert.Equal(t, 1, cfg.Build.Jobs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Color)
	assert.Equal(t, "c++", cfg.Toolchain.Compiler("c++"))
	assert.Equal(t, "cc", cfg.Toolchain.Compiler("c"))
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
author:
  name: Jane
  email: jane@example.com
toolchain:
  cxx: clang++
build:
  jobs: 4
color: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane", cfg.Author.Name)
	assert.Equal(t, "clang++", cfg.Toolchain.CXX)
	assert.Equal(t, 4, cfg.Build.Jobs)
	assert.False(t, cfg.Color)

	t.Setenv("CCP4M_TOOLCHAIN_CXX", "g++-14")
	t.Setenv("CCP4M_BUILD_JOBS", "0")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "g++-14", cfg.Toolchain.CXX)
	assert.Equal(t, 1, cfg.Build.Jobs, "non-positive jobs clamp to 1")
}

func TestCompilerEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CC", "gcc-13")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gcc-13", cfg.Toolchain.CC)
}

func TestSaveAuthorThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "home", "config.yaml")
	assert.False(t, Exists(path))

	require.NoError(t, SaveAuthor(path, Author{Name: "Sam", Email: "sam@example.com"}))
	assert.True(t, Exists(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Author{Name: "Sam", Email: "sam@example.com"}, cfg.Author)
	assert.Equal(t, "cc", cfg.Toolchain.CC)
}

func TestSaveAuthorKeepsFileAndSkipsEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("toolchain:\n  cxx: clang++\nbuild:\n  jobs: 4\n"), 0o644))

	t.Setenv("CC", "gcc-13")
	t.Setenv("CCP4M_AUTHOR_NAME", "Env Name")
	require.NoError(t, SaveAuthor(path, Author{Name: "Sam", Email: "sam@example.com"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "gcc-13")
	assert.NotContains(t, string(raw), "Env Name")
	assert.NotContains(t, string(raw), "color")

	clearEnv(t)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sam", cfg.Author.Name)
	assert.Equal(t, "clang++", cfg.Toolchain.CXX)
	assert.Equal(t, "cc", cfg.Toolchain.CC)
	assert.Equal(t, 4, cfg.Build.Jobs)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(dir), "missing .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CCP4M_AUTHOR_NAME=FromDotEnv\n"), 0o644))
	// t.Setenv above registered cleanup for the key, so godotenv's write is undone after the test.
	require.NoError(t, os.Unsetenv("CCP4M_AUTHOR_NAME"))
	require.NoError(t, LoadDotEnv(dir))

	cfg, err := Load(filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "FromDotEnv", cfg.Author.Name)
}
