package fsutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")

	require.NoError(t, CreateDir(dir))
	require.NoError(t, CreateDir(dir), "existing directory is fine")
	assert.DirExists(t, dir)

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, CreateDir(file))
}

func TestFilesMatching(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.log", "a.log", "notes.txt", "x.log.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.log"), 0o755))

	files, err := FilesMatching(dir, regexp.MustCompile(`.*\.log`))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")}, files)

	files, err = FilesMatching(filepath.Join(dir, "missing"), regexp.MustCompile(`.*`))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDeleteAndExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	assert.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, Exists(path))

	require.NoError(t, Delete(path))
	assert.False(t, Exists(path))
	require.NoError(t, Delete(path), "deleting twice is not an error")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}
