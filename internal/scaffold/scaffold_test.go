package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Electrux/CCP4M-Final/internal/paths"
	"github.com/Electrux/CCP4M-Final/internal/platform"
	"github.com/Electrux/CCP4M-Final/internal/project"
)

func TestCreateBinary(t *testing.T) {
	parent := t.TempDir()
	root, err := Create(Options{
		Name:   "hello",
		Dir:    parent,
		Author: &project.Author{Name: "Jane", Email: "jane@example.com"},
		Git:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(parent, "hello"), root)

	d, err := project.Load(filepath.Join(root, paths.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t, "hello", d.Name)
	assert.Equal(t, "c++", d.Language())
	assert.Equal(t, 17, d.Std.Get(platform.Linux))
	assert.Equal(t, "Jane", d.Author.Name)
	assert.Empty(t, d.BuildDate)
	require.Len(t, d.Targets, 1)
	assert.Equal(t, project.Binary, d.Targets[0].Type)
	require.NoError(t, d.Validate(root))

	sources, err := d.Sources(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.cpp"}, sources)

	tests, err := d.TestSources(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"tests/test_hello.cpp"}, tests)
	assert.Empty(t, d.Targets[0].Tests.Libs, "C++ harnesses use the gtest defaults")
	harness, err := os.ReadFile(filepath.Join(root, "tests", "test_hello.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(harness), "TEST(Hello, Sample)")

	for _, rel := range []string{".gitignore", ".git", "include", "tests"} {
		_, err := os.Stat(filepath.Join(root, rel))
		assert.NoError(t, err, rel)
	}
	ignore, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), "buildfiles/\n")
}

func TestCreateCLibraryWithoutGit(t *testing.T) {
	root, err := Create(Options{Name: "mini-lib", Dir: t.TempDir(), Type: "library", Lang: "c"})
	require.NoError(t, err)

	d, err := project.Load(filepath.Join(root, paths.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t, project.Library, d.Targets[0].Type)
	assert.Equal(t, 11, d.Std.Get(platform.Mac))
	require.NoError(t, d.Validate(root))

	header, err := os.ReadFile(filepath.Join(root, "include", "mini-lib.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "#ifndef MINI_LIB_H")
	assert.Contains(t, string(header), "int mini_lib_version(void);")

	tests, err := d.TestSources(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"tests/test_mini_lib.c"}, tests)
	assert.Equal(t, []string{"m"}, d.Targets[0].Tests.Libs)
	harness, err := os.ReadFile(filepath.Join(root, "tests", "test_mini_lib.c"))
	require.NoError(t, err)
	assert.Contains(t, string(harness), "assert(mini_lib_version() == 1);")
	assert.Contains(t, string(harness), "int main(void)")

	_, err = os.Stat(filepath.Join(root, ".git"))
	assert.True(t, os.IsNotExist(err))
}

func TestSuiteNames(t *testing.T) {
	assert.Equal(t, "Hello", testSuiteName("hello"))
	assert.Equal(t, "MiniLib", testSuiteName("mini-lib"))
	assert.Equal(t, "Project2d", testSuiteName("2d"))
}

func TestCreateRejects(t *testing.T) {
	dir := t.TempDir()
	_, err := Create(Options{Name: "a/b", Dir: dir})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = Create(Options{Name: "x", Dir: dir, Lang: "rust"})
	assert.Error(t, err)

	_, err = Create(Options{Name: "x", Dir: dir, Type: "plugin"})
	assert.Error(t, err)

	_, err = Create(Options{Name: "twice", Dir: dir})
	require.NoError(t, err)
	_, err = Create(Options{Name: "twice", Dir: dir})
	assert.ErrorIs(t, err, ErrExists)
}
