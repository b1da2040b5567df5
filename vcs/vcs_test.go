package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemTree_Content(t *testing.T) {
	tree := &MemTree{Files: map[string]string{
		"pkg/utils.py": "def calc():\n    pass\n",
	}}

	content, ok, err := tree.Content(context.Background(), "pkg/utils.py")
	require.NoError(t, err, "content error")
	assert.True(t, ok, "existing path is found")
	assert.Equal(t, "def calc():\n    pass\n", content, "content")

	_, ok, err = tree.Content(context.Background(), "pkg/missing.py")
	require.NoError(t, err, "missing path is not an error")
	assert.False(t, ok, "missing path reports ok=false")
}

func TestMemTree_Label(t *testing.T) {
	assert.Equal(t, "mem", (&MemTree{}).Label(), "default label")
	assert.Equal(t, "old", (&MemTree{Name: "old"}).Label(), "named label")
}

func TestDirTree_Content(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0755), "mkdir")
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "utils.py"), []byte("x = 1\n"), 0644), "write file")

	tree := &DirTree{Root: root}

	content, ok, err := tree.Content(context.Background(), "pkg/utils.py")
	require.NoError(t, err, "content error")
	assert.True(t, ok, "existing file is found")
	assert.Equal(t, "x = 1\n", content, "content")

	_, ok, err = tree.Content(context.Background(), "pkg/gone.py")
	require.NoError(t, err, "missing file is not an error")
	assert.False(t, ok, "missing file reports ok=false")
}

func TestDirTree_RejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0644), "write outside file")
	defer os.Remove(outside)

	tree := &DirTree{Root: root}

	for _, path := range []string{"../secret.txt", "..", "a/../../secret.txt", outside} {
		_, ok, err := tree.Content(context.Background(), path)
		require.NoError(t, err, "escape path is not an error: %s", path)
		assert.False(t, ok, "escape path resolves to missing: %s", path)
	}
}

func TestLoadAll(t *testing.T) {
	tree := &MemTree{Files: map[string]string{
		"a.py": "alpha",
		"b.py": "beta",
	}}

	files := LoadAll(context.Background(), tree, []string{"b.py", "a.py", "missing.py", "a.py", ""})

	assert.Equal(t, 2, len(files), "only present files are loaded")
	assert.Equal(t, "alpha", files["a.py"], "a.py content")
	assert.Equal(t, "beta", files["b.py"], "b.py content")
	_, ok := files["missing.py"]
	assert.False(t, ok, "missing file is absent from the map")
}

func TestLoadAll_Empty(t *testing.T) {
	files := LoadAll(context.Background(), &MemTree{}, nil)
	assert.Equal(t, 0, len(files), "no paths yields an empty map")
	assert.NotNil(t, files, "map is never nil")

	files = LoadAll(context.Background(), nil, []string{"a.py"})
	assert.Equal(t, 0, len(files), "nil source yields an empty map")
}
