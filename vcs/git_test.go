package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a temporary git repo with user config so commits work
// without global configuration. Skips the test when git is unavailable.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.name", "Test User"},
		{"git", "config", "user.email", "test@example.com"},
		{"git", "config", "commit.gpgsign", "false"},
	}
	for _, args := range cmds {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "setup %v: %s", args, out)
	}
	return dir
}

// commitFile writes a file and commits it, returning the commit hash.
func commitFile(t *testing.T, dir, name, content, message string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755), "mkdir for %s", name)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644), "write %s", name)

	for _, args := range [][]string{
		{"git", "add", name},
		{"git", "commit", "-m", message},
	} {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "commit %v: %s", args, out)
	}

	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "rev-parse: %s", out)
	return strings.TrimSpace(string(out))
}

func TestGitTree_Content(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "pkg/utils.py", "def calc():\n    pass\n", "add utils")

	tree := &GitTree{Dir: dir, Rev: "HEAD"}

	content, ok, err := tree.Content(context.Background(), "pkg/utils.py")
	require.NoError(t, err, "content error")
	assert.True(t, ok, "committed file is found")
	assert.Equal(t, "def calc():\n    pass\n", content, "content")
}

func TestGitTree_MissingPath(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "a.txt", "a\n", "initial")

	tree := &GitTree{Dir: dir, Rev: "HEAD"}

	_, ok, err := tree.Content(context.Background(), "never/existed.py")
	require.NoError(t, err, "missing path is not an error")
	assert.False(t, ok, "missing path reports ok=false")
}

func TestGitTree_OlderRevision(t *testing.T) {
	dir := initTestRepo(t)
	first := commitFile(t, dir, "file.txt", "version one\n", "first")
	commitFile(t, dir, "file.txt", "version two\n", "second")

	tree := &GitTree{Dir: dir, Rev: first}

	content, ok, err := tree.Content(context.Background(), "file.txt")
	require.NoError(t, err, "content error")
	assert.True(t, ok, "file exists at older revision")
	assert.Equal(t, "version one\n", content, "older revision content")
}

func TestResolveCommit(t *testing.T) {
	dir := initTestRepo(t)
	hash := commitFile(t, dir, "a.txt", "a\n", "initial")

	resolved, err := ResolveCommit(context.Background(), dir, "HEAD")
	require.NoError(t, err, "resolve error")
	assert.Equal(t, hash, resolved, "HEAD resolves to the commit hash")

	_, err = ResolveCommit(context.Background(), dir, "no-such-ref")
	assert.Error(t, err, "unknown ref is an error")
}

func TestDiffRefs(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "file.txt", "line1\n", "first")
	commitFile(t, dir, "file.txt", "line1\nline2\n", "second")

	diff, err := DiffRefs(context.Background(), dir, "HEAD~1", "HEAD")
	require.NoError(t, err, "diff error")
	assert.Contains(t, diff, "+line2", "diff shows the added line")
	assert.Contains(t, diff, "file.txt", "diff references the file")
}

func TestValidateRef_RejectsFlagLikeRefs(t *testing.T) {
	for _, rev := range []string{"", "-n", "--output=/tmp/evil"} {
		_, err := ResolveCommit(context.Background(), ".", rev)
		assert.Error(t, err, "flag-like ref is rejected: %q", rev)
	}
}
