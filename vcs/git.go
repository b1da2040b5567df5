package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"effdiff/logger"
)

// GitTree reads file content from a git tree at a fixed revision via
// `git show rev:path`.
type GitTree struct {
	Dir string
	Rev string
}

func (g *GitTree) Content(ctx context.Context, path string) (string, bool, error) {
	if err := validateRef(g.Rev); err != nil {
		return "", false, err
	}
	if strings.HasPrefix(path, "-") {
		return "", false, nil
	}

	out, err := runGit(ctx, g.Dir, "show", g.Rev+":"+path)
	if err != nil {
		// git show exits nonzero for paths absent at the revision; the
		// pipeline treats those as empty content rather than failing.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug("vcs: %s has no %s: %v", g.Label(), path, err)
			return "", false, nil
		}
		return "", false, err
	}
	return out, true, nil
}

func (g *GitTree) Label() string {
	return "git:" + g.Rev
}

// ResolveCommit resolves a revision to its full commit hash.
func ResolveCommit(ctx context.Context, dir, rev string) (string, error) {
	if err := validateRef(rev); err != nil {
		return "", err
	}
	out, err := runGit(ctx, dir, "rev-parse", "--verify", rev)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DiffRefs produces unified diff text between two revisions. An empty target
// diffs base against the working tree. Rename detection is disabled so a
// relocated file shows up as removals plus additions, which is the form move
// detection works on.
func DiffRefs(ctx context.Context, dir, base, target string) (string, error) {
	if err := validateRef(base); err != nil {
		return "", err
	}
	if target == "" {
		return runGit(ctx, dir, "diff", "--no-ext-diff", "--no-renames", base)
	}
	if err := validateRef(target); err != nil {
		return "", err
	}
	return runGit(ctx, dir, "diff", "--no-ext-diff", "--no-renames", base, target)
}

// runGit executes a git command in dir and returns its stdout. The error
// carries trimmed stderr so callers see git's own message.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// validateRef rejects revision arguments that git would parse as flags.
func validateRef(rev string) error {
	if rev == "" {
		return fmt.Errorf("empty git revision")
	}
	if strings.HasPrefix(rev, "-") {
		return fmt.Errorf("git revision %q must not start with '-'", rev)
	}
	return nil
}
