package textdiff

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"effdiff/logger"
)

// Command shells out to an external unified diff tool, by default the system
// diff binary. Exit status 1 from diff means the inputs differ and is
// treated as success.
type Command struct {
	// Path is the binary to run; empty means "diff".
	Path string

	// Context is the -U value; 0 means DefaultContext.
	Context int
}

// Diff writes both texts to temp files and runs the tool with --label so the
// headers carry the given labels instead of temp paths.
func (c *Command) Diff(oldText, newText, oldLabel, newLabel string) (string, error) {
	bin := c.Path
	if bin == "" {
		bin = "diff"
	}
	context := c.Context
	if context <= 0 {
		context = DefaultContext
	}

	oldFile, err := writeTemp("effdiff-old-*", oldText)
	if err != nil {
		return "", err
	}
	defer os.Remove(oldFile)

	newFile, err := writeTemp("effdiff-new-*", newText)
	if err != nil {
		return "", err
	}
	defer os.Remove(newFile)

	logger.Debug("textdiff: %s -U %d %s %s", bin, context, oldLabel, newLabel)
	cmd := exec.Command(bin,
		"-U", strconv.Itoa(context),
		"--label", oldLabel,
		"--label", newLabel,
		oldFile, newFile)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.ExitCode() == 1 {
				return string(out), nil
			}
			return "", fmt.Errorf("running %s: %w: %s", bin, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("running %s: %w", bin, err)
	}
	return string(out), nil
}

// writeTemp creates a temp file holding content and returns its path. The
// caller removes it.
func writeTemp(pattern, content string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return f.Name(), nil
}
