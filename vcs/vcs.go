// Package vcs supplies full file content to the move-detection pipeline. A
// FileSource resolves a repository-relative path to the file's text on one
// side of a change: a git tree at some revision, a plain directory, or an
// in-memory map for tests and stdin pipelines.
package vcs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileSource resolves file paths to full text content. Content reports
// ok=false for a path the source simply does not have; errors are reserved
// for real failures like unreadable files. Label names the source in logs.
type FileSource interface {
	Content(ctx context.Context, path string) (content string, ok bool, err error)
	Label() string
}

// MemTree is an in-memory FileSource backed by a path-to-content map.
type MemTree struct {
	Name  string
	Files map[string]string
}

func (m *MemTree) Content(_ context.Context, path string) (string, bool, error) {
	content, ok := m.Files[path]
	return content, ok, nil
}

func (m *MemTree) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return "mem"
}

// DirTree reads files from a directory root. Paths that would escape the
// root resolve to missing rather than reading outside the tree, since diff
// text is not a trusted source of file names.
type DirTree struct {
	Root string
}

func (d *DirTree) Content(_ context.Context, path string) (string, bool, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false, nil
	}

	data, err := os.ReadFile(filepath.Join(d.Root, clean))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (d *DirTree) Label() string {
	return "dir:" + d.Root
}
