package gitdiff

import (
	"fmt"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

// Parse parses unified diff text into a Diff. File diffs are flattened into
// one ordered hunk list; binary file diffs contribute no hunks. Empty input
// yields an empty Diff and no error.
func Parse(text string) (*Diff, error) {
	d := &Diff{}
	if strings.TrimSpace(text) == "" {
		return d, nil
	}

	fileDiffs, err := sgdiff.NewMultiFileDiffReader(strings.NewReader(text)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parsing unified diff: %w", err)
	}

	for _, fd := range fileDiffs {
		path := pickPath(fd.OrigName, fd.NewName)
		for _, h := range fd.Hunks {
			d.Hunks = append(d.Hunks, &Hunk{
				FilePath: path,
				OldStart: int(h.OrigStartLine),
				OldLines: int(h.OrigLines),
				NewStart: int(h.NewStartLine),
				NewLines: int(h.NewLines),
				Section:  h.Section,
				Body:     string(h.Body),
			})
		}
	}

	return d, nil
}

// pickPath chooses the file path for a file diff: the new-side name unless the
// file was deleted, with git's a/ and b/ prefixes stripped.
func pickPath(origName, newName string) string {
	path := newName
	if path == "" || path == "/dev/null" {
		path = origName
	}
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimPrefix(path, "b/")
	return path
}
