// Package gitdiff models a unified diff as an ordered, flat list of hunks.
package gitdiff

import (
	"fmt"
	"strings"
)

// LineType classifies a single diff line.
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

// String returns the string representation of a LineType.
func (lt LineType) String() string {
	switch lt {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Line is a single typed line inside a hunk. OldNum and NewNum are 1-indexed
// line numbers in the old and new file; the number is 0 on the side the line
// does not exist on.
type Line struct {
	Type    LineType
	Content string
	OldNum  int
	NewNum  int
}

// Hunk is one @@-block of a unified diff. Body holds the raw hunk body with
// the leading ' ', '+' or '-' marker on every line; Lines derives the typed
// view on demand so the raw text survives round-trips untouched.
type Hunk struct {
	FilePath string `json:"file_path"`
	OldStart int    `json:"old_start"`
	OldLines int    `json:"old_lines"`
	NewStart int    `json:"new_start"`
	NewLines int    `json:"new_lines"`
	Section  string `json:"section,omitempty"`
	Body     string `json:"body"`
}

// Diff is a parsed unified diff: hunks across all files in document order.
// The index of a hunk in Hunks is its hunk index for distance computations.
type Diff struct {
	CommitHash string  `json:"commit_hash,omitempty"`
	Hunks      []*Hunk `json:"hunks"`
}

// Lines walks the hunk body and returns the typed lines with old/new line
// numbers assigned from the hunk header. Unknown markers degrade to context
// lines rather than failing.
func (h *Hunk) Lines() []Line {
	if h.Body == "" {
		return nil
	}

	raw := strings.Split(h.Body, "\n")
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]Line, 0, len(raw))
	oldNum := h.OldStart
	newNum := h.NewStart

	for _, l := range raw {
		if strings.HasPrefix(l, `\`) {
			// "\ No newline at end of file" marker
			continue
		}

		var marker byte = ' '
		content := ""
		if len(l) > 0 {
			marker = l[0]
			content = l[1:]
		}

		switch marker {
		case '+':
			lines = append(lines, Line{Type: LineAdded, Content: content, NewNum: newNum})
			newNum++
		case '-':
			lines = append(lines, Line{Type: LineRemoved, Content: content, OldNum: oldNum})
			oldNum++
		default:
			lines = append(lines, Line{Type: LineContext, Content: content, OldNum: oldNum, NewNum: newNum})
			oldNum++
			newNum++
		}
	}

	return lines
}

// OldRange returns the inclusive old-side line range covered by the hunk.
// A zero-length side yields end < start, which never overlaps anything.
func (h *Hunk) OldRange() (start, end int) {
	return h.OldStart, h.OldStart + h.OldLines - 1
}

// NewRange returns the inclusive new-side line range covered by the hunk.
func (h *Hunk) NewRange() (start, end int) {
	return h.NewStart, h.NewStart + h.NewLines - 1
}

// Header renders the @@ header line for the hunk.
func (h *Hunk) Header() string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	if h.Section != "" {
		header += " " + h.Section
	}
	return header
}

// ChangedCounts returns the number of added and removed lines in the hunk.
func (h *Hunk) ChangedCounts() (added, removed int) {
	for _, l := range h.Lines() {
		switch l.Type {
		case LineAdded:
			added++
		case LineRemoved:
			removed++
		}
	}
	return added, removed
}
