// Package textdiff produces unified diff text from in-memory content. The
// Unified differ runs diff-match-patch in line mode and renders classic
// unified hunks; Command shells out to an external diff binary for callers
// that need its exact output.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

// Unified is an in-process line differ. The zero value is ready to use.
type Unified struct {
	// Context overrides the context line count; 0 means DefaultContext.
	Context int
}

// Diff returns a unified diff between oldText and newText, or "" when they
// are identical. The labels go verbatim on the --- and +++ header lines.
// The error return exists to satisfy pluggable-differ callers; this
// implementation never fails.
func (u *Unified) Diff(oldText, newText, oldLabel, newLabel string) (string, error) {
	if oldText == newText {
		return "", nil
	}
	context := u.Context
	if context <= 0 {
		context = DefaultContext
	}

	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	edits := flattenDiffs(diffs)
	spans := buildSpans(edits, context)
	if len(spans) == 0 {
		return "", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n", oldLabel)
	fmt.Fprintf(&sb, "+++ %s\n", newLabel)
	renderHunks(&sb, edits, spans)
	return sb.String(), nil
}

// lineEdit is one line of the flattened line-mode diff: op is ' ', '-' or
// '+', text is the line without its newline.
type lineEdit struct {
	op   byte
	text string
}

// flattenDiffs explodes line-mode diff runs into individual line edits.
func flattenDiffs(diffs []diffmatchpatch.Diff) []lineEdit {
	var edits []lineEdit
	for _, d := range diffs {
		op := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = '-'
		case diffmatchpatch.DiffInsert:
			op = '+'
		}
		for _, text := range splitLines(d.Text) {
			edits = append(edits, lineEdit{op: op, text: text})
		}
	}
	return edits
}

// splitLines breaks s into lines without trailing newlines. A final line
// missing its newline still counts as a line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// span is a half-open range of edit indices forming one hunk.
type span struct {
	start, end int
}

// buildSpans locates runs of changed lines, pads each with context lines,
// and keeps runs apart only when their padded windows cannot touch. Returns
// nil when nothing changed.
func buildSpans(edits []lineEdit, context int) []span {
	var changed []int
	for i, e := range edits {
		if e.op != ' ' {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	var spans []span
	first := changed[0]
	prev := changed[0]
	for _, idx := range changed[1:] {
		if idx-prev > 2*context {
			spans = append(spans, pad(first, prev, context, len(edits)))
			first = idx
		}
		prev = idx
	}
	spans = append(spans, pad(first, prev, context, len(edits)))
	return spans
}

// pad widens the inclusive change run [first,last] by context lines, clamped
// to the edit list, and returns it half-open.
func pad(first, last, context, n int) span {
	s := first - context
	if s < 0 {
		s = 0
	}
	e := last + context + 1
	if e > n {
		e = n
	}
	return span{start: s, end: e}
}

// renderHunks writes each span as a unified hunk. Zero-length sides follow
// the unified convention of pointing at the line before the hunk.
func renderHunks(sb *strings.Builder, edits []lineEdit, spans []span) {
	oldBefore, newBefore := 0, 0
	cursor := 0
	for _, sp := range spans {
		for ; cursor < sp.start; cursor++ {
			switch edits[cursor].op {
			case '-':
				oldBefore++
			case '+':
				newBefore++
			default:
				oldBefore++
				newBefore++
			}
		}

		oldCount, newCount := 0, 0
		for i := sp.start; i < sp.end; i++ {
			switch edits[i].op {
			case '-':
				oldCount++
			case '+':
				newCount++
			default:
				oldCount++
				newCount++
			}
		}

		oldStart := oldBefore + 1
		if oldCount == 0 {
			oldStart = oldBefore
		}
		newStart := newBefore + 1
		if newCount == 0 {
			newStart = newBefore
		}

		fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for i := sp.start; i < sp.end; i++ {
			sb.WriteByte(edits[i].op)
			sb.WriteString(edits[i].text)
			sb.WriteByte('\n')
		}

		oldBefore += oldCount
		newBefore += newCount
		cursor = sp.end
	}
}
