package gitdiff

import (
	"fmt"
	"strings"
)

// Format serializes a Diff back to unified diff text. Consecutive hunks for
// the same file share one ---/+++ header pair; hunk bodies are emitted
// verbatim. An empty diff formats to the empty string.
func Format(d *Diff) string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}

	var b strings.Builder
	lastPath := ""

	for _, h := range d.Hunks {
		if h.FilePath != lastPath {
			fmt.Fprintf(&b, "--- a/%s\n", h.FilePath)
			fmt.Fprintf(&b, "+++ b/%s\n", h.FilePath)
			lastPath = h.FilePath
		}

		b.WriteString(h.Header())
		b.WriteByte('\n')

		if h.Body != "" {
			b.WriteString(h.Body)
			if !strings.HasSuffix(h.Body, "\n") {
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}
