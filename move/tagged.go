package move

import (
	"strings"

	"effdiff/gitdiff"
)

// TaggedLine is one added or removed diff line carrying enough provenance to
// match it against the opposite side: the file it belongs to, its 1-indexed
// line number on its own side of the diff, and the index of the hunk it came
// from. HunkIndex is the position in the diff's flat hunk list and doubles as
// the distance unit between a removal and an addition.
type TaggedLine struct {
	Content    string
	Normalized string
	FilePath   string
	LineNumber int
	HunkIndex  int
	Type       gitdiff.LineType
}

// ExtractTaggedLines pulls every removed and added line out of a parsed diff,
// in document order. Context lines are skipped. Removed lines carry old-file
// line numbers, added lines carry new-file line numbers. Normalized content
// has leading and trailing whitespace stripped so indentation changes from
// the relocation do not defeat matching.
func ExtractTaggedLines(d *gitdiff.Diff) (removed, added []TaggedLine) {
	if d == nil {
		return nil, nil
	}
	for i, h := range d.Hunks {
		for _, line := range h.Lines() {
			switch line.Type {
			case gitdiff.LineRemoved:
				removed = append(removed, TaggedLine{
					Content:    line.Content,
					Normalized: strings.TrimSpace(line.Content),
					FilePath:   h.FilePath,
					LineNumber: line.OldNum,
					HunkIndex:  i,
					Type:       gitdiff.LineRemoved,
				})
			case gitdiff.LineAdded:
				added = append(added, TaggedLine{
					Content:    line.Content,
					Normalized: strings.TrimSpace(line.Content),
					FilePath:   h.FilePath,
					LineNumber: line.NewNum,
					HunkIndex:  i,
					Type:       gitdiff.LineAdded,
				})
			}
		}
	}
	return removed, added
}
