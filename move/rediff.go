package move

import (
	"fmt"
	"strings"

	"effdiff/gitdiff"
	"effdiff/logger"
)

// Differ produces unified diff text between two in-memory blobs. The labels
// appear verbatim on the ---/+++ header lines. Implementations return empty
// output, not an error, when the inputs are identical.
type Differ interface {
	Diff(oldText, newText, oldLabel, newLabel string) (string, error)
}

// EffectiveDiff couples a candidate with the hunks left after re-diffing its
// extended regions against real file content: the genuine edits hiding
// inside the move. A pure move has no hunks. Hunk positions are absolute
// file coordinates, not region-relative. RawDiff keeps the differ's output
// for debugging.
type EffectiveDiff struct {
	Candidate Candidate
	Hunks     []*gitdiff.Hunk
	RawDiff   string
}

// ChangedLines counts the added plus removed lines across the effective
// hunks.
func (e *EffectiveDiff) ChangedLines() int {
	total := 0
	for _, h := range e.Hunks {
		added, removed := h.ChangedCounts()
		total += added + removed
	}
	return total
}

// ExtendBlockRange widens both sides of the candidate's matched range by
// contextLines so the re-diff sees the code around the block, catching edits
// at its edges. Starts are clamped at line 1; ends are clamped against the
// actual file later, at region extraction.
func ExtendBlockRange(c Candidate, contextLines int) (srcStart, srcEnd, tgtStart, tgtEnd int) {
	srcStart = c.SourceStart - contextLines
	if srcStart < 1 {
		srcStart = 1
	}
	srcEnd = c.SourceEnd + contextLines
	tgtStart = c.TargetStart - contextLines
	if tgtStart < 1 {
		tgtStart = 1
	}
	tgtEnd = c.TargetEnd + contextLines
	return srcStart, srcEnd, tgtStart, tgtEnd
}

// ComputeEffectiveDiff re-diffs one candidate against full file content.
// oldFiles holds pre-change content keyed by path, newFiles post-change
// content; a missing file reads as empty, which yields an all-added or
// all-removed region rather than an error. The differ's hunks come back in
// region-relative coordinates and are rebased to absolute file positions,
// then trimmed to those confined to the block itself.
func ComputeEffectiveDiff(c Candidate, oldFiles, newFiles map[string]string, differ Differ, opts Options) (*EffectiveDiff, error) {
	srcStart, srcEnd, tgtStart, tgtEnd := ExtendBlockRange(c, opts.ContextLines)

	oldRegion := extractRegion(oldFiles[c.SourceFile], srcStart, srcEnd)
	newRegion := extractRegion(newFiles[c.TargetFile], tgtStart, tgtEnd)

	raw, err := differ.Diff(oldRegion, newRegion, c.SourceFile, c.TargetFile)
	if err != nil {
		return nil, fmt.Errorf("re-diffing %s -> %s: %w", c.SourceFile, c.TargetFile, err)
	}

	parsed, err := gitdiff.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing re-diff of %s -> %s: %w", c.SourceFile, c.TargetFile, err)
	}

	hunks := rebaseHunks(parsed.Hunks, srcStart, tgtStart)
	hunks = trimHunks(hunks, c, opts.TrimProximity)

	return &EffectiveDiff{Candidate: c, Hunks: hunks, RawDiff: raw}, nil
}

// ComputeAll re-diffs every candidate in order. A failure on one candidate
// is logged and recorded as zero effective hunks, which conservatively keeps
// that move treated as pure; the remaining candidates are unaffected.
func ComputeAll(candidates []Candidate, oldFiles, newFiles map[string]string, differ Differ, opts Options) []*EffectiveDiff {
	results := make([]*EffectiveDiff, 0, len(candidates))
	for _, c := range candidates {
		res, err := ComputeEffectiveDiff(c, oldFiles, newFiles, differ, opts)
		if err != nil {
			logger.Warn("move: %v", err)
			res = &EffectiveDiff{Candidate: c}
		}
		results = append(results, res)
	}
	return results
}

// extractRegion returns lines start..end of text, 1-indexed and inclusive,
// clamped to the file's real extent. The region carries a trailing newline
// whenever it is non-empty so differs treat its last line as complete.
func extractRegion(text string, start, end int) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n") + "\n"
}

// rebaseHunks shifts region-relative hunk positions to absolute file
// coordinates: region line 1 corresponds to file line srcStart on the old
// side and tgtStart on the new side. The shift also applies to a start of 0
// (a zero-length side anchored before the region), which lands on the line
// preceding the region in absolute terms.
func rebaseHunks(hunks []*gitdiff.Hunk, srcStart, tgtStart int) []*gitdiff.Hunk {
	for _, h := range hunks {
		h.OldStart += srcStart - 1
		h.NewStart += tgtStart - 1
	}
	return hunks
}

// trimHunks drops hunks that are not confined to the moved block. Context
// extension hands the differ the two blocks' whole neighborhoods, which
// re-diff against each other into replacement hunks spanning far beyond the
// block; a hunk survives only if its old-side range lies entirely within
// proximity lines of the source block or its new-side range entirely within
// proximity lines of the target block.
func trimHunks(hunks []*gitdiff.Hunk, c Candidate, proximity int) []*gitdiff.Hunk {
	var kept []*gitdiff.Hunk
	for _, h := range hunks {
		oldStart, oldEnd := h.OldRange()
		newStart, newEnd := h.NewRange()
		withinSource := rangeWithin(oldStart, oldEnd, c.SourceStart-proximity, c.SourceEnd+proximity)
		withinTarget := rangeWithin(newStart, newEnd, c.TargetStart-proximity, c.TargetEnd+proximity)
		if withinSource || withinTarget {
			kept = append(kept, h)
		}
	}
	return kept
}
