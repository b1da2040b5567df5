// Package move implements effective-diff move detection: it finds blocks of
// code that a diff relocated rather than edited, re-diffs the moved regions
// against full file content to isolate the genuine edits inside them, and
// rebuilds a diff in which pure moves disappear.
//
// The pipeline is a chain of pure transformations: tag every added/removed
// line, pair removed lines with identical added lines, group the pairs into
// contiguous blocks, score the blocks to weed out coincidental matches,
// re-diff the surviving blocks against real file content, then reconstruct.
// It never fails on malformed input; a diff with nothing to detect passes
// through untouched.
package move

import "effdiff/gitdiff"

// Options tunes the detection pipeline.
type Options struct {
	// MinBlockSize is the smallest matched block worth reporting; smaller
	// blocks score 0.
	MinBlockSize int

	// GapTolerance is the number of unmatched lines absorbed inside a block
	// before it splits in two.
	GapTolerance int

	// ContextLines is how far a block's line range is extended on both sides
	// before re-diffing.
	ContextLines int

	// TrimProximity is how far outside the block's own range a re-diffed
	// hunk may sit and still count as part of the move.
	TrimProximity int

	// MinScore excludes candidates scoring at or below it.
	MinScore float64
}

// DefaultOptions returns the tuning used unless a caller overrides it.
func DefaultOptions() Options {
	return Options{
		MinBlockSize:  3,
		GapTolerance:  3,
		ContextLines:  20,
		TrimProximity: 3,
		MinScore:      0,
	}
}

// Detect runs tagging, matching, grouping and scoring over a parsed diff and
// returns the move candidates, highest score first.
func Detect(d *gitdiff.Diff, opts Options) []Candidate {
	removed, added := ExtractTaggedLines(d)
	matches := FindExactMatches(removed, added)
	return FindCandidates(matches, added, opts)
}

// Run executes the whole pipeline: detect moves in d, re-diff each against
// the supplied file contents, and reconstruct. oldFiles maps paths to
// pre-change content, newFiles to post-change content; missing entries read
// as empty files. The same inputs always produce the same outputs. Run never
// fails: per-candidate re-diff errors degrade that candidate to a pure move,
// and a diff with no detectable moves comes back equal to the input.
func Run(d *gitdiff.Diff, oldFiles, newFiles map[string]string, differ Differ, opts Options) (*gitdiff.Diff, *Report) {
	candidates := Detect(d, opts)
	results := ComputeAll(candidates, oldFiles, newFiles, differ, opts)
	return Reconstruct(d, results), BuildReport(results)
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// rangesOverlap reports whether the inclusive ranges [aStart,aEnd] and
// [bStart,bEnd] share at least one line. Empty ranges (end < start) overlap
// nothing.
func rangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	if aEnd < aStart || bEnd < bStart {
		return false
	}
	return aStart <= bEnd && bStart <= aEnd
}

// rangeWithin reports whether the inclusive range [start,end] lies entirely
// inside [lo,hi]. Empty ranges (end < start) are contained in nothing.
func rangeWithin(start, end, lo, hi int) bool {
	return start <= end && start >= lo && end <= hi
}
