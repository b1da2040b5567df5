package move

import "effdiff/gitdiff"

// HunkClass says how a hunk of the original diff relates to the detected
// moves.
type HunkClass int

const (
	// ClassUnchanged hunks have nothing to do with any move and pass
	// through reconstruction untouched.
	ClassUnchanged HunkClass = iota

	// ClassMoveRemoved hunks cover the source side of a move and are
	// dropped from the reconstructed diff.
	ClassMoveRemoved

	// ClassMoveAdded hunks cover the target side of a move and are replaced
	// by that move's effective hunks.
	ClassMoveAdded
)

// String returns the class name used in logs.
func (hc HunkClass) String() string {
	switch hc {
	case ClassMoveRemoved:
		return "move_removed"
	case ClassMoveAdded:
		return "move_added"
	default:
		return "unchanged"
	}
}

// ClassifyHunk matches a hunk against the move results. A hunk in a move's
// source file whose old-side range overlaps the source block is the removed
// half of that move; a hunk in the target file whose new-side range overlaps
// the target block is the added half. The two sides are checked
// independently, so moves within a single file classify correctly. Removed
// takes precedence, and within each side the first overlapping result wins.
func ClassifyHunk(h *gitdiff.Hunk, results []*EffectiveDiff) (HunkClass, *EffectiveDiff) {
	for _, res := range results {
		c := res.Candidate
		if h.FilePath != c.SourceFile {
			continue
		}
		oldStart, oldEnd := h.OldRange()
		if rangesOverlap(oldStart, oldEnd, c.SourceStart, c.SourceEnd) {
			return ClassMoveRemoved, res
		}
	}
	for _, res := range results {
		c := res.Candidate
		if h.FilePath != c.TargetFile {
			continue
		}
		newStart, newEnd := h.NewRange()
		if rangesOverlap(newStart, newEnd, c.TargetStart, c.TargetEnd) {
			return ClassMoveAdded, res
		}
	}
	return ClassUnchanged, nil
}

// Reconstruct rebuilds the diff with the moves factored out. Walking the
// original hunks in order: removed-side hunks vanish, the first hunk
// covering a move's added side is replaced by that move's effective hunks,
// later hunks of an already-emitted move are dropped so each move appears
// exactly once, and unrelated hunks are kept verbatim. The commit hash is
// preserved. With no detected moves the output equals the input.
func Reconstruct(original *gitdiff.Diff, results []*EffectiveDiff) *gitdiff.Diff {
	out := &gitdiff.Diff{}
	if original == nil {
		return out
	}
	out.CommitHash = original.CommitHash

	emitted := make(map[*EffectiveDiff]bool, len(results))
	for _, h := range original.Hunks {
		class, res := ClassifyHunk(h, results)
		switch class {
		case ClassMoveRemoved:
			// Dropped; the report accounts for these lines.
		case ClassMoveAdded:
			if !emitted[res] {
				emitted[res] = true
				out.Hunks = append(out.Hunks, res.Hunks...)
			}
		default:
			out.Hunks = append(out.Hunks, h)
		}
	}
	return out
}
