package move

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"effdiff/gitdiff"
)

func TestClassifyHunk_MoveRemoved(t *testing.T) {
	c := mkCandidate("utils.py", 10, 14, "helpers.py", 50, 54)
	results := []*EffectiveDiff{{Candidate: c}}

	h := &gitdiff.Hunk{FilePath: "utils.py", OldStart: 9, OldLines: 6, NewStart: 9, NewLines: 0}
	class, res := ClassifyHunk(h, results)

	assert.Equal(t, ClassMoveRemoved, class, "old-side overlap with the source block")
	assert.Same(t, results[0], res, "owning move returned")
}

func TestClassifyHunk_MoveAdded(t *testing.T) {
	c := mkCandidate("utils.py", 10, 14, "helpers.py", 50, 54)
	results := []*EffectiveDiff{{Candidate: c}}

	h := &gitdiff.Hunk{FilePath: "helpers.py", OldStart: 0, OldLines: 0, NewStart: 52, NewLines: 2}
	class, res := ClassifyHunk(h, results)

	assert.Equal(t, ClassMoveAdded, class, "new-side overlap with the target block")
	assert.Same(t, results[0], res, "owning move returned")
}

func TestClassifyHunk_Unchanged(t *testing.T) {
	c := mkCandidate("utils.py", 10, 14, "helpers.py", 50, 54)
	results := []*EffectiveDiff{{Candidate: c}}

	other := &gitdiff.Hunk{FilePath: "config.py", OldStart: 3, OldLines: 1, NewStart: 3, NewLines: 1}
	class, res := ClassifyHunk(other, results)
	assert.Equal(t, ClassUnchanged, class, "unrelated file passes through")
	assert.Nil(t, res, "no owning move")

	far := &gitdiff.Hunk{FilePath: "utils.py", OldStart: 30, OldLines: 3, NewStart: 30, NewLines: 3}
	class, _ = ClassifyHunk(far, results)
	assert.Equal(t, ClassUnchanged, class, "same file outside the block passes through")
}

func TestClassifyHunk_SameFileMoveRemovedWins(t *testing.T) {
	c := mkCandidate("app.py", 10, 14, "app.py", 12, 16)
	results := []*EffectiveDiff{{Candidate: c}}

	h := &gitdiff.Hunk{FilePath: "app.py", OldStart: 10, OldLines: 5, NewStart: 12, NewLines: 5}
	class, _ := ClassifyHunk(h, results)

	assert.Equal(t, ClassMoveRemoved, class, "when both sides overlap, removed takes precedence")
}

func TestClassifyHunk_ZeroLengthSideNeverOverlaps(t *testing.T) {
	c := mkCandidate("utils.py", 1, 5, "helpers.py", 1, 5)
	results := []*EffectiveDiff{{Candidate: c}}

	// New-file hunk: the old side is empty, only the new side can classify.
	h := &gitdiff.Hunk{FilePath: "helpers.py", OldStart: 0, OldLines: 0, NewStart: 1, NewLines: 5}
	class, _ := ClassifyHunk(h, results)
	assert.Equal(t, ClassMoveAdded, class, "empty old side cannot claim a removed overlap")
}

func TestClassifyHunk_String(t *testing.T) {
	assert.Equal(t, "unchanged", ClassUnchanged.String(), "unchanged name")
	assert.Equal(t, "move_removed", ClassMoveRemoved.String(), "removed name")
	assert.Equal(t, "move_added", ClassMoveAdded.String(), "added name")
}

func TestReconstruct_DropsRemovedAndSplicesEffective(t *testing.T) {
	removeH := &gitdiff.Hunk{FilePath: "utils.py", OldStart: 1, OldLines: 5, NewStart: 1, NewLines: 0, Body: "-a\n-b\n-c\n-d\n-e\n"}
	midH := &gitdiff.Hunk{FilePath: "config.py", OldStart: 3, OldLines: 1, NewStart: 3, NewLines: 1, Body: "-TIMEOUT = 30\n+TIMEOUT = 60\n"}
	addH := &gitdiff.Hunk{FilePath: "helpers.py", OldStart: 0, OldLines: 0, NewStart: 1, NewLines: 5, Body: "+a\n+b\n+c\n+d\n+e\n"}
	original := &gitdiff.Diff{CommitHash: "abc123", Hunks: []*gitdiff.Hunk{removeH, midH, addH}}

	eff := &gitdiff.Hunk{FilePath: "helpers.py", OldStart: 1, OldLines: 5, NewStart: 1, NewLines: 5, Body: "-a\n+A\n b\n c\n d\n e\n"}
	results := []*EffectiveDiff{{
		Candidate: mkCandidate("utils.py", 1, 5, "helpers.py", 1, 5),
		Hunks:     []*gitdiff.Hunk{eff},
	}}

	out := Reconstruct(original, results)

	require.Equal(t, 2, len(out.Hunks), "removed hunk dropped, added hunk replaced")
	assert.Same(t, midH, out.Hunks[0], "unrelated hunk kept verbatim")
	assert.Same(t, eff, out.Hunks[1], "effective hunk spliced at the added hunk's position")
	assert.Equal(t, "abc123", out.CommitHash, "commit hash preserved")
}

func TestReconstruct_PureMoveVanishes(t *testing.T) {
	removeH := &gitdiff.Hunk{FilePath: "utils.py", OldStart: 1, OldLines: 4, NewStart: 1, NewLines: 0, Body: "-a\n-b\n-c\n-d\n"}
	addH := &gitdiff.Hunk{FilePath: "dbutils.py", OldStart: 0, OldLines: 0, NewStart: 1, NewLines: 4, Body: "+a\n+b\n+c\n+d\n"}
	original := &gitdiff.Diff{Hunks: []*gitdiff.Hunk{removeH, addH}}

	results := []*EffectiveDiff{{Candidate: mkCandidate("utils.py", 1, 4, "dbutils.py", 1, 4)}}

	out := Reconstruct(original, results)
	assert.Equal(t, 0, len(out.Hunks), "a pure move leaves no trace in the diff")
}

func TestReconstruct_EachMoveEmittedOnce(t *testing.T) {
	addA := &gitdiff.Hunk{FilePath: "big.py", OldStart: 0, OldLines: 0, NewStart: 10, NewLines: 6, Body: "+a\n+b\n+c\n+d\n+e\n+f\n"}
	addB := &gitdiff.Hunk{FilePath: "big.py", OldStart: 0, OldLines: 0, NewStart: 22, NewLines: 6, Body: "+g\n+h\n+i\n+j\n+k\n+l\n"}
	original := &gitdiff.Diff{Hunks: []*gitdiff.Hunk{addA, addB}}

	eff := &gitdiff.Hunk{FilePath: "big.py", OldStart: 10, OldLines: 1, NewStart: 10, NewLines: 1, Body: "-x\n+y\n"}
	results := []*EffectiveDiff{{
		Candidate: mkCandidate("small.py", 1, 12, "big.py", 10, 27),
		Hunks:     []*gitdiff.Hunk{eff},
	}}

	out := Reconstruct(original, results)

	require.Equal(t, 1, len(out.Hunks), "move spliced at its first hunk only")
	assert.Same(t, eff, out.Hunks[0], "effective hunk emitted once")
}

func TestReconstruct_NoMovesIsIdentity(t *testing.T) {
	h1 := &gitdiff.Hunk{FilePath: "a.py", OldStart: 1, OldLines: 1, NewStart: 1, NewLines: 1, Body: "-x\n+y\n"}
	h2 := &gitdiff.Hunk{FilePath: "b.py", OldStart: 5, OldLines: 2, NewStart: 5, NewLines: 2, Body: "-p\n+q\n r\n"}
	original := &gitdiff.Diff{CommitHash: "deadbeef", Hunks: []*gitdiff.Hunk{h1, h2}}

	out := Reconstruct(original, nil)

	require.Equal(t, 2, len(out.Hunks), "all hunks survive")
	assert.Same(t, h1, out.Hunks[0], "hunks pass through untouched")
	assert.Same(t, h2, out.Hunks[1], "hunks pass through untouched")
	assert.Equal(t, "deadbeef", out.CommitHash, "commit hash preserved")
}

func TestReconstruct_NilOriginal(t *testing.T) {
	out := Reconstruct(nil, nil)
	require.NotNil(t, out, "nil input yields an empty diff")
	assert.Equal(t, 0, len(out.Hunks), "no hunks")
}
