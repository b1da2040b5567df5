package move

import "sort"

// Candidate is a scored block of matched lines believed to be one moved
// piece of code. The line ranges are inclusive and 1-indexed: SourceStart
// and SourceEnd bound the matched removed lines in the old source file,
// TargetStart and TargetEnd bound the matched added lines in the new target
// file.
type Candidate struct {
	Matches     []LineMatch
	Score       float64
	SourceFile  string
	TargetFile  string
	SourceStart int
	SourceEnd   int
	TargetStart int
	TargetEnd   int
}

// newCandidate derives file names and line bounds from the block. Blocks are
// never empty when this is called.
func newCandidate(block []LineMatch, score float64) Candidate {
	c := Candidate{
		Matches:     block,
		Score:       score,
		SourceFile:  block[0].Removed.FilePath,
		TargetFile:  block[0].Added.FilePath,
		SourceStart: block[0].Removed.LineNumber,
		SourceEnd:   block[0].Removed.LineNumber,
		TargetStart: block[0].Added.LineNumber,
		TargetEnd:   block[0].Added.LineNumber,
	}
	for _, m := range block[1:] {
		if m.Removed.LineNumber < c.SourceStart {
			c.SourceStart = m.Removed.LineNumber
		}
		if m.Removed.LineNumber > c.SourceEnd {
			c.SourceEnd = m.Removed.LineNumber
		}
		if m.Added.LineNumber < c.TargetStart {
			c.TargetStart = m.Added.LineNumber
		}
		if m.Added.LineNumber > c.TargetEnd {
			c.TargetEnd = m.Added.LineNumber
		}
	}
	return c
}

// RemovedLines returns the block's removed-side lines in match order.
func (c *Candidate) RemovedLines() []TaggedLine {
	lines := make([]TaggedLine, len(c.Matches))
	for i, m := range c.Matches {
		lines[i] = m.Removed
	}
	return lines
}

// AddedLines returns the block's added-side lines in match order.
func (c *Candidate) AddedLines() []TaggedLine {
	lines := make([]TaggedLine, len(c.Matches))
	for i, m := range c.Matches {
		lines[i] = m.Added
	}
	return lines
}

// FindCandidates groups matches into blocks, scores each block against the
// full added pool, and keeps those scoring above opts.MinScore. The result
// is sorted by score descending; ties keep discovery order so the output is
// deterministic.
func FindCandidates(matches []LineMatch, addedPool []TaggedLine, opts Options) []Candidate {
	blocks := GroupMatchesIntoBlocks(matches, opts.GapTolerance)

	var candidates []Candidate
	for _, block := range blocks {
		score := ScoreBlock(block, addedPool, opts.MinBlockSize)
		if score <= opts.MinScore {
			continue
		}
		candidates = append(candidates, newCandidate(block, score))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
