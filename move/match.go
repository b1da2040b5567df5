package move

// LineMatch pairs a removed line with an added line whose normalized content
// is identical. Distance is the absolute hunk-index gap between the two
// sides; 0 means both live in the same hunk. Similarity is always 1.0 since
// only exact matches are produced, but the field keeps room for fuzzy
// matching later.
type LineMatch struct {
	Removed    TaggedLine
	Added      TaggedLine
	Distance   int
	Similarity float64
}

// BuildAddedIndex groups added lines by normalized content, preserving
// encounter order within each group. Lines that normalize to empty are
// excluded: blank lines are everywhere and carry no move signal.
func BuildAddedIndex(added []TaggedLine) map[string][]TaggedLine {
	index := make(map[string][]TaggedLine)
	for _, line := range added {
		if line.Normalized == "" {
			continue
		}
		index[line.Normalized] = append(index[line.Normalized], line)
	}
	return index
}

// FindExactMatches greedily pairs each removed line, in document order, with
// the first not-yet-consumed added line of identical normalized content.
// Every added line is consumed at most once, so the result is one-to-one.
// Removed lines with no available partner are dropped without error. The
// greedy first-available rule makes the pairing deterministic for a given
// input order.
func FindExactMatches(removed, added []TaggedLine) []LineMatch {
	index := BuildAddedIndex(added)
	consumed := make(map[string]int, len(index))

	var matches []LineMatch
	for _, r := range removed {
		if r.Normalized == "" {
			continue
		}
		pool := index[r.Normalized]
		next := consumed[r.Normalized]
		if next >= len(pool) {
			continue
		}
		a := pool[next]
		consumed[r.Normalized] = next + 1
		matches = append(matches, LineMatch{
			Removed:    r,
			Added:      a,
			Distance:   abs(r.HunkIndex - a.HunkIndex),
			Similarity: 1.0,
		})
	}
	return matches
}
