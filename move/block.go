package move

import "sort"

// GroupMatchesIntoBlocks turns individual line matches into candidate moved
// blocks. Matches with distance 0 are discarded first: a removal and an
// addition inside the same hunk is an in-place edit, not a move. The rest
// are grouped by (source file, target file) pair, ordered by removed-side
// line number, and split wherever the gap between consecutive matched
// removed lines exceeds gapTolerance. A gap is the count of unmatched lines
// between two matches, so removed lines {1, 5} with tolerance 3 stay in one
// block while {1, 6} split.
func GroupMatchesIntoBlocks(matches []LineMatch, gapTolerance int) [][]LineMatch {
	groups := make(map[string][]LineMatch)
	var order []string
	for _, m := range matches {
		if m.Distance == 0 {
			continue
		}
		key := m.Removed.FilePath + "\x00" + m.Added.FilePath
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	var blocks [][]LineMatch
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Removed.LineNumber < group[j].Removed.LineNumber
		})

		var current []LineMatch
		for _, m := range group {
			if len(current) > 0 {
				gap := m.Removed.LineNumber - current[len(current)-1].Removed.LineNumber - 1
				if gap > gapTolerance {
					blocks = append(blocks, current)
					current = nil
				}
			}
			current = append(current, m)
		}
		if len(current) > 0 {
			blocks = append(blocks, current)
		}
	}
	return blocks
}
