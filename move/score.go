package move

import "sort"

const (
	// fullSizeBlock is the block size at which SizeFactor saturates at 1.0.
	fullSizeBlock = 10

	// baseSizeFactor is the SizeFactor of a block exactly at MinBlockSize.
	baseSizeFactor = 0.3
)

// SizeFactor rates a block by line count: 0 below minBlockSize, then rising
// linearly from baseSizeFactor at minBlockSize to 1.0 at fullSizeBlock and
// above. Bigger blocks are stronger evidence of a deliberate move.
func SizeFactor(blockSize, minBlockSize int) float64 {
	if blockSize < minBlockSize {
		return 0
	}
	if blockSize >= fullSizeBlock || minBlockSize >= fullSizeBlock {
		return 1.0
	}
	span := float64(fullSizeBlock - minBlockSize)
	return baseSizeFactor + (1.0-baseSizeFactor)*float64(blockSize-minBlockSize)/span
}

// LineUniqueness averages 1/occurrences over the block's lines, where
// occurrences counts how often each line's normalized content appears in the
// whole added pool. A block of one-of-a-kind lines scores 1.0; a block of
// boilerplate that appears all over the diff scores near 0.
func LineUniqueness(block []LineMatch, addedPool []TaggedLine) float64 {
	if len(block) == 0 {
		return 0
	}
	counts := make(map[string]int, len(addedPool))
	for _, line := range addedPool {
		if line.Normalized == "" {
			continue
		}
		counts[line.Normalized]++
	}
	total := 0.0
	for _, m := range block {
		n := counts[m.Removed.Normalized]
		if n < 1 {
			n = 1
		}
		total += 1.0 / float64(n)
	}
	return total / float64(len(block))
}

// MatchConsistency measures how uniformly the block's lines shifted. Each
// match has an offset (added line number minus removed line number); a block
// moved verbatim has one constant offset and scores 1.0, while scattered
// coincidental matches have wildly varying offsets and score low. The value
// is 1/(1+d) where d is the mean absolute deviation of the offsets from
// their median. Single-match blocks are trivially consistent.
func MatchConsistency(block []LineMatch) float64 {
	if len(block) <= 1 {
		return 1.0
	}
	offsets := make([]float64, len(block))
	for i, m := range block {
		offsets[i] = float64(m.Added.LineNumber - m.Removed.LineNumber)
	}
	med := median(offsets)
	dev := 0.0
	for _, off := range offsets {
		d := off - med
		if d < 0 {
			d = -d
		}
		dev += d
	}
	dev /= float64(len(offsets))
	return 1.0 / (1.0 + dev)
}

// DistanceFactor rates the hunk distance between a block's two sides: 0 at
// distance 0, 0.5 at distance 1, 1.0 at distance 2 and beyond. Changes far
// apart in the diff are more likely to be real moves than adjacent churn.
func DistanceFactor(distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	if distance >= 2 {
		return 1.0
	}
	return distance / 2
}

// ScoreBlock multiplies the four factors together, so any factor at zero
// vetoes the block outright. Undersized blocks short-circuit to 0.
func ScoreBlock(block []LineMatch, addedPool []TaggedLine, minBlockSize int) float64 {
	size := SizeFactor(len(block), minBlockSize)
	if size == 0 {
		return 0
	}
	return size *
		LineUniqueness(block, addedPool) *
		MatchConsistency(block) *
		DistanceFactor(averageDistance(block))
}

// averageDistance is the mean hunk distance across the block's matches.
func averageDistance(block []LineMatch) float64 {
	if len(block) == 0 {
		return 0
	}
	total := 0
	for _, m := range block {
		total += m.Distance
	}
	return float64(total) / float64(len(block))
}

// median returns the median of vals, averaging the middle pair for even
// counts. The input slice is not modified.
func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
