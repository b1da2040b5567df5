package move

import (
	"encoding/json"
	"fmt"
)

// LineRange is an inclusive, 1-indexed span of lines. On the wire it is a
// two-element [start, end] array.
type LineRange struct {
	Start int
	End   int
}

// MarshalJSON renders the range as [start, end].
func (r LineRange) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%d,%d]", r.Start, r.End)), nil
}

// UnmarshalJSON reads the [start, end] array form back.
func (r *LineRange) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("line range: %w", err)
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// Detail describes one detected move in the report.
type Detail struct {
	SourceFile         string    `json:"source_file"`
	TargetFile         string    `json:"target_file"`
	SourceLines        LineRange `json:"source_lines"`
	TargetLines        LineRange `json:"target_lines"`
	MatchedLines       int       `json:"matched_lines"`
	Score              float64   `json:"score"`
	EffectiveDiffLines int       `json:"effective_diff_lines"`
}

// Report is the machine-readable summary of a detection run. Field names
// are a stable contract for downstream consumers.
type Report struct {
	MovesDetected                int      `json:"moves_detected"`
	TotalLinesMoved              int      `json:"total_lines_moved"`
	TotalLinesEffectivelyChanged int      `json:"total_lines_effectively_changed"`
	Moves                        []Detail `json:"moves"`
}

// BuildReport summarizes the re-diffed candidates. Moves is always non-nil
// so an empty report serializes as [] rather than null.
func BuildReport(results []*EffectiveDiff) *Report {
	report := &Report{Moves: []Detail{}}
	for _, res := range results {
		c := res.Candidate
		changed := res.ChangedLines()
		report.Moves = append(report.Moves, Detail{
			SourceFile:         c.SourceFile,
			TargetFile:         c.TargetFile,
			SourceLines:        LineRange{Start: c.SourceStart, End: c.SourceEnd},
			TargetLines:        LineRange{Start: c.TargetStart, End: c.TargetEnd},
			MatchedLines:       len(c.Matches),
			Score:              c.Score,
			EffectiveDiffLines: changed,
		})
		report.MovesDetected++
		report.TotalLinesMoved += len(c.Matches)
		report.TotalLinesEffectivelyChanged += changed
	}
	return report
}

// Summary renders a one-line human overview for logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d moves, %d lines moved, %d lines effectively changed",
		r.MovesDetected, r.TotalLinesMoved, r.TotalLinesEffectivelyChanged)
}
