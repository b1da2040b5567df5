// Package metrics collects stage timings and counters for one pipeline run.
// The snapshot is logged at the end of the run and stored as an artifact so
// detection quality can be compared across runs.
package metrics

import (
	"fmt"
	"sync"
	"time"
)

// Counter names used by the pipeline. Sharing constants keeps the stats
// artifact's keys stable across runs.
const (
	CounterHunks        = "hunks"
	CounterTaggedLines  = "tagged_lines"
	CounterMatches      = "matches"
	CounterCandidates   = "candidates"
	CounterFilesLoaded  = "files_loaded"
	CounterMoves        = "moves_detected"
	CounterLinesMoved   = "lines_moved"
	CounterLinesChanged = "lines_effectively_changed"
)

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
}

// RunStats is the serializable snapshot of a run's metrics.
type RunStats struct {
	RunID     string         `json:"run_id,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	TotalMs   int64          `json:"total_ms"`
	Stages    []StageTiming  `json:"stages"`
	Counters  map[string]int `json:"counters"`
}

// Summary renders a one-line overview for logs.
func (r *RunStats) Summary() string {
	return fmt.Sprintf("%d stages in %dms (moves=%d, candidates=%d)",
		len(r.Stages), r.TotalMs, r.Counters[CounterMoves], r.Counters[CounterCandidates])
}

// Tracker accumulates timings and counters as the pipeline runs. Methods are
// safe for concurrent use, though the pipeline itself is sequential.
type Tracker struct {
	mu        sync.Mutex
	runID     string
	startedAt time.Time
	stages    []StageTiming
	counters  map[string]int
}

// NewTracker starts tracking a run. The runID ties the stats to the run's
// artifacts; it may be empty when artifacts are disabled.
func NewTracker(runID string) *Tracker {
	return &Tracker{
		runID:     runID,
		startedAt: time.Now(),
		counters:  make(map[string]int),
	}
}

// Stage returns a function that records the stage's duration when called.
// Usage: defer t.Stage("detect")()
func (t *Tracker) Stage(name string) func() {
	start := time.Now()
	return func() {
		t.mu.Lock()
		t.stages = append(t.stages, StageTiming{
			Name:       name,
			DurationMs: time.Since(start).Milliseconds(),
		})
		t.mu.Unlock()
	}
}

// Add increments a named counter.
func (t *Tracker) Add(name string, n int) {
	t.mu.Lock()
	t.counters[name] += n
	t.mu.Unlock()
}

// Snapshot returns a copy of the stats collected so far. The copy shares
// nothing with the tracker, so it stays stable once taken.
func (t *Tracker) Snapshot() *RunStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := &RunStats{
		RunID:     t.runID,
		StartedAt: t.startedAt,
		TotalMs:   time.Since(t.startedAt).Milliseconds(),
		Stages:    make([]StageTiming, len(t.stages)),
		Counters:  make(map[string]int, len(t.counters)),
	}
	copy(stats.Stages, t.stages)
	for name, n := range t.counters {
		stats.Counters[name] = n
	}
	return stats
}
