package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"effdiff/artifact"
	"effdiff/gitdiff"
	"effdiff/logger"
	"effdiff/metrics"
	"effdiff/move"
	"effdiff/vcs"
)

// Pipeline runs one detection pass end to end: obtain a diff, find moved
// blocks, re-diff them against real file content, and emit the effective
// diff plus the move report. A Pipeline serves a single invocation and holds
// no state between runs.
type Pipeline struct {
	cfg     *Config
	differ  move.Differ
	store   *artifact.Store
	tracker *metrics.Tracker

	// Overridable for tests; default to the process streams.
	stdin  io.Reader
	stdout io.Writer
}

// NewPipeline validates the config and assembles the run's collaborators.
func NewPipeline(cfg *Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := artifact.NewStore(cfg.ArtifactsDir)
	if err != nil {
		return nil, err
	}
	runID := ""
	if store.Enabled() {
		runID = store.RunID()
	}
	return &Pipeline{
		cfg:     cfg,
		differ:  cfg.NewDiffer(),
		store:   store,
		tracker: metrics.NewTracker(runID),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}, nil
}

// Run executes the pipeline. Failures obtaining the diff or writing outputs
// abort the run; everything in between degrades per candidate instead of
// failing outright.
func (p *Pipeline) Run(ctx context.Context) error {
	text, err := p.readDiff(ctx)
	if err != nil {
		return err
	}

	d, err := p.parse(ctx, text)
	if err != nil {
		return err
	}

	candidates := p.detect(d)
	oldFiles, newFiles := p.loadContent(ctx, candidates)
	results := p.rediff(candidates, oldFiles, newFiles)
	out, report := p.reconstruct(d, results)

	if err := p.writeOutputs(out, report); err != nil {
		return err
	}

	stats := p.tracker.Snapshot()
	p.storeArtifact("stats", stats)
	logger.Info("pipeline: %s; %s", report.Summary(), stats.Summary())
	return nil
}

// readDiff obtains the unified diff text: from git in repo mode, otherwise
// from the diff file argument, with "-" or no argument meaning stdin.
func (p *Pipeline) readDiff(ctx context.Context) (string, error) {
	if p.cfg.Repo != "" {
		defer p.tracker.Stage("git-diff")()
		text, err := vcs.DiffRefs(ctx, p.cfg.Repo, p.cfg.Base, p.cfg.Target)
		if err != nil {
			return "", fmt.Errorf("diffing %s: %w", p.cfg.Repo, err)
		}
		return text, nil
	}

	path := p.cfg.DiffFile
	if path == "" || path == "-" {
		data, err := io.ReadAll(p.stdin)
		if err != nil {
			return "", fmt.Errorf("reading diff from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading diff: %w", err)
	}
	return string(data), nil
}

func (p *Pipeline) parse(ctx context.Context, text string) (*gitdiff.Diff, error) {
	defer p.tracker.Stage("parse")()

	d, err := gitdiff.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	if p.cfg.Repo != "" {
		if hash, err := vcs.ResolveCommit(ctx, p.cfg.Repo, p.cfg.Base); err == nil {
			d.CommitHash = hash
		} else {
			logger.Warn("pipeline: resolving %s: %v", p.cfg.Base, err)
		}
	}

	p.tracker.Add(metrics.CounterHunks, len(d.Hunks))
	p.storeArtifact("parsed", d)
	logger.Debug("pipeline: parsed %d hunks", len(d.Hunks))
	return d, nil
}

// detect runs the tagging, matching and scoring phases, recording per-stage
// timings and counters as it goes.
func (p *Pipeline) detect(d *gitdiff.Diff) []move.Candidate {
	opts := p.cfg.Options()

	stop := p.tracker.Stage("tag")
	removed, added := move.ExtractTaggedLines(d)
	stop()
	p.tracker.Add(metrics.CounterTaggedLines, len(removed)+len(added))

	stop = p.tracker.Stage("match")
	matches := move.FindExactMatches(removed, added)
	stop()
	p.tracker.Add(metrics.CounterMatches, len(matches))

	stop = p.tracker.Stage("group")
	candidates := move.FindCandidates(matches, added, opts)
	stop()
	p.tracker.Add(metrics.CounterCandidates, len(candidates))

	p.storeArtifact("candidates", candidates)
	logger.Info("pipeline: %d candidates from %d matched lines", len(candidates), len(matches))
	return candidates
}

// loadContent fetches the files the candidates touch from the configured
// tree sources. With no sources configured the maps stay empty and every
// candidate degrades to a pure move.
func (p *Pipeline) loadContent(ctx context.Context, candidates []move.Candidate) (oldFiles, newFiles map[string]string) {
	if len(candidates) == 0 {
		return nil, nil
	}
	defer p.tracker.Stage("load")()

	var oldPaths, newPaths []string
	for _, c := range candidates {
		oldPaths = append(oldPaths, c.SourceFile)
		newPaths = append(newPaths, c.TargetFile)
	}

	oldFiles = vcs.LoadAll(ctx, p.oldSource(), oldPaths)
	newFiles = vcs.LoadAll(ctx, p.newSource(), newPaths)
	p.tracker.Add(metrics.CounterFilesLoaded, len(oldFiles)+len(newFiles))
	return oldFiles, newFiles
}

// oldSource picks where pre-change content comes from: an explicit tree flag
// wins, then the base revision in repo mode.
func (p *Pipeline) oldSource() vcs.FileSource {
	if p.cfg.OldTree != "" {
		return p.treeSource(p.cfg.OldTree)
	}
	if p.cfg.Repo != "" {
		return &vcs.GitTree{Dir: p.cfg.Repo, Rev: p.cfg.Base}
	}
	return nil
}

// newSource picks where post-change content comes from. In repo mode an
// empty target means the diff was taken against the working tree, so content
// comes from the working directory itself.
func (p *Pipeline) newSource() vcs.FileSource {
	if p.cfg.NewTree != "" {
		return p.treeSource(p.cfg.NewTree)
	}
	if p.cfg.Repo != "" {
		if p.cfg.Target == "" {
			return &vcs.DirTree{Root: p.cfg.Repo}
		}
		return &vcs.GitTree{Dir: p.cfg.Repo, Rev: p.cfg.Target}
	}
	return nil
}

// treeSource interprets a tree flag value: "git:REV" reads from that
// revision of the configured repository, anything else is a directory.
func (p *Pipeline) treeSource(spec string) vcs.FileSource {
	if rev, ok := strings.CutPrefix(spec, "git:"); ok && p.cfg.Repo != "" {
		return &vcs.GitTree{Dir: p.cfg.Repo, Rev: rev}
	}
	return &vcs.DirTree{Root: spec}
}

func (p *Pipeline) rediff(candidates []move.Candidate, oldFiles, newFiles map[string]string) []*move.EffectiveDiff {
	defer p.tracker.Stage("rediff")()

	results := move.ComputeAll(candidates, oldFiles, newFiles, p.differ, p.cfg.Options())
	p.storeArtifact("effective", results)
	return results
}

func (p *Pipeline) reconstruct(d *gitdiff.Diff, results []*move.EffectiveDiff) (*gitdiff.Diff, *move.Report) {
	defer p.tracker.Stage("reconstruct")()

	out := move.Reconstruct(d, results)
	report := move.BuildReport(results)
	p.tracker.Add(metrics.CounterMoves, report.MovesDetected)
	p.tracker.Add(metrics.CounterLinesMoved, report.TotalLinesMoved)
	p.tracker.Add(metrics.CounterLinesChanged, report.TotalLinesEffectivelyChanged)

	p.storeArtifact("reconstructed", out)
	p.storeArtifact("report", report)
	return out, report
}

// writeOutputs renders the effective diff to the output path or stdout and,
// when configured, the report JSON to its own file.
func (p *Pipeline) writeOutputs(out *gitdiff.Diff, report *move.Report) error {
	text := gitdiff.Format(out)
	if path := p.cfg.OutputPath; path != "" && path != "-" {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing effective diff: %w", err)
		}
	} else if _, err := io.WriteString(p.stdout, text); err != nil {
		return fmt.Errorf("writing effective diff: %w", err)
	}

	if path := p.cfg.ReportPath; path != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		data = append(data, '\n')
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

// storeArtifact persists a stage artifact; artifact trouble never fails the
// run.
func (p *Pipeline) storeArtifact(stage string, payload any) {
	if err := p.store.Write(stage, payload); err != nil {
		logger.Warn("pipeline: %v", err)
	}
}
