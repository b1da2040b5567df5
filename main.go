package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"effdiff/logger"
	"effdiff/move"
)

var (
	// Version is set during build.
	Version = "dev"
	// GitCommit is set during build.
	GitCommit = "none"
)

func newRootCommand() *cobra.Command {
	defaults := move.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "effdiff [diff-file]",
		Short: "Collapse moved code in unified diffs down to its real edits",
		Long: `effdiff detects blocks of code that a diff moved rather than edited.
Verbatim moves disappear from the output entirely; moves that were edited in
flight shrink to hunks showing only those edits. A JSON move report describes
every detected move.

The diff comes from a file argument, stdin, or --repo with git revisions:

  effdiff changes.patch
  git diff HEAD~3 | effdiff --report moves.json
  effdiff --repo . --base main --target feature -o effective.patch`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		RunE:          runDetect,
	}

	flags := cmd.Flags()
	flags.String("repo", "", "Git repository to diff instead of reading a diff file")
	flags.String("base", "HEAD", "Base revision in --repo mode")
	flags.String("target", "", "Target revision in --repo mode; empty compares the working tree")
	flags.String("old-tree", "", "Directory (or git:REV) holding pre-change file content")
	flags.String("new-tree", "", "Directory (or git:REV) holding post-change file content")
	flags.Int("min-block-size", defaults.MinBlockSize, "Smallest matched block that can count as a move")
	flags.Int("gap-tolerance", defaults.GapTolerance, "Unmatched lines absorbed inside a block before it splits")
	flags.Int("context-lines", defaults.ContextLines, "Lines of context around a block when re-diffing")
	flags.Int("trim-proximity", defaults.TrimProximity, "How far outside its block an effective hunk may sit")
	flags.Float64("min-score", defaults.MinScore, "Exclude candidates scoring at or below this")
	flags.String("differ", DifferUnified, "Re-diff engine: unified (in-process) or command (external binary)")
	flags.String("diff-bin", "diff", "Binary used by the command differ")
	flags.StringP("output", "o", "", "Write the effective diff here instead of stdout")
	flags.String("report", "", "Write the move report JSON to this file")
	flags.String("artifacts", "", "Directory for per-stage JSON artifacts")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	flags.String("log-file", "", "Log to this line-capped file instead of stderr")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyFlags(cmd, args)

	log, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	p, err := NewPipeline(cfg)
	if err != nil {
		return err
	}
	return p.Run(cmd.Context())
}

// setupLogger installs the process logger: a line-capped file logger when a
// path is configured, stderr otherwise.
func setupLogger(cfg *Config) (*logger.Logger, error) {
	level := logger.ParseLogLevel(cfg.LogLevel)
	if cfg.LogFile == "" {
		return logger.New(level), nil
	}
	l, err := logger.Open(cfg.LogFile, level)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return l, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "effdiff: %v\n", err)
		os.Exit(1)
	}
}
