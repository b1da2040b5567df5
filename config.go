package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"effdiff/move"
	"effdiff/textdiff"
)

// Differ selection names accepted by --differ.
const (
	DifferUnified = "unified"
	DifferCommand = "command"
)

// Config holds everything one run needs. Values resolve in order: defaults,
// then an optional effdiff.yaml, then EFFDIFF_* environment variables, then
// command-line flags.
type Config struct {
	// Input selection. DiffFile is a unified diff path, "-" for stdin.
	// Repo switches to git mode: the diff is produced from Base..Target
	// inside that repository, with an empty Target meaning the working
	// tree.
	DiffFile string `mapstructure:"diff_file"`
	Repo     string `mapstructure:"repo"`
	Base     string `mapstructure:"base"`
	Target   string `mapstructure:"target"`

	// Tree sources for re-diffing: directories holding the old and new
	// file contents. In git mode these default to the Base and Target
	// revisions of the repository.
	OldTree string `mapstructure:"old_tree"`
	NewTree string `mapstructure:"new_tree"`

	// Detection tuning; mirrors move.Options.
	MinBlockSize  int     `mapstructure:"min_block_size"`
	GapTolerance  int     `mapstructure:"gap_tolerance"`
	ContextLines  int     `mapstructure:"context_lines"`
	TrimProximity int     `mapstructure:"trim_proximity"`
	MinScore      float64 `mapstructure:"min_score"`

	// Differ is the re-diff engine: "unified" runs in process, "command"
	// shells out to DiffBin.
	Differ  string `mapstructure:"differ"`
	DiffBin string `mapstructure:"diff_bin"`

	// Output paths. OutputPath empty or "-" writes the effective diff to
	// stdout; ReportPath empty skips the JSON report file.
	OutputPath   string `mapstructure:"output"`
	ReportPath   string `mapstructure:"report"`
	ArtifactsDir string `mapstructure:"artifacts_dir"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// LoadConfig resolves configuration from defaults, effdiff.yaml and the
// environment. Flag overrides are applied separately by ApplyFlags so tests
// can load without a cobra command. Every key gets a default so environment
// lookups resolve during Unmarshal.
func LoadConfig() (*Config, error) {
	opts := move.DefaultOptions()

	v := viper.New()
	v.SetConfigName("effdiff")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "effdiff"))
	}

	v.SetDefault("diff_file", "")
	v.SetDefault("repo", "")
	v.SetDefault("base", "HEAD")
	v.SetDefault("target", "")
	v.SetDefault("old_tree", "")
	v.SetDefault("new_tree", "")
	v.SetDefault("min_block_size", opts.MinBlockSize)
	v.SetDefault("gap_tolerance", opts.GapTolerance)
	v.SetDefault("context_lines", opts.ContextLines)
	v.SetDefault("trim_proximity", opts.TrimProximity)
	v.SetDefault("min_score", opts.MinScore)
	v.SetDefault("differ", DifferUnified)
	v.SetDefault("diff_bin", "diff")
	v.SetDefault("output", "")
	v.SetDefault("report", "")
	v.SetDefault("artifacts_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("EFFDIFF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// ApplyFlags overlays explicitly-set command-line flags onto the config.
// Only flags the user changed win over file and environment values.
func (c *Config) ApplyFlags(cmd *cobra.Command, args []string) {
	if len(args) > 0 {
		c.DiffFile = args[0]
	}

	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"repo":      &c.Repo,
		"base":      &c.Base,
		"target":    &c.Target,
		"old-tree":  &c.OldTree,
		"new-tree":  &c.NewTree,
		"differ":    &c.Differ,
		"diff-bin":  &c.DiffBin,
		"output":    &c.OutputPath,
		"report":    &c.ReportPath,
		"artifacts": &c.ArtifactsDir,
		"log-level": &c.LogLevel,
		"log-file":  &c.LogFile,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	intFlags := map[string]*int{
		"min-block-size": &c.MinBlockSize,
		"gap-tolerance":  &c.GapTolerance,
		"context-lines":  &c.ContextLines,
		"trim-proximity": &c.TrimProximity,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	if flags.Changed("min-score") {
		c.MinScore, _ = flags.GetFloat64("min-score")
	}
}

// Validate rejects combinations the pipeline cannot run.
func (c *Config) Validate() error {
	if c.Differ != DifferUnified && c.Differ != DifferCommand {
		return fmt.Errorf("unknown differ %q (want %s or %s)", c.Differ, DifferUnified, DifferCommand)
	}
	if c.Repo == "" && c.Target != "" {
		return fmt.Errorf("--target requires --repo")
	}
	for _, tree := range []string{c.OldTree, c.NewTree} {
		if strings.HasPrefix(tree, "git:") && c.Repo == "" {
			return fmt.Errorf("tree source %q requires --repo", tree)
		}
	}
	if c.MinBlockSize < 1 {
		return fmt.Errorf("min block size must be at least 1, got %d", c.MinBlockSize)
	}
	if c.GapTolerance < 0 || c.ContextLines < 0 || c.TrimProximity < 0 {
		return fmt.Errorf("gap tolerance, context lines and trim proximity must not be negative")
	}
	return nil
}

// Options maps the tuning fields onto the detection engine's options.
func (c *Config) Options() move.Options {
	return move.Options{
		MinBlockSize:  c.MinBlockSize,
		GapTolerance:  c.GapTolerance,
		ContextLines:  c.ContextLines,
		TrimProximity: c.TrimProximity,
		MinScore:      c.MinScore,
	}
}

// NewDiffer builds the configured re-diff engine.
func (c *Config) NewDiffer() move.Differ {
	if c.Differ == DifferCommand {
		return &textdiff.Command{Path: c.DiffBin}
	}
	return &textdiff.Unified{}
}
