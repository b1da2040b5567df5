package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"effdiff/move"
	"effdiff/textdiff"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err, "load with no config file")

	defaults := move.DefaultOptions()
	assert.Equal(t, "HEAD", cfg.Base, "base defaults to HEAD")
	assert.Equal(t, defaults.MinBlockSize, cfg.MinBlockSize, "block size default")
	assert.Equal(t, defaults.GapTolerance, cfg.GapTolerance, "gap tolerance default")
	assert.Equal(t, defaults.ContextLines, cfg.ContextLines, "context lines default")
	assert.Equal(t, defaults.TrimProximity, cfg.TrimProximity, "trim proximity default")
	assert.Equal(t, DifferUnified, cfg.Differ, "in-process differ by default")
	assert.Equal(t, "diff", cfg.DiffBin, "diff binary default")
	assert.Equal(t, "info", cfg.LogLevel, "info level default")
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "min_block_size: 4\ndiffer: command\nreport: moves.json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "effdiff.yaml"), []byte(yaml), 0644), "write config")

	cfg, err := LoadConfig()
	require.NoError(t, err, "load with config file")

	assert.Equal(t, 4, cfg.MinBlockSize, "yaml overrides the default")
	assert.Equal(t, DifferCommand, cfg.Differ, "yaml selects the differ")
	assert.Equal(t, "moves.json", cfg.ReportPath, "yaml sets the report path")
	assert.Equal(t, 3, cfg.GapTolerance, "untouched keys keep defaults")
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EFFDIFF_MIN_BLOCK_SIZE", "6")
	t.Setenv("EFFDIFF_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err, "load with environment")

	assert.Equal(t, 6, cfg.MinBlockSize, "environment overrides the default")
	assert.Equal(t, "debug", cfg.LogLevel, "environment sets the log level")
}

func TestConfig_ApplyFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err, "load defaults")

	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Set("min-block-size", "5"), "set flag")
	require.NoError(t, cmd.Flags().Set("repo", "/tmp/somerepo"), "set flag")
	require.NoError(t, cmd.Flags().Set("min-score", "0.25"), "set flag")

	cfg.ApplyFlags(cmd, []string{"changes.patch"})

	assert.Equal(t, "changes.patch", cfg.DiffFile, "positional argument is the diff file")
	assert.Equal(t, 5, cfg.MinBlockSize, "changed int flag wins")
	assert.Equal(t, "/tmp/somerepo", cfg.Repo, "changed string flag wins")
	assert.InDelta(t, 0.25, cfg.MinScore, 1e-9, "changed float flag wins")
	assert.Equal(t, 3, cfg.GapTolerance, "untouched flags leave config values alone")
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Base:         "HEAD",
			MinBlockSize: 3,
			Differ:       DifferUnified,
		}
	}

	assert.NoError(t, base().Validate(), "minimal config is valid")

	c := base()
	c.Differ = "patience"
	assert.Error(t, c.Validate(), "unknown differ rejected")

	c = base()
	c.Target = "feature"
	assert.Error(t, c.Validate(), "target without repo rejected")

	c = base()
	c.OldTree = "git:main"
	assert.Error(t, c.Validate(), "git tree source without repo rejected")

	c = base()
	c.Repo = "."
	c.Target = "feature"
	c.OldTree = "git:main"
	assert.NoError(t, c.Validate(), "git tree source with repo accepted")

	c = base()
	c.MinBlockSize = 0
	assert.Error(t, c.Validate(), "zero block size rejected")

	c = base()
	c.GapTolerance = -1
	assert.Error(t, c.Validate(), "negative gap tolerance rejected")
}

func TestConfig_Options(t *testing.T) {
	c := &Config{
		MinBlockSize:  4,
		GapTolerance:  2,
		ContextLines:  10,
		TrimProximity: 1,
		MinScore:      0.1,
	}

	opts := c.Options()
	assert.Equal(t, move.Options{
		MinBlockSize:  4,
		GapTolerance:  2,
		ContextLines:  10,
		TrimProximity: 1,
		MinScore:      0.1,
	}, opts, "options mirror the config fields")
}

func TestConfig_NewDiffer(t *testing.T) {
	c := &Config{Differ: DifferUnified}
	_, ok := c.NewDiffer().(*textdiff.Unified)
	assert.True(t, ok, "unified selects the in-process differ")

	c = &Config{Differ: DifferCommand, DiffBin: "gdiff"}
	cmdDiffer, ok := c.NewDiffer().(*textdiff.Command)
	require.True(t, ok, "command selects the external differ")
	assert.Equal(t, "gdiff", cmdDiffer.Path, "binary carried through")
}
