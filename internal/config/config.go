// Package config loads weft's runtime tuning knobs with layered precedence:
//
//  1. CLI flags
//  2. Environment variables (WEFT_* prefix)
//  3. Project config (.weft.yaml in the workflow file's directory)
//  4. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: this package may import internal/constants and internal/errors
// but MUST NOT import internal/model, internal/engine, or internal/workflow.
package config

import (
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/feltlabs/weft/internal/constants"
)

// Config is the root runtime configuration for weft.
type Config struct {
	// Workers is the number of worker goroutines in the execution engine's
	// bounded pool. Values below 1 are clamped to 1.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Title overrides the dashboard header; defaults to the workflow file's
	// base name.
	Title string `yaml:"title" mapstructure:"title"`

	// TailLines bounds the per-step in-memory output/debug ring buffers.
	TailLines int `yaml:"tail_lines" mapstructure:"tail_lines"`

	// KillGraceSeconds is how long kill waits after the soft signal before
	// escalating to the hard signal.
	KillGraceSeconds int `yaml:"kill_grace_seconds" mapstructure:"kill_grace_seconds"`

	// LogsDir is the directory (relative to cwd) holding per-step log files.
	LogsDir string `yaml:"logs_dir" mapstructure:"logs_dir"`
}

// Defaults returns the built-in configuration used when no flag, env var or
// project file overrides a field.
func Defaults() Config {
	return Config{
		Workers:          detectWorkers(),
		TailLines:        constants.DefaultTailLines,
		KillGraceSeconds: constants.DefaultKillGraceSeconds,
		LogsDir:          constants.LogsDirName,
	}
}

// detectWorkers returns the number of logical CPUs, capped at a small
// default if detection fails or reports an implausible value.
func detectWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		return constants.DefaultMaxWorkers
	}
	return n
}

// Load builds a Config by layering, in increasing precedence: built-in
// defaults, a project file named ".weft.yaml" next to workflowPath (if it
// exists), environment variables prefixed WEFT_, and finally the values
// already placed on v by the caller (the root command copies set cobra flags
// in with v.Set).
func Load(v *viper.Viper, workflowPath string) (Config, error) {
	cfg := Defaults()

	v.SetConfigName(".weft")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Dir(workflowPath))

	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("title", cfg.Title)
	v.SetDefault("tail_lines", cfg.TailLines)
	v.SetDefault("kill_grace_seconds", cfg.KillGraceSeconds)
	v.SetDefault("logs_dir", cfg.LogsDir)

	v.SetEnvPrefix("WEFT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	cfg = Normalize(cfg)
	return cfg, nil
}

// Normalize clamps and fills in values that must satisfy an invariant
// regardless of where they were sourced from. max_workers < 1 is treated as
// 1, per the design's resolution of that open question.
func Normalize(cfg Config) Config {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.TailLines < 1 {
		cfg.TailLines = constants.DefaultTailLines
	}
	if cfg.KillGraceSeconds < 0 {
		cfg.KillGraceSeconds = constants.DefaultKillGraceSeconds
	}
	if cfg.LogsDir == "" {
		cfg.LogsDir = constants.LogsDirName
	}
	return cfg
}
