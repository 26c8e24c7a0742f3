// Package config provides unified run configuration loading for metaflux.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/metaflux/metaflux/internal/profile"
	"gopkg.in/yaml.v3"
)

// RunConfig contains all settings for one simulation run.
type RunConfig struct {
	// Duration is the simulated time to integrate, in seconds.
	Duration float64 `json:"duration" yaml:"duration"`

	// TimeStep is the RK4 substep in seconds.
	TimeStep float64 `json:"time_step" yaml:"time_step"`

	// OutputInterval is the sim-seconds between trajectory snapshots.
	OutputInterval float64 `json:"output_interval" yaml:"output_interval"`

	// Substeps is the number of RK4 substeps per driver tick.
	Substeps int `json:"substeps" yaml:"substeps"`

	// MinutesPerRealSecond is the live-mode wall-clock scale.
	MinutesPerRealSecond float64 `json:"minutes_per_real_second" yaml:"minutes_per_real_second"`

	// StartTime is the sim clock time of day at t=0, "HH:MM".
	StartTime string `json:"start_time" yaml:"start_time"`

	// CaptureFluxes includes per-reaction rates in snapshots.
	CaptureFluxes bool `json:"capture_fluxes" yaml:"capture_fluxes"`

	// EnzymesFile and PathwaysFile locate the pathway configuration.
	EnzymesFile  string `json:"enzymes_file" yaml:"enzymes_file"`
	PathwaysFile string `json:"pathways_file" yaml:"pathways_file"`

	// ScheduleFile locates the daily schedule. Empty means the default
	// 07:00-23:00 day with no events.
	ScheduleFile string `json:"schedule_file,omitempty" yaml:"schedule_file,omitempty"`

	// GeneticProfile locates the raw SNP export. Empty disables genetics.
	GeneticProfile string `json:"genetic_profile,omitempty" yaml:"genetic_profile,omitempty"`

	// Profile carries demographics, sleep, and lab overrides.
	Profile profile.UserProfile `json:"profile" yaml:"profile"`

	// Supplements are applied to the pathway before the run.
	Supplements []profile.Supplement `json:"supplements,omitempty" yaml:"supplements,omitempty"`

	// DisabledRules switches off individual homeostasis rules by name.
	DisabledRules []string `json:"disabled_rules,omitempty" yaml:"disabled_rules,omitempty"`

	// StorePath is the SQLite trajectory database. Empty keeps the run
	// in memory only.
	StorePath string `json:"store_path,omitempty" yaml:"store_path,omitempty"`

	// Logging configures log verbosity.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig configures metaflux logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables anomaly logging to anomalies.jsonl.
	Level string `json:"level" yaml:"level"`

	// AnomalyDir is where anomalies.jsonl is written at debug/trace level.
	AnomalyDir string `json:"anomaly_dir,omitempty" yaml:"anomaly_dir,omitempty"`
}

// Default returns a RunConfig with sensible defaults: a 60-second run at
// dt=0.01 with one snapshot per second, starting at 07:00.
func Default() *RunConfig {
	return &RunConfig{
		Duration:             60,
		TimeStep:             0.01,
		OutputInterval:       1,
		Substeps:             10,
		MinutesPerRealSecond: 24,
		StartTime:            "07:00",
		Profile:              profile.Neutral(),
		Logging:              LoggingConfig{Level: "info", AnomalyDir: ".metaflux"},
	}
}

// LoadFromFile loads configuration from a specific YAML file, applying
// defaults for unset fields and environment overrides on top.
func LoadFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(config)
	return config, nil
}

// Validate checks that the configuration is internally consistent.
func (c *RunConfig) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("time_step must be positive, got %v", c.TimeStep)
	}
	if c.OutputInterval < c.TimeStep {
		return fmt.Errorf("output_interval %v must be at least time_step %v", c.OutputInterval, c.TimeStep)
	}
	if c.Substeps <= 0 {
		return fmt.Errorf("substeps must be positive, got %d", c.Substeps)
	}
	if c.Profile.Age < 0 || c.Profile.SleepHours < 0 {
		return fmt.Errorf("profile demographics must be nonnegative")
	}
	if c.Profile.SleepQuality < 0 || c.Profile.SleepQuality > 100 {
		return fmt.Errorf("sleep_quality must be in [0, 100], got %v", c.Profile.SleepQuality)
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *RunConfig) {
	if v := os.Getenv("METAFLUX_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("METAFLUX_DURATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Duration = f
		}
	}
	if v := os.Getenv("METAFLUX_TIME_STEP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.TimeStep = f
		}
	}
	if v := os.Getenv("METAFLUX_STORE_PATH"); v != "" {
		config.StorePath = v
	}
	if v := os.Getenv("METAFLUX_GENETIC_PROFILE"); v != "" {
		config.GeneticProfile = v
	}
}
