package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	doc := `
duration: 30
time_step: 0.005
output_interval: 10
start_time: "06:00"
pathways_file: pathways.json
enzymes_file: enzymes.json
profile:
  age: 52
  sleep_hours: 5.5
  sleep_quality: 55
  lab_overrides:
    hcy: 0.018
supplements:
  - id: methylfolate
    type: SubstrateIncrease
    target_id: methyl_thf
    effect_magnitude: 0.1
disabled_rules:
  - o2-resupply
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Duration != 30 || cfg.TimeStep != 0.005 || cfg.OutputInterval != 10 {
		t.Errorf("numeric fields = %v/%v/%v", cfg.Duration, cfg.TimeStep, cfg.OutputInterval)
	}
	// Unset fields keep defaults.
	if cfg.Substeps != 10 {
		t.Errorf("substeps = %d, want default 10", cfg.Substeps)
	}
	if cfg.Profile.Age != 52 || cfg.Profile.LabOverrides["hcy"] != 0.018 {
		t.Errorf("profile = %+v", cfg.Profile)
	}
	if len(cfg.Supplements) != 1 || cfg.Supplements[0].TargetID != "methyl_thf" {
		t.Errorf("supplements = %+v", cfg.Supplements)
	}
	if len(cfg.DisabledRules) != 1 || cfg.DisabledRules[0] != "o2-resupply" {
		t.Errorf("disabled rules = %v", cfg.DisabledRules)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"zero duration", func(c *RunConfig) { c.Duration = 0 }},
		{"negative time step", func(c *RunConfig) { c.TimeStep = -1 }},
		{"output below dt", func(c *RunConfig) { c.OutputInterval = 0.001 }},
		{"zero substeps", func(c *RunConfig) { c.Substeps = 0 }},
		{"sleep quality above 100", func(c *RunConfig) { c.Profile.SleepQuality = 140 }},
		{"bad log level", func(c *RunConfig) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("duration: 10\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("METAFLUX_LOG_LEVEL", "trace")
	t.Setenv("METAFLUX_DURATION", "120")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Logging.Level != "trace" {
		t.Errorf("log level = %q, want trace", cfg.Logging.Level)
	}
	if cfg.Duration != 120 {
		t.Errorf("duration = %v, want env override 120", cfg.Duration)
	}
}
