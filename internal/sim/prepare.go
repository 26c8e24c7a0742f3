// Package sim assembles simulation runs from configuration: it loads
// pathway, schedule, and genetic inputs, applies the personalization layer,
// and produces ready-to-run drivers. The CLI, MCP server, and scenario
// tests all go through this package.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/metaflux/metaflux/internal/config"
	"github.com/metaflux/metaflux/internal/driver"
	"github.com/metaflux/metaflux/internal/logging"
	"github.com/metaflux/metaflux/internal/pathway"
	"github.com/metaflux/metaflux/internal/profile"
	"github.com/metaflux/metaflux/internal/schedule"
)

// Prepared is a fully personalized, compiled simulation ready to run.
// The compiled pathway and schedule are immutable; independent drivers for
// scenario sweeps may share them.
type Prepared struct {
	Pathway  pathway.Pathway
	Compiled *pathway.Compiled
	Schedule schedule.Schedule
	Genetics profile.GeneticProfile

	// Activity carries enzyme activity overrides from supplements.
	Activity map[string]float64

	Config *config.RunConfig
	Logger *slog.Logger

	// Anomaly receives structured records of dropped schedule events,
	// skipped genotype lines, and neutralized derivatives. Nil at info
	// level; always safe to use.
	Anomaly *logging.AnomalyLogger
}

// Close releases the anomaly log file, if one was opened.
func (p *Prepared) Close() {
	p.Anomaly.Close()
}

// Prepare loads every input named by the config and applies the
// personalization pipeline: merge pathways, apply profile, apply genetics,
// apply supplements, compile. Build-time validation failures are fatal;
// schedule and profile problems degrade per the recovery contract.
func Prepare(cfg *config.RunConfig, logger *slog.Logger) (*Prepared, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	anomaly := logging.NewAnomalyLogger(cfg.Logging.AnomalyDir, cfg.Logging.Level)

	var pathways []pathway.Pathway
	var err error
	if cfg.PathwaysFile != "" {
		pathways, err = pathway.LoadFiles(cfg.EnzymesFile, cfg.PathwaysFile)
	} else {
		pathways, err = ExamplePathways()
	}
	if err != nil {
		anomaly.Close()
		return nil, err
	}
	if len(pathways) == 0 {
		anomaly.Close()
		return nil, fmt.Errorf("no pathways defined")
	}

	merged := pathways[0]
	if len(pathways) > 1 {
		merged, err = pathway.Merge("whole_body", "Whole body", pathways...)
		if err != nil {
			anomaly.Close()
			return nil, err
		}
	}

	personalized := profile.ApplyProfile(merged, cfg.Profile)

	var genetics profile.GeneticProfile
	if cfg.GeneticProfile != "" {
		var skipped int
		genetics, skipped, err = profile.LoadSNPFile(cfg.GeneticProfile)
		if err != nil {
			// Profile errors are non-fatal: run without genetics.
			logger.Warn("genetic profile unavailable", "path", cfg.GeneticProfile, "err", err)
			genetics = nil
		} else if skipped > 0 {
			logger.Debug("genotype lines skipped", "count", skipped)
			anomaly.Log(map[string]any{
				"kind":  "genotype_lines_skipped",
				"path":  cfg.GeneticProfile,
				"count": skipped,
			})
		}
	}
	personalized = profile.ApplyGenetics(personalized, genetics)

	personalized, activity := profile.ApplySupplements(personalized, cfg.Supplements)

	compiled, err := pathway.Compile(personalized)
	if err != nil {
		anomaly.Close()
		return nil, err
	}

	sched := schedule.Default()
	if cfg.ScheduleFile != "" {
		var dropped []schedule.DroppedEvent
		sched, dropped = schedule.LoadFile(cfg.ScheduleFile)
		for _, d := range dropped {
			logger.Warn("schedule event dropped", "time", d.Time, "type", d.Type, "reason", d.Reason)
			anomaly.Log(map[string]any{
				"kind":   "schedule_event_dropped",
				"event":  d.Time,
				"type":   d.Type,
				"reason": d.Reason,
			})
		}
	}

	return &Prepared{
		Pathway:  personalized,
		Compiled: compiled,
		Schedule: sched,
		Genetics: genetics,
		Activity: activity,
		Config:   cfg,
		Logger:   logger,
		Anomaly:  anomaly,
	}, nil
}

// NewDriver builds a fresh driver over the prepared simulation. Each call
// returns an independent instance; sweeps run several against the shared
// compiled pathway.
func (p *Prepared) NewDriver(opts ...driver.Option) *driver.Driver {
	dcfg := driver.DefaultConfig()
	dcfg.TimeStep = p.Config.TimeStep
	dcfg.Substeps = p.Config.Substeps
	dcfg.OutputInterval = p.Config.OutputInterval
	dcfg.MinutesPerRealSecond = p.Config.MinutesPerRealSecond
	dcfg.CaptureFluxes = p.Config.CaptureFluxes
	dcfg.EnzymeActivity = p.Activity
	dcfg.DisabledRules = p.Config.DisabledRules
	if m, err := schedule.ParseClock(p.Config.StartTime); err == nil {
		dcfg.StartMinute = m
	}

	opts = append([]driver.Option{
		driver.WithLogger(p.Logger),
		driver.WithAnomalyLogger(p.Anomaly),
	}, opts...)
	return driver.New(p.Compiled, p.Schedule, dcfg, opts...)
}

// Run executes one batch simulation for the configured duration and returns
// the driver with its trajectory populated.
func (p *Prepared) Run(opts ...driver.Option) *driver.Driver {
	d := p.NewDriver(opts...)
	d.RunFor(p.Config.Duration)
	return d
}
