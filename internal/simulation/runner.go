package simulation

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/metaflux/metaflux/internal/config"
	"github.com/metaflux/metaflux/internal/driver"
	"github.com/metaflux/metaflux/internal/logging"
	"github.com/metaflux/metaflux/internal/profile"
	"github.com/metaflux/metaflux/internal/sim"
)

// Scenario describes one end-to-end run.
type Scenario struct {
	// Duration, TimeStep, and OutputInterval override the run defaults
	// when non-zero.
	Duration       float64
	TimeStep       float64
	OutputInterval float64

	// Profile overrides the neutral user profile when non-nil.
	Profile *profile.UserProfile

	// Genotype, when non-empty, is written to a raw SNP file and loaded.
	Genotype string

	// Supplements are applied before the run.
	Supplements []profile.Supplement

	// DisabledRules switches off homeostasis rules.
	DisabledRules []string
}

// Runner executes scenarios against the built-in pathway set.
type Runner struct {
	t   *testing.T
	dir string
}

// NewRunner creates a scenario runner with a sandboxed work directory.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t, dir: t.TempDir()}
}

// Config materializes the scenario into a validated RunConfig.
func (r *Runner) Config(s Scenario) *config.RunConfig {
	r.t.Helper()

	cfg := config.Default()
	cfg.Duration = 30
	cfg.OutputInterval = 10
	cfg.Logging.AnomalyDir = r.dir
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.TimeStep > 0 {
		cfg.TimeStep = s.TimeStep
	}
	if s.OutputInterval > 0 {
		cfg.OutputInterval = s.OutputInterval
	}
	if s.Profile != nil {
		cfg.Profile = *s.Profile
	}
	cfg.Supplements = s.Supplements
	cfg.DisabledRules = s.DisabledRules

	if s.Genotype != "" {
		path := filepath.Join(r.dir, "genome.txt")
		if err := os.WriteFile(path, []byte(s.Genotype), 0644); err != nil {
			r.t.Fatalf("writing genotype file: %v", err)
		}
		cfg.GeneticProfile = path
	}

	if err := cfg.Validate(); err != nil {
		r.t.Fatalf("scenario config invalid: %v", err)
	}
	return cfg
}

// Run prepares and executes the scenario, returning the finished driver.
func (r *Runner) Run(s Scenario) *driver.Driver {
	r.t.Helper()

	logger := logging.NewLogger("info", io.Discard)
	prep, err := sim.Prepare(r.Config(s), logger)
	if err != nil {
		r.t.Fatalf("Prepare: %v", err)
	}
	r.t.Cleanup(prep.Close)
	return prep.Run()
}

// FinalConcentration returns the last sampled value for a metabolite.
func (r *Runner) FinalConcentration(d *driver.Driver, id string) float64 {
	r.t.Helper()
	final, ok := d.Trajectory().Final()
	if !ok {
		r.t.Fatal("trajectory is empty")
	}
	v, ok := final.Concentration(id)
	if !ok {
		r.t.Fatalf("metabolite %q missing from final snapshot", id)
	}
	return v
}
