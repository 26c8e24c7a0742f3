// Package driver runs the simulation loop: it maps wall time to sim time,
// overlays circadian and schedule effects, absorbs meals, invokes the RK4
// integrator, and clamps vital metabolites after each substep. One driver
// owns one simulation instance; the pathway, enzyme table, and schedule are
// read-only and may be shared across concurrent drivers.
package driver

import (
	"log/slog"
	"math"
	"time"

	"github.com/metaflux/metaflux/internal/constants"
	"github.com/metaflux/metaflux/internal/homeostasis"
	"github.com/metaflux/metaflux/internal/integrate"
	"github.com/metaflux/metaflux/internal/logging"
	"github.com/metaflux/metaflux/internal/pathway"
	"github.com/metaflux/metaflux/internal/schedule"
)

// Mode selects how sim minutes advance.
type Mode string

const (
	// ModeLive derives sim minutes from measured wall-clock deltas scaled
	// by MinutesPerRealSecond.
	ModeLive Mode = "live"

	// ModeManual accepts externally supplied sim minutes (slider, batch loop).
	ModeManual Mode = "manual"
)

// Config holds the driver's tunable parameters.
type Config struct {
	Mode Mode

	// MinutesPerRealSecond is the live-mode scale. The default 24 runs a
	// full sim day in 60 real seconds.
	MinutesPerRealSecond float64

	// TimeStep is the RK4 substep in seconds.
	TimeStep float64

	// Substeps is the number of RK4 substeps per tick.
	Substeps int

	// OutputInterval is the sim-seconds between emitted snapshots.
	OutputInterval float64

	// StartMinute is the sim minute of day at t=0.
	StartMinute int

	// CaptureFluxes includes per-reaction rates in snapshots.
	CaptureFluxes bool

	// EnzymeActivity carries static activity overrides by enzyme id
	// (supplement activation/inhibition).
	EnzymeActivity map[string]float64

	// DisabledRules lists homeostasis rules to switch off.
	DisabledRules []string
}

// DefaultConfig returns the standard driver configuration.
func DefaultConfig() Config {
	return Config{
		Mode:                 ModeManual,
		MinutesPerRealSecond: 24,
		TimeStep:             0.01,
		Substeps:             10,
		OutputInterval:       1.0,
		StartMinute:          7 * 60,
	}
}

// activeMeal tracks a meal being absorbed over its window.
type activeMeal struct {
	remainingGlucoseG float64
	remainingProteinG float64
	remainingFatG     float64
	minutesLeft       float64
	durationMinutes   float64
}

// Driver advances one simulation instance. It is single-threaded and
// cooperative: all work happens inside Tick, and the running flag is only
// consulted at tick boundaries.
type Driver struct {
	cfg      Config
	compiled *pathway.Compiled
	sched    schedule.Schedule
	logger   *slog.Logger
	anomaly  *logging.AnomalyLogger

	clock    Clock
	lastWall time.Time
	started  bool
	running  bool

	y         []float64
	t         float64 // sim seconds since start
	simMinute float64 // minutes of day

	minutesSinceMeal float64
	meals            []activeMeal

	suppActivity []float64 // static supplement factors, per enzyme index
	activity     []float64 // per-tick composed activity
	namptIndex   int

	clampTable *homeostasis.Table
	clampState *homeostasis.State

	insulinBaseline   float64
	cortisolBaseline  float64
	melatoninBaseline float64
	adenosineBaseline float64

	stepper       integrate.Stepper
	lastAnomalies int
	dydtBuf       []float64
	fluxBuf       []float64

	traj       Trajectory
	lastOutput float64
	onSnapshot func(Snapshot)
}

// Option configures a Driver at construction.
type Option func(*Driver)

// WithClock injects a time source for live mode.
func WithClock(c Clock) Option { return func(d *Driver) { d.clock = c } }

// WithLogger attaches a logger for anomaly and event reporting.
func WithLogger(l *slog.Logger) Option { return func(d *Driver) { d.logger = l } }

// WithAnomalyLogger routes neutralized non-finite derivative components to a
// structured anomaly log. A nil logger is a no-op.
func WithAnomalyLogger(al *logging.AnomalyLogger) Option {
	return func(d *Driver) { d.anomaly = al }
}

// WithSnapshotFunc registers a callback invoked for every emitted snapshot,
// in addition to trajectory recording. The driver advances synchronously;
// the consumer must copy or finish with the snapshot before the next tick.
func WithSnapshotFunc(fn func(Snapshot)) Option { return func(d *Driver) { d.onSnapshot = fn } }

// New builds a driver over a compiled pathway and schedule. The initial
// state comes from the pathway's initial concentrations; baselines for
// insulin, cortisol, melatonin, and adenosine are taken from those initial
// values.
func New(c *pathway.Compiled, sched schedule.Schedule, cfg Config, opts ...Option) *Driver {
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = 0.01
	}
	if cfg.Substeps <= 0 {
		cfg.Substeps = 10
	}
	if cfg.OutputInterval < cfg.TimeStep {
		cfg.OutputInterval = cfg.TimeStep
	}
	if cfg.MinutesPerRealSecond <= 0 {
		cfg.MinutesPerRealSecond = 24
	}

	d := &Driver{
		cfg:              cfg,
		compiled:         c,
		sched:            sched,
		clock:            SystemClock{},
		y:                c.InitialState(),
		simMinute:        float64(cfg.StartMinute),
		minutesSinceMeal: constants.FastedAfterMinutes + 1, // unknown last meal: start fasted
		namptIndex:       -1,
		running:          true,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.suppActivity = c.UnitActivity()
	for id, factor := range cfg.EnzymeActivity {
		if i, ok := c.EnzymeIndex[id]; ok {
			d.suppActivity[i] = factor
		}
	}
	if i, ok := c.EnzymeIndex["nampt"]; ok {
		d.namptIndex = i
	}
	d.activity = append([]float64(nil), d.suppActivity...)

	d.clampTable = homeostasis.NewTable()
	for _, name := range cfg.DisabledRules {
		d.clampTable.Disable(name)
	}
	d.clampState = homeostasis.NewState(d.y, c.Index)
	d.clampState.GlycogenG = 75
	d.clampState.AdiposeG = 10000
	d.clampState.AminoPoolG = 100

	d.insulinBaseline = d.conc("insulin")
	d.cortisolBaseline = d.conc("cortisol")
	d.melatoninBaseline = d.conc("melatonin")
	d.adenosineBaseline = d.conc("adenosine")
	d.clampState.InsulinBaseline = d.insulinBaseline

	d.emit() // record initial state at t=0
	return d
}

// Running reports whether the driver will accept further ticks.
func (d *Driver) Running() bool { return d.running }

// SetRunning toggles the cooperative cancellation flag. Takes effect at the
// next tick boundary.
func (d *Driver) SetRunning(v bool) { d.running = v }

// Time returns sim seconds since start.
func (d *Driver) Time() float64 { return d.t }

// SimMinute returns the current sim minute of day.
func (d *Driver) SimMinute() float64 { return d.simMinute }

// Trajectory returns the sampled history so far. Read-only for consumers.
func (d *Driver) Trajectory() *Trajectory { return &d.traj }

// State returns the current snapshot regardless of output interval.
func (d *Driver) State() Snapshot { return d.snapshot() }

// ClampState exposes the homeostatic stores for inspection in tests.
func (d *Driver) ClampState() *homeostasis.State { return d.clampState }

// Tick advances the simulation in live mode using the measured wall-clock
// delta. Returns false without work when the driver is stopped or not in
// live mode.
func (d *Driver) Tick() bool {
	if !d.running || d.cfg.Mode != ModeLive {
		return false
	}
	now := d.clock.Now()
	if !d.started {
		d.started = true
		d.lastWall = now
		return true
	}
	delta := now.Sub(d.lastWall).Seconds()
	d.lastWall = now
	if delta <= 0 {
		return true
	}
	d.tick(delta * d.cfg.MinutesPerRealSecond)
	return true
}

// TickAt advances the simulation in manual mode to the given sim minute of
// day. Backward jumps reposition the clock without processing events.
func (d *Driver) TickAt(simMinute float64) bool {
	if !d.running || d.cfg.Mode != ModeManual {
		return false
	}
	delta := simMinute - d.simMinute
	for delta < 0 {
		delta += schedule.MinutesPerDay
	}
	if delta > schedule.MinutesPerDay/2 {
		// Treat large wraps as a backward scrub: jump without events.
		d.simMinute = math.Mod(simMinute, schedule.MinutesPerDay)
		return true
	}
	d.tick(delta)
	return true
}

// TickMinutes advances the simulation by a sim-minute delta in manual mode.
// This is the batch-run entry point.
func (d *Driver) TickMinutes(minutes float64) bool {
	if !d.running || d.cfg.Mode != ModeManual {
		return false
	}
	if minutes > 0 {
		d.tick(minutes)
	}
	return true
}

// tick runs one full driver tick for a sim-minute delta, in the fixed
// order: circadian overlay, tonic adjustments, event crossings, meal
// absorption, integration substeps with clamping, snapshot emission.
func (d *Driver) tick(minutesDelta float64) {
	prevMinute := d.simMinute
	d.simMinute = math.Mod(d.simMinute+minutesDelta, schedule.MinutesPerDay)
	d.minutesSinceMeal += minutesDelta

	d.applyCircadian()
	d.applyTonic(minutesDelta)
	d.processEvents(prevMinute)
	d.absorbMeals(minutesDelta)

	dt := d.cfg.TimeStep
	for i := 0; i < d.cfg.Substeps; i++ {
		d.y = d.stepper.Step(d.y, d.t, dt, d.derivatives)
		d.t += dt
		if n := d.stepper.Anomalies(); n > d.lastAnomalies {
			d.anomaly.Log(map[string]any{
				"kind":  "nan_derivative",
				"count": n - d.lastAnomalies,
				"t":     d.t,
			})
			d.lastAnomalies = n
		}
		d.clampState.Rebind(d.y)
		d.clampTable.Apply(d.clampState, dt)
	}

	if d.t-d.lastOutput >= d.cfg.OutputInterval {
		d.emit()
	}
}

// derivatives is the DerivFunc handed to the integrator.
func (d *Driver) derivatives(y []float64, t float64) []float64 {
	d.dydtBuf = d.compiled.Derivatives(y, d.activity, d.dydtBuf, nil)
	return d.dydtBuf
}

// applyCircadian assigns (not accumulates) the circadian levels each tick.
func (d *Driver) applyCircadian() {
	hour := d.simMinute / 60
	asleep := d.sched.Asleep(int(d.simMinute))

	d.setConc("cortisol", d.cortisolBaseline*schedule.CortisolMultiplier(hour))

	if asleep {
		d.setConc("melatonin", 0.5)
	} else {
		d.setConc("melatonin", d.melatoninBaseline*schedule.MelatoninMultiplier(hour))
	}

	if d.adenosineBaseline > 0 {
		d.setConc("adenosine", d.adenosineBaseline*schedule.AdenosineMultiplier(d.sched.HoursSinceWake(int(d.simMinute))))
	}

	// The NAMPT circadian factor composes with supplement overrides for
	// this tick only.
	copy(d.activity, d.suppActivity)
	if d.namptIndex >= 0 {
		d.activity[d.namptIndex] *= schedule.NamptMultiplier(hour)
	}
}

// applyTonic applies sleep, exercise, and fasting adjustments for this tick.
func (d *Driver) applyTonic(minutesDelta float64) {
	asleep := d.sched.Asleep(int(d.simMinute))

	if asleep {
		d.addConcCapped("atp", 0.01, 6.0)
		d.addConcCapped("gsh", 0.005, 6.0)
		d.addConcCapped("nad", 0.002, 1.0)
	}

	if d.exercising() {
		drain := 0.08
		if d.exerciseIntensity() == schedule.IntensityHigh {
			drain = 0.15
		}
		d.addConc("atp", -drain)
		d.addConc("amp", 0.02)
		d.addConc("glucose_blood", -0.03)
		d.addConc("ampk", 0.01)
	}

	if d.minutesSinceMeal > constants.FastedAfterMinutes && !asleep {
		d.addConc("fatty_acids_blood", 0.005)
		d.addConc("ampk", 0.002)
		if v := d.conc("mtor"); v > 0.1 {
			d.setConc("mtor", math.Max(0.1, v-0.002))
		}
	}
}

// exercising reports whether the sim minute falls inside any exercise
// event's window.
func (d *Driver) exercising() bool {
	return d.exerciseIntensity() != ""
}

func (d *Driver) exerciseIntensity() schedule.Intensity {
	m := int(d.simMinute)
	for _, e := range d.sched.Events {
		if e.Kind != schedule.EventExercise || e.Exercise == nil {
			continue
		}
		end := e.Minute + int(e.Exercise.DurationMinutes)
		if schedule.Crossed(e.Minute-1, end, m) {
			return e.Exercise.Intensity
		}
	}
	return ""
}

// processEvents handles schedule events whose time was crossed this tick.
func (d *Driver) processEvents(prevMinute float64) {
	prev := int(prevMinute)
	cur := int(d.simMinute)
	for _, e := range d.sched.Events {
		if !schedule.Crossed(prev, cur, e.Minute) {
			continue
		}
		switch e.Kind {
		case schedule.EventMeal:
			if e.Meal != nil {
				d.meals = append(d.meals, activeMeal{
					remainingGlucoseG: e.Meal.GlucoseG,
					remainingProteinG: e.Meal.ProteinG,
					remainingFatG:     e.Meal.FatG,
					minutesLeft:       constants.MealAbsorptionMinutes,
					durationMinutes:   constants.MealAbsorptionMinutes,
				})
				d.addConc("insulin", constants.MealInsulinSpike)
				d.minutesSinceMeal = 0
				if d.logger != nil {
					d.logger.Debug("meal started", "minute", e.Minute, "glucose_g", e.Meal.GlucoseG)
				}
			}
		case schedule.EventStressor:
			d.addConc("cortisol", 0.2)
		}
		// Exercise acts through its window in applyTonic; supplement
		// events are resolved before the run.
	}
}

// absorbMeals advances every active meal by the tick's minute delta.
func (d *Driver) absorbMeals(minutesDelta float64) {
	remaining := d.meals[:0]
	for _, m := range d.meals {
		rate := minutesDelta / m.durationMinutes
		if rate > 1 {
			rate = 1
		}

		glucoseG := m.remainingGlucoseG * rate
		proteinG := m.remainingProteinG * rate
		fatG := m.remainingFatG * rate

		d.addConc("glucose_blood", glucoseG*constants.GlucosePerGram)
		d.addConc("insulin", glucoseG*constants.InsulinPerGlucoseGram)
		d.addConc("fatty_acids_blood", fatG*constants.FatPerGram)
		d.clampState.AminoPoolG += proteinG
		d.addConc("met", proteinG*0.001)

		m.remainingGlucoseG -= glucoseG
		m.remainingProteinG -= proteinG
		m.remainingFatG -= fatG
		m.minutesLeft -= minutesDelta
		if m.minutesLeft > 0 {
			remaining = append(remaining, m)
		}
	}
	d.meals = remaining
}

// emit records a snapshot and invokes the consumer callback.
func (d *Driver) emit() {
	s := d.snapshot()
	if d.traj.Append(s) {
		d.lastOutput = d.t
		if d.onSnapshot != nil {
			d.onSnapshot(s)
		}
	}
}

func (d *Driver) snapshot() Snapshot {
	conc := make(map[string]float64, len(d.y))
	for id, i := range d.compiled.Index {
		conc[id] = d.y[i]
	}
	s := Snapshot{TimeS: d.t, Concentrations: conc}

	if d.cfg.CaptureFluxes {
		if d.fluxBuf == nil {
			d.fluxBuf = make([]float64, len(d.compiled.Reactions))
		}
		d.compiled.Derivatives(d.y, d.activity, d.dydtBuf, d.fluxBuf)
		fluxes := make(map[string]float64, len(d.fluxBuf))
		for i, r := range d.compiled.Reactions {
			fluxes[r.ID] = d.fluxBuf[i]
		}
		s.Fluxes = fluxes
	}
	return s
}

func (d *Driver) conc(id string) float64 {
	if i, ok := d.compiled.Index[id]; ok {
		return d.y[i]
	}
	return 0
}

func (d *Driver) setConc(id string, v float64) {
	if i, ok := d.compiled.Index[id]; ok {
		if v < 0 {
			v = 0
		}
		d.y[i] = v
	}
}

func (d *Driver) addConc(id string, dv float64) {
	d.setConc(id, d.conc(id)+dv)
}

func (d *Driver) addConcCapped(id string, dv, limit float64) {
	if i, ok := d.compiled.Index[id]; ok {
		v := d.y[i] + dv
		if v > limit {
			v = limit
		}
		if v < 0 {
			v = 0
		}
		d.y[i] = v
	}
}

// RunFor advances a manual-mode driver by simSeconds of integration time,
// the batch entry point. Sim minutes advance in lockstep with integrated
// time (one sim second of day per integrated second). A final snapshot is
// emitted at termination if one was not just recorded.
func (d *Driver) RunFor(simSeconds float64) {
	if d.cfg.Mode != ModeManual || simSeconds <= 0 {
		return
	}
	tickSeconds := d.cfg.TimeStep * float64(d.cfg.Substeps)
	target := d.t + simSeconds
	for d.running && d.t < target-tickSeconds/2 {
		d.tick(tickSeconds / 60)
	}
	if last, ok := d.traj.Final(); !ok || last.TimeS < d.t {
		d.emit()
	}
}

// Anomalies reports the count of neutralized non-finite derivative
// components since construction.
func (d *Driver) Anomalies() int { return d.stepper.Anomalies() }
