package homeostasis

import (
	"math"

	"github.com/metaflux/metaflux/internal/constants"
)

// Rule is one homeostatic correction: a named predicate plus the action it
// triggers. dt is the substep length in seconds.
type Rule struct {
	Name  string
	When  func(s *State, dt float64) bool
	Apply func(s *State, dt float64)
}

// Table is an ordered list of rules with per-rule disable switches.
type Table struct {
	rules    []Rule
	disabled map[string]bool
}

// NewTable returns the standard rule set.
func NewTable() *Table {
	return &Table{rules: standardRules(), disabled: make(map[string]bool)}
}

// Disable switches off the named rule. Unknown names are ignored.
func (t *Table) Disable(name string) { t.disabled[name] = true }

// Enable switches the named rule back on.
func (t *Table) Enable(name string) { delete(t.disabled, name) }

// Names returns the rule names in application order.
func (t *Table) Names() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

// Apply runs every enabled rule against the state in declaration order.
func (t *Table) Apply(s *State, dt float64) {
	for _, r := range t.rules {
		if t.disabled[r.Name] {
			continue
		}
		if r.When == nil || r.When(s, dt) {
			r.Apply(s, dt)
		}
	}
}

func standardRules() []Rule {
	return []Rule{
		{
			Name: "glucose-floor",
			When: func(s *State, dt float64) bool {
				return s.Has("glucose_blood") && s.Get("glucose_blood") < constants.GlucoseFloor && s.GlycogenG > 0
			},
			Apply: func(s *State, dt float64) {
				need := constants.GlucoseFloor - s.Get("glucose_blood")
				release := math.Min(need, s.GlycogenG/constants.GlycogenPerGlucoseMM)
				s.Add("glucose_blood", release)
				s.GlycogenG -= release * constants.GlycogenPerGlucoseMM
			},
		},
		{
			Name: "gluconeogenesis",
			When: func(s *State, dt float64) bool {
				return s.Has("glucose_blood") && s.Get("glucose_blood") < constants.GlucoseFloor &&
					s.GlycogenG <= 0 && s.AdiposeG > 0
			},
			Apply: func(s *State, dt float64) {
				need := constants.GlucoseFloor - s.Get("glucose_blood")
				burn := math.Min(need*constants.AdiposePerGlucoseMM, s.AdiposeG)
				gained := burn / constants.AdiposePerGlucoseMM
				s.Set("glucose_blood", math.Min(constants.GlucoseFloor, s.Get("glucose_blood")+gained))
				s.AdiposeG -= burn
				s.Add("fatty_acids_blood", gained*0.05)
			},
		},
		{
			Name: "glucose-storage",
			When: func(s *State, dt float64) bool {
				return s.Has("glucose_blood") && s.Get("glucose_blood") > constants.GlucoseCeiling &&
					s.GlycogenG < constants.GlycogenStoreCap
			},
			Apply: func(s *State, dt float64) {
				excess := s.Get("glucose_blood") - constants.GlucoseCeiling
				fraction := math.Min(1, s.Get("insulin")/3)
				store := excess * fraction
				capacity := (constants.GlycogenStoreCap - s.GlycogenG) / constants.GlycogenPerGlucoseMM
				store = math.Min(store, capacity)
				s.Add("glucose_blood", -store)
				s.GlycogenG += store * constants.GlycogenPerGlucoseMM
			},
		},
		{
			Name: "atp-floor",
			When: func(s *State, dt float64) bool {
				return s.Has("atp") && s.Get("atp") < constants.ATPFloor
			},
			Apply: func(s *State, dt float64) {
				deficit := constants.ATPFloor - s.Get("atp")
				convert := math.Min(deficit, 0.8*s.Get("adp"))
				s.Add("atp", convert)
				s.Add("adp", -convert)
				s.Add("glucose_blood", -0.1*deficit)
			},
		},
		{
			Name: "adenine-pool",
			When: func(s *State, dt float64) bool {
				return s.Has("atp") && s.Has("adp") &&
					s.Get("atp")+s.Get("adp") < constants.AdeninePoolFloor
			},
			Apply: func(s *State, dt float64) {
				s.Set("atp", 0.8*constants.AdeninePoolTarget)
				s.Set("adp", 0.2*constants.AdeninePoolTarget)
			},
		},
		{
			Name: "atp-ceiling",
			When: func(s *State, dt float64) bool {
				return s.Has("atp") && s.Get("atp") > constants.ATPCeiling
			},
			Apply: func(s *State, dt float64) {
				excess := s.Get("atp") - constants.ATPCeiling
				s.Set("atp", constants.ATPCeiling)
				s.Add("adp", excess)
			},
		},
		{
			Name: "o2-resupply",
			When: func(s *State, dt float64) bool { return s.Has("o2") },
			Apply: func(s *State, dt float64) {
				s.Add("o2", (constants.ArterialO2-s.Get("o2"))*0.5*dt)
			},
		},
		{
			Name: "nad-floor",
			When: func(s *State, dt float64) bool {
				return s.Has("nad") && s.Has("nadh") &&
					s.Get("nad")+s.Get("nadh") < constants.NADPoolFloor
			},
			Apply: func(s *State, dt float64) {
				s.Set("nad", math.Max(s.Get("nad"), 0.5))
				s.Set("nadh", math.Max(s.Get("nadh"), 0.3))
			},
		},
		{
			Name: "amino-pool",
			When: func(s *State, dt float64) bool {
				return s.Has("met") && s.Get("met") < 0.01 && s.AminoPoolG > 0
			},
			Apply: func(s *State, dt float64) {
				release := math.Min(0.001*dt/60, s.AminoPoolG)
				s.AminoPoolG -= release
				s.Add("met", 0.1*release)
			},
		},
		{
			Name: "insulin-decay",
			When: func(s *State, dt float64) bool { return s.Has("insulin") },
			Apply: func(s *State, dt float64) {
				base := s.InsulinBaseline
				s.Set("insulin", base+(s.Get("insulin")-base)*math.Exp(-constants.InsulinDecayRate*dt))
			},
		},
		{
			Name: "cortisol-bounds",
			When: func(s *State, dt float64) bool { return s.Has("cortisol") },
			Apply: func(s *State, dt float64) {
				c := s.Get("cortisol")
				s.Set("cortisol", math.Min(constants.CortisolMax, math.Max(constants.CortisolMin, c)))
			},
		},
		{
			Name: "ros-clearance",
			When: func(s *State, dt float64) bool {
				return s.Has("ros") && s.Get("ros") > 0.001
			},
			Apply: func(s *State, dt float64) {
				s.Add("ros", -constants.ROSClearancePerSecond*dt)
			},
		},
		{
			Name: "acetyl-coa-floor",
			When: func(s *State, dt float64) bool {
				return s.Has("acetyl_coa") && s.Get("acetyl_coa") < 0.05
			},
			Apply: func(s *State, dt float64) {
				s.Add("acetyl_coa", 0.01*dt)
				s.AdiposeG = math.Max(0, s.AdiposeG-0.5*dt)
			},
		},
		{
			Name: "prpp-floor",
			When: func(s *State, dt float64) bool {
				return s.Has("prpp") && s.Get("prpp") < 0.05
			},
			Apply: func(s *State, dt float64) { s.Add("prpp", 0.02*dt) },
		},
		{
			Name: "coa-floor",
			When: func(s *State, dt float64) bool {
				return s.Has("coa") && s.Get("coa") < 0.2
			},
			Apply: func(s *State, dt float64) { s.Add("coa", 0.02*dt) },
		},
		{
			Name: "accumulation-caps",
			Apply: func(s *State, dt float64) {
				for _, id := range []string{"citrate", "succinate", "malate"} {
					if s.Has(id) && s.Get(id) > 2.0 {
						s.Set(id, 2.0)
					}
				}
				if s.Has("pyruvate") && s.Get("pyruvate") > 1.0 {
					s.Set("pyruvate", 1.0)
				}
			},
		},
	}
}
