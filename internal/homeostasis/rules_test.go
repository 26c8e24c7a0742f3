package homeostasis

import (
	"math"
	"sort"
	"testing"
)

func stateWith(values map[string]float64) *State {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	index := make(map[string]int, len(values))
	y := make([]float64, 0, len(values))
	for _, id := range ids {
		index[id] = len(y)
		y = append(y, values[id])
	}
	return NewState(y, index)
}

func TestGlucoseFloorReleasesGlycogen(t *testing.T) {
	s := stateWith(map[string]float64{"glucose_blood": 4.0, "insulin": 2})
	s.GlycogenG = 50

	NewTable().Apply(s, 0.01)

	if got := s.Get("glucose_blood"); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("glucose = %v, want 4.5", got)
	}
	// 0.5 mM at 5 g per mM.
	if math.Abs(s.GlycogenG-47.5) > 1e-9 {
		t.Errorf("glycogen = %v, want 47.5", s.GlycogenG)
	}
}

func TestGluconeogenesisWhenGlycogenDepleted(t *testing.T) {
	s := stateWith(map[string]float64{"glucose_blood": 4.0, "fatty_acids_blood": 0.1, "insulin": 2})
	s.AdiposeG = 1000

	NewTable().Apply(s, 0.01)

	if got := s.Get("glucose_blood"); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("glucose = %v, want capped at 4.5", got)
	}
	// 0.5 mM at 20 g per mM.
	if math.Abs(s.AdiposeG-990) > 1e-9 {
		t.Errorf("adipose = %v, want 990", s.AdiposeG)
	}
	if s.Get("fatty_acids_blood") <= 0.1 {
		t.Error("fatty acids not raised by gluconeogenesis")
	}
}

func TestGlucoseStorageScalesWithInsulin(t *testing.T) {
	s := stateWith(map[string]float64{"glucose_blood": 6.3, "insulin": 1.5})
	s.GlycogenG = 10

	NewTable().Apply(s, 0.01)

	// Excess 1.0 mM, insulin fraction 0.5: store 0.5 mM.
	if got := s.Get("glucose_blood"); math.Abs(got-5.8) > 1e-9 {
		t.Errorf("glucose = %v, want 5.8", got)
	}
	if math.Abs(s.GlycogenG-12.5) > 1e-9 {
		t.Errorf("glycogen = %v, want 12.5", s.GlycogenG)
	}
}

func TestATPFloorConvertsADP(t *testing.T) {
	s := stateWith(map[string]float64{"atp": 3.0, "adp": 2.5, "glucose_blood": 5.0, "insulin": 2})

	table := NewTable()
	table.Disable("adenine-pool") // isolate the floor conversion
	table.Apply(s, 0.01)

	if got := s.Get("atp"); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("atp = %v, want 4.0", got)
	}
	if got := s.Get("adp"); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("adp = %v, want 1.5", got)
	}
	// Conversion is paid in glucose: 0.1 mM per mM of deficit.
	if got := s.Get("glucose_blood"); math.Abs(got-4.9) > 1e-9 {
		t.Errorf("glucose = %v, want 4.9", got)
	}
}

func TestAdeninePoolTopUp(t *testing.T) {
	s := stateWith(map[string]float64{"atp": 2.0, "adp": 1.0})

	table := NewTable()
	table.Disable("atp-floor")
	table.Apply(s, 0.01)

	if got := s.Get("atp"); math.Abs(got-4.4) > 1e-9 {
		t.Errorf("atp = %v, want 4.4 (80%% of 5.5)", got)
	}
	if got := s.Get("adp"); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("adp = %v, want 1.1 (20%% of 5.5)", got)
	}
}

func TestATPCeilingShuntsToADP(t *testing.T) {
	s := stateWith(map[string]float64{"atp": 6.8, "adp": 0.5})

	NewTable().Apply(s, 0.01)

	if got := s.Get("atp"); got != 6.0 {
		t.Errorf("atp = %v, want 6.0", got)
	}
	if got := s.Get("adp"); math.Abs(got-1.3) > 1e-9 {
		t.Errorf("adp = %v, want 1.3", got)
	}
}

func TestO2Resupply(t *testing.T) {
	s := stateWith(map[string]float64{"o2": 0.05})
	NewTable().Apply(s, 0.01)
	want := 0.05 + (0.13-0.05)*0.5*0.01
	if got := s.Get("o2"); math.Abs(got-want) > 1e-12 {
		t.Errorf("o2 = %v, want %v", got, want)
	}
}

func TestNADFloor(t *testing.T) {
	s := stateWith(map[string]float64{"nad": 0.2, "nadh": 0.1})
	NewTable().Apply(s, 0.01)
	if got := s.Get("nad"); got != 0.5 {
		t.Errorf("nad = %v, want 0.5", got)
	}
	if got := s.Get("nadh"); got != 0.3 {
		t.Errorf("nadh = %v, want 0.3", got)
	}
}

func TestInsulinDecaysTowardBaseline(t *testing.T) {
	s := stateWith(map[string]float64{"insulin": 10})
	s.InsulinBaseline = 2

	NewTable().Apply(s, 1.0)

	want := 2 + 8*math.Exp(-0.05)
	if got := s.Get("insulin"); math.Abs(got-want) > 1e-9 {
		t.Errorf("insulin = %v, want %v", got, want)
	}
}

func TestCortisolBounds(t *testing.T) {
	s := stateWith(map[string]float64{"cortisol": 2.4})
	NewTable().Apply(s, 0.01)
	if got := s.Get("cortisol"); got != 1.5 {
		t.Errorf("cortisol = %v, want 1.5", got)
	}

	s = stateWith(map[string]float64{"cortisol": 0.0})
	NewTable().Apply(s, 0.01)
	if got := s.Get("cortisol"); got != 0.05 {
		t.Errorf("cortisol = %v, want 0.05", got)
	}
}

func TestAccumulationCaps(t *testing.T) {
	s := stateWith(map[string]float64{"citrate": 3.1, "succinate": 0.4, "malate": 2.7, "pyruvate": 1.6})
	NewTable().Apply(s, 0.01)
	if got := s.Get("citrate"); got != 2.0 {
		t.Errorf("citrate = %v, want 2.0", got)
	}
	if got := s.Get("succinate"); got != 0.4 {
		t.Errorf("succinate = %v, want untouched 0.4", got)
	}
	if got := s.Get("pyruvate"); got != 1.0 {
		t.Errorf("pyruvate = %v, want 1.0", got)
	}
}

func TestDisableRule(t *testing.T) {
	s := stateWith(map[string]float64{"cortisol": 2.4})
	table := NewTable()
	table.Disable("cortisol-bounds")
	table.Apply(s, 0.01)
	if got := s.Get("cortisol"); got != 2.4 {
		t.Errorf("disabled rule still fired: cortisol = %v", got)
	}

	table.Enable("cortisol-bounds")
	table.Apply(s, 0.01)
	if got := s.Get("cortisol"); got != 1.5 {
		t.Errorf("re-enabled rule did not fire: cortisol = %v", got)
	}
}

// Bound-type rules settle in one application: a second pass over the same
// state changes nothing. Relaxation rules (O2 resupply, insulin decay, ROS
// clearance, cofactor floors) are held at their fixed points so the whole
// table is exercised.
func TestClampIdempotent(t *testing.T) {
	build := func() *State {
		s := stateWith(map[string]float64{
			"glucose_blood": 3.8,
			"insulin":       2.0,
			"atp":           6.9,
			"adp":           0.2,
			"nad":           0.3,
			"nadh":          0.2,
			"cortisol":      2.0,
			"o2":            0.13, // fixed point of o2-resupply
			"ros":           0.0005,
			"citrate":       2.8,
			"pyruvate":      1.2,
		})
		s.GlycogenG = 40
		s.InsulinBaseline = 2.0
		return s
	}

	once := build()
	table := NewTable()
	table.Apply(once, 0.01)

	twice := build()
	table.Apply(twice, 0.01)
	table.Apply(twice, 0.01)

	for id, i := range onceIndex(once) {
		a, b := once.y[i], twice.y[i]
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("%s: once=%v twice=%v", id, a, b)
		}
	}
	if math.Abs(once.GlycogenG-twice.GlycogenG) > 1e-12 {
		t.Errorf("glycogen: once=%v twice=%v", once.GlycogenG, twice.GlycogenG)
	}
}

func onceIndex(s *State) map[string]int { return s.index }
