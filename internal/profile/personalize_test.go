package profile

import (
	"math"
	"testing"

	"github.com/metaflux/metaflux/internal/pathway"
)

func personalizeFixture(t *testing.T) pathway.Pathway {
	t.Helper()
	p, err := pathway.Build("body", "Body",
		[]pathway.Metabolite{
			{ID: "nad", InitialConcentration: 1.0},
			{ID: "ros", InitialConcentration: 0.05},
			{ID: "cortisol", InitialConcentration: 0.4},
			{ID: "hcy", InitialConcentration: 0.01},
		},
		nil,
		[]pathway.Enzyme{
			{ID: "cd38", Vmax: 0.2, Km: 0.1},
			{ID: "etc_complex1", Vmax: 1.0, Km: 0.2},
			{ID: "nampt", Vmax: 0.5, Km: 0.05},
			{ID: "cps1", Vmax: 0.3, Km: 0.1},
			{ID: "otc", Vmax: 0.3, Km: 0.1},
		})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestApplyProfileNeutralIsIdentity(t *testing.T) {
	p := personalizeFixture(t)
	out := ApplyProfile(p, Neutral())

	for _, m := range p.Metabolites {
		got, _ := out.Metabolite(m.ID)
		if got.InitialConcentration != m.InitialConcentration {
			t.Errorf("metabolite %s changed: %v -> %v", m.ID, m.InitialConcentration, got.InitialConcentration)
		}
	}
	for _, e := range p.Enzymes {
		if e.ID == "cd38" {
			// CD38 carries an unconditional age term: 1 + 30/60 at age 30.
			continue
		}
		got, _ := out.Enzyme(e.ID)
		if got.Vmax != e.Vmax {
			t.Errorf("enzyme %s changed: %v -> %v", e.ID, e.Vmax, got.Vmax)
		}
	}
}

func TestApplyProfileAging(t *testing.T) {
	p := personalizeFixture(t)
	u := Neutral()
	u.Age = 60
	out := ApplyProfile(p, u)

	nad, _ := out.Metabolite("nad")
	if want := 1 - 30*0.015; math.Abs(nad.InitialConcentration-want) > 1e-12 {
		t.Errorf("nad = %v, want %v", nad.InitialConcentration, want)
	}

	ros, _ := out.Metabolite("ros")
	if want := 0.05 * (1 + 20*0.02); math.Abs(ros.InitialConcentration-want) > 1e-12 {
		t.Errorf("ros = %v, want %v", ros.InitialConcentration, want)
	}

	cd38, _ := out.Enzyme("cd38")
	if want := 0.2 * (1 + 60.0/60.0); math.Abs(cd38.Vmax-want) > 1e-12 {
		t.Errorf("cd38 Vmax = %v, want %v", cd38.Vmax, want)
	}

	etc, _ := out.Enzyme("etc_complex1")
	if want := 1 - 30*0.01; math.Abs(etc.Vmax-want) > 1e-12 {
		t.Errorf("etc_complex1 Vmax = %v, want %v", etc.Vmax, want)
	}
}

func TestApplyProfileComplexIFloor(t *testing.T) {
	p := personalizeFixture(t)
	u := Neutral()
	u.Age = 95 // decline term would be 0.35 without the floor
	out := ApplyProfile(p, u)
	etc, _ := out.Enzyme("etc_complex1")
	if etc.Vmax != 0.5 {
		t.Errorf("etc_complex1 Vmax = %v, want floor 0.5", etc.Vmax)
	}
}

func TestApplyProfilePoorSleep(t *testing.T) {
	p := personalizeFixture(t)
	u := Neutral()
	u.SleepHours = 5
	u.SleepQuality = 50
	out := ApplyProfile(p, u)

	cortisol, _ := out.Metabolite("cortisol")
	if want := 0.4 * 1.5; math.Abs(cortisol.InitialConcentration-want) > 1e-12 {
		t.Errorf("cortisol = %v, want %v", cortisol.InitialConcentration, want)
	}

	ros, _ := out.Metabolite("ros")
	if want := 0.05 * 1.2; math.Abs(ros.InitialConcentration-want) > 1e-12 {
		t.Errorf("ros = %v, want %v", ros.InitialConcentration, want)
	}

	nampt, _ := out.Enzyme("nampt")
	if want := 0.5 * 0.7; math.Abs(nampt.Vmax-want) > 1e-12 {
		t.Errorf("nampt Vmax = %v, want %v", nampt.Vmax, want)
	}

	for _, id := range []string{"cps1", "otc"} {
		e, _ := out.Enzyme(id)
		if want := 0.3 * 0.8; math.Abs(e.Vmax-want) > 1e-12 {
			t.Errorf("%s Vmax = %v, want %v", id, e.Vmax, want)
		}
	}
}

func TestApplyProfileLabOverrides(t *testing.T) {
	p := personalizeFixture(t)
	u := Neutral()
	u.LabOverrides = map[string]float64{"hcy": 0.025}
	out := ApplyProfile(p, u)

	hcy, _ := out.Metabolite("hcy")
	if hcy.InitialConcentration != 0.025 {
		t.Errorf("hcy = %v, want lab override 0.025", hcy.InitialConcentration)
	}
}

func TestApplySupplements(t *testing.T) {
	p := personalizeFixture(t)
	supplements := []Supplement{
		{ID: "methylfolate", Type: SupplementSubstrateIncrease, TargetID: "nad", EffectMagnitude: 0.1},
		{ID: "resveratrol", Type: SupplementEnzymeActivation, TargetID: "nampt", EffectMagnitude: 1.5},
		{ID: "apigenin", Type: SupplementEnzymeInhibition, TargetID: "cd38", EffectMagnitude: 2.0},
	}

	out, activity := ApplySupplements(p, supplements)

	nad, _ := out.Metabolite("nad")
	if want := 1.0 + 0.1; math.Abs(nad.InitialConcentration-want) > 1e-12 {
		t.Errorf("nad = %v, want %v", nad.InitialConcentration, want)
	}
	if got := activity["nampt"]; got != 1.5 {
		t.Errorf("nampt activity = %v, want 1.5", got)
	}
	if got := activity["cd38"]; got != 0.5 {
		t.Errorf("cd38 activity = %v, want 0.5", got)
	}
}
