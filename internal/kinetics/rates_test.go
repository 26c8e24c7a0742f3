package kinetics

import (
	"math"
	"testing"
)

func TestMichaelisMentenAtKm(t *testing.T) {
	// At S == Km the rate is exactly half of Vmax.
	got := MichaelisMenten(1.0, 0.1, 0.1)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("MichaelisMenten(1, 0.1, 0.1) = %v, want 0.5", got)
	}
}

func TestMichaelisMentenDegenerate(t *testing.T) {
	tests := []struct {
		name        string
		vmax, km, s float64
	}{
		{"zero substrate", 1.0, 0.1, 0},
		{"negative substrate", 1.0, 0.1, -0.5},
		{"zero vmax", 0, 0.1, 1.0},
		{"negative vmax", -1.0, 0.1, 1.0},
		{"zero km", 1.0, 0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MichaelisMenten(tt.vmax, tt.km, tt.s); got != 0 {
				t.Errorf("MichaelisMenten(%v, %v, %v) = %v, want 0", tt.vmax, tt.km, tt.s, got)
			}
		})
	}
}

func TestCompetitiveInhibition(t *testing.T) {
	// I == Ki doubles the effective Km term: 1*0.1/(0.1*2 + 0.1) = 1/3.
	got := CompetitiveInhibition(1.0, 0.1, 0.1, 0.1, 0.1)
	want := 1.0 / 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("CompetitiveInhibition = %v, want %v", got, want)
	}
}

func TestCompetitiveInhibitionFallsBackWithoutKi(t *testing.T) {
	got := CompetitiveInhibition(1.0, 0.1, 0.1, 0.5, 0)
	want := MichaelisMenten(1.0, 0.1, 0.1)
	if got != want {
		t.Errorf("CompetitiveInhibition with Ki=0 = %v, want MM rate %v", got, want)
	}
}

func TestNonCompetitiveInhibition(t *testing.T) {
	// I == Ki halves Vmax: (1/2)*0.1/(0.1+0.1) = 0.25.
	got := NonCompetitiveInhibition(1.0, 0.1, 0.1, 0.1, 0.1)
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("NonCompetitiveInhibition = %v, want 0.25", got)
	}
}

func TestAllosteric(t *testing.T) {
	// At S == K the Hill equation gives Vmax/2 regardless of n.
	for _, n := range []float64{1, 2, 4} {
		got := Allosteric(2.0, 0.5, 0.5, n)
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Allosteric(n=%v) at S=K = %v, want 1.0", n, got)
		}
	}
	// n defaults to 1 when non-positive.
	if got, want := Allosteric(1.0, 0.2, 0.4, 0), Allosteric(1.0, 0.2, 0.4, 1); got != want {
		t.Errorf("Allosteric(n=0) = %v, want %v", got, want)
	}
}

func TestMassAction(t *testing.T) {
	if got := MassAction(0.3, 2.0, true); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("MassAction(0.3, 2.0) = %v, want 0.6", got)
	}
	// No substrate: constant source at rate k.
	if got := MassAction(0.3, 0, false); got != 0.3 {
		t.Errorf("MassAction source = %v, want 0.3", got)
	}
	if got := MassAction(0.3, 0, true); got != 0 {
		t.Errorf("MassAction with exhausted substrate = %v, want 0", got)
	}
}

func TestActivationMultiplier(t *testing.T) {
	if got := ActivationMultiplier(1.0, 0.5, 0.5); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("ActivationMultiplier = %v, want 2.0", got)
	}
	if got := ActivationMultiplier(1.0, 0.5, 0); got != 1.0 {
		t.Errorf("ActivationMultiplier with Ka=0 = %v, want 1.0", got)
	}
}

func TestRatesNeverNegative(t *testing.T) {
	inputs := []float64{-2, -0.5, 0, 0.01, 0.5, 3}
	for _, vmax := range inputs {
		for _, km := range inputs {
			for _, s := range inputs {
				for _, i := range inputs {
					if r := CompetitiveInhibition(vmax, km, s, i, 0.1); r < 0 {
						t.Fatalf("CompetitiveInhibition(%v,%v,%v,%v) = %v < 0", vmax, km, s, i, r)
					}
					if r := NonCompetitiveInhibition(vmax, km, s, i, 0.1); r < 0 {
						t.Fatalf("NonCompetitiveInhibition(%v,%v,%v,%v) = %v < 0", vmax, km, s, i, r)
					}
				}
				if r := Allosteric(vmax, km, s, 2); r < 0 {
					t.Fatalf("Allosteric(%v,%v,%v) = %v < 0", vmax, km, s, r)
				}
			}
		}
	}
}
