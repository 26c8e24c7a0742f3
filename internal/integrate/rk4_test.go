package integrate

import (
	"math"
	"testing"
)

func decay(y []float64, t float64) []float64 {
	return []float64{-y[0]}
}

func TestStepExponentialDecay(t *testing.T) {
	// dy/dt = -y, y(0) = 1: after integrating to t=1 with dt=0.01 the
	// result matches exp(-1) to well within 1e-3.
	y := []float64{1.0}
	dt := 0.01
	var st Stepper
	for i := 0; i < 100; i++ {
		y = st.Step(y, float64(i)*dt, dt, decay)
	}
	if want := math.Exp(-1); math.Abs(y[0]-want) > 1e-3 {
		t.Errorf("y(1) = %v, want %v", y[0], want)
	}
	if st.Anomalies() != 0 {
		t.Errorf("anomalies = %d, want 0", st.Anomalies())
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	y := []float64{1.0, 2.0}
	f := func(y []float64, t float64) []float64 { return []float64{-y[0], -y[1]} }
	out := Step(y, 0, 0.1, f)
	if y[0] != 1.0 || y[1] != 2.0 {
		t.Errorf("input mutated: %v", y)
	}
	if &out[0] == &y[0] {
		t.Error("Step returned the input slice")
	}
}

func TestStepClampsNegative(t *testing.T) {
	// A strong constant drain would force y below zero within one step.
	f := func(y []float64, t float64) []float64 { return []float64{-100} }
	y := Step([]float64{0.1}, 0, 0.1, f)
	if y[0] != 0 {
		t.Errorf("y = %v, want clamp at 0", y[0])
	}
}

func TestStepNeutralizesNonFinite(t *testing.T) {
	f := func(y []float64, t float64) []float64 {
		return []float64{math.NaN(), math.Inf(1), -y[2]}
	}
	var st Stepper
	y := st.Step([]float64{1, 1, 1}, 0, 0.01, f)
	if y[0] != 1 || y[1] != 1 {
		t.Errorf("non-finite components moved the state: %v", y)
	}
	if y[2] >= 1 {
		t.Errorf("finite component did not integrate: %v", y[2])
	}
	if st.Anomalies() == 0 {
		t.Error("anomalies not counted")
	}
}

func TestIntegrateSampling(t *testing.T) {
	samples := Integrate([]float64{1}, 0, 30, 0.01, decay, 10)

	if len(samples) != 4 {
		t.Fatalf("got %d samples, want 4 (t=0,10,20,30)", len(samples))
	}
	wantTimes := []float64{0, 10, 20, 30}
	for i, s := range samples {
		if math.Abs(s.T-wantTimes[i]) > 0.02 {
			t.Errorf("sample %d at t=%v, want %v", i, s.T, wantTimes[i])
		}
	}
	// Strictly increasing time.
	for i := 1; i < len(samples); i++ {
		if samples[i].T <= samples[i-1].T {
			t.Errorf("samples not strictly increasing: %v then %v", samples[i-1].T, samples[i].T)
		}
	}
}

func TestIntegrateRecordsInitialState(t *testing.T) {
	samples := Integrate([]float64{0.7}, 0, 1, 0.01, decay, 0.5)
	if samples[0].T != 0 || samples[0].Y[0] != 0.7 {
		t.Errorf("first sample = %+v, want initial state at t=0", samples[0])
	}
}

func TestIntegrateConvergesWithSmallerStep(t *testing.T) {
	ref := math.Exp(-1)
	coarse := Integrate([]float64{1}, 0, 1, 0.1, decay, 1)
	fine := Integrate([]float64{1}, 0, 1, 0.001, decay, 1)

	coarseErr := math.Abs(coarse[len(coarse)-1].Y[0] - ref)
	fineErr := math.Abs(fine[len(fine)-1].Y[0] - ref)
	if fineErr > coarseErr {
		t.Errorf("finer step error %v exceeds coarse error %v", fineErr, coarseErr)
	}
}

func TestIntegrateDegenerateInputs(t *testing.T) {
	samples := Integrate([]float64{1}, 5, 5, 0.01, decay, 1)
	if len(samples) != 1 || samples[0].T != 5 {
		t.Errorf("zero-duration run = %+v, want single initial sample", samples)
	}
}
