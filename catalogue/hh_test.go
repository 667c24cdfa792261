package catalogue

import (
	"math"
	"testing"

	"fvmcell/mechanism"
)

func bindHHIons(t *testing.T, idx []int) *HH {
	t.Helper()
	factory := NewHH(0, 0)
	m := factory(idx).(*HH)
	m.SetIon(mechanism.Na, mechanism.NewIon(mechanism.Na, idx))
	m.SetIon(mechanism.K, mechanism.NewIon(mechanism.K, idx))
	m.Init()
	return m
}

func TestHHGatingAtRestMatchesSteadyState(t *testing.T) {
	m := bindHHIons(t, []int{0})
	v0 := mechanism.RestingPotential()
	am, bm := rateM(v0)
	wantM := am / (am + bm)
	if math.Abs(m.m[0]-wantM) > 1e-12 {
		t.Errorf("m(rest) = %v, want %v", m.m[0], wantM)
	}
}

// TestHHStateStepConvergesToSteadyState checks that repeatedly stepping
// at a clamped voltage drives gating variables toward that voltage's
// steady state, the defining property of exponential Euler integration
// here.
func TestHHStateStepConvergesToSteadyState(t *testing.T) {
	m := bindHHIons(t, []int{0})
	clamped := []float64{0} // a strong depolarization
	for i := 0; i < 5000; i++ { // 50 ms, about 30 time constants of n at v=0
		m.StateStep(clamped, 0.01)
	}
	an, bn := rateN(0)
	wantN := an / (an + bn)
	if math.Abs(m.n[0]-wantN) > 1e-6 {
		t.Errorf("n after many steps at v=0 = %v, want %v", m.n[0], wantN)
	}
}

func TestHHUsesIon(t *testing.T) {
	m := bindHHIons(t, []int{0})
	if !m.UsesIon(mechanism.Na) || !m.UsesIon(mechanism.K) {
		t.Error("HH must declare use of na and k")
	}
	if m.UsesIon(mechanism.Ca) {
		t.Error("HH must not declare use of ca")
	}
}

func TestVtrapRemovableSingularity(t *testing.T) {
	// vtrap(x,y) = x/(exp(x/y)-1) has a removable singularity at x=0
	// with limit y; at points on both sides of the small-x branch cutoff,
	// vtrap must agree with a direct evaluation of the formula.
	y := 10.0
	xs := []float64{1e-8, 1e-5, 1e-3, 1.0}
	for _, x := range xs {
		got := vtrap(x, y)
		want := x / (math.Exp(x/y) - 1)
		if math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
			t.Errorf("vtrap(%v,%v) = %v, want ~%v", x, y, got, want)
		}
	}
}
