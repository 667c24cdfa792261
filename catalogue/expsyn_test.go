package catalogue

import (
	"math"
	"testing"
)

func TestExpSynNetReceiveIncrementsConductance(t *testing.T) {
	factory := NewExpSyn(2.0, 0)
	m := factory([]int{5}).(*ExpSyn)
	m.Init()

	if m.g[0] != 0 {
		t.Fatalf("g at init = %v, want 0", m.g[0])
	}
	m.NetReceive(0, 1.5)
	if m.g[0] != 1.5 {
		t.Errorf("g after NetReceive(0, 1.5) = %v, want 1.5", m.g[0])
	}
	m.NetReceive(0, 0)
	if m.g[0] != 1.5 {
		t.Errorf("zero-weight NetReceive changed g: got %v, want 1.5", m.g[0])
	}
}

func TestExpSynStateStepDecaysExponentially(t *testing.T) {
	factory := NewExpSyn(2.0, 0)
	m := factory([]int{0}).(*ExpSyn)
	m.Init()
	m.NetReceive(0, 1.0)

	dt := 0.1
	for i := 0; i < 20; i++ {
		m.StateStep(nil, dt)
	}
	want := math.Exp(-2.0 / m.Tau)
	if math.Abs(m.g[0]-want) > 1e-9 {
		t.Errorf("g after 2ms decay = %v, want %v", m.g[0], want)
	}
}

func TestExpSynCurrentContributionSign(t *testing.T) {
	factory := NewExpSyn(2.0, 0) // excitatory: ESyn = 0
	m := factory([]int{0}).(*ExpSyn)
	m.Init()
	m.SetAreas([]float64{100})
	m.NetReceive(0, 1.0)

	voltage := []float64{-65}
	current := []float64{0}
	m.CurrentContribution(voltage, current)
	if current[0] >= 0 {
		t.Errorf("current = %v, want negative (inward, depolarizing at v below ESyn)", current[0])
	}
}
