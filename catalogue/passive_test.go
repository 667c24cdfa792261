package catalogue

import "testing"

func TestPassiveCurrentAtRestIsZero(t *testing.T) {
	factory := NewPassive(0.001, -65)
	m := factory([]int{0})
	m.Init()

	voltage := []float64{-65}
	current := []float64{0}
	m.CurrentContribution(voltage, current)
	if current[0] != 0 {
		t.Errorf("current at rest = %v, want 0", current[0])
	}
}

func TestPassiveCurrentLinearInVoltage(t *testing.T) {
	factory := NewPassive(0.002, -65)
	m := factory([]int{0})
	m.Init()

	voltage := []float64{-55}
	current := []float64{0}
	m.CurrentContribution(voltage, current)
	want := 0.002 * (-55 - -65)
	if current[0] != want {
		t.Errorf("current = %v, want %v", current[0], want)
	}
}

func TestPassiveDoesNotTouchOtherIndices(t *testing.T) {
	factory := NewPassive(0.001, -65)
	m := factory([]int{1})
	m.Init()

	voltage := []float64{-40, -40}
	current := []float64{7, 0}
	m.CurrentContribution(voltage, current)
	if current[0] != 7 {
		t.Errorf("current[0] = %v, want unchanged 7", current[0])
	}
}
