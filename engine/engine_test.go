package engine

import (
	"errors"
	"math"
	"testing"

	"fvmcell/catalogue"
	"fvmcell/cellmodel"
	"fvmcell/fvmerr"
	"fvmcell/mechanism"
)

func testCatalogue() mechanism.MapCatalogue {
	return mechanism.MapCatalogue{
		"pas":    catalogue.NewPassive(0, 0),
		"hh":     catalogue.NewHH(0, 0),
		"expsyn": catalogue.NewExpSyn(0, 0),
	}
}

func hhSoma(amp float64) *cellmodel.SimpleCell {
	stim := &cellmodel.Stimulus{
		Location: cellmodel.Location{Segment: 0, Pos: 0},
		Delay:    10, Duration: 100, Amplitude: amp,
	}
	return cellmodel.NewSomaOnlyCell(9.4, 0.01, 100,
		[]cellmodel.MechanismSpec{{Name: "hh"}}, stim, 0)
}

// TestResetIdempotentAndDeterministic covers spec §8 properties 5 and 6:
// reset() is idempotent, and advance(dt) from a reset engine is
// deterministic given the same input.
func TestResetIdempotentAndDeterministic(t *testing.T) {
	cell := hhSoma(0.1)
	eng, err := New([]cellmodel.Cell{cell}, testCatalogue(), Config{Debug: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 50; i++ {
		eng.Advance(0.01)
	}
	trace1 := append([]float64(nil), eng.Voltage()...)

	eng.Reset()
	eng.Reset() // idempotent: a second reset from rest changes nothing
	if eng.Voltage()[0] != mechanism.RestingPotential() {
		t.Fatalf("after reset, voltage[0] = %v, want %v", eng.Voltage()[0], mechanism.RestingPotential())
	}
	if eng.Time() != 0 {
		t.Fatalf("after reset, time = %v, want 0", eng.Time())
	}

	for i := 0; i < 50; i++ {
		eng.Advance(0.01)
	}
	trace2 := eng.Voltage()

	for i := range trace1 {
		if trace1[i] != trace2[i] {
			t.Fatalf("advance after reset not deterministic: trace1[%d]=%v trace2[%d]=%v", i, trace1[i], i, trace2[i])
		}
	}
}

// TestIsPhysicalSolution covers spec §8 property 4.
func TestIsPhysicalSolution(t *testing.T) {
	cell := hhSoma(0.1)
	eng, err := New([]cellmodel.Cell{cell}, testCatalogue(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !eng.IsPhysicalSolution() {
		t.Fatal("IsPhysicalSolution() false immediately after construction/reset")
	}
	for i := 0; i < 200; i++ {
		eng.Advance(0.01)
		if !eng.IsPhysicalSolution() {
			t.Fatalf("IsPhysicalSolution() false at t=%v", eng.Time())
		}
	}
}

// TestPassiveLinearityUnderScaling covers spec §8 property 7: for a
// purely passive model, doubling stimulus amplitude doubles the somatic
// depolarization relative to rest.
func TestPassiveLinearityUnderScaling(t *testing.T) {
	build := func(amp float64) *Engine {
		stim := &cellmodel.Stimulus{
			Location: cellmodel.Location{Segment: 0, Pos: 0},
			Delay: 0, Duration: 50, Amplitude: amp,
		}
		cell := cellmodel.NewSomaOnlyCell(9.4, 0.01, 100,
			[]cellmodel.MechanismSpec{{Name: "pas"}}, stim, 0)
		eng, err := New([]cellmodel.Cell{cell}, testCatalogue(), Config{})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return eng
	}

	e1 := build(0.05)
	e2 := build(0.10)
	for i := 0; i < 1000; i++ {
		e1.Advance(0.01)
		e2.Advance(0.01)
	}

	vRest := mechanism.RestingPotential()
	d1 := e1.Voltage()[0] - vRest
	d2 := e2.Voltage()[0] - vRest
	if d1 == 0 {
		t.Fatal("no depolarization observed, test is vacuous")
	}
	ratio := d2 / d1
	if math.Abs(ratio-2) > 1e-6 {
		t.Errorf("depolarization ratio = %v, want 2 (linear passive scaling)", ratio)
	}
}

// TestEventDeliveryShiftsVoltage covers spec §8 scenario S4: a synaptic
// event between steps perturbs the post-synaptic compartment, and a
// zero-weight event is a no-op.
func TestEventDeliveryShiftsVoltage(t *testing.T) {
	cell := cellmodel.NewSomaOnlyCell(9.4, 0.01, 100, []cellmodel.MechanismSpec{{Name: "pas"}}, nil, 0)
	cell.SynapseList = []cellmodel.Synapse{{
		Mechanism: cellmodel.MechanismSpec{Name: "expsyn"},
		Location:  cellmodel.Location{Segment: 0, Pos: 0},
	}}
	eng, err := New([]cellmodel.Cell{cell}, testCatalogue(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	target := eng.Targets()[0]

	eng.DeliverEvent(target, 0)
	before := eng.Voltage()[0]
	eng.Advance(0.01)
	if eng.Voltage()[0] != before {
		t.Errorf("zero-weight event changed voltage: before=%v after=%v", before, eng.Voltage()[0])
	}

	eng.DeliverEvent(target, 5.0)
	beforeReal := eng.Voltage()[0]
	eng.Advance(0.01)
	if eng.Voltage()[0] == beforeReal {
		t.Error("nonzero-weight event had no effect on voltage")
	}
}

// TestProbesTrackVoltageAndPostStimulusCurrent covers spec §8 scenario
// S5: a voltage probe agrees with voltage()[0] at every step, and a
// current probe reads the value written after stimulus injection.
func TestProbesTrackVoltageAndPostStimulusCurrent(t *testing.T) {
	stim := &cellmodel.Stimulus{
		Location: cellmodel.Location{Segment: 0, Pos: 0},
		Delay: 0, Duration: 50, Amplitude: 0.1,
	}
	cell := cellmodel.NewSomaOnlyCell(9.4, 0.01, 100, []cellmodel.MechanismSpec{{Name: "pas"}}, stim, 0)
	eng, err := New([]cellmodel.Cell{cell}, testCatalogue(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var vStart float64 // voltage at the start of the last step, which the step's current is computed from
	for i := 0; i < 10; i++ {
		vStart = eng.Voltage()[0]
		eng.Advance(0.01)
		if eng.ProbeAt(0) != eng.Voltage()[0] {
			t.Fatalf("voltage probe = %v, want %v", eng.ProbeAt(0), eng.Voltage()[0])
		}
	}

	area := eng.CVSet().Area[0]
	wantCurrent := 0.001*(vStart-(-65)) - 100*0.1/area
	if math.Abs(eng.ProbeAt(1)-wantCurrent) > 1e-6 {
		t.Errorf("current probe = %v, want ~%v", eng.ProbeAt(1), wantCurrent)
	}
}

// twoCompartmentSoma is a Soma-kind segment misreporting two
// compartments, the malformed input spec §8 scenario S6 exercises.
type twoCompartmentSoma struct{ cellmodel.SimpleSoma }

func (s *twoCompartmentSoma) NumCompartments() int { return 2 }

// TestMalformedSomaFailsAtomically covers spec §8 scenario S6: a soma
// declared with two compartments yields an initialization failure, and
// New returns nil.
func TestMalformedSomaFailsAtomically(t *testing.T) {
	soma := &twoCompartmentSoma{cellmodel.SimpleSoma{RadiusUM: 9.4, CM: 0.01, RL: 100}}
	cell := &cellmodel.SimpleCell{
		Segs:    []cellmodel.Segment{soma},
		Parents: []int{0, 0},
	}
	eng, err := New([]cellmodel.Cell{cell}, testCatalogue(), Config{})
	if err == nil {
		t.Fatal("New(malformed soma) succeeded, want error")
	}
	if eng != nil {
		t.Error("New(malformed soma) returned a non-nil engine alongside an error")
	}
	if !errors.Is(err, fvmerr.ErrSomaCompartments) {
		t.Errorf("New(malformed soma) error = %v, want ErrSomaCompartments", err)
	}
}
