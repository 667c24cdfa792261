package catalogue

import (
	"math"

	"fvmcell/mechanism"
)

// ExpSyn is a point-process exponential synapse: a single conductance
// state g decaying with time constant Tau toward zero, stepped upward
// by NetReceive on each incoming event. Grounded on element/switch's
// discrete state-perturbation pattern: an external event flips internal
// state which the next current computation observes, generalized from
// a binary flip to an additive conductance jump.
type ExpSyn struct {
	idx  []int
	area []float64 // engine-owned, set once via SetAreas

	Tau float64 // ms
	ESyn float64 // mV

	g []float64 // nS, one slot per idx position
}

// NewExpSyn builds an ExpSyn factory with the given decay time constant
// and reversal potential. Defaults (Tau=2 ms, ESyn=0 mV, an excitatory
// synapse) apply when both are left zero.
func NewExpSyn(tau, eSyn float64) mechanism.Factory {
	if tau == 0 {
		tau = 2.0
	}
	return func(idx []int) mechanism.Mechanism {
		return &ExpSyn{idx: idx, Tau: tau, ESyn: eSyn, g: make([]float64, len(idx))}
	}
}

func (s *ExpSyn) Name() string     { return "expsyn" }
func (s *ExpSyn) NodeIndex() []int { return s.idx }

func (s *ExpSyn) Init() {
	for p := range s.g {
		s.g[p] = 0
	}
}

func (s *ExpSyn) SetParams(t, dt float64) {}

// pointCurrentScale converts nA/µm² to mA/cm², the same factor the
// engine's stimulus injection uses (spec §4.4 step 3) since both start
// from a point current in nA and end at the same membrane current
// density.
const pointCurrentScale = 100.0

// CurrentContribution converts the point conductance g (nS) into a
// current density (mA/cm²) via the CV's own surface area, the same
// point-to-density conversion set_areas exists to support (spec §4.3
// pass 2).
func (s *ExpSyn) CurrentContribution(voltage, current []float64) {
	for p, i := range s.idx {
		iSyn := s.g[p] * (voltage[i] - s.ESyn) // nA (g in nS == nA/mV)
		current[i] += pointCurrentScale * iSyn / s.area[i]
	}
}

func (s *ExpSyn) StateStep(voltage []float64, dt float64) {
	decay := math.Exp(-dt / s.Tau)
	for p := range s.g {
		s.g[p] *= decay
	}
}

func (s *ExpSyn) UsesIon(mechanism.IonKind) bool           { return false }
func (s *ExpSyn) SetIon(mechanism.IonKind, *mechanism.Ion) {}

func (s *ExpSyn) SetAreas(area []float64) { s.area = area }

// NetReceive perturbs local instance lid's conductance by weight (nS),
// the synaptic event kernel spec §8 scenario S4 exercises; weight=0 is
// a no-op by construction.
func (s *ExpSyn) NetReceive(lid int, weight float64) {
	s.g[lid] += weight
}
