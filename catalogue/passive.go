// Package catalogue supplies concrete mechanisms satisfying the
// mechanism.Mechanism/PointProcess capability sets: a passive leak, a
// Hodgkin-Huxley excitable channel, and an exponential synapse. These
// are reference implementations exercising the engine the way the
// reference's concrete circuit elements (element/resistor,
// element/diode, element/switch) exercise the MNA core — the mechanism
// catalogue proper is an external collaborator per scope, but a core
// with no mechanism at all cannot be driven end to end.
package catalogue

import "fvmcell/mechanism"

// Passive is a density leak mechanism: a fixed conductance to a fixed
// reversal potential, linear in voltage. Grounded on element/resistor's
// Stamp (a fixed conductance contribution with no internal state).
type Passive struct {
	idx []int

	GLeak float64 // S/cm²
	ELeak float64 // mV
}

// NewPassive builds a Passive leak over idx with the given conductance
// and reversal potential. Defaults (GLeak=0.001 S/cm², ELeak=-65 mV)
// apply when both are left zero.
func NewPassive(gLeak, eLeak float64) mechanism.Factory {
	if gLeak == 0 {
		gLeak = 0.001
	}
	if eLeak == 0 {
		eLeak = -65
	}
	return func(idx []int) mechanism.Mechanism {
		return &Passive{idx: idx, GLeak: gLeak, ELeak: eLeak}
	}
}

func (p *Passive) Name() string      { return "pas" }
func (p *Passive) NodeIndex() []int  { return p.idx }
func (p *Passive) Init()             {}
func (p *Passive) SetParams(float64, float64) {}

func (p *Passive) CurrentContribution(voltage, current []float64) {
	for _, i := range p.idx {
		current[i] += p.GLeak * (voltage[i] - p.ELeak)
	}
}

func (p *Passive) StateStep([]float64, float64) {}

func (p *Passive) UsesIon(mechanism.IonKind) bool         { return false }
func (p *Passive) SetIon(mechanism.IonKind, *mechanism.Ion) {}
