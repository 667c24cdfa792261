package catalogue

import (
	"math"

	"fvmcell/mechanism"
)

// HH is a density Hodgkin-Huxley mechanism: m, h, n gating variables
// integrated by exponential Euler from their (alpha, beta) rate
// functions, with current computed against the engine-bound na/k
// reversal potentials rather than fixed constants. Grounded on
// element/diode's voltage-dependent, state-carrying DoStep/
// CalculateCurrent split: current depends on a state variable updated
// once per step from the voltage the previous step produced.
type HH struct {
	idx []int

	GNaBar float64 // S/cm²
	GKBar  float64 // S/cm²

	m, h, n []float64 // gating state, one slot per idx position

	na *mechanism.Ion
	k  *mechanism.Ion
}

// NewHH builds an HH factory with the given peak conductances. Classic
// squid-axon values (GNaBar=0.12, GKBar=0.036 S/cm²) apply when both
// are left zero.
func NewHH(gNaBar, gKBar float64) mechanism.Factory {
	if gNaBar == 0 {
		gNaBar = 0.12
	}
	if gKBar == 0 {
		gKBar = 0.036
	}
	return func(idx []int) mechanism.Mechanism {
		return &HH{
			idx:    idx,
			GNaBar: gNaBar,
			GKBar:  gKBar,
			m:      make([]float64, len(idx)),
			h:      make([]float64, len(idx)),
			n:      make([]float64, len(idx)),
		}
	}
}

func (hh *HH) Name() string     { return "hh" }
func (hh *HH) NodeIndex() []int { return hh.idx }

// Init sets every gating variable to its steady-state value at the
// resting potential.
func (hh *HH) Init() {
	v0 := mechanism.RestingPotential()
	am, bm := rateM(v0)
	ah, bh := rateH(v0)
	an, bn := rateN(v0)
	for p := range hh.idx {
		hh.m[p] = am / (am + bm)
		hh.h[p] = ah / (ah + bh)
		hh.n[p] = an / (an + bn)
	}
}

func (hh *HH) SetParams(t, dt float64) {}

func (hh *HH) CurrentContribution(voltage, current []float64) {
	for p, i := range hh.idx {
		v := voltage[i]
		eNa := reversalAt(hh.na, i)
		eK := reversalAt(hh.k, i)
		gNa := hh.GNaBar * hh.m[p] * hh.m[p] * hh.m[p] * hh.h[p]
		gK := hh.GKBar * hh.n[p] * hh.n[p] * hh.n[p] * hh.n[p]
		current[i] += gNa*(v-eNa) + gK*(v-eK)
	}
}

// StateStep advances m, h, n by exponential Euler: x(t+dt) = x_inf +
// (x(t) - x_inf)·exp(-dt/tau), unconditionally stable for any dt > 0
// regardless of how fast the underlying rate constants are.
func (hh *HH) StateStep(voltage []float64, dt float64) {
	for p, i := range hh.idx {
		v := voltage[i]

		am, bm := rateM(v)
		mInf, mTau := am/(am+bm), 1/(am+bm)
		hh.m[p] = mInf + (hh.m[p]-mInf)*math.Exp(-dt/mTau)

		ah, bh := rateH(v)
		hInf, hTau := ah/(ah+bh), 1/(ah+bh)
		hh.h[p] = hInf + (hh.h[p]-hInf)*math.Exp(-dt/hTau)

		an, bn := rateN(v)
		nInf, nTau := an/(an+bn), 1/(an+bn)
		hh.n[p] = nInf + (hh.n[p]-nInf)*math.Exp(-dt/nTau)
	}
}

func (hh *HH) UsesIon(k mechanism.IonKind) bool {
	return k == mechanism.Na || k == mechanism.K
}

func (hh *HH) SetIon(k mechanism.IonKind, ion *mechanism.Ion) {
	switch k {
	case mechanism.Na:
		hh.na = ion
	case mechanism.K:
		hh.k = ion
	}
}

// reversalAt reads ion's reversal potential at global CV index i.
func reversalAt(ion *mechanism.Ion, i int) float64 {
	p, _ := ion.Position(i)
	return ion.ReversalPotential[p]
}

// vtrap evaluates x/(exp(x/y)-1) with its removable singularity at x=0
// handled by a linear expansion, the standard numerical treatment for
// the HH alpha_m/alpha_n rate functions.
func vtrap(x, y float64) float64 {
	if math.Abs(x/y) < 1e-6 {
		return y*(1-x/(2*y))
	}
	return x / (math.Exp(x/y) - 1)
}

func rateM(v float64) (alpha, beta float64) {
	alpha = 0.1 * vtrap(-(v + 40), 10)
	beta = 4 * math.Exp(-(v + 65) / 18)
	return
}

func rateH(v float64) (alpha, beta float64) {
	alpha = 0.07 * math.Exp(-(v + 65) / 20)
	beta = 1 / (1 + math.Exp(-(v+35)/10))
	return
}

func rateN(v float64) (alpha, beta float64) {
	alpha = 0.01 * vtrap(-(v + 55), 10)
	beta = 0.125 * math.Exp(-(v + 65) / 80)
	return
}
