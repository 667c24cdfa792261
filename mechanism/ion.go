package mechanism

import "math"

// IonKind is the closed set of ion species the binder recognizes (spec §3
// and §6). Adding a species means extending this set, not making it open —
// the core intentionally does not support caller-defined ions.
type IonKind int

const (
	Na IonKind = iota
	K
	Ca

	numIonKinds
)

func (k IonKind) String() string {
	switch k {
	case Na:
		return "na"
	case K:
		return "k"
	case Ca:
		return "ca"
	default:
		return "unknown"
	}
}

// Ion is the shared per-species state used by mechanisms that read or
// write reversal potential and concentration: three dense arrays over the
// union of CV indices declared by mechanisms using this species (spec §3).
type Ion struct {
	Kind IonKind

	// idx is the sorted set of global CV indices this ion is defined
	// over; a mechanism using this ion must have NodeIndex ⊆ idx.
	idx []int
	// pos maps a global CV index to its position in idx, for mechanisms
	// that need to translate.
	pos map[int]int

	ReversalPotential     []float64 // mV
	InternalConcentration []float64 // mM
	ExternalConcentration []float64 // mM
}

// NewIon allocates ion state over idx (sorted, deduplicated by the caller)
// and fills it with the default physiological values (spec §6).
func NewIon(kind IonKind, idx []int) *Ion {
	n := len(idx)
	ion := &Ion{
		Kind:                  kind,
		idx:                   idx,
		pos:                   make(map[int]int, n),
		ReversalPotential:     make([]float64, n),
		InternalConcentration: make([]float64, n),
		ExternalConcentration: make([]float64, n),
	}
	for p, i := range idx {
		ion.pos[i] = p
	}
	e, cin, cout := DefaultIonState(kind)
	for i := range idx {
		ion.ReversalPotential[i] = e
		ion.InternalConcentration[i] = cin
		ion.ExternalConcentration[i] = cout
	}
	return ion
}

// NodeIndex returns the CV indices this ion's state is defined over.
func (ion *Ion) NodeIndex() []int { return ion.idx }

// Position returns the offset of global CV index cv within this ion's
// arrays, and whether cv is covered by this ion at all.
func (ion *Ion) Position(cv int) (int, bool) {
	p, ok := ion.pos[cv]
	return p, ok
}

const restingPotential = -65.0 // mV, spec §6

// RestingPotential is the default initial membrane voltage (spec §6).
func RestingPotential() float64 { return restingPotential }

// DefaultIonState returns the biophysically standard reversal potential
// (mV) and internal/external concentrations (mM) for kind, per spec §6.
func DefaultIonState(kind IonKind) (reversal, internal, external float64) {
	switch kind {
	case Na:
		return 115 + restingPotential, 10.0, 140.0
	case K:
		return -12 + restingPotential, 54.4, 2.5
	case Ca:
		return 12.5 * math.Log(2.0/5e-5), 5e-5, 2.0
	default:
		return 0, 0, 0
	}
}
