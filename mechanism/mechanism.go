// Package mechanism defines the capability set a membrane or synaptic
// mechanism must satisfy (spec §3 "Mechanism", §9 design notes) and binds
// cell descriptions to concrete mechanism instances, ion species, and
// observation handles (spec §4.3).
//
// The package never instantiates kinetic code itself — that is the
// out-of-scope mechanism catalogue's job (package catalogue is one such
// catalogue). Bind is handed a Catalogue and only ever calls it by name.
package mechanism

// Mechanism is the capability set the core requires of every density or
// point-process mechanism: it owns its own state, is bound to a fixed set
// of CV indices, and participates in the per-step current/state dance
// described in spec §4.4.
type Mechanism interface {
	// Name identifies the mechanism for diagnostics; it need not be unique
	// across instances (two segments using "hh" share the name).
	Name() string

	// NodeIndex returns the immutable global CV indices this mechanism
	// instance acts on: sorted for a density mechanism; for a point
	// process, one entry per instance (local id) in declaration order,
	// so a CV can appear more than once.
	NodeIndex() []int

	// Init sets the mechanism's internal state to its resting values
	// (nrn_init in the reference's vocabulary). Called once at bind time
	// and again on every Reset.
	Init()

	// SetParams is called once per step before CurrentContribution with
	// the current simulation time and the step size about to be taken.
	// Most mechanisms ignore dt here; it is offered because some kinetic
	// schemes need it to precompute per-step coefficients.
	SetParams(t, dt float64)

	// CurrentContribution adds this mechanism's transmembrane current
	// density (mA/cm²) into current[i] for every i in NodeIndex, reading
	// voltage[i] as needed. It must not write voltage or touch indices
	// outside NodeIndex.
	CurrentContribution(voltage, current []float64)

	// StateStep integrates the mechanism's internal state (gating
	// variables, synaptic conductance, ...) forward by dt, using the
	// voltage just produced by the linear solve.
	StateStep(voltage []float64, dt float64)

	// UsesIon reports whether this mechanism reads or writes the named
	// ion species' state.
	UsesIon(k IonKind) bool

	// SetIon binds the shared ion state for species k to this mechanism.
	// Called once during binding, only if UsesIon(k) is true.
	SetIon(k IonKind, ion *Ion)
}

// PointProcess is the subset of mechanisms that sit at a single CV and
// receive discrete synaptic events, rather than spanning a contiguous
// density region. The binder calls SetAreas once, after the mechanism's
// full index set is known, so point processes can convert between
// membrane-area current density and point current if their kinetics need
// to (spec §4.3 pass 2).
type PointProcess interface {
	Mechanism

	// SetAreas hands the mechanism the engine-owned per-CV area array
	// (µm²), indexed globally; the mechanism reads area[i] for i in its
	// own NodeIndex.
	SetAreas(area []float64)

	// NetReceive perturbs the state of local instance lid (an index into
	// this mechanism's own NodeIndex, not a global CV index) by weight.
	// Only legal between steps (spec §5).
	NetReceive(lid int, weight float64)
}

// Factory builds a mechanism instance bound to idx, a list of global CV
// indices in the form NodeIndex describes.
type Factory func(idx []int) Mechanism

// Catalogue resolves a mechanism name to a Factory. It is the seam between
// the binder (this package) and whatever out-of-scope registry supplies
// kinetic implementations (package catalogue is one such registry).
type Catalogue interface {
	Lookup(name string) (Factory, bool)
}

// MapCatalogue is the simplest Catalogue: a name→Factory map, analogous to
// the reference's ElementRegister/slementTypeString registry but without
// the global mutable state — callers build one explicitly and pass it to
// Bind.
type MapCatalogue map[string]Factory

func (m MapCatalogue) Lookup(name string) (Factory, bool) {
	f, ok := m[name]
	return f, ok
}

// Field is an abstract per-CV observable, generalizing spec §9's open
// question about field_selector beyond the two built-in fields: anything
// that can be read by global CV index (voltage, current, or a
// mechanism-owned state array) can back a probe.
type Field interface {
	At(i int) float64
}

// FieldFunc adapts a plain slice-indexing function into a Field.
type FieldFunc func(i int) float64

func (f FieldFunc) At(i int) float64 { return f(i) }
