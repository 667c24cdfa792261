package mechanism

import "fvmcell/cellmodel"

// DetectorHandle names a CV whose voltage a spike detector watches. It is
// nothing more than the compartment index (spec §3).
type DetectorHandle int

// TargetHandle addresses a single point-process instance: MechIndex is
// relative to the first point-process mechanism (spec §4.3's
// synapse_base), and LID is the local id within that mechanism's own
// NodeIndex.
type TargetHandle struct {
	MechIndex int
	LID       int
}

// ProbeHandle pairs an abstract Field with the CV index to read from it.
// Field is filled in by the engine, which owns the underlying arrays;
// the binder only resolves the CV index and records which kind of field
// was requested (see ProbeSpec).
type ProbeHandle struct {
	Field Field
	CV    int
}

// Value reads the probed quantity.
func (h ProbeHandle) Value() float64 { return h.Field.At(h.CV) }

// ProbeSpec is the binder's intermediate probe result: a resolved CV
// index paired with the caller's requested field kind, before the engine
// has attached the concrete Field implementation.
type ProbeSpec struct {
	Kind cellmodel.ProbeKind
	CV   int
}
