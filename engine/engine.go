// Package engine implements component D, spec §4.4: the per-step
// time-stepping loop that assembles the implicit linear system, solves
// it on the tree, updates mechanism state, applies stimuli, and
// delivers synaptic events.
//
// Engine is not safe for concurrent use — exactly one caller mutates a
// given instance at a time, mirroring the reference's single-owner
// mna.Soluv. No goroutine, channel, or context ever appears on the
// Advance/DeliverEvent/Reset/Probe path.
package engine

import (
	"fmt"

	"fvmcell/cellmodel"
	"fvmcell/compgraph"
	"fvmcell/fvmerr"
	"fvmcell/mechanism"
	"fvmcell/solver"
)

// stimBinding is a current clamp resolved to a global CV index.
type stimBinding struct {
	cv   int
	stim cellmodel.Stimulus
}

// Engine owns every array and mechanism instance for the lifetime of a
// lowered cell population (spec §3 ownership & lifecycle). It is built
// once by New and never reallocates its structural arrays afterward;
// Reset reverts dynamic state only.
type Engine struct {
	cfg Config

	cvset *compgraph.CVSet
	mechs []mechanism.Mechanism
	synapseBase int
	ions  map[mechanism.IonKind]*mechanism.Ion

	voltage []float64
	current []float64

	stimuli   []stimBinding
	detectors []mechanism.DetectorHandle
	targets   []mechanism.TargetHandle
	probes    []mechanism.ProbeHandle

	matrix *solver.Matrix

	t float64
}

// New lowers cells, binds mechanisms through cat, and returns a fully
// initialized Engine at rest (spec's initialize). On any error nothing
// is returned but nil and the error: construction is all-or-nothing, so
// no partially built engine is ever observable (spec §7).
func New(cells []cellmodel.Cell, cat mechanism.Catalogue, cfg Config) (*Engine, error) {
	cvset, err := compgraph.Build(cells)
	if err != nil {
		return nil, err
	}

	bound, err := mechanism.Bind(cvset, cells, cat)
	if err != nil {
		return nil, err
	}

	n := cvset.N()
	e := &Engine{
		cfg:         cfg,
		cvset:       cvset,
		mechs:       bound.Mechanisms,
		synapseBase: bound.SynapseBase,
		ions:        bound.Ions,
		voltage:     make([]float64, n),
		current:     make([]float64, n),
		detectors:   bound.Detectors,
		targets:     bound.Targets,
		matrix:      solver.New(cvset.Parent),
	}

	stimuli, err := bindStimuli(cvset, cells)
	if err != nil {
		return nil, err
	}
	e.stimuli = stimuli

	probes := make([]mechanism.ProbeHandle, len(bound.Probes))
	for i, spec := range bound.Probes {
		var field mechanism.Field
		switch spec.Kind {
		case cellmodel.ProbeVoltage:
			field = mechanism.FieldFunc(func(i int) float64 { return e.voltage[i] })
		case cellmodel.ProbeCurrent:
			field = mechanism.FieldFunc(func(i int) float64 { return e.current[i] })
		default:
			return nil, fmt.Errorf("%w: %d", fvmerr.ErrUnknownProbeKind, spec.Kind)
		}
		probes[i] = mechanism.ProbeHandle{Field: field, CV: spec.CV}
	}
	e.probes = probes

	if cfg.Debug {
		if err := solver.CheckInvariants(cvset.Parent, cvset.Area, cvset.FaceAlpha, cvset.CVCapacitance); err != nil {
			return nil, err
		}
	}

	e.Reset()
	return e, nil
}

func bindStimuli(cvset *compgraph.CVSet, cells []cellmodel.Cell) ([]stimBinding, error) {
	var bindings []stimBinding
	for c, cell := range cells {
		for _, stim := range cell.Stimuli() {
			cv, err := cvset.ResolveLocation(c, stim.Location)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, stimBinding{cv: cv, stim: stim})
		}
	}
	return bindings, nil
}

// stimulusCurrentScale converts nA/µm² to mA/cm² in the stimulus
// injection term (spec §4.4 step 3).
const stimulusCurrentScale = 100.0

// Advance performs one step of size dt (ms), in the normative order of
// spec §4.4: zero currents, mechanism current contribution, stimulus
// injection, matrix assembly, linear solve, mechanism state update,
// clock advance.
func (e *Engine) Advance(dt float64) {
	for i := range e.current {
		e.current[i] = 0
	}

	for _, m := range e.mechs {
		m.SetParams(e.t, dt)
		m.CurrentContribution(e.voltage, e.current)
	}

	for _, b := range e.stimuli {
		ie := b.stim.AmplitudeAt(e.t)
		e.current[b.cv] -= stimulusCurrentScale * ie / e.cvset.Area[b.cv]
	}

	e.matrix.Assemble(e.cvset.Area, e.cvset.FaceAlpha, e.cvset.CVCapacitance, e.voltage, e.current, dt)
	e.matrix.Solve()
	for i := range e.voltage {
		e.voltage[i] = e.matrix.RHS.AtVec(i)
	}

	for _, m := range e.mechs {
		m.StateStep(e.voltage, dt)
	}

	e.t += dt
}

// DeliverEvent forwards a synaptic event to the point-process mechanism
// addressed by h, only legal between steps (spec §5).
func (e *Engine) DeliverEvent(h mechanism.TargetHandle, weight float64) {
	pp := e.mechs[e.synapseBase+h.MechIndex].(mechanism.PointProcess)
	pp.NetReceive(h.LID, weight)
}

// Reset reverts dynamic state to rest: voltage to the resting potential,
// the clock to zero, and every mechanism to its own Init state. Structure
// (CVSet, mechanism bindings, handles) is preserved. Reset is idempotent
// (spec §8 property 5).
func (e *Engine) Reset() {
	v0 := mechanism.RestingPotential()
	for i := range e.voltage {
		e.voltage[i] = v0
	}
	e.t = 0
	for _, m := range e.mechs {
		m.Init()
	}
}

// DetectorVoltage reads the voltage a spike detector watches.
func (e *Engine) DetectorVoltage(h mechanism.DetectorHandle) float64 { return e.voltage[h] }

// Probe reads the field a probe handle names.
func (e *Engine) Probe(h mechanism.ProbeHandle) float64 { return h.Value() }

// ProbeAt reads probe i from the handles produced at bind time, in
// cell-declaration order.
func (e *Engine) ProbeAt(i int) float64 { return e.probes[i].Value() }

// NumProbes reports how many probe handles were bound.
func (e *Engine) NumProbes() int { return len(e.probes) }

// Voltage returns the engine's own voltage array. Callers must not
// mutate it; the solver is the only writer.
func (e *Engine) Voltage() []float64 { return e.voltage }

// Current returns the engine's own current array. Callers must not
// mutate it.
func (e *Engine) Current() []float64 { return e.current }

// Time returns the simulation clock (ms).
func (e *Engine) Time() float64 { return e.t }

// IsPhysicalSolution is a non-fatal diagnostic surfacing blow-up without
// aborting (spec §4.6): true iff -1000 < voltage[0] < 1000.
func (e *Engine) IsPhysicalSolution() bool {
	return e.voltage[0] > -1000 && e.voltage[0] < 1000
}

// Detectors returns the detector handles bound at construction, in
// cell-declaration order.
func (e *Engine) Detectors() []mechanism.DetectorHandle { return e.detectors }

// Targets returns the target handles bound at construction, in
// cell-declaration order.
func (e *Engine) Targets() []mechanism.TargetHandle { return e.targets }

// CVSet exposes the immutable lowered structure, for callers (tests,
// the demo driver) that need direct access to area/geometry.
func (e *Engine) CVSet() *compgraph.CVSet { return e.cvset }
