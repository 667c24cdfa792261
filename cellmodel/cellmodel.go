// Package cellmodel defines the collaborator types consumed by the lowering
// and binding passes: cells, their segments, and the point annotations
// (synapses, stimuli, detectors, probes) hung off locations along them.
//
// Building these from a morphology description or a file format is out of
// scope for this module (see spec §1) — cellmodel only defines the
// interfaces the core reads from, plus plain-struct implementations
// (SimpleCell etc.) that satisfy them directly, for use by tests and demos.
package cellmodel

// SegmentKind discriminates the two segment shapes the geometry computer
// knows how to lower.
type SegmentKind int

const (
	// Soma is a single spherical compartment, the root of a cell.
	Soma SegmentKind = iota
	// Cable is a frustum-of-cylinders segment with one or more compartments.
	Cable
)

// Location addresses a point along a segment: Pos 0 is the proximal
// (parent-facing) end, Pos 1 the distal end.
type Location struct {
	Segment int
	Pos     float64
}

// MechanismSpec names a mechanism attached to a segment, bundled with any
// per-segment parameter overrides the catalogue implementation may read via
// Params. The core does not interpret Params beyond passing it through.
type MechanismSpec struct {
	Name   string
	Params map[string]float64
}

// Segment is either a soma (exactly one compartment) or a cable (one or
// more compartments running proximal to distal).
type Segment interface {
	Kind() SegmentKind

	// NumCompartments reports how many CVs this segment occupies.
	NumCompartments() int

	// Radius returns the soma radius (µm). Only meaningful for Soma.
	Radius() float64

	// CompartmentRadii returns the (left, right) frustum radii and the
	// length (µm) of compartment i (0-based within the segment). Only
	// meaningful for Cable.
	CompartmentRadii(i int) (rLeft, rRight, length float64)

	// SpecificCapacitance and AxialResistivity return the "membrane"
	// pseudo-mechanism's c_m [F/m²] and r_L [Ω·cm] for this segment.
	SpecificCapacitance() float64
	AxialResistivity() float64

	// Mechanisms lists the density mechanisms (excluding "membrane")
	// attached to this segment.
	Mechanisms() []MechanismSpec
}

// Synapse is a point-process mechanism attached at a location.
type Synapse struct {
	Mechanism MechanismSpec
	Location  Location
}

// Stimulus is a current clamp: a constant-amplitude injection active
// during [Delay, Delay+Duration).
type Stimulus struct {
	Location Location
	Delay    float64 // ms
	Duration float64 // ms
	Amplitude float64 // nA
}

// AmplitudeAt returns the clamp's injected current (nA) at time t, zero
// outside [Delay, Delay+Duration).
func (s Stimulus) AmplitudeAt(t float64) float64 {
	if t < s.Delay || t >= s.Delay+s.Duration {
		return 0
	}
	return s.Amplitude
}

// Detector is a spike detector watching voltage at a location, armed above
// Threshold. The core does not implement spike detection logic itself
// (that is the out-of-scope communicator's concern); it only resolves the
// location to a detector handle.
type Detector struct {
	Location  Location
	Threshold float64 // mV
}

// ProbeKind selects which field a probe observes.
type ProbeKind int

const (
	ProbeVoltage ProbeKind = iota
	ProbeCurrent
)

// Probe is a state observation point.
type Probe struct {
	Location Location
	Kind     ProbeKind
}

// Cell is a rooted tree of segments (parent[0] == 0) plus the point
// annotations hung off it.
type Cell interface {
	// NumCompartments is the total compartment count across all segments.
	NumCompartments() int

	// ParentIndex returns the local (segment-flattened, 0-based) parent
	// compartment index for compartment i within this cell. ParentIndex(0)
	// must equal 0.
	ParentIndex(i int) int

	// Segments returns the cell's segments in a fixed, stable order. The
	// first segment must be the soma.
	Segments() []Segment

	Synapses() []Synapse
	Stimuli() []Stimulus
	Detectors() []Detector
	Probes() []Probe
}
