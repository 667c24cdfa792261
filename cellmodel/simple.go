package cellmodel

// SimpleSoma is a minimal Segment implementation for a spherical soma.
type SimpleSoma struct {
	RadiusUM   float64
	CM         float64 // F/m² (0.01 F/m² = 1 µF/cm²), returned unchanged by SpecificCapacitance
	RL         float64 // Ω·cm
	MechList   []MechanismSpec
}

func (s *SimpleSoma) Kind() SegmentKind          { return Soma }
func (s *SimpleSoma) NumCompartments() int       { return 1 }
func (s *SimpleSoma) Radius() float64            { return s.RadiusUM }
func (s *SimpleSoma) CompartmentRadii(int) (float64, float64, float64) {
	return s.RadiusUM, s.RadiusUM, 0
}
func (s *SimpleSoma) SpecificCapacitance() float64 { return s.CM }
func (s *SimpleSoma) AxialResistivity() float64    { return s.RL }
func (s *SimpleSoma) Mechanisms() []MechanismSpec  { return s.MechList }

// SimpleCable is a minimal Segment implementation for a cylindrical cable
// discretized into N compartments of uniform length and linearly
// interpolated radius between RadiusProximal and RadiusDistal.
type SimpleCable struct {
	N                          int
	LengthUM                   float64
	RadiusProximal, RadiusDistal float64
	CM                         float64
	RL                         float64
	MechList                   []MechanismSpec
}

func (c *SimpleCable) Kind() SegmentKind    { return Cable }
func (c *SimpleCable) NumCompartments() int { return c.N }
func (c *SimpleCable) Radius() float64      { return 0 }

// CompartmentRadii returns the radii at the left and right endpoints of
// compartment i, linearly interpolated along the cable, and the
// compartment length.
func (c *SimpleCable) CompartmentRadii(i int) (rLeft, rRight, length float64) {
	length = c.LengthUM / float64(c.N)
	frac := func(x float64) float64 {
		return c.RadiusProximal + (c.RadiusDistal-c.RadiusProximal)*x
	}
	rLeft = frac(float64(i) / float64(c.N))
	rRight = frac(float64(i+1) / float64(c.N))
	return
}
func (c *SimpleCable) SpecificCapacitance() float64 { return c.CM }
func (c *SimpleCable) AxialResistivity() float64    { return c.RL }
func (c *SimpleCable) Mechanisms() []MechanismSpec  { return c.MechList }

// SimpleCell is a plain-struct Cell: a slice of segments, each contributing
// its compartments in order, with an explicit per-compartment local parent
// index (0-based across the whole cell, not per-segment).
type SimpleCell struct {
	Segs        []Segment
	Parents     []int // length NumCompartments(), parent[0] must be 0
	SynapseList []Synapse
	StimList    []Stimulus
	DetectorList []Detector
	ProbeList   []Probe
}

func (c *SimpleCell) NumCompartments() int {
	n := 0
	for _, s := range c.Segs {
		n += s.NumCompartments()
	}
	return n
}
func (c *SimpleCell) ParentIndex(i int) int { return c.Parents[i] }
func (c *SimpleCell) Segments() []Segment   { return c.Segs }
func (c *SimpleCell) Synapses() []Synapse   { return c.SynapseList }
func (c *SimpleCell) Stimuli() []Stimulus   { return c.StimList }
func (c *SimpleCell) Detectors() []Detector { return c.DetectorList }
func (c *SimpleCell) Probes() []Probe       { return c.ProbeList }

// NewSomaOnlyCell builds the single-CV soma cell used throughout the
// end-to-end scenarios (spec §8, S1/S2/S3): one soma compartment, a density
// mechanism list, an optional current clamp, a detector, and two probes
// (voltage first, then current), all at the soma.
func NewSomaOnlyCell(radiusUM, cm, rL float64, mechs []MechanismSpec, stim *Stimulus, threshold float64) *SimpleCell {
	cell := &SimpleCell{
		Segs:    []Segment{&SimpleSoma{RadiusUM: radiusUM, CM: cm, RL: rL, MechList: mechs}},
		Parents: []int{0},
		ProbeList: []Probe{
			{Location: Location{Segment: 0, Pos: 0}, Kind: ProbeVoltage},
			{Location: Location{Segment: 0, Pos: 0}, Kind: ProbeCurrent},
		},
		DetectorList: []Detector{{Location: Location{Segment: 0, Pos: 0}, Threshold: threshold}},
	}
	if stim != nil {
		cell.StimList = []Stimulus{*stim}
	}
	return cell
}
