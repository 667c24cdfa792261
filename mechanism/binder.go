package mechanism

import (
	"fmt"
	"sort"

	"fvmcell/cellmodel"
	"fvmcell/compgraph"
	"fvmcell/fvmerr"
)

const membranePseudoMechanism = "membrane"

// CountAnnotations sums the detector, synapse, and probe counts cells
// declare. The binder cross-checks its own output against these totals
// (spec §4.3's "caller-provided output containers have exactly the totals
// observed" precondition) before returning — a defensive check against a
// Cell implementation whose iteration is not actually stable.
func CountAnnotations(cells []cellmodel.Cell) (detectors, targets, probes int) {
	for _, cell := range cells {
		detectors += len(cell.Detectors())
		targets += len(cell.Synapses())
		probes += len(cell.Probes())
	}
	return
}

// segRef names one (cell, segment) pair, used while grouping segments by
// the density mechanism name they declare.
type segRef struct{ cell, seg int }

// Bound is everything the binder produces from a CVSet and a collection of
// cells: the mechanism list (density mechanisms first, then point
// processes from synapseBase onward), the per-species ion state, and the
// three handle kinds consumed by the outer driver.
type Bound struct {
	Mechanisms  []Mechanism
	SynapseBase int
	Ions        map[IonKind]*Ion

	Detectors []DetectorHandle
	Targets   []TargetHandle
	Probes    []ProbeSpec
}

// Bind implements component C, spec §4.3, in its three passes: density
// mechanisms, point-process (synaptic) mechanisms, then ion binding.
// Bind does not see the engine's voltage and current arrays: mechanisms
// receive them as arguments on every CurrentContribution/StateStep call.
func Bind(cvset *compgraph.CVSet, cells []cellmodel.Cell, cat Catalogue) (*Bound, error) {
	mechs, err := bindDensityMechanisms(cvset, cells, cat)
	if err != nil {
		return nil, err
	}
	synapseBase := len(mechs)

	synMechs, targets, err := bindSynapses(cvset, cells, cat)
	if err != nil {
		return nil, err
	}
	mechs = append(mechs, synMechs...)

	ions, err := bindIons(mechs)
	if err != nil {
		return nil, err
	}

	detectors, probes, err := collectHandles(cvset, cells)
	if err != nil {
		return nil, err
	}

	wantDetectors, wantTargets, wantProbes := CountAnnotations(cells)
	if len(detectors) != wantDetectors || len(targets) != wantTargets || len(probes) != wantProbes {
		return nil, fmt.Errorf("%w: got %d/%d/%d detectors/targets/probes, cells declare %d/%d/%d",
			fvmerr.ErrHandleSizeMismatch, len(detectors), len(targets), len(probes), wantDetectors, wantTargets, wantProbes)
	}

	return &Bound{
		Mechanisms:  mechs,
		SynapseBase: synapseBase,
		Ions:        ions,
		Detectors:   detectors,
		Targets:     targets,
		Probes:      probes,
	}, nil
}

// bindDensityMechanisms is pass 1: group segments by mechanism name
// (excluding the "membrane" pseudo-mechanism, which only feeds geometry),
// union each name's CV ranges, and instantiate one mechanism per name.
// Names are visited in sorted order so the resulting mechanism list —
// whose order later governs floating-point accumulation into current — is
// deterministic independent of any map iteration order.
func bindDensityMechanisms(cvset *compgraph.CVSet, cells []cellmodel.Cell, cat Catalogue) ([]Mechanism, error) {
	byName := map[string][]segRef{}
	for c, cell := range cells {
		for s, seg := range cell.Segments() {
			for _, spec := range seg.Mechanisms() {
				if spec.Name == membranePseudoMechanism {
					continue
				}
				byName[spec.Name] = append(byName[spec.Name], segRef{c, s})
			}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	mechs := make([]Mechanism, 0, len(names))
	for _, name := range names {
		factory, ok := cat.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", fvmerr.ErrUnknownMechanism, name)
		}
		var idx []int
		for _, ref := range byName[name] {
			r := cvset.Segments[ref.cell][ref.seg]
			for i := r.Lo; i < r.Hi; i++ {
				idx = append(idx, i)
			}
		}
		m := factory(idx)
		m.Init()
		mechs = append(mechs, m)
	}
	return mechs, nil
}

// bindSynapses is pass 2: walk synapses in cell-declaration order,
// allocating a local id per instance and a mechanism index per distinct
// mechanism name in first-occurrence order, then instantiate each
// synaptic mechanism and hand it the engine's area array.
func bindSynapses(cvset *compgraph.CVSet, cells []cellmodel.Cell, cat Catalogue) ([]Mechanism, []TargetHandle, error) {
	mechIndexByName := map[string]int{}
	var names []string
	var lids [][]int // lids[mechIndex] accumulates CV indices for that mechanism, in encounter order

	var targets []TargetHandle
	for c, cell := range cells {
		for _, syn := range cell.Synapses() {
			idx, ok := mechIndexByName[syn.Mechanism.Name]
			if !ok {
				idx = len(names)
				mechIndexByName[syn.Mechanism.Name] = idx
				names = append(names, syn.Mechanism.Name)
				lids = append(lids, nil)
			}
			cv, err := cvset.ResolveLocation(c, syn.Location)
			if err != nil {
				return nil, nil, err
			}
			lid := len(lids[idx])
			lids[idx] = append(lids[idx], cv)
			targets = append(targets, TargetHandle{MechIndex: idx, LID: lid})
		}
	}

	mechs := make([]Mechanism, len(names))
	for i, name := range names {
		factory, ok := cat.Lookup(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", fvmerr.ErrUnknownMechanism, name)
		}
		m := factory(lids[i])
		m.Init()
		if pp, ok := m.(PointProcess); ok {
			pp.SetAreas(cvset.Area)
		}
		mechs[i] = m
	}
	return mechs, targets, nil
}

// bindIons is pass 3: for each closed-set ion species, union the index
// sets of mechanisms declaring it, instantiate ion storage over that
// union (skipping species nobody uses), and hand every declaring
// mechanism a reference to the shared state.
func bindIons(mechs []Mechanism) (map[IonKind]*Ion, error) {
	ions := make(map[IonKind]*Ion)
	for kind := IonKind(0); kind < numIonKinds; kind++ {
		seen := map[int]bool{}
		var idx []int
		for _, m := range mechs {
			if !m.UsesIon(kind) {
				continue
			}
			for _, i := range m.NodeIndex() {
				if !seen[i] {
					seen[i] = true
					idx = append(idx, i)
				}
			}
		}
		if len(idx) == 0 {
			continue
		}
		sort.Ints(idx)
		ion := NewIon(kind, idx)
		ions[kind] = ion
		for _, m := range mechs {
			if m.UsesIon(kind) {
				m.SetIon(kind, ion)
			}
		}
	}
	return ions, nil
}

// collectHandles emits detector and probe handles in cell-declaration
// order (spec §4.3 postcondition, §8 property 3).
func collectHandles(cvset *compgraph.CVSet, cells []cellmodel.Cell) ([]DetectorHandle, []ProbeSpec, error) {
	var detectors []DetectorHandle
	var probes []ProbeSpec
	for c, cell := range cells {
		for _, det := range cell.Detectors() {
			cv, err := cvset.ResolveLocation(c, det.Location)
			if err != nil {
				return nil, nil, err
			}
			detectors = append(detectors, DetectorHandle(cv))
		}
		for _, pr := range cell.Probes() {
			cv, err := cvset.ResolveLocation(c, pr.Location)
			if err != nil {
				return nil, nil, err
			}
			switch pr.Kind {
			case cellmodel.ProbeVoltage, cellmodel.ProbeCurrent:
			default:
				return nil, nil, fmt.Errorf("%w: %d", fvmerr.ErrUnknownProbeKind, pr.Kind)
			}
			probes = append(probes, ProbeSpec{Kind: pr.Kind, CV: cv})
		}
	}
	return detectors, probes, nil
}
