// Package compgraph implements components A and B of the lowering
// pipeline (spec §4.1, §4.2): flattening a collection of cells into one
// indexed array of control volumes with a parent pointer per CV, then
// computing the per-CV surface area, per-face coupling coefficient, and
// per-CV specific capacitance.
package compgraph

import (
	"fmt"

	"fvmcell/cellmodel"
	"fvmcell/fvmerr"
)

// Range is a half-open compartment index range [Lo, Hi).
type Range struct{ Lo, Hi int }

// Len reports the number of compartments in the range.
func (r Range) Len() int { return r.Hi - r.Lo }

// CVSet is the immutable, flattened compartment graph and geometry shared
// by every mechanism and by the tree solver. It is built once by Build and
// never reallocated afterward (spec §3 ownership & lifecycle).
type CVSet struct {
	// Parent[i] is the global CV index of i's parent; Parent[i] <= i, and
	// each cell's root satisfies Parent[lo] == lo.
	Parent []int

	// CellBounds partitions [0, N) into per-cell ranges: cell c occupies
	// [CellBounds[c], CellBounds[c+1]).
	CellBounds []int

	// Segments[c][s] is the global CV range of segment s of cell c, in
	// the cell's declared segment order.
	Segments [][]Range

	Area          []float64 // µm², strictly positive
	FaceAlpha     []float64 // face coupling coefficient, FaceAlpha[0] unused
	CVCapacitance []float64 // F/m², specific capacitance after normalization
}

// N returns the total number of compartments across all cells.
func (cv *CVSet) N() int { return len(cv.Parent) }

// NumCells returns the number of cells lowered into this set.
func (cv *CVSet) NumCells() int { return len(cv.CellBounds) - 1 }

// CellOf returns the index of the cell owning global CV i.
func (cv *CVSet) CellOf(i int) int {
	// Cells are few relative to compartments; linear scan mirrors the
	// reference's small-N loops in graph.Graph.Init rather than paying
	// for a binary search structure that is never the bottleneck here.
	for c := 0; c < len(cv.CellBounds)-1; c++ {
		if i < cv.CellBounds[c+1] {
			return c
		}
	}
	return len(cv.CellBounds) - 2
}

// Build lowers cells into a CVSet: component A (graph, this file) followed
// by component B (geometry, geometry.go). It fails atomically — on any
// error nothing further is built and the returned CVSet is nil, so no
// half-constructed engine can be observed (spec §7).
func Build(cells []cellmodel.Cell) (*CVSet, error) {
	ncell := len(cells)
	cellBounds := make([]int, ncell+1)
	for c, cell := range cells {
		n := cell.NumCompartments()
		if n <= 0 {
			return nil, fmt.Errorf("%w: cell %d", fvmerr.ErrEmptyCell, c)
		}
		cellBounds[c+1] = cellBounds[c] + n
	}
	ncomp := cellBounds[ncell]

	parent := make([]int, ncomp)
	segments := make([][]Range, ncell)
	area := make([]float64, ncomp)
	faceAlpha := make([]float64, ncomp)
	capacitance := make([]float64, ncomp)

	for c, cell := range cells {
		lo := cellBounds[c]
		hi := cellBounds[c+1]

		for i := lo; i < hi; i++ {
			parent[i] = cell.ParentIndex(i-lo) + lo
		}
		parent[lo] = lo // tie-break: cell root is its own parent

		segs := cell.Segments()
		ranges := make([]Range, len(segs))
		segLo := lo
		for s, seg := range segs {
			n := seg.NumCompartments()
			ranges[s] = Range{Lo: segLo, Hi: segLo + n}
			segLo += n
		}
		if segLo != hi {
			return nil, fmt.Errorf("%w: cell %d segment compartment counts (%d) do not match NumCompartments (%d)",
				fvmerr.ErrEmptyCell, c, segLo-lo, hi-lo)
		}
		segments[c] = ranges

		if err := computeGeometry(segs, ranges, parent, area, faceAlpha, capacitance); err != nil {
			return nil, fmt.Errorf("cell %d: %w", c, err)
		}

		// Normalize capacitance to specific capacitance, scoped to this
		// cell's own CVs (spec §9 design notes: per-cell scope, not a
		// global pass, since contributions never cross cell boundaries
		// but a global pass would be equivalent only by coincidence).
		for i := lo; i < hi; i++ {
			if area[i] <= 0 {
				return nil, fmt.Errorf("%w: cell %d compartment %d has non-positive area", fvmerr.ErrUnsupportedSegment, c, i-lo)
			}
			capacitance[i] /= area[i]
		}
	}

	return &CVSet{
		Parent:        parent,
		CellBounds:    cellBounds,
		Segments:      segments,
		Area:          area,
		FaceAlpha:     faceAlpha,
		CVCapacitance: capacitance,
	}, nil
}

// ResolveLocation maps a (segment, position) location within cell c to a
// global CV index, per spec §6: position 0 is the segment's proximal end,
// 1 its distal end, and the compartment containing that fraction along the
// segment's compartment run is returned.
func (cv *CVSet) ResolveLocation(c int, loc cellmodel.Location) (int, error) {
	if c < 0 || c >= cv.NumCells() {
		return 0, fmt.Errorf("%w: cell %d out of range", fvmerr.ErrBadLocation, c)
	}
	segs := cv.Segments[c]
	if loc.Segment < 0 || loc.Segment >= len(segs) {
		return 0, fmt.Errorf("%w: segment %d out of range for cell %d", fvmerr.ErrBadLocation, loc.Segment, c)
	}
	r := segs[loc.Segment]
	pos := loc.Pos
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	offset := int(pos * float64(r.Len()))
	if offset >= r.Len() {
		offset = r.Len() - 1
	}
	return r.Lo + offset, nil
}
