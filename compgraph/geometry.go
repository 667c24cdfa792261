package compgraph

import (
	"fmt"
	"math"

	"fvmcell/cellmodel"
	"fvmcell/fvmerr"
)

// areaSphere is the surface area of a sphere of radius r (µm²).
func areaSphere(r float64) float64 { return 4 * math.Pi * r * r }

// areaCircle is the area of a circle of radius r (µm²).
func areaCircle(r float64) float64 { return math.Pi * r * r }

// areaFrustum is the lateral surface area of a right circular cone
// frustum of height h between end radii r1 and r2 (µm²).
func areaFrustum(h, r1, r2 float64) float64 {
	slant := math.Hypot(h, r2-r1)
	return math.Pi * (r1 + r2) * slant
}

// computeGeometry implements spec §4.2 for the segments of a single cell:
// it accumulates area and unnormalized capacitance contributions into the
// engine-owned area/capacitance arrays, and sets faceAlpha for every
// non-root compartment. Capacitance normalization (divide by area) is the
// caller's responsibility, once all of a cell's segments are processed.
func computeGeometry(segs []cellmodel.Segment, ranges []Range, parent []int, area, faceAlpha, capacitance []float64) error {
	for s, seg := range segs {
		r := ranges[s]
		switch seg.Kind() {
		case cellmodel.Soma:
			if r.Len() != 1 {
				return fmt.Errorf("%w: segment %d", fvmerr.ErrSomaCompartments, s)
			}
			i := r.Lo
			a := areaSphere(seg.Radius())
			area[i] += a
			capacitance[i] += a * seg.SpecificCapacitance()

		case cellmodel.Cable:
			cm := seg.SpecificCapacitance()
			rL := seg.AxialResistivity()
			for i := r.Lo; i < r.Hi; i++ {
				rLeft, rRight, length := seg.CompartmentRadii(i - r.Lo)
				rCenter := 0.5 * (rLeft + rRight)
				faceArea := areaCircle(rCenter)
				faceAlpha[i] = faceArea / (cm * rL * length)

				halfLen := length / 2
				aLeft := areaFrustum(halfLen, rLeft, rCenter)
				aRight := areaFrustum(halfLen, rCenter, rRight)

				area[parent[i]] += aLeft
				area[i] += aRight
				capacitance[parent[i]] += aLeft * cm
				capacitance[i] += aRight * cm
			}

		default:
			return fmt.Errorf("%w: segment %d", fvmerr.ErrUnsupportedSegment, s)
		}
	}
	return nil
}
