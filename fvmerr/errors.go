// Package fvmerr collects the sentinel errors returned by the lowering and
// binding passes. Every error the core can return wraps one of these so
// callers can classify a failure with errors.Is without parsing strings.
package fvmerr

import "errors"

var (
	// ErrEmptyCell is returned when a cell reports zero compartments, or
	// when its segments' compartment counts do not add up to the cell's
	// NumCompartments.
	ErrEmptyCell = errors.New("fvmcell: cell has zero compartments")

	// ErrSomaCompartments is returned when a soma segment does not map to
	// exactly one control volume.
	ErrSomaCompartments = errors.New("fvmcell: soma segment must occupy exactly one compartment")

	// ErrUnsupportedSegment is returned for a segment kind the geometry
	// computer does not know how to lower, and when lowering leaves a
	// compartment with non-positive area.
	ErrUnsupportedSegment = errors.New("fvmcell: unsupported segment kind")

	// ErrHandleSizeMismatch is returned when the handles the binder emits
	// do not number exactly the totals the cells declare.
	ErrHandleSizeMismatch = errors.New("fvmcell: handle container size mismatch")

	// ErrUnknownMechanism is returned when a segment or a synapse names a
	// mechanism the catalogue does not provide.
	ErrUnknownMechanism = errors.New("fvmcell: unknown mechanism")

	// ErrUnknownIon names an ion species outside the closed set the binder
	// supports. No function in this module returns it: the binder asks
	// mechanisms about the closed set only, so a declared use of any
	// other species is not detected.
	ErrUnknownIon = errors.New("fvmcell: unknown ion species")

	// ErrUnknownProbeKind is returned for a probe whose kind the binder
	// cannot translate into a field accessor.
	ErrUnknownProbeKind = errors.New("fvmcell: unknown probe kind")

	// ErrBadLocation is returned when a location does not resolve to a
	// valid compartment (out-of-range segment index or position).
	ErrBadLocation = errors.New("fvmcell: location does not resolve to a compartment")
)
