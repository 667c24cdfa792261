package engine

// Config carries the per-engine knobs spec §4.0 keeps as plain struct
// fields rather than a flag/file-based loader, mirroring how the
// reference keeps simulation parameters (StampConfig/StampTime) as
// structs and reserves file-based configuration for its out-of-scope
// netlist loader.
type Config struct {
	// Debug enables the solver's structural-invariant checks (spec §4.5),
	// run once by New on the lowered structure, which never changes
	// afterward; Advance does not repeat them. Off by default.
	Debug bool
}
