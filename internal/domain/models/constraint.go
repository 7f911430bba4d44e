package models

import "github.com/arlan-b/fleet-snapshot-system/internal/domain/types"

// ConstraintMapping is one row of the persisted reverse-mapping artifact:
// an opaque internal id resolved to its external handle. The artifact is
// regenerated by an out-of-band process and read-only here.
type ConstraintMapping struct {
	Kind     types.ConstraintKind
	ID       int64
	Callsign string
	Name     string // full name, drivers only
}

// Resolution is a successful constraint lookup.
type Resolution struct {
	Callsign string
	Name     string
}
