package entities

import "github.com/weave-pm/weave/internal/domain/values"

// Pin binds a package reference to an exact version or revision,
// persisted in the pins file (Package.resolved).
type Pin struct {
	PackageRef values.PackageReference
	State      values.PinState
}

// PinsFile is the totally ordered mapping from package identity to pin,
// plus its schema version. Ordering is by identity string so a
// load→save round trip is byte-stable.
type PinsFile struct {
	Version int
	Pins    []Pin
}

// CurrentPinsFileVersion is the schema version written by this build.
// Loaders also accept version 1 for backward compatibility; see
// internal/infrastructure/storage for the migration.
const CurrentPinsFileVersion = 2

// ByIdentity returns the pin for identity, if any.
func (f PinsFile) ByIdentity(identity values.PackageIdentity) (Pin, bool) {
	for _, p := range f.Pins {
		if p.PackageRef.Identity.Equals(identity) {
			return p, true
		}
	}
	return Pin{}, false
}
