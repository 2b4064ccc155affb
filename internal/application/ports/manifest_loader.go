package ports

import (
	"context"

	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

// ManifestLoader parses a manifest blob into the domain's opaque
// Manifest shape. Manifest grammar is explicitly out of scope per
// spec.md §1; this is the seam a real grammar implementation plugs
// into.
type ManifestLoader interface {
	Load(ctx context.Context, raw []byte, location string) (entities.Manifest, error)
}

// ResolutionOracle is the external dependency-resolution solver. The
// workspace core never reimplements SAT-style resolution; it only
// feeds the oracle containers and reads back a resolved graph.
type ResolutionOracle interface {
	Resolve(ctx context.Context, roots []entities.Manifest, containers ContainerLookup) (entities.PinsFile, error)
}

// ContainerLookup lets an oracle pull a container for any package
// reference it discovers while resolving, without depending on the
// concrete Container Provider type.
type ContainerLookup interface {
	ContainerFor(ctx context.Context, ref values.PackageReference) (PackageContainer, error)
}

// PackageContainer is the per-package view an oracle queries: versions,
// manifest-at-revision, constraints. Implemented by
// internal/application/services.PackageContainer.
type PackageContainer interface {
	VersionsDescending(ctx context.Context, includeYanked bool) ([]values.Version, error)
	GetDependencies(ctx context.Context, at string, filter values.ProductFilter) ([]entities.ManifestDependency, error)
	GetRevision(ctx context.Context, forTag string) (string, error)
}
