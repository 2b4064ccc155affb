package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

// GreedyOracle is a deliberately minimal ports.ResolutionOracle: for
// each package it discovers, reachable from the root manifests by
// walking declared dependencies breadth-first, it admits the single
// highest non-yanked version and never backtracks. It does no real
// constraint propagation and cannot satisfy version ranges that
// conflict across two dependents; it exists only so there is something
// concrete for a resolve operation to call. A real SAT-style solver is
// out of scope for this workspace and is never reimplemented here.
type GreedyOracle struct{}

// NewGreedyOracle builds a GreedyOracle.
func NewGreedyOracle() *GreedyOracle { return &GreedyOracle{} }

// Resolve implements ports.ResolutionOracle.
func (o *GreedyOracle) Resolve(ctx context.Context, roots []entities.Manifest, containers ports.ContainerLookup) (entities.PinsFile, error) {
	visited := make(map[string]entities.Pin)
	order := make([]string, 0)

	var queue []entities.ManifestDependency
	for _, root := range roots {
		queue = append(queue, root.Dependencies...)
	}

	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]

		key := dep.Reference.Identity.String()
		if _, done := visited[key]; done {
			continue
		}

		container, err := containers.ContainerFor(ctx, dep.Reference)
		if err != nil {
			return entities.PinsFile{}, fmt.Errorf("container for %s: %w", dep.Reference, err)
		}

		versions, err := container.VersionsDescending(ctx, false)
		if err != nil {
			return entities.PinsFile{}, fmt.Errorf("versions for %s: %w", dep.Reference, err)
		}
		if len(versions) == 0 {
			return entities.PinsFile{}, fmt.Errorf("no admissible version for %s", dep.Reference)
		}
		chosen := versions[0]

		tag := chosen.Canonical()
		revision, err := container.GetRevision(ctx, tag)
		if err != nil {
			return entities.PinsFile{}, fmt.Errorf("revision for %s@%s: %w", dep.Reference, tag, err)
		}

		visited[key] = entities.Pin{
			PackageRef: dep.Reference,
			State:      values.NewVersionPin(chosen, revision),
		}
		order = append(order, key)

		filter := values.Everything()
		if len(dep.Products) > 0 {
			filter = values.Specific(dep.Products...)
		}
		children, err := container.GetDependencies(ctx, tag, filter)
		if err != nil {
			return entities.PinsFile{}, fmt.Errorf("dependencies for %s@%s: %w", dep.Reference, tag, err)
		}
		queue = append(queue, children...)
	}

	sort.Strings(order)
	pins := make([]entities.Pin, 0, len(order))
	for _, key := range order {
		pins = append(pins, visited[key])
	}

	return entities.PinsFile{Version: entities.CurrentPinsFileVersion, Pins: pins}, nil
}

var _ ports.ResolutionOracle = (*GreedyOracle)(nil)
