package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
	"golang.org/x/sync/errgroup"
)

// ContainerProvider dispatches a package reference to its
// PackageContainer, materializing the backing clone through the
// Repository Manager on first use and caching the container for
// subsequent lookups (§2's "Identity→container dispatch, cache").
type ContainerProvider struct {
	manager  *RepositoryManager
	loader   ports.ManifestLoader
	current  values.ToolsVersion
	provider ports.RepositoryProvider

	mu         sync.Mutex
	containers map[string]*PackageContainer
}

// NewContainerProvider builds a provider backed by manager.
func NewContainerProvider(manager *RepositoryManager, provider ports.RepositoryProvider, loader ports.ManifestLoader, current values.ToolsVersion) *ContainerProvider {
	return &ContainerProvider{
		manager:    manager,
		loader:     loader,
		current:    current,
		provider:   provider,
		containers: make(map[string]*PackageContainer),
	}
}

// ContainerFor returns the (materializing on first use) container for
// ref, implementing ports.ContainerLookup.
func (p *ContainerProvider) ContainerFor(ctx context.Context, ref values.PackageReference) (ports.PackageContainer, error) {
	key := ref.Identity.String()

	p.mu.Lock()
	if c, ok := p.containers[key]; ok {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	spec, err := specifierForReference(ref)
	if err != nil {
		return nil, err
	}

	var container *PackageContainer
	done := make(chan error, 1)
	p.manager.Lookup(ctx, spec, false, ports.InlineExecutor{}, func(handle entities.RepositoryHandle, _ entities.FetchDetails, lookupErr error) {
		if lookupErr != nil {
			done <- lookupErr
			return
		}
		clonePath := p.manager.ClonePath(handle)
		container = NewPackageContainer(ref, clonePath, p.provider, p.loader, p.current)
		done <- nil
	})

	if err := <-done; err != nil {
		return nil, fmt.Errorf("materialize container for %s: %w", ref, err)
	}

	p.mu.Lock()
	p.containers[key] = container
	p.mu.Unlock()

	return container, nil
}

func specifierForReference(ref values.PackageReference) (values.RepositorySpecifier, error) {
	switch ref.Kind {
	case values.KindLocalSourceControl, values.KindFileSystem:
		return values.NewLocalSpecifier(ref.Location)
	default:
		return values.NewRemoteSpecifier(ref.Location)
	}
}

// Invalidate clears every cached container, so the next ContainerFor
// call for a given reference re-materializes it from a fresh manifest
// read instead of returning a stale cached one. Used by the config
// watcher when the mirrors/registries files change on disk, since a
// container cached before the change may have resolved its manifest
// through a mirror or registry entry that no longer applies.
func (p *ContainerProvider) Invalidate() {
	p.mu.Lock()
	p.containers = make(map[string]*PackageContainer)
	p.mu.Unlock()
}

// PrefetchManifests materializes containers and warms their version
// scan for every ref concurrently, bounded by the same worker-pool
// discipline the Repository Manager uses. Used by the resolve path so
// the oracle's first round of container queries doesn't serialize on
// network fetches one at a time.
func (p *ContainerProvider) PrefetchManifests(ctx context.Context, refs []values.PackageReference) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			c, err := p.ContainerFor(gctx, ref)
			if err != nil {
				return err
			}
			_, err = c.VersionsDescending(gctx, false)
			return err
		})
	}
	return g.Wait()
}
