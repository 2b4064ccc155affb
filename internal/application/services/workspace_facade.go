package services

import (
	"context"
	"fmt"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

// WorkspaceFacade binds the Repository Manager, Container Provider,
// resolution oracle, and pins-file storage into the single entry point
// a CLI or higher-level tool drives (§2 "Workspace Facade — binds
// components; exposes lookup/resolve/graph operations").
type WorkspaceFacade struct {
	Manager        *RepositoryManager
	Containers     *ContainerProvider
	Oracle         ports.ResolutionOracle
	Pins           ports.PinsFileStore
	ManifestLoader ports.ManifestLoader
	Materializer   *ArtifactMaterializer
}

// Resolve runs the oracle against the given root manifests and
// persists the resulting pins file.
func (f *WorkspaceFacade) Resolve(ctx context.Context, roots []entities.Manifest) (entities.PinsFile, error) {
	pins, err := f.Oracle.Resolve(ctx, roots, f.Containers)
	if err != nil {
		return entities.PinsFile{}, fmt.Errorf("resolve: %w", err)
	}
	if err := f.Pins.Save(pins); err != nil {
		return entities.PinsFile{}, fmt.Errorf("save pins: %w", err)
	}
	return pins, nil
}

// Fetch materializes or updates one repository via the manager,
// blocking the caller until it completes.
func (f *WorkspaceFacade) Fetch(ctx context.Context, spec values.RepositorySpecifier, skipUpdate bool) (entities.RepositoryHandle, entities.FetchDetails, error) {
	type result struct {
		handle  entities.RepositoryHandle
		details entities.FetchDetails
		err     error
	}
	done := make(chan result, 1)
	f.Manager.Lookup(ctx, spec, skipUpdate, ports.InlineExecutor{}, func(h entities.RepositoryHandle, d entities.FetchDetails, err error) {
		done <- result{h, d, err}
	})
	r := <-done
	return r.handle, r.details, r.err
}

// ContainerVersions returns the descending admitted version sequence
// for ref, via weave container versions <ref>.
func (f *WorkspaceFacade) ContainerVersions(ctx context.Context, ref values.PackageReference, includeYanked bool) ([]values.Version, error) {
	c, err := f.Containers.ContainerFor(ctx, ref)
	if err != nil {
		return nil, err
	}
	return c.VersionsDescending(ctx, includeYanked)
}

// PurgeCache implements weave cache purge.
func (f *WorkspaceFacade) PurgeCache() error { return f.Manager.PurgeCache() }

// Reset implements weave cache reset.
func (f *WorkspaceFacade) Reset() error { return f.Manager.Reset() }

// LoadPins reads the persisted pins file.
func (f *WorkspaceFacade) LoadPins() (entities.PinsFile, error) { return f.Pins.Load() }

// MaterializeArtifact ensures artifact's bytes are on disk and match
// its declared checksum, fetching them first if the source is remote.
func (f *WorkspaceFacade) MaterializeArtifact(ctx context.Context, artifact entities.ManagedArtifact) error {
	return f.Materializer.Materialize(ctx, artifact)
}
