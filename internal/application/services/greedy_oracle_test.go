package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

type fakeContainer struct {
	versions []values.Version
	revision string
	deps     []entities.ManifestDependency
}

func (f *fakeContainer) VersionsDescending(ctx context.Context, includeYanked bool) ([]values.Version, error) {
	return f.versions, nil
}

func (f *fakeContainer) GetDependencies(ctx context.Context, at string, filter values.ProductFilter) ([]entities.ManifestDependency, error) {
	return f.deps, nil
}

func (f *fakeContainer) GetRevision(ctx context.Context, forTag string) (string, error) {
	return f.revision, nil
}

type fakeLookup struct {
	byIdentity map[string]ports.PackageContainer
}

func (f *fakeLookup) ContainerFor(ctx context.Context, ref values.PackageReference) (ports.PackageContainer, error) {
	return f.byIdentity[ref.Identity.String()], nil
}

func refFor(t *testing.T, location string) values.PackageReference {
	t.Helper()
	id, err := values.NewPackageIdentityFromLocation(location)
	require.NoError(t, err)
	ref, err := values.NewPackageReference(id, values.KindRemoteSourceControl, location)
	require.NoError(t, err)
	return ref
}

func TestGreedyOraclePicksHighestVersion(t *testing.T) {
	logRef := refFor(t, "https://github.com/apple/swift-log")

	lookup := &fakeLookup{byIdentity: map[string]ports.PackageContainer{
		"swift-log": &fakeContainer{
			versions: []values.Version{values.MustParseVersion("1.5.3"), values.MustParseVersion("1.4.0")},
			revision: "deadbeef",
		},
	}}

	root := entities.Manifest{
		Dependencies: []entities.ManifestDependency{{Reference: logRef}},
	}

	oracle := NewGreedyOracle()
	pins, err := oracle.Resolve(context.Background(), []entities.Manifest{root}, lookup)
	require.NoError(t, err)
	require.Len(t, pins.Pins, 1)

	pin, ok := pins.ByIdentity(logRef.Identity)
	require.True(t, ok)
	assert.Equal(t, values.PinStateVersion, pin.State.Kind)
	assert.Equal(t, "1.5.3", pin.State.Version.Canonical())
	assert.Equal(t, "deadbeef", pin.State.Revision)
}

func TestGreedyOracleWalksTransitiveDependencies(t *testing.T) {
	logRef := refFor(t, "https://github.com/apple/swift-log")
	collectionsRef := refFor(t, "https://github.com/apple/swift-collections")

	lookup := &fakeLookup{byIdentity: map[string]ports.PackageContainer{
		"swift-log": &fakeContainer{
			versions: []values.Version{values.MustParseVersion("1.5.3")},
			revision: "rev-log",
			deps:     []entities.ManifestDependency{{Reference: collectionsRef}},
		},
		"swift-collections": &fakeContainer{
			versions: []values.Version{values.MustParseVersion("1.0.0")},
			revision: "rev-collections",
		},
	}}

	root := entities.Manifest{
		Dependencies: []entities.ManifestDependency{{Reference: logRef}},
	}

	oracle := NewGreedyOracle()
	pins, err := oracle.Resolve(context.Background(), []entities.Manifest{root}, lookup)
	require.NoError(t, err)
	require.Len(t, pins.Pins, 2)

	_, ok := pins.ByIdentity(collectionsRef.Identity)
	assert.True(t, ok)
}

func TestGreedyOracleFailsOnNoAdmissibleVersion(t *testing.T) {
	logRef := refFor(t, "https://github.com/apple/swift-log")
	lookup := &fakeLookup{byIdentity: map[string]ports.PackageContainer{
		"swift-log": &fakeContainer{},
	}}

	root := entities.Manifest{Dependencies: []entities.ManifestDependency{{Reference: logRef}}}

	oracle := NewGreedyOracle()
	_, err := oracle.Resolve(context.Background(), []entities.Manifest{root}, lookup)
	assert.Error(t, err)
}
