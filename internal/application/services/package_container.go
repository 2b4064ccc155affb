package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

// admission records whether a candidate version passed the tools-
// version gate, memoized per container so repeated scans don't
// re-parse the manifest at every tag.
type admission struct {
	admitted bool
	status   values.VersionStatus
}

// dependenciesKey is the (version, productFilter) cache key spec.md §9
// calls out by name: an earlier version of this container cached by
// version alone and served stale dependency lists when only the filter
// changed. Keep both components in the key.
type dependenciesKey struct {
	version string
	filter  string
}

// PackageContainer is the per-package-reference view of §4.3: available
// versions, their manifests, and their dependency constraints, gated
// by tools-version and keyed on product filter.
type PackageContainer struct {
	ref        values.PackageReference
	clonePath  string
	provider   ports.RepositoryProvider
	loader     ports.ManifestLoader
	current    values.ToolsVersion
	tagStatus  func(tag string) values.VersionStatus // nil means VersionStatusNone for every tag
	includeYanked bool

	mu          sync.Mutex
	admissionCache map[string]admission // keyed by canonical version string
	dependenciesCache map[dependenciesKey][]entities.ManifestDependency
}

// NewPackageContainer builds a container over the bare clone at
// clonePath for package reference ref.
func NewPackageContainer(
	ref values.PackageReference,
	clonePath string,
	provider ports.RepositoryProvider,
	loader ports.ManifestLoader,
	current values.ToolsVersion,
) *PackageContainer {
	return &PackageContainer{
		ref:               ref,
		clonePath:         clonePath,
		provider:          provider,
		loader:            loader,
		current:           current,
		admissionCache:    make(map[string]admission),
		dependenciesCache: make(map[dependenciesKey][]entities.ManifestDependency),
	}
}

// IncludeYanked toggles whether yanked/retracted registry versions are
// admitted into the descending sequence. Off by default, matching how
// real package registries behave (spec.md §9 supplemental note).
func (c *PackageContainer) IncludeYanked(include bool) { c.includeYanked = include }

// SetTagStatusResolver installs the function used to look up a
// registry-kind tag's VersionStatus. Only meaningful for
// KindRegistry references; ignored otherwise.
func (c *PackageContainer) SetTagStatusResolver(f func(tag string) values.VersionStatus) {
	c.tagStatus = f
}

// VersionsDescending implements toolsVersionsAppropriateVersionsDescending:
// a descending sequence of Version that (a) pass semver parsing of the
// tag with an optional "v" prefix stripped, (b) have a readable tools
// version, (c) are not excluded by their VersionStatus unless the
// caller opted in via IncludeYanked. Equivalent tags collapse to a
// single emitted Version.
func (c *PackageContainer) VersionsDescending(ctx context.Context, includeYanked bool) ([]values.Version, error) {
	tags, err := c.provider.Tags(ctx, c.clonePath)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	seen := make(map[string]values.Version)
	for _, tag := range tags {
		v, err := values.ParseVersion(tag)
		if err != nil {
			continue // fails semver parsing; not a candidate
		}
		canon := v.Canonical()

		c.mu.Lock()
		adm, cached := c.admissionCache[canon]
		c.mu.Unlock()

		if !cached {
			status := values.VersionStatusNone
			if c.tagStatus != nil {
				status = c.tagStatus(tag)
			}
			admitted := c.checkToolsVersion(ctx, tag)
			adm = admission{admitted: admitted, status: status}
			c.mu.Lock()
			c.admissionCache[canon] = adm
			c.mu.Unlock()
		}

		if !adm.admitted {
			continue
		}
		if adm.status.ExcludedByDefault() && !(includeYanked || c.includeYanked) {
			continue
		}
		if _, dup := seen[canon]; !dup {
			seen[canon] = v
		}
	}

	out := make([]values.Version, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].LessThan(out[i]) })
	return out, nil
}

func (c *PackageContainer) checkToolsVersion(ctx context.Context, tag string) bool {
	rev, err := c.provider.ResolveRef(ctx, c.clonePath, tag)
	if err != nil {
		return false
	}
	raw, err := c.provider.ReadFile(ctx, c.clonePath, rev, "Package.swift")
	if err != nil {
		return false
	}
	tv, err := parseManifestToolsVersion(raw)
	if err != nil {
		return false
	}
	return tv.Readable(c.current)
}

// GetDependencies loads the manifest at the given tag or revision and
// projects its declared dependencies under filter. The result is
// memoized by the (at, filter) pair, not by at alone.
func (c *PackageContainer) GetDependencies(ctx context.Context, at string, filter values.ProductFilter) ([]entities.ManifestDependency, error) {
	key := dependenciesKey{version: at, filter: filter.CacheKey()}

	c.mu.Lock()
	cached, ok := c.dependenciesCache[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	rev, err := c.provider.ResolveRef(ctx, c.clonePath, at)
	if err != nil {
		return nil, &entities.GetDependenciesError{Reference: at, Underlying: err}
	}

	raw, err := c.provider.ReadFile(ctx, c.clonePath, rev, "Package.swift")
	if err != nil {
		return nil, &entities.GetDependenciesError{Reference: at, Underlying: err}
	}

	tv, err := parseManifestToolsVersion(raw)
	if err != nil {
		return nil, &entities.GetDependenciesError{Reference: at, Underlying: err}
	}
	if !tv.Readable(c.current) {
		return nil, &entities.GetDependenciesError{
			Reference:  at,
			Underlying: &entities.UnsupportedToolsVersionError{Declared: tv, Current: c.current},
		}
	}

	manifest, err := c.loader.Load(ctx, raw, c.ref.Location)
	if err != nil {
		return nil, &entities.GetDependenciesError{Reference: at, Underlying: err}
	}

	projected := projectDependencies(manifest.Dependencies, filter)

	c.mu.Lock()
	c.dependenciesCache[key] = projected
	c.mu.Unlock()

	return projected, nil
}

func projectDependencies(deps []entities.ManifestDependency, filter values.ProductFilter) []entities.ManifestDependency {
	if filter.IsEverything() {
		out := make([]entities.ManifestDependency, len(deps))
		copy(out, deps)
		return out
	}
	var out []entities.ManifestDependency
	for _, d := range deps {
		if len(d.Products) == 0 {
			out = append(out, d)
			continue
		}
		for _, p := range d.Products {
			if filter.Admits(p) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// GetRevision resolves a tag to a revision id.
func (c *PackageContainer) GetRevision(ctx context.Context, forTag string) (string, error) {
	return c.provider.ResolveRef(ctx, c.clonePath, forTag)
}

// ResolveBranch resolves a branch name to a revision, returning a
// BranchNotFoundError with the closest existing branch (Levenshtein
// distance <= 2) when the name doesn't exist.
func (c *PackageContainer) ResolveBranch(ctx context.Context, name string) (string, error) {
	branches, err := c.provider.Branches(ctx, c.clonePath)
	if err != nil {
		return "", fmt.Errorf("list branches: %w", err)
	}
	for _, b := range branches {
		if b == name {
			return c.provider.ResolveRef(ctx, c.clonePath, name)
		}
	}

	closest, dist := closestMatch(name, branches)
	if dist <= 2 {
		return "", &entities.BranchNotFoundError{Requested: name, Closest: closest}
	}
	return "", &entities.BranchNotFoundError{Requested: name}
}

// ResolveRevision resolves a bare commit id, returning a distinct
// RevisionNotFoundError (never a typo suggestion) when it doesn't exist.
func (c *PackageContainer) ResolveRevision(ctx context.Context, id string) (string, error) {
	rev, err := c.provider.ResolveRef(ctx, c.clonePath, id)
	if err != nil {
		return "", &entities.RevisionNotFoundError{Requested: id}
	}
	return rev, nil
}
