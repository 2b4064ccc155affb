// Package manifest implements ports.ManifestLoader. Manifest grammar is
// an external collaborator consumed via a loader interface; this
// package defines one concrete grammar: a tools-version header line
// followed by a JSON object describing the rest of the package.
package manifest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

type manifestDependencyJSON struct {
	Identity string   `json:"identity"`
	Kind     string   `json:"kind"`
	Location string   `json:"location"`
	Products []string `json:"products"`
}

type manifestDocument struct {
	DisplayName  string                   `json:"name"`
	Platforms    []string                 `json:"platforms"`
	Dependencies []manifestDependencyJSON `json:"dependencies"`
	Products     []string                 `json:"products"`
	Targets      []string                 `json:"targets"`
	Version      string                   `json:"version"`
}

// JSONLoader implements ports.ManifestLoader over the tools-version-
// header-plus-JSON-body document shape this workspace defines.
type JSONLoader struct{}

// Load implements ports.ManifestLoader.
func (JSONLoader) Load(ctx context.Context, raw []byte, location string) (entities.Manifest, error) {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	if !scanner.Scan() {
		return entities.Manifest{}, fmt.Errorf("empty manifest")
	}
	headerLine := scanner.Text()
	rest := raw[len(scanner.Bytes()):]

	toolsVersion, err := values.ParseToolsVersionHeader(headerLine)
	if err != nil {
		return entities.Manifest{}, err
	}

	var doc manifestDocument
	if err := json.Unmarshal(bytes.TrimSpace(rest), &doc); err != nil {
		return entities.Manifest{}, fmt.Errorf("parse manifest body: %w", err)
	}

	identity, err := values.NewPackageIdentityFromLocation(location)
	if err != nil {
		return entities.Manifest{}, fmt.Errorf("manifest location: %w", err)
	}

	deps := make([]entities.ManifestDependency, 0, len(doc.Dependencies))
	for _, d := range doc.Dependencies {
		kind := values.PackageReferenceKind(d.Kind)
		if kind == "" {
			kind = values.KindRemoteSourceControl
		}
		depIdentity, err := values.NewPackageIdentityFromLocation(d.Location)
		if err != nil {
			return entities.Manifest{}, fmt.Errorf("dependency %q: %w", d.Identity, err)
		}
		ref, err := values.NewPackageReference(depIdentity, kind, d.Location)
		if err != nil {
			return entities.Manifest{}, fmt.Errorf("dependency %q: %w", d.Identity, err)
		}
		deps = append(deps, entities.ManifestDependency{Reference: ref, Products: d.Products})
	}

	var version *values.Version
	if doc.Version != "" {
		v, err := values.ParseVersion(doc.Version)
		if err == nil {
			version = &v
		}
	}

	return entities.Manifest{
		DisplayName:  doc.DisplayName,
		Identity:     identity,
		Location:     location,
		Platforms:    doc.Platforms,
		ToolsVersion: toolsVersion,
		Dependencies: deps,
		Products:     doc.Products,
		Targets:      doc.Targets,
		Version:      version,
	}, nil
}

var _ ports.ManifestLoader = JSONLoader{}
