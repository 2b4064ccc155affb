package entities

import "github.com/weave-pm/weave/internal/domain/values"

// Manifest is the parsed description of a package at one revision.
// The workspace core treats its contents as opaque beyond the fields
// it needs for resolution; manifest grammar itself is an external
// collaborator consumed through ports.ManifestLoader.
type Manifest struct {
	DisplayName  string
	Identity     values.PackageIdentity
	Location     string
	Platforms    []string
	ToolsVersion values.ToolsVersion
	Dependencies []ManifestDependency
	Products     []string
	Targets      []string
	Version      *values.Version
}

// ManifestDependency is one declared dependency entry of a manifest,
// before product-filter projection.
type ManifestDependency struct {
	Reference values.PackageReference
	Products  []string // products of this dependency that participate; empty means all
}
