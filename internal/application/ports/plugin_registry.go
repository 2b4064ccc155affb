package ports

import (
	"context"
	"io"

	"github.com/weave-pm/weave/internal/domain/values"
)

// PluginArtifact is a pulled or to-be-pushed plugin source bundle.
type PluginArtifact struct {
	Reference values.PackageReference
	Digest    values.Digest
	Content   io.Reader
	MediaType string
}

// PluginRegistry provides push/pull access to an OCI-distribution
// backed registry of plugin sources and packaged registry artifacts.
// Registry protocol details are out of scope per spec.md §1; this is
// the seam a concrete OCI client fills.
type PluginRegistry interface {
	Pull(ctx context.Context, ref values.PackageReference) (PluginArtifact, error)
	Push(ctx context.Context, artifact PluginArtifact) error
	Resolve(ctx context.Context, ref values.PackageReference) (values.Digest, error)
}
