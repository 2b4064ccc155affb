package entities

import "github.com/weave-pm/weave/internal/domain/values"

// ArtifactSourceKind distinguishes an artifact fetched over the network
// from one already resolved on disk.
type ArtifactSourceKind string

const (
	ArtifactRemote ArtifactSourceKind = "remote"
	ArtifactLocal  ArtifactSourceKind = "local"
)

// ArtifactSource is the sum of {remote(url, checksum), local(checksum)}.
type ArtifactSource struct {
	Kind     ArtifactSourceKind
	URL      string
	Checksum values.Digest
}

// NewRemoteArtifactSource builds a remote artifact source.
func NewRemoteArtifactSource(url string, checksum values.Digest) ArtifactSource {
	return ArtifactSource{Kind: ArtifactRemote, URL: url, Checksum: checksum}
}

// NewLocalArtifactSource builds a local artifact source.
func NewLocalArtifactSource(checksum values.Digest) ArtifactSource {
	return ArtifactSource{Kind: ArtifactLocal, Checksum: checksum}
}

// ManagedArtifact is a binary artifact bound to a build target. Its
// checksum is verified against the bytes on disk every time it is
// materialized; a mismatch is a storage-corruption-class error, not a
// value the caller is expected to re-check.
type ManagedArtifact struct {
	PackageRef values.PackageReference
	TargetName string
	Source     ArtifactSource
	Path       string
}
