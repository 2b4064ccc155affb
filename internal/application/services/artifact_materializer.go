package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

// ArtifactMaterializer resolves a ManagedArtifact's bytes onto disk and
// verifies them against its declared checksum on every materialize,
// per the remote(url, checksum)/local(checksum) contract. A mismatch
// is reported as entities.IntegrityError, never silently accepted.
type ArtifactMaterializer struct {
	HTTPClient *http.Client
}

// NewArtifactMaterializer builds a materializer with a default HTTP client.
func NewArtifactMaterializer() *ArtifactMaterializer {
	return &ArtifactMaterializer{HTTPClient: http.DefaultClient}
}

// Materialize ensures artifact.Path holds bytes matching
// artifact.Source.Checksum, fetching them first if the source is
// remote. A checksum mismatch removes the bytes it just wrote (for a
// remote source) before returning, so a corrupt download never lingers
// as a false cache hit.
func (m *ArtifactMaterializer) Materialize(ctx context.Context, artifact entities.ManagedArtifact) error {
	switch artifact.Source.Kind {
	case entities.ArtifactLocal:
		return m.verifyExisting(artifact)
	case entities.ArtifactRemote:
		return m.fetchAndVerify(ctx, artifact)
	default:
		return fmt.Errorf("unknown artifact source kind %q", artifact.Source.Kind)
	}
}

func (m *ArtifactMaterializer) verifyExisting(artifact entities.ManagedArtifact) error {
	f, err := os.Open(artifact.Path)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", artifact.Path, err)
	}
	defer f.Close()

	actual, err := values.DigestOf(f)
	if err != nil {
		return fmt.Errorf("digest artifact %s: %w", artifact.Path, err)
	}
	if !actual.Equal(artifact.Source.Checksum) {
		return &entities.IntegrityError{Expected: artifact.Source.Checksum, Actual: actual}
	}
	return nil
}

func (m *ArtifactMaterializer) fetchAndVerify(ctx context.Context, artifact entities.ManagedArtifact) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifact.Source.URL, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", artifact.Source.URL, err)
	}

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", artifact.Source.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", artifact.Source.URL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(artifact.Path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory for %s: %w", artifact.Path, err)
	}

	out, err := os.Create(artifact.Path)
	if err != nil {
		return fmt.Errorf("create artifact %s: %w", artifact.Path, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(artifact.Path)
		return fmt.Errorf("write artifact %s: %w", artifact.Path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(artifact.Path)
		return fmt.Errorf("close artifact %s: %w", artifact.Path, err)
	}

	if err := m.verifyExisting(artifact); err != nil {
		os.Remove(artifact.Path)
		return err
	}
	return nil
}
