package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

func TestArtifactMaterializerVerifiesLocalArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "widget.bin")
	content := []byte("widget payload")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	checksum := values.DigestOfBytes(content)
	artifact := entities.ManagedArtifact{
		Path:   path,
		Source: entities.NewLocalArtifactSource(checksum),
	}

	m := NewArtifactMaterializer()
	require.NoError(t, m.Materialize(context.Background(), artifact))
}

func TestArtifactMaterializerRejectsLocalMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "widget.bin")
	require.NoError(t, os.WriteFile(path, []byte("widget payload"), 0o644))

	wrongChecksum := values.DigestOfBytes([]byte("something else"))
	artifact := entities.ManagedArtifact{
		Path:   path,
		Source: entities.NewLocalArtifactSource(wrongChecksum),
	}

	m := NewArtifactMaterializer()
	err := m.Materialize(context.Background(), artifact)
	require.Error(t, err)
	var integrityErr *entities.IntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}

func TestArtifactMaterializerFetchesAndVerifiesRemoteArtifact(t *testing.T) {
	t.Parallel()

	content := []byte("remote payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "cache", "widget.bin")
	checksum := values.DigestOfBytes(content)
	artifact := entities.ManagedArtifact{
		Path:   path,
		Source: entities.NewRemoteArtifactSource(server.URL, checksum),
	}

	m := NewArtifactMaterializer()
	require.NoError(t, m.Materialize(context.Background(), artifact))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestArtifactMaterializerRemovesFileOnRemoteChecksumMismatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tampered payload"))
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "widget.bin")
	wrongChecksum := values.DigestOfBytes([]byte("expected payload"))
	artifact := entities.ManagedArtifact{
		Path:   path,
		Source: entities.NewRemoteArtifactSource(server.URL, wrongChecksum),
	}

	m := NewArtifactMaterializer()
	err := m.Materialize(context.Background(), artifact)
	require.Error(t, err)
	var integrityErr *entities.IntegrityError
	assert.ErrorAs(t, err, &integrityErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
