package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryForParsesTaggedReference(t *testing.T) {
	r := NewOCIRegistry(nil)

	repo, tag, err := r.repositoryFor("registry.example.com/plugins/fetcher:1.2.0")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", tag)
	assert.Equal(t, "registry.example.com/plugins/fetcher", repo.Reference.Repository)
}

func TestRepositoryForRejectsMalformedReference(t *testing.T) {
	r := NewOCIRegistry(nil)

	_, _, err := r.repositoryFor("not a reference::!!")
	assert.Error(t, err)
}
