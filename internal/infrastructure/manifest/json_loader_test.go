package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoaderLoadParsesHeaderAndBody(t *testing.T) {
	raw := []byte(`// weave-tools-version:4.2
{
  "name": "swift-log",
  "platforms": ["macos", "linux"],
  "dependencies": [
    {"identity": "swift-collections", "kind": "remoteSourceControl", "location": "https://github.com/apple/swift-collections", "products": ["Collections"]}
  ],
  "products": ["Logging"],
  "targets": ["Logging"],
  "version": "1.5.3"
}`)

	m, err := JSONLoader{}.Load(context.Background(), raw, "https://github.com/apple/swift-log")
	require.NoError(t, err)

	assert.Equal(t, "swift-log", m.DisplayName)
	assert.Equal(t, "swift-log", m.Identity.String())
	assert.Equal(t, 4, m.ToolsVersion.Major)
	assert.Equal(t, 2, m.ToolsVersion.Minor)
	assert.Equal(t, []string{"macos", "linux"}, m.Platforms)
	require.Len(t, m.Dependencies, 1)
	assert.Equal(t, "swift-collections", m.Dependencies[0].Reference.Identity.String())
	assert.Equal(t, []string{"Collections"}, m.Dependencies[0].Products)
	require.NotNil(t, m.Version)
}

func TestJSONLoaderLoadDefaultsDependencyKind(t *testing.T) {
	raw := []byte(`// weave-tools-version:4.0
{
  "name": "root",
  "dependencies": [
    {"identity": "swift-log", "location": "https://github.com/apple/swift-log"}
  ]
}`)

	m, err := JSONLoader{}.Load(context.Background(), raw, "https://github.com/example/root")
	require.NoError(t, err)
	require.Len(t, m.Dependencies, 1)
	assert.Equal(t, "remoteSourceControl", string(m.Dependencies[0].Reference.Kind))
}

func TestJSONLoaderLoadRejectsMissingToolsVersion(t *testing.T) {
	raw := []byte(`{"name": "root"}`)
	_, err := JSONLoader{}.Load(context.Background(), raw, "https://github.com/example/root")
	assert.Error(t, err)
}

func TestJSONLoaderLoadRejectsMalformedBody(t *testing.T) {
	raw := []byte(`// weave-tools-version:4.2
not json`)
	_, err := JSONLoader{}.Load(context.Background(), raw, "https://github.com/example/root")
	assert.Error(t, err)
}

func TestJSONLoaderLoadRejectsEmptyInput(t *testing.T) {
	_, err := JSONLoader{}.Load(context.Background(), nil, "https://github.com/example/root")
	assert.Error(t, err)
}
