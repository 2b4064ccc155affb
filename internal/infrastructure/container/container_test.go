package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsContainerWithDefaults(t *testing.T) {
	dir := t.TempDir()

	c, err := New(context.Background(), Options{
		WorkingDir: filepath.Join(dir, "workspace"),
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Close(context.Background())

	assert.NotNil(t, c.Facade())
	assert.NotNil(t, c.Runtime())
	assert.NotNil(t, c.Registry())
	assert.NotNil(t, c.Redactor())
	assert.Equal(t, filepath.Join(dir, "workspace", "plugin-cache"), c.PluginCacheDir())
}

func TestNewResolvesMirrorsAndRegistries(t *testing.T) {
	dir := t.TempDir()
	mirrorsPath := filepath.Join(dir, "mirrors.yaml")
	require.NoError(t, os.WriteFile(mirrorsPath, []byte("version: 1\nobject:\n  - original: github.com/a/b\n    mirror: mirror.example.com/a/b\n"), 0o644))

	c, err := New(context.Background(), Options{
		WorkingDir:        filepath.Join(dir, "workspace"),
		SharedMirrorsPath: mirrorsPath,
	})
	require.NoError(t, err)
	defer c.Close(context.Background())

	assert.Equal(t, "mirror.example.com/a/b", c.ResolveMirror("github.com/a/b"))
	assert.Equal(t, "github.com/x/y", c.ResolveMirror("github.com/x/y"))
}

