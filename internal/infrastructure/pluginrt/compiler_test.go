package pluginrt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMangle(t *testing.T) {
	cases := map[string]string{
		"MyPlugin":       "MyPlugin",
		"my-plugin.swift": "my_plugin_swift",
		"123plugin":       "_123plugin",
		"a b/c":           "a_b_c",
		"":                "_plugin",
	}
	for in, want := range cases {
		assert.Equal(t, want, mangle(in), "mangle(%q)", in)
	}
}

func TestComputeInputHashDeterministic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(src, []byte("package main\n"), 0o644))

	argv := []string{"tinygo", "build", "-o", "out"}
	env := []string{"B=2", "A=1"}

	h1, err := computeInputHash(argv, env, []string{src})
	require.NoError(t, err)

	// Reordering env must not change the hash: computeInputHash sorts
	// it before hashing.
	h2, err := computeInputHash(argv, []string{"A=1", "B=2"}, []string{src})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)

	require.NoError(t, os.WriteFile(src, []byte("package main\n// changed\n"), 0o644))
	h3, err := computeInputHash(argv, env, []string{src})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestCacheStillValid(t *testing.T) {
	dir := t.TempDir()
	execFile := filepath.Join(dir, "plugin")
	hashFile := execFile + ".inputhash"

	_, ok := cacheStillValid(execFile, hashFile, "deadbeef")
	assert.False(t, ok, "no exec file yet")

	require.NoError(t, os.WriteFile(execFile, []byte("binary"), 0o755))
	_, ok = cacheStillValid(execFile, hashFile, "deadbeef")
	assert.False(t, ok, "no hash file yet")

	require.NoError(t, os.WriteFile(hashFile, []byte("deadbeef"), 0o644))
	got, ok := cacheStillValid(execFile, hashFile, "deadbeef")
	assert.True(t, ok)
	assert.Equal(t, execFile, got)

	_, ok = cacheStillValid(execFile, hashFile, "staledigest")
	assert.False(t, ok, "hash mismatch invalidates the cache")
}

func TestTinyGoWASICommandLine(t *testing.T) {
	tc := TinyGoWASI{}
	argv := tc.CommandLine([]string{"main.go"}, "", "/tmp/out", "/tmp/out.dia")
	assert.Equal(t, []string{"tinygo", "build", "-target", "wasi", "-o", "/tmp/out", "main.go"}, argv)
}
