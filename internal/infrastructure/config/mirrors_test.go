package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMirrorsMissingFile(t *testing.T) {
	mf, err := LoadMirrors(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, MirrorsFile{}, mf)
}

func TestLoadMirrorsRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mirrors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nobject: []\nbogus: true\n"), 0o644))

	_, err := LoadMirrors(path)
	assert.Error(t, err)
}

func TestResolveMirrorLocalOverridesShared(t *testing.T) {
	shared := MirrorsFile{Version: 1, Object: []MirrorEntry{{Original: "github.com/a/b", Mirror: "shared-mirror"}}}
	local := MirrorsFile{Version: 1, Object: []MirrorEntry{{Original: "github.com/a/b", Mirror: "local-mirror"}}}

	assert.Equal(t, "local-mirror", ResolveMirror(shared, local, "github.com/a/b"))
}

func TestResolveMirrorFallsBackToShared(t *testing.T) {
	shared := MirrorsFile{Version: 1, Object: []MirrorEntry{{Original: "github.com/a/b", Mirror: "shared-mirror"}}}
	var local MirrorsFile

	assert.Equal(t, "shared-mirror", ResolveMirror(shared, local, "github.com/a/b"))
}

func TestResolveMirrorNoMatchReturnsOriginal(t *testing.T) {
	var shared, local MirrorsFile
	assert.Equal(t, "github.com/a/b", ResolveMirror(shared, local, "github.com/a/b"))
}
