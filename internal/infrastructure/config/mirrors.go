// Package config loads the mirrors/registries configuration surface
// of spec.md §6.4, watches it for live edits, and validates the
// schema-versioned state files the rest of the workspace persists.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const currentMirrorsFileVersion = 1

// MirrorEntry is one original→mirror substitution.
type MirrorEntry struct {
	Original string `yaml:"original"`
	Mirror   string `yaml:"mirror"`
}

// MirrorsFile is the on-disk shape of a mirrors file (spec.md §6.4):
// `{ "version": 1, "object": [ { "original": "...", "mirror": "..." } ] }`.
type MirrorsFile struct {
	Version int           `yaml:"version"`
	Object  []MirrorEntry `yaml:"object"`
}

// LoadMirrors reads and strictly parses a mirrors file at path. A
// missing file is not an error: it yields an empty MirrorsFile, since
// both the shared and local mirrors files are optional.
func LoadMirrors(path string) (MirrorsFile, error) {
	data, err := readOptional(path)
	if err != nil {
		return MirrorsFile{}, err
	}
	if data == nil {
		return MirrorsFile{}, nil
	}

	var mf MirrorsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&mf); err != nil {
		return MirrorsFile{}, fmt.Errorf("parse mirrors file %s: %w", path, err)
	}
	if mf.Version != currentMirrorsFileVersion {
		return MirrorsFile{}, fmt.Errorf("mirrors file %s: unsupported version %d", path, mf.Version)
	}
	return mf, nil
}

// ResolveMirror implements spec.md §6.4's override law: "Local mirrors
// override shared mirrors when non-empty; otherwise shared applies."
func ResolveMirror(shared, local MirrorsFile, original string) string {
	if mirror, ok := lookupMirror(local, original); ok {
		return mirror
	}
	if mirror, ok := lookupMirror(shared, original); ok {
		return mirror
	}
	return original
}

func lookupMirror(mf MirrorsFile, original string) (string, bool) {
	for _, entry := range mf.Object {
		if entry.Original == original {
			return entry.Mirror, true
		}
	}
	return "", false
}

// readOptional reads path, returning (nil, nil) if it does not exist.
// It resolves through os.OpenRoot on the parent directory so a
// maliciously crafted path cannot escape it via a symlink, the same
// defense the teacher's profile loader applies.
func readOptional(path string) ([]byte, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open directory %s: %w", dir, err)
	}
	defer root.Close()

	f, err := root.Open(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return io.ReadAll(f)
}
