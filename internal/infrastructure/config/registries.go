package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const currentRegistriesFileVersion = 1

// RegistryEntry is one named registry's connection details.
type RegistryEntry struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`
}

// RegistriesFile is the on-disk shape of a registries file (spec.md
// §6.4): `{ "version": 1, "registries": { ... } }`.
type RegistriesFile struct {
	Version    int                      `yaml:"version"`
	Registries map[string]RegistryEntry `yaml:"registries"`
}

// LoadRegistries reads and strictly parses a registries file at path,
// yielding an empty RegistriesFile if it does not exist.
func LoadRegistries(path string) (RegistriesFile, error) {
	data, err := readOptional(path)
	if err != nil {
		return RegistriesFile{}, err
	}
	if data == nil {
		return RegistriesFile{}, nil
	}

	var rf RegistriesFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rf); err != nil {
		return RegistriesFile{}, fmt.Errorf("parse registries file %s: %w", path, err)
	}
	if rf.Version != currentRegistriesFileVersion {
		return RegistriesFile{}, fmt.Errorf("registries file %s: unsupported version %d", path, rf.Version)
	}
	return rf, nil
}

// MergeRegistries implements spec.md §6.4: "shared is merged first,
// local overrides."
func MergeRegistries(shared, local RegistriesFile) map[string]RegistryEntry {
	merged := make(map[string]RegistryEntry, len(shared.Registries)+len(local.Registries))
	for name, entry := range shared.Registries {
		merged[name] = entry
	}
	for name, entry := range local.Registries {
		merged[name] = entry
	}
	return merged
}
