package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

type pinJSON struct {
	Identity string          `json:"identity"`
	Kind     string          `json:"kind"`
	Location string          `json:"location"`
	State    values.PinState `json:"state"`
}

type pinsFileJSON struct {
	Version int `json:"version"`
	Object  struct {
		Pins []pinJSON `json:"pins"`
	} `json:"object"`
}

// PinsFileStore implements ports.PinsFileStore for Package.resolved.
// Version 1 and 2 share the same wire shape in this implementation
// (spec.md's data model does not distinguish their fields); version 2
// is what this build writes, version 1 is accepted unchanged on load,
// matching spec.md §9's "migration function per pair of adjacent
// versions is the preferred path" even when that function is the
// identity.
type PinsFileStore struct {
	path string
}

// NewPinsFileStore builds a store rooted at path.
func NewPinsFileStore(path string) *PinsFileStore {
	return &PinsFileStore{path: path}
}

// Load returns an empty pins file if absent.
func (s *PinsFileStore) Load() (entities.PinsFile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return entities.PinsFile{Version: entities.CurrentPinsFileVersion}, nil
	}
	if err != nil {
		return entities.PinsFile{}, fmt.Errorf("read pins file: %w", err)
	}

	lock, err := AcquireShared(s.path + ".lock")
	if err != nil {
		return entities.PinsFile{}, err
	}
	defer lock.Release()

	var raw pinsFileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return entities.PinsFile{}, fmt.Errorf("decode pins file: %w", err)
	}

	switch raw.Version {
	case 1, 2:
		out := entities.PinsFile{Version: raw.Version}
		for _, p := range raw.Object.Pins {
			identity, err := values.NewPackageIdentityFromLocation(p.Identity)
			if err != nil {
				return entities.PinsFile{}, fmt.Errorf("pins file: %w", err)
			}
			ref, err := values.NewPackageReference(identity, values.PackageReferenceKind(p.Kind), p.Location)
			if err != nil {
				return entities.PinsFile{}, fmt.Errorf("pins file: %w", err)
			}
			out.Pins = append(out.Pins, entities.Pin{PackageRef: ref, State: p.State})
		}
		return out, nil
	default:
		return entities.PinsFile{}, fmt.Errorf("unknown pins file version: %d", raw.Version)
	}
}

// Save writes pins under an exclusive lock, always stamping the
// current schema version.
func (s *PinsFileStore) Save(pins entities.PinsFile) error {
	lock, err := AcquireExclusive(s.path + ".lock")
	if err != nil {
		return err
	}
	defer lock.Release()

	var raw pinsFileJSON
	raw.Version = entities.CurrentPinsFileVersion
	for _, p := range pins.Pins {
		raw.Object.Pins = append(raw.Object.Pins, pinJSON{
			Identity: p.PackageRef.Identity.String(),
			Kind:     string(p.PackageRef.Kind),
			Location: p.PackageRef.Location,
			State:    p.State,
		})
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pins file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write pins file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
