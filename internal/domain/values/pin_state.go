package values

import (
	"encoding/json"
	"fmt"
)

// PinStateKind discriminates the three ways a pin can bind a package
// reference to a point in its history.
type PinStateKind string

const (
	PinStateVersion  PinStateKind = "version"
	PinStateBranch   PinStateKind = "branch"
	PinStateRevision PinStateKind = "revision"
)

// PinState is the sum of {version(v, revision), branch(name, revision),
// revision(id)}. Exactly one of Version/Branch is set depending on Kind;
// Revision is always set except for the zero value.
type PinState struct {
	Kind     PinStateKind
	Version  Version
	Branch   string
	Revision string
}

// NewVersionPin builds a version-kind pin state. The revision is the
// exact commit the tag resolved to at pin time.
func NewVersionPin(v Version, revision string) PinState {
	return PinState{Kind: PinStateVersion, Version: v, Revision: revision}
}

// NewBranchPin builds a branch-kind pin state. The revision is the
// commit the branch pointed at when pinned.
func NewBranchPin(branch, revision string) PinState {
	return PinState{Kind: PinStateBranch, Branch: branch, Revision: revision}
}

// NewRevisionPin builds a bare-revision pin state.
func NewRevisionPin(revision string) PinState {
	return PinState{Kind: PinStateRevision, Revision: revision}
}

type pinStateJSON struct {
	Version  string `json:"version,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Revision string `json:"revision,omitempty"`
}

// MarshalJSON renders the state as the shape documented in the pins
// file schema: {"version":"X.Y.Z","revision":"<id>"} or
// {"branch":"...","revision":"<id>"} or {"revision":"<id>"}.
func (s PinState) MarshalJSON() ([]byte, error) {
	out := pinStateJSON{Revision: s.Revision}
	switch s.Kind {
	case PinStateVersion:
		out.Version = s.Version.Canonical()
	case PinStateBranch:
		out.Branch = s.Branch
	case PinStateRevision:
	default:
		return nil, fmt.Errorf("unset pin state kind")
	}
	return json.Marshal(out)
}

// UnmarshalJSON infers the kind from which fields are present.
func (s *PinState) UnmarshalJSON(data []byte) error {
	var raw pinStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Version != "":
		v, err := ParseVersion(raw.Version)
		if err != nil {
			return fmt.Errorf("pin state: %w", err)
		}
		*s = NewVersionPin(v, raw.Revision)
	case raw.Branch != "":
		*s = NewBranchPin(raw.Branch, raw.Revision)
	case raw.Revision != "":
		*s = NewRevisionPin(raw.Revision)
	default:
		return fmt.Errorf("pin state has neither version, branch, nor revision")
	}
	return nil
}
