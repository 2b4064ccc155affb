package entities

import "github.com/weave-pm/weave/internal/domain/values"

// RepositoryHandle is an immutable reference to a repository's bare
// clone, anchored at a single-path-component subpath under its owning
// manager's working directory. Handles carry a manager id rather than
// a pointer back to the manager itself, so they can be copied by value
// freely without creating an ownership cycle; operations that need the
// manager look it up through a manager registry keyed by that id.
type RepositoryHandle struct {
	Specifier values.RepositorySpecifier
	Subpath   string
	ManagerID string
}

// NewRepositoryHandle builds a handle for spec under the named manager.
// Subpath is always the specifier's filesystem identifier, which is
// what keeps handles uniquely indexing clones.
func NewRepositoryHandle(managerID string, spec values.RepositorySpecifier) RepositoryHandle {
	return RepositoryHandle{
		Specifier: spec,
		Subpath:   spec.FSIdentifier(),
		ManagerID: managerID,
	}
}
