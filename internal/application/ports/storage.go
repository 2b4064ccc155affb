package ports

import "github.com/weave-pm/weave/internal/domain/entities"

// RepositoryManagerStore persists the manager's repositories map
// (checkouts-state.json). Load returns an empty state if the file is
// absent; it fails loudly on an unknown schema version rather than
// guessing.
type RepositoryManagerStore interface {
	Load() (ManagerState, error)
	Save(state ManagerState) error
	Reset() error
}

// ManagerState is the Repository Manager's durable state: every
// specifier whose bare clone under the manager's working directory is
// considered ready-to-use.
type ManagerState struct {
	Version      int
	Repositories map[string]ManagerStateEntry // keyed by specifier value
}

// ManagerStateEntry is one repositories-map entry.
type ManagerStateEntry struct {
	RepositoryURL string
	Subpath       string
}

// PinsFileStore persists the pins file (Package.resolved).
type PinsFileStore interface {
	Load() (entities.PinsFile, error)
	Save(pins entities.PinsFile) error
}

// FileLock is a held advisory lock, released by Release.
type FileLock interface {
	Release() error
}

// FileLocker is the seam the Repository Manager's two-tier cache
// fetch algorithm (spec.md §4.1, §5) acquires its shared-root /
// exclusive-clone locks through, kept out of application/services so
// that package never imports infrastructure/storage directly.
type FileLocker interface {
	AcquireShared(path string) (FileLock, error)
	AcquireExclusive(path string) (FileLock, error)
}
