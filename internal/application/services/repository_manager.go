// Package services implements the application-layer orchestration
// behind the workspace core: the Repository Manager, Package Container
// and Container Provider, and the facade that binds them together.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/domain/values"
)

// RepositoryManagerObserver receives the ordering-guaranteed lifecycle
// notifications spec.md §5 describes. Every method is optional; a
// RepositoryManager built with a nil observer simply skips them.
type RepositoryManagerObserver interface {
	HandleWillUpdate(spec values.RepositorySpecifier)
	HandleDidUpdate(spec values.RepositorySpecifier, d time.Duration)
	FetchingWillBegin(spec values.RepositorySpecifier)
	FetchingDidFinish(spec values.RepositorySpecifier, err error, d time.Duration)
}

// RepositoryManagerOptions configure a RepositoryManager.
type RepositoryManagerOptions struct {
	ID                 string // opaque id this manager registers handles under
	WorkingDir         string
	CacheDir           string // empty disables the shared second-tier cache
	CacheLocalPackages bool
	MaxOps             int
	Provider           ports.RepositoryProvider
	Store              ports.RepositoryManagerStore
	Locker             ports.FileLocker
	Observer           RepositoryManagerObserver
	Logger             *slog.Logger
}

// RepositoryManager is a concurrent, content-addressed cache of bare
// source-control clones: §4.1 of the core spec.
type RepositoryManager struct {
	id                 string
	workingDir         string
	cacheDir           string
	cacheLocalPackages bool
	provider           ports.RepositoryProvider
	store              ports.RepositoryManagerStore
	locker             ports.FileLocker
	observer           RepositoryManagerObserver
	logger             *slog.Logger
	pool               *boundedPool

	// repositories map: guarded by mu for every read/write, per spec.md §5.
	mu           sync.Mutex
	repositories map[string]entities.RepositoryHandle

	// pending-lookup table: guarded by a separate mutex; insertion and
	// removal are atomic with the in-flight marker. Nested locking
	// order is pendingMu -> mu -> fs lock on cache root -> fs lock on
	// cached clone, per spec.md §9, and is never reversed anywhere in
	// this file.
	pendingMu sync.Mutex
	pending   map[string]*rendezvous
}

// NewRepositoryManager constructs a manager and loads its persisted
// state. A load failure resets storage and continues with empty state,
// emitting a warning, matching spec.md §4.2's recovery policy.
func NewRepositoryManager(opts RepositoryManagerOptions) (*RepositoryManager, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("repository manager requires a RepositoryProvider")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	m := &RepositoryManager{
		id:                 opts.ID,
		workingDir:         opts.WorkingDir,
		cacheDir:           opts.CacheDir,
		cacheLocalPackages: opts.CacheLocalPackages,
		provider:           opts.Provider,
		store:              opts.Store,
		locker:             opts.Locker,
		observer:           opts.Observer,
		logger:             opts.Logger,
		pool:               newBoundedPool(opts.MaxOps),
		repositories:       make(map[string]entities.RepositoryHandle),
		pending:            make(map[string]*rendezvous),
	}

	if m.store != nil {
		state, err := m.store.Load()
		if err != nil {
			m.logger.Warn("repository manager state load failed, resetting", "error", err)
			if rerr := m.store.Reset(); rerr != nil {
				m.logger.Warn("repository manager state reset failed", "error", rerr)
			}
		} else {
			for key, entry := range state.Repositories {
				spec, serr := specFromKey(key)
				if serr != nil {
					continue
				}
				handle := entities.NewRepositoryHandle(m.id, spec)
				handle.Subpath = entry.Subpath
				m.repositories[key] = handle
			}
		}
	}

	return m, nil
}

// specKey derives the repositories-map key for spec: "local|<path>" or
// "remote|<url>". Kept separate from spec.String() (which is meant for
// log/diagnostic display) so it round-trips exactly through
// specFromKey for state-file rebuilds.
func specKey(spec values.RepositorySpecifier) string {
	return spec.Kind().String() + "|" + spec.Value()
}

func specFromKey(key string) (values.RepositorySpecifier, error) {
	idx := strings.IndexByte(key, '|')
	if idx < 0 {
		return values.RepositorySpecifier{}, fmt.Errorf("malformed repository key %q", key)
	}
	kind, value := key[:idx], key[idx+1:]
	if kind == "local" {
		return values.NewLocalSpecifier(value)
	}
	return values.NewRemoteSpecifier(value)
}

// Lookup implements spec.md §4.1's lookup operation. completion is
// always posted to exec, never called inline, so callers never
// reenter their own lock from inside Lookup.
func (m *RepositoryManager) Lookup(
	ctx context.Context,
	spec values.RepositorySpecifier,
	skipUpdate bool,
	exec ports.Executor,
	completion func(entities.RepositoryHandle, entities.FetchDetails, error),
) {
	go func() {
		handle, details, err := m.lookupSync(ctx, spec, skipUpdate)
		exec.Post(func() { completion(handle, details, err) })
	}()
}

func (m *RepositoryManager) lookupSync(ctx context.Context, spec values.RepositorySpecifier, skipUpdate bool) (entities.RepositoryHandle, entities.FetchDetails, error) {
	key := specKey(spec)

	m.mu.Lock()
	existing, ok := m.repositories[key]
	m.mu.Unlock()

	if ok {
		path := filepath.Join(m.workingDir, existing.Subpath)
		if err := m.provider.Open(ctx, path); err != nil {
			return entities.RepositoryHandle{}, entities.FetchDetails{}, fmt.Errorf("open existing clone: %w", err)
		}
		if skipUpdate {
			return existing, entities.FetchDetails{FromCache: true}, nil
		}

		if m.observer != nil {
			m.observer.HandleWillUpdate(spec)
		}
		start := time.Now()
		err := m.provider.Update(ctx, path, nil)
		if m.observer != nil {
			m.observer.HandleDidUpdate(spec, time.Since(start))
		}
		if err != nil {
			return entities.RepositoryHandle{}, entities.FetchDetails{}, fmt.Errorf("update existing clone: %w", err)
		}
		return existing, entities.FetchDetails{}, nil
	}

	// Single-flight: register or join an in-flight rendezvous for this
	// specifier before touching the repositories map.
	m.pendingMu.Lock()
	if r, inFlight := m.pending[key]; inFlight {
		m.pendingMu.Unlock()
		if _, _, err := r.wait(ctx); err != nil {
			return entities.RepositoryHandle{}, entities.FetchDetails{}, err
		}
		// Re-enter lookup now that the winner has published a result;
		// this also picks up the skipUpdate branch for free.
		return m.lookupSync(ctx, spec, skipUpdate)
	}
	r := newRendezvous()
	m.pending[key] = r
	m.pendingMu.Unlock()

	handle, details, err := m.fetchFresh(ctx, spec)

	m.pendingMu.Lock()
	delete(m.pending, key)
	m.pendingMu.Unlock()

	r.complete(handle, details, err)
	return handle, details, err
}

func (m *RepositoryManager) fetchFresh(ctx context.Context, spec values.RepositorySpecifier) (entities.RepositoryHandle, entities.FetchDetails, error) {
	if err := m.pool.acquire(ctx); err != nil {
		return entities.RepositoryHandle{}, entities.FetchDetails{}, err
	}
	defer m.pool.release()

	handle := entities.NewRepositoryHandle(m.id, spec)
	dest := filepath.Join(m.workingDir, handle.Subpath)

	// Clear any stale scratch directory from a previous failed attempt.
	_ = os.RemoveAll(dest)

	if m.observer != nil {
		m.observer.FetchingWillBegin(spec)
	}
	start := time.Now()
	details, err := m.fetchAndPopulateCache(ctx, handle, dest, spec, nil)
	if m.observer != nil {
		m.observer.FetchingDidFinish(spec, err, time.Since(start))
	}
	if err != nil {
		_ = os.RemoveAll(dest)
		return entities.RepositoryHandle{}, entities.FetchDetails{}, err
	}

	m.mu.Lock()
	m.repositories[specKey(spec)] = handle
	m.mu.Unlock()

	if m.store != nil {
		if serr := m.persistLocked(); serr != nil {
			// Persistence failure after a successful fetch is fatal per
			// spec.md §4.1: the in-memory map and on-disk state have
			// diverged and the caller must not treat this as a soft error.
			return entities.RepositoryHandle{}, entities.FetchDetails{}, fmt.Errorf("fatal: persist repository state: %w", serr)
		}
	}

	return handle, details, nil
}

func (m *RepositoryManager) persistLocked() error {
	m.mu.Lock()
	state := ports.ManagerState{Version: 1, Repositories: make(map[string]ports.ManagerStateEntry, len(m.repositories))}
	for key, h := range m.repositories {
		state.Repositories[key] = ports.ManagerStateEntry{RepositoryURL: h.Specifier.Value(), Subpath: h.Subpath}
	}
	m.mu.Unlock()
	return m.store.Save(state)
}

// fetchAndPopulateCache implements the two-tier fetch algorithm of
// spec.md §4.1.
func (m *RepositoryManager) fetchAndPopulateCache(
	ctx context.Context,
	handle entities.RepositoryHandle,
	dest string,
	spec values.RepositorySpecifier,
	progress ports.ProgressFunc,
) (entities.FetchDetails, error) {
	useCache := m.cacheDir != "" && (!spec.IsLocal() || m.cacheLocalPackages)
	if useCache {
		details, err := m.fetchViaCache(ctx, handle, dest, spec, progress)
		if err == nil {
			return details, nil
		}
		m.logger.Warn("cache fetch failed, falling back to direct fetch", "specifier", spec.String(), "error", err)
		_ = os.RemoveAll(dest)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return entities.FetchDetails{}, fmt.Errorf("create destination parent: %w", err)
	}
	if err := m.provider.Fetch(ctx, spec, dest, progress); err != nil {
		return entities.FetchDetails{}, fmt.Errorf("direct fetch: %w", err)
	}
	return entities.FetchDetails{FromCache: false, UpdatedCache: false}, nil
}

func (m *RepositoryManager) fetchViaCache(
	ctx context.Context,
	handle entities.RepositoryHandle,
	dest string,
	spec values.RepositorySpecifier,
	progress ports.ProgressFunc,
) (entities.FetchDetails, error) {
	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return entities.FetchDetails{}, fmt.Errorf("create cache dir: %w", err)
	}

	rootLock, err := m.locker.AcquireShared(m.cacheDir + "/.cache.lock")
	if err != nil {
		return entities.FetchDetails{}, err
	}
	defer rootLock.Release()

	cachedPath := filepath.Join(m.cacheDir, handle.Subpath)
	cloneLock, err := m.locker.AcquireExclusive(cachedPath + ".lock")
	if err != nil {
		return entities.FetchDetails{}, err
	}
	defer cloneLock.Release()

	cacheUsed, cacheUpdated := false, false
	if m.provider.IsValidDirectory(cachedPath) {
		if err := m.provider.Open(ctx, cachedPath); err != nil {
			return entities.FetchDetails{}, fmt.Errorf("open cached clone: %w", err)
		}
		if err := m.provider.Update(ctx, cachedPath, progress); err != nil {
			return entities.FetchDetails{}, fmt.Errorf("fetch cached clone: %w", err)
		}
		cacheUsed, cacheUpdated = true, true
	} else {
		if err := m.provider.Fetch(ctx, spec, cachedPath, progress); err != nil {
			return entities.FetchDetails{}, fmt.Errorf("populate cache: %w", err)
		}
		cacheUpdated = true
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return entities.FetchDetails{}, fmt.Errorf("create destination parent: %w", err)
	}
	if err := m.provider.Copy(ctx, cachedPath, dest); err != nil {
		return entities.FetchDetails{}, fmt.Errorf("copy from cache: %w", err)
	}

	return entities.FetchDetails{FromCache: cacheUsed, UpdatedCache: cacheUpdated}, nil
}

// Remove deletes spec's state entry and clone directory. No-op if absent.
func (m *RepositoryManager) Remove(spec values.RepositorySpecifier) error {
	key := specKey(spec)

	m.mu.Lock()
	handle, ok := m.repositories[key]
	if ok {
		delete(m.repositories, key)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if m.store != nil {
		if err := m.persistLocked(); err != nil {
			return fmt.Errorf("persist after remove: %w", err)
		}
	}
	return os.RemoveAll(filepath.Join(m.workingDir, handle.Subpath))
}

// Reset drops all state and deletes the working directory.
func (m *RepositoryManager) Reset() error {
	m.mu.Lock()
	m.repositories = make(map[string]entities.RepositoryHandle)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Reset(); err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
	}
	return os.RemoveAll(m.workingDir)
}

// PurgeCache deletes every cached clone entry under an exclusive lock
// on the shared cache root.
func (m *RepositoryManager) PurgeCache() error {
	if m.cacheDir == "" {
		return nil
	}
	lock, err := m.locker.AcquireExclusive(m.cacheDir + "/.cache.lock")
	if err != nil {
		return err
	}
	defer lock.Release()

	entriesDir, err := os.ReadDir(m.cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, e := range entriesDir {
		if e.Name() == ".cache.lock" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(m.cacheDir, e.Name())); err != nil {
			return fmt.Errorf("purge cache entry %s: %w", e.Name(), err)
		}
	}
	return nil
}

// OpenWorkingCopy verifies a previously created working copy is usable.
func (m *RepositoryManager) OpenWorkingCopy(ctx context.Context, path string) error {
	return m.provider.Open(ctx, path)
}

// CreateWorkingCopy checks out handle's clone into at.
func (m *RepositoryManager) CreateWorkingCopy(ctx context.Context, handle entities.RepositoryHandle, at string, editable bool) error {
	clonePath := filepath.Join(m.workingDir, handle.Subpath)
	return m.provider.CreateWorkingCopy(ctx, clonePath, at, editable)
}

// Open is a thin pass-through to the provider, anchored at the
// manager's subpath layout.
func (m *RepositoryManager) Open(ctx context.Context, handle entities.RepositoryHandle) error {
	return m.provider.Open(ctx, filepath.Join(m.workingDir, handle.Subpath))
}

// IsValidDirectory is a pure predicate pass-through from the provider.
func (m *RepositoryManager) IsValidDirectory(path string) bool { return m.provider.IsValidDirectory(path) }

// IsValidRefFormat is a pure predicate pass-through from the provider.
func (m *RepositoryManager) IsValidRefFormat(ref string) bool { return m.provider.IsValidRefFormat(ref) }

// ClonePath returns the on-disk bare clone path for handle.
func (m *RepositoryManager) ClonePath(handle entities.RepositoryHandle) string {
	return filepath.Join(m.workingDir, handle.Subpath)
}
