// Package storage implements the durable, schema-versioned JSON state
// files and the advisory file-locking discipline the core depends on:
// shared locks for reads/copies, exclusive locks scoped to a single
// path for writes and fetches-into-cache.
package storage

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileLock holds an advisory flock on a file for the lifetime of the
// handle. No library in the example pack wraps flock, so this talks
// directly to golang.org/x/sys/unix — already a transitive dependency
// of the pack via containerd/oras tooling, and the natural place to
// reach for an advisory lock primitive the standard library doesn't
// expose on its own.
type FileLock struct {
	f *os.File
}

// AcquireShared takes a shared (read) advisory lock on path, creating
// the file if it does not exist. Blocks until the lock is available.
func AcquireShared(path string) (*FileLock, error) {
	return acquire(path, unix.LOCK_SH)
}

// AcquireExclusive takes an exclusive (write) advisory lock on path,
// creating the file if it does not exist. Blocks until the lock is
// available.
func AcquireExclusive(path string) (*FileLock, error) {
	return acquire(path, unix.LOCK_EX)
}

func acquire(path string, how int) (*FileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}
	return &FileLock{f: f}, nil
}

// Release unlocks and closes the underlying file handle.
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	closeErr := l.f.Close()
	if err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	return closeErr
}
