package storage

import "github.com/weave-pm/weave/internal/application/ports"

// Locker adapts the package-level AcquireShared/AcquireExclusive
// functions to ports.FileLocker, so application/services can depend on
// the port without importing this package directly.
type Locker struct{}

// AcquireShared implements ports.FileLocker.
func (Locker) AcquireShared(path string) (ports.FileLock, error) { return AcquireShared(path) }

// AcquireExclusive implements ports.FileLocker.
func (Locker) AcquireExclusive(path string) (ports.FileLock, error) { return AcquireExclusive(path) }
