package pluginrt

import (
	"path/filepath"

	"github.com/tetratelabs/wazero"
)

// SandboxPolicy builds the filesystem view a plugin invocation runs
// under (spec.md §9 "Sandbox policy"). On a native child process this
// would wrap argv with a platform sandbox primitive; under wazero the
// WASI guest has no ambient filesystem or network access at all unless
// this policy grants it, so the builder's only remaining job is
// composing the writable/readable directory allowlist (see DESIGN.md
// OQ-1).
type SandboxPolicy struct {
	readOnlyDirs []string
	writableDirs map[string]struct{}
	cacheDir     string
}

// NewSandboxPolicy starts a policy whose only writable directory is
// cacheDir, per "the plugin cache directory is always included."
func NewSandboxPolicy(cacheDir string) *SandboxPolicy {
	return &SandboxPolicy{
		writableDirs: map[string]struct{}{cacheDir: {}},
		cacheDir:     cacheDir,
	}
}

// AllowRead grants read access to dir (e.g. the package sources),
// additive across calls.
func (s *SandboxPolicy) AllowRead(dir string) *SandboxPolicy {
	s.readOnlyDirs = append(s.readOnlyDirs, dir)
	return s
}

// AllowWrite grants write access to dir, additive across calls. The
// writable-directory list this produces is a set union, not a
// replacement — granting the same directory twice is harmless.
func (s *SandboxPolicy) AllowWrite(dir string) *SandboxPolicy {
	s.writableDirs[dir] = struct{}{}
	return s
}

// FSConfig renders the policy into a wazero filesystem configuration.
func (s *SandboxPolicy) FSConfig() wazero.FSConfig {
	cfg := wazero.NewFSConfig()
	for _, dir := range s.readOnlyDirs {
		cfg = cfg.WithReadOnlyDirMount(dir, filepath.Clean(dir))
	}
	for dir := range s.writableDirs {
		cfg = cfg.WithDirMount(dir, filepath.Clean(dir))
	}
	return cfg
}

// WritableDirectories returns the resolved writable-directory set,
// cacheDir always included.
func (s *SandboxPolicy) WritableDirectories() []string {
	dirs := make([]string, 0, len(s.writableDirs))
	for dir := range s.writableDirs {
		dirs = append(dirs, dir)
	}
	return dirs
}
