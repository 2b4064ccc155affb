package entities

import (
	"fmt"

	"github.com/weave-pm/weave/internal/domain/values"
)

// UnsupportedToolsVersionError reports that a manifest's declared
// tools-version falls outside [minimum-supported, current].
type UnsupportedToolsVersionError struct {
	Declared values.ToolsVersion
	Current  values.ToolsVersion
}

func (e *UnsupportedToolsVersionError) Error() string {
	return fmt.Sprintf(
		"unsupported tools version %s: must be between %s and %s",
		e.Declared, values.MinimumSupportedToolsVersion, e.Current,
	)
}

// GetDependenciesError wraps any failure encountered while resolving a
// manifest's dependencies at a given reference, carrying enough
// context (repository, reference, underlying cause) for the caller to
// report without re-deriving it.
type GetDependenciesError struct {
	Repository values.RepositorySpecifier
	Reference  string
	Underlying error
}

func (e *GetDependenciesError) Error() string {
	return fmt.Sprintf("get dependencies failed for %s at %q: %v", e.Repository, e.Reference, e.Underlying)
}

func (e *GetDependenciesError) Unwrap() error { return e.Underlying }

// IntegrityError reports a checksum mismatch on a materialized artifact.
type IntegrityError struct {
	Expected values.Digest
	Actual   values.Digest
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed: expected %s, got %s", e.Expected, e.Actual)
}

// BranchNotFoundError reports an attempt to resolve a nonexistent
// branch, with the closest existing branch name (by Levenshtein
// distance, threshold <= 2) included when one was found.
type BranchNotFoundError struct {
	Requested string
	Closest   string // empty if no candidate was within the threshold
}

func (e *BranchNotFoundError) Error() string {
	if e.Closest == "" {
		return fmt.Sprintf("branch %q not found", e.Requested)
	}
	return fmt.Sprintf("branch %q not found; did you mean %q?", e.Requested, e.Closest)
}

// RevisionNotFoundError reports an attempt to resolve a nonexistent
// commit id.
type RevisionNotFoundError struct {
	Requested string
}

func (e *RevisionNotFoundError) Error() string {
	return fmt.Sprintf("revision %q not found", e.Requested)
}

// CompilationFailedError wraps a failed plugin compilation, carrying
// the full compiler output and exit status for the caller to report;
// compile failure is non-fatal to the workspace.
type CompilationFailedError struct {
	Result          CompilerResult
	DiagnosticsFile string
}

func (e *CompilationFailedError) Error() string {
	return fmt.Sprintf("plugin compilation failed (exit %d): %s", e.Result.ExitCode, e.Result.Stderr)
}

// PluginCommunicationError reports a plugin wire-protocol violation:
// a truncated header/payload or an invalid declared payload size.
type PluginCommunicationError struct {
	Underlying error
}

func (e *PluginCommunicationError) Error() string {
	return fmt.Sprintf("plugin communication error: %v", e.Underlying)
}

func (e *PluginCommunicationError) Unwrap() error { return e.Underlying }

// InvocationEndedBySignalError reports that a plugin's child process
// died by uncaught signal rather than exiting normally.
type InvocationEndedBySignalError struct {
	Signal string
}

func (e *InvocationEndedBySignalError) Error() string {
	return fmt.Sprintf("plugin invocation ended by signal %s", e.Signal)
}
