package ports

import (
	"context"

	"github.com/weave-pm/weave/internal/domain/values"
)

// ProgressFunc reports fetch/copy progress as a fraction of bytes or
// objects transferred, when the underlying provider can report one.
type ProgressFunc func(fraction float64)

// RepositoryProvider is the external collaborator that actually talks
// to source control. The Repository Manager never shells out itself;
// it drives one of these. Registry protocol details, VCS choice, and
// network transport all live behind this seam, per spec.md §1.
type RepositoryProvider interface {
	// Fetch clones spec fresh into dest as a bare repository.
	Fetch(ctx context.Context, spec values.RepositorySpecifier, dest string, progress ProgressFunc) error
	// Update runs an incremental fetch against an existing bare clone at path.
	Update(ctx context.Context, path string, progress ProgressFunc) error
	// Copy duplicates the bare clone at src into dest.
	Copy(ctx context.Context, src, dest string) error
	// Open verifies path holds a usable bare clone, returning an error if not.
	Open(ctx context.Context, path string) error
	// CreateWorkingCopy checks out handle's clone into at; editable controls
	// whether the working copy is writable and exempt from workspace ownership.
	CreateWorkingCopy(ctx context.Context, clonePath, at string, editable bool) error
	// Tags lists the source-control tags of the bare clone at path.
	Tags(ctx context.Context, path string) ([]string, error)
	// Branches lists the source-control branches of the bare clone at path.
	Branches(ctx context.Context, path string) ([]string, error)
	// ResolveRef resolves a tag, branch, or short id to a full revision id.
	ResolveRef(ctx context.Context, path, ref string) (string, error)
	// ReadFile returns the contents of subpath at revision within the clone at path.
	ReadFile(ctx context.Context, path, revision, subpath string) ([]byte, error)
	// IsValidDirectory reports whether path looks like a usable bare clone.
	IsValidDirectory(path string) bool
	// IsValidRefFormat reports whether ref is syntactically a usable ref.
	IsValidRefFormat(ref string) bool
}
