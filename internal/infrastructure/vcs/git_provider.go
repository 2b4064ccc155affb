// Package vcs implements the default ports.RepositoryProvider by
// shelling out to the system git binary. Registry/VCS protocol details
// are explicitly out of scope per spec.md §1 ("consumed as an
// oracle"/"external collaborators"); no source-control library exists
// anywhere in the example pack, so this drives the git CLI directly
// with os/exec, the same way the rest of the ecosystem shells out to
// external binaries where no Go client library covers the protocol.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"os/exec"
	"strings"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/values"
)

// GitProvider implements ports.RepositoryProvider over the git CLI.
type GitProvider struct {
	// GitPath overrides the resolved "git" binary; empty uses PATH lookup.
	GitPath string
}

// NewGitProvider builds a provider using "git" from PATH.
func NewGitProvider() *GitProvider { return &GitProvider{} }

func (p *GitProvider) bin() string {
	if p.GitPath != "" {
		return p.GitPath
	}
	return "git"
}

func (p *GitProvider) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, p.bin(), args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Fetch clones spec fresh into dest as a bare repository.
func (p *GitProvider) Fetch(ctx context.Context, spec values.RepositorySpecifier, dest string, progress ports.ProgressFunc) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create dest parent: %w", err)
	}
	_, err := p.run(ctx, "", "clone", "--bare", "--quiet", spec.Value(), dest)
	if progress != nil {
		progress(1.0)
	}
	return err
}

// Update runs an incremental fetch against an existing bare clone.
func (p *GitProvider) Update(ctx context.Context, path string, progress ports.ProgressFunc) error {
	_, err := p.run(ctx, path, "fetch", "--all", "--tags", "--prune", "--quiet")
	if progress != nil {
		progress(1.0)
	}
	return err
}

// Copy duplicates the bare clone at src into dest via a local clone,
// which lets git hardlink objects instead of a byte-for-byte tree copy.
func (p *GitProvider) Copy(ctx context.Context, src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create dest parent: %w", err)
	}
	_, err := p.run(ctx, "", "clone", "--bare", "--quiet", "--local", src, dest)
	return err
}

// Open verifies path holds a usable bare clone.
func (p *GitProvider) Open(ctx context.Context, path string) error {
	if !p.IsValidDirectory(path) {
		return fmt.Errorf("not a valid bare repository: %s", path)
	}
	return nil
}

// CreateWorkingCopy checks out clonePath into at.
func (p *GitProvider) CreateWorkingCopy(ctx context.Context, clonePath, at string, editable bool) error {
	if err := os.MkdirAll(filepath.Dir(at), 0o755); err != nil {
		return fmt.Errorf("create working copy parent: %w", err)
	}
	_, err := p.run(ctx, "", "clone", "--quiet", clonePath, at)
	if err != nil {
		return err
	}
	if !editable {
		return filepath.Walk(at, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			return os.Chmod(path, info.Mode()&^0o222)
		})
	}
	return nil
}

// Tags lists the source-control tags of the bare clone at path.
func (p *GitProvider) Tags(ctx context.Context, path string) ([]string, error) {
	out, err := p.run(ctx, path, "tag", "--list")
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

// Branches lists the source-control branches of the bare clone at path.
func (p *GitProvider) Branches(ctx context.Context, path string) ([]string, error) {
	out, err := p.run(ctx, path, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(out), nil
}

// ResolveRef resolves a tag, branch, or short id to a full revision id.
func (p *GitProvider) ResolveRef(ctx context.Context, path, ref string) (string, error) {
	out, err := p.run(ctx, path, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ReadFile returns the contents of subpath at revision within the
// clone at path, via "git show".
func (p *GitProvider) ReadFile(ctx context.Context, path, revision, subpath string) ([]byte, error) {
	out, err := p.run(ctx, path, "show", fmt.Sprintf("%s:%s", revision, subpath))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// IsValidDirectory reports whether path looks like a usable bare clone.
func (p *GitProvider) IsValidDirectory(path string) bool {
	info, err := os.Stat(filepath.Join(path, "HEAD"))
	return err == nil && !info.IsDir()
}

// IsValidRefFormat reports whether ref is syntactically a usable git ref.
func (p *GitProvider) IsValidRefFormat(ref string) bool {
	if ref == "" || strings.ContainsAny(ref, " \t\n~^:?*[\\") {
		return false
	}
	return !strings.HasPrefix(ref, "-")
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
