package values

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a semver-style major.minor.patch[-prerelease][+build]
// value with a total order where prereleases sort below the release of
// the same triple. It wraps Masterminds/semver so tag-parsing and
// ordering match real-world tag conventions (optional "v" prefix,
// two-component tags like "1.1") rather than a strict semver-only
// parser.
type Version struct {
	inner *semver.Version
}

// ParseVersion parses a source-control tag into a Version, stripping an
// optional leading "v". Tags that are not valid semver (after the "v"
// strip and Masterminds' lenient two/one-component coercion) fail.
func ParseVersion(tag string) (Version, error) {
	trimmed := strings.TrimSpace(tag)
	trimmed = strings.TrimPrefix(trimmed, "v")
	if trimmed == "" {
		return Version{}, fmt.Errorf("empty version tag")
	}
	v, err := semver.NewVersion(trimmed)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version tag %q: %w", tag, err)
	}
	return Version{inner: v}, nil
}

// MustParseVersion parses tag or panics. Intended for tests and constants.
func MustParseVersion(tag string) Version {
	v, err := ParseVersion(tag)
	if err != nil {
		panic(err)
	}
	return v
}

// Canonical returns the normalized "major.minor.patch[-prerelease]"
// string. Two tags that parse to the same Version render identically,
// which is how the container collapses "1.1", "1.1.0" and "v1.1.0"
// into a single emitted entry.
func (v Version) Canonical() string {
	if v.inner == nil {
		return ""
	}
	core := fmt.Sprintf("%d.%d.%d", v.inner.Major(), v.inner.Minor(), v.inner.Patch())
	if p := v.inner.Prerelease(); p != "" {
		core += "-" + p
	}
	return core
}

// String implements fmt.Stringer, returning the canonical form.
func (v Version) String() string { return v.Canonical() }

// IsPrerelease reports whether this version carries a prerelease
// component. Prereleases are included in the container's descending
// sequence but sort below the release of the same triple.
func (v Version) IsPrerelease() bool {
	return v.inner != nil && v.inner.Prerelease() != ""
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other, using semver total ordering (prerelease < release).
func (v Version) Compare(other Version) int {
	if v.inner == nil || other.inner == nil {
		return 0
	}
	return v.inner.Compare(other.inner)
}

// LessThan reports whether v sorts before other.
func (v Version) LessThan(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether v and other have the same canonical form.
func (v Version) Equal(other Version) bool { return v.Canonical() == other.Canonical() }
