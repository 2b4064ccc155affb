package values

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// PackageIdentity is the canonical, case-folded identifier derived from
// either a local path or a remote URL, used to recognize "the same
// package reached via a different URL" (e.g. with/without ".git",
// different scheme, trailing slash).
type PackageIdentity struct {
	value string
}

// NewPackageIdentityFromLocation derives an identity from a repository
// location string (path or URL). Mirrors the last path component,
// lower-cased, with a trailing ".git" and slash stripped.
func NewPackageIdentityFromLocation(location string) (PackageIdentity, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return PackageIdentity{}, fmt.Errorf("package location cannot be empty")
	}

	last := trimmed
	if u, err := url.Parse(trimmed); err == nil && u.Path != "" {
		last = u.Path
	}
	last = strings.TrimSuffix(last, "/")
	last = path.Base(last)
	last = strings.TrimSuffix(last, ".git")
	last = strings.ToLower(strings.TrimSpace(last))
	if last == "" || last == "." || last == "/" {
		return PackageIdentity{}, fmt.Errorf("cannot derive package identity from %q", location)
	}
	return PackageIdentity{value: last}, nil
}

// MustNewPackageIdentity derives an identity from location or panics.
func MustNewPackageIdentity(location string) PackageIdentity {
	id, err := NewPackageIdentityFromLocation(location)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical identity string.
func (p PackageIdentity) String() string { return p.value }

// IsEmpty reports whether this is the zero value.
func (p PackageIdentity) IsEmpty() bool { return p.value == "" }

// Equals reports whether two identities are the same package.
func (p PackageIdentity) Equals(other PackageIdentity) bool { return p.value == other.value }

// MarshalJSON implements json.Marshaler.
func (p PackageIdentity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PackageIdentity) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid package identity JSON")
	}
	s = s[1 : len(s)-1]
	p.value = strings.ToLower(s)
	return nil
}
