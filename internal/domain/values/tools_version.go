package values

import (
	"fmt"
	"strconv"
	"strings"
)

// ToolsVersion is the {major, minor, patch} line a manifest declares at
// its head, stating which workspace language/toolchain features it
// relies on.
type ToolsVersion struct {
	Major, Minor, Patch int
}

// MinimumSupportedToolsVersion is the oldest tools-version this
// workspace will still read a manifest against.
var MinimumSupportedToolsVersion = ToolsVersion{Major: 4, Minor: 0, Patch: 0}

// CurrentToolsVersion is the newest tools-version this workspace build
// understands.
var CurrentToolsVersion = ToolsVersion{Major: 4, Minor: 2, Patch: 0}

// ParseToolsVersion parses a "major.minor.patch" or "major.minor" line.
func ParseToolsVersion(s string) (ToolsVersion, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return ToolsVersion{}, fmt.Errorf("invalid tools-version %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ToolsVersion{}, fmt.Errorf("invalid tools-version %q: %w", s, err)
		}
		nums[i] = n
	}
	return ToolsVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater
// than other, comparing major then minor then patch.
func (t ToolsVersion) Compare(other ToolsVersion) int {
	switch {
	case t.Major != other.Major:
		return cmpInt(t.Major, other.Major)
	case t.Minor != other.Minor:
		return cmpInt(t.Minor, other.Minor)
	default:
		return cmpInt(t.Patch, other.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ToolsVersionHeaderMarker is the comment token a manifest's first line
// must contain to declare its tools-version, e.g. "// weave-tools-version:4.2".
const ToolsVersionHeaderMarker = "weave-tools-version:"

// ParseToolsVersionHeader extracts the tools-version declaration from a
// manifest's first line. The surrounding grammar is an external
// collaborator; this reads only the one line every grammar this
// workspace supports is required to start with.
func ParseToolsVersionHeader(line string) (ToolsVersion, error) {
	line = strings.TrimSpace(line)
	idx := strings.Index(line, ToolsVersionHeaderMarker)
	if idx < 0 {
		return ToolsVersion{}, fmt.Errorf("manifest missing tools-version declaration")
	}
	return ParseToolsVersion(line[idx+len(ToolsVersionHeaderMarker):])
}

// LessOrEqual reports whether t <= other.
func (t ToolsVersion) LessOrEqual(other ToolsVersion) bool { return t.Compare(other) <= 0 }

// GreaterOrEqual reports whether t >= other.
func (t ToolsVersion) GreaterOrEqual(other ToolsVersion) bool { return t.Compare(other) >= 0 }

// Readable reports whether a manifest declaring ToolsVersion t can be
// read under the given current tools-version: minimum-supported <= t <= current.
func (t ToolsVersion) Readable(current ToolsVersion) bool {
	return t.GreaterOrEqual(MinimumSupportedToolsVersion) && t.LessOrEqual(current)
}

// String renders "major.minor.patch".
func (t ToolsVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}
