package values

// VersionStatus marks a registry-kind package version as withdrawn in
// some way. Source-control kind references never carry a status other
// than VersionStatusNone; only registry tags can be yanked, deprecated,
// or retracted by the registry that published them.
type VersionStatus string

const (
	VersionStatusNone       VersionStatus = ""
	VersionStatusYanked     VersionStatus = "yanked"
	VersionStatusDeprecated VersionStatus = "deprecated"
	VersionStatusRetracted  VersionStatus = "retracted"
)

// ExcludedByDefault reports whether a version carrying this status is
// omitted from the descending sequence unless the caller opts in via
// PackageContainer.IncludeYanked.
func (s VersionStatus) ExcludedByDefault() bool {
	return s == VersionStatusYanked || s == VersionStatusRetracted
}
