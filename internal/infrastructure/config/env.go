package config

import "os"

// Environment variable names from spec.md §6.4's configuration
// surface. SWIFTPM_TESTS_PACKAGECACHE in particular forces caching of
// local packages even though RepositoryManagerOptions.CacheLocalPackages
// otherwise defaults to false for a local specifier.
const (
	EnvModuleCacheOverride = "SWIFTPM_MODULECACHE_OVERRIDE"
	EnvTestsModuleCache    = "SWIFTPM_TESTS_MODULECACHE"
	EnvTestsPackageCache   = "SWIFTPM_TESTS_PACKAGECACHE"
)

// ModuleCacheOverride returns EnvModuleCacheOverride's value, or ""
// when unset.
func ModuleCacheOverride() string {
	return os.Getenv(EnvModuleCacheOverride)
}

// TestsModuleCache returns EnvTestsModuleCache's value, or "" when
// unset.
func TestsModuleCache() string {
	return os.Getenv(EnvTestsModuleCache)
}

// CacheLocalPackagesForTests reports whether EnvTestsPackageCache is
// set to a non-empty value, forcing the Repository Manager to cache
// local package specifiers the way it already caches remote ones.
func CacheLocalPackagesForTests() bool {
	return os.Getenv(EnvTestsPackageCache) != ""
}
