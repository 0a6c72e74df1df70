// Package build provides version and build information for cl.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import "golang.org/x/mod/semver"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev" || !semver.IsValid(canonical(Version))
}

// ShortCommit returns the first eight characters of the commit hash.
func ShortCommit() string {
	if len(Commit) > 8 {
		return Commit[:8]
	}
	return Commit
}

// canonical adds the "v" prefix x/mod/semver expects.
func canonical(v string) string {
	if len(v) > 0 && v[0] != 'v' {
		return "v" + v
	}
	return v
}
