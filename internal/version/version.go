// Package version provides version information for pawfetch.
package version

// Version is the version of pawfetch. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// UserAgent is sent with every catalog request.
func UserAgent() string {
	return "pawfetch/" + String()
}
