// Package version holds build metadata injected via -ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/mj1618/producer/internal/version.Version=v0.2.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String formats the version line shown by --version.
func String() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}
