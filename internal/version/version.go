// Package version holds build information injected with ldflags:
//
//	go build -ldflags "-X github.com/jmgilman/minicrm/internal/version.Version=v0.3.0 \
//	                   -X github.com/jmgilman/minicrm/internal/version.Commit=abc123 \
//	                   -X github.com/jmgilman/minicrm/internal/version.Date=2026-10-01"
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit SHA of the build.
	Commit = "none"

	// Date is the build date in ISO 8601 format.
	Date = "unknown"
)

// UserAgent is the User-Agent sent to the contacts API.
func UserAgent() string {
	return "minicrm/" + Version
}
