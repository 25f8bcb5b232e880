// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for logs and the User-Agent header.
func String() string {
	return fmt.Sprintf("agentjobs/%s (%s, %s)", Version, Commit, Date)
}
