// Package version exposes the build identity stamped in at link time
// through -ldflags "-X". A binary built without the stamp reports the
// "dev" defaults.
package version

import "fmt"

//nolint:revive // Overwritten by the release build, never assigned in code.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the full build identity for startup logs.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
