package version

import "fmt"

// Build metadata, set at link time with
// -ldflags "-X github.com/ewkino/ewkino/internal/version.Version=v1.2.0".
var (
	// Version is the release tag
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for --version output.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
