// Package contracts holds cross-package constants shared between the
// pipeline internals and its entrypoints.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application.
	Version = "1.0.0"

	// ArtifactFormatVersion is the version of the exported artifact
	// layout. Bump it when an artifact's field set or addressing scheme
	// changes incompatibly.
	ArtifactFormatVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags.
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags.
	GitCommit = "unknown"
)

// VersionString returns the short program identification line.
func VersionString() string {
	return fmt.Sprintf("dbdcli v%s", Version)
}

// FullVersionString returns the detailed identification line logged at
// startup.
func FullVersionString() string {
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		VersionString(), BuildTime, GitCommit,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
