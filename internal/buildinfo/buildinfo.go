// Package buildinfo stores build-time metadata shared across packages.
package buildinfo

// Version and Commit are set via ldflags during build. Default to "dev"/"none".
var (
	Version = "dev"
	Commit  = "none"
)
