// Package buildinfo holds values stamped in by the linker.
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
