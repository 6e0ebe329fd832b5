// Segvault archives cold, immutable segment files from a space-constrained
// primary volume to a secondary volume, leaving a symbolic link at each
// original path so the full file set stays addressable.
//
// Usage:
//
//	# Execute one archival pass
//	segvault run
//
//	# Use a custom configuration file
//	segvault run --config /etc/segvault/config.yaml
//
//	# Show what would be archived without touching anything
//	segvault run --dry-run
//
//	# Validate the configuration file
//	segvault validate
//
//	# Show version information
//	segvault version
//
// The tool is single-shot: an external scheduler (cron, systemd timer)
// provides periodicity, and re-invocation provides retry.
package main

func main() {
	Execute()
}
