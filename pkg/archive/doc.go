// Package archive implements the cold-segment archival algorithm: taking an
// inventory of segment files on the primary volume, selecting the oldest
// files beyond the retention count, verifying all run preconditions, and
// migrating each selected file to the archive volume, leaving a symbolic
// link at the original path.
//
// The package depends only on capability interfaces (Copier, ProcessInspector,
// CapacityProber, RunLock); platform-specific implementations live in
// pkg/platform.
package archive
