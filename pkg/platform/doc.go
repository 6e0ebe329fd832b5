// Package platform provides the Linux-backed implementations of the
// capability interfaces consumed by pkg/archive: a flock(2) run lock, a
// statfs(2) capacity prober, and a /proc process scanner.
package platform
