// Package cli provides shared helpers for segvault's command-line surface:
// typed command errors and signal handling.
package cli
