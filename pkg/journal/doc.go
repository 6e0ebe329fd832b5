// Package journal persists a ledger of archival runs and per-segment
// migrations in a SQLite database. The journal is an audit trail, not a
// source of truth: the filesystem state (archived copy + symlink) is always
// authoritative, and a failed journal write never blocks a migration.
package journal
