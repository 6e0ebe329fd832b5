package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/segvault/segvault/pkg/archive"
)

// Config contains configuration for the journal.
type Config struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// Journal is a SQLite-backed ledger of archival runs.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the journal database and ensures the
// schema is present and at the expected version.
func Open(cfg Config) (*Journal, error) {
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %q: %w", cfg.Path, err)
	}

	j := &Journal{
		db:     db,
		logger: slog.Default().With("component", "journal"),
	}

	if err := j.initialize(cfg); err != nil {
		db.Close()
		return nil, err
	}

	j.logger.Debug("journal opened", "path", cfg.Path)
	return j, nil
}

// initialize applies pragmas, creates the schema, and verifies its version.
func (j *Journal) initialize(cfg Config) error {
	if _, err := j.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := j.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := j.db.Exec(Schema); err != nil {
		return fmt.Errorf("creating journal schema: %w", err)
	}
	if _, err := j.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	var version int
	if err := j.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("journal schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}

	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Run is an open journal entry for one archival run. It implements
// archive.Recorder.
type Run struct {
	// ID is the run's unique identifier.
	ID string

	journal *Journal
}

// Begin opens a new run entry and returns it.
func (j *Journal) Begin(ctx context.Context) (*Run, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}
	return &Run{ID: id, journal: j}, nil
}

// RecordMigration appends a completed migration to the run.
func (r *Run) RecordMigration(ctx context.Context, m archive.Migration) error {
	_, err := r.journal.db.ExecContext(ctx,
		`INSERT INTO migrations (run_id, name, source, destination, bytes, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, m.Name, m.Source, m.Destination, m.Bytes, m.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("recording migration of %q: %w", m.Name, err)
	}
	return nil
}

// Finish closes the run entry with its outcome and migrated count.
func (r *Run) Finish(ctx context.Context, outcome string, migrated int) error {
	_, err := r.journal.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, outcome = ?, migrated = ? WHERE id = ?`,
		time.Now().UTC(), outcome, migrated, r.ID,
	)
	if err != nil {
		return fmt.Errorf("recording run outcome: %w", err)
	}
	return nil
}

// Migrated reports whether a completed migration row exists for the segment
// name. Useful when deciding whether a file at the archive path is a trusted
// copy or a stale partial one.
func (j *Journal) Migrated(ctx context.Context, name string) (bool, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM migrations WHERE name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("querying migrations for %q: %w", name, err)
	}
	return count > 0, nil
}

// LastRun returns the most recently started run's ID, outcome, and migrated
// count. ok is false when the journal is empty.
func (j *Journal) LastRun(ctx context.Context) (id, outcome string, migrated int, ok bool, err error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, COALESCE(outcome, ''), COALESCE(migrated, 0) FROM runs ORDER BY started_at DESC LIMIT 1`,
	)
	switch err = row.Scan(&id, &outcome, &migrated); err {
	case nil:
		return id, outcome, migrated, true, nil
	case sql.ErrNoRows:
		return "", "", 0, false, nil
	default:
		return "", "", 0, false, fmt.Errorf("querying last run: %w", err)
	}
}

var _ archive.Recorder = (*Run)(nil)
