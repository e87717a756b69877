package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/metaval/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
)

// Store is a SQLite-backed history database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.metaval/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".metaval", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ReportStore returns a ReportStore interface backed by this store.
func (s *Store) ReportStore() driven.ReportStore {
	return &reportStore{store: s}
}

// migrate runs all pending migrations and records them.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_validation_results.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Report Store ====================

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// Save stores or replaces a validation result.
func (s *reportStore) Save(ctx context.Context, result *domain.ValidationResult) error {
	if result == nil || result.ID == "" {
		return domain.ErrInvalidInput
	}
	stored := *result
	if stored.ValidatedAt.IsZero() {
		stored.ValidatedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	entry := domain.NewHistoryEntry(&stored)

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO validation_results
			(id, source, profile_name, profile_version, resolution, valid, degraded, error_count, result, validated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			profile_name = excluded.profile_name,
			profile_version = excluded.profile_version,
			resolution = excluded.resolution,
			valid = excluded.valid,
			degraded = excluded.degraded,
			error_count = excluded.error_count,
			result = excluded.result,
			validated_at = excluded.validated_at
	`, entry.ID, entry.Source, entry.ProfileName, entry.ProfileVersion,
		string(stored.Profile.Resolution), boolToInt(entry.Valid), boolToInt(entry.Degraded),
		entry.ErrorCount, string(resultJSON), entry.ValidatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

// Get retrieves a full result by ID.
func (s *reportStore) Get(ctx context.Context, id string) (*domain.ValidationResult, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT result FROM validation_results WHERE id = ?`, id)

	var resultJSON string
	if err := row.Scan(&resultJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning result: %w", err)
	}

	var result domain.ValidationResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("unmarshalling result: %w", err)
	}
	return &result, nil
}

// List returns summaries, newest first. A limit of zero means no limit.
func (s *reportStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT id, source, profile_name, profile_version, valid, degraded, error_count, validated_at
		FROM validation_results
		ORDER BY validated_at DESC, id ASC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var e domain.HistoryEntry
		var valid, degraded int
		var validatedAt int64
		if err := rows.Scan(&e.ID, &e.Source, &e.ProfileName, &e.ProfileVersion,
			&valid, &degraded, &e.ErrorCount, &validatedAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Valid = valid != 0
		e.Degraded = degraded != 0
		e.ValidatedAt = time.Unix(0, validatedAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return entries, nil
}

// Delete removes a result.
func (s *reportStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, `DELETE FROM validation_results WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting result: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
