// Package catalog persists index descriptors so that indexes survive a
// process restart. The catalog is a small SQLite database at the storage
// root; on startup the provider re-registers every persisted descriptor
// and reopens its partitions from disk.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

// Record is one persisted index descriptor.
type Record struct {
	Identifier string
	EntityType string
	Properties []string
	Analyzer   string
	Partitions int
	CreatedAt  time.Time
}

// Store is the descriptor catalog. A single connection with WAL mode;
// the provider is the only writer.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS index_descriptors (
    identifier  TEXT PRIMARY KEY,
    entity_type TEXT NOT NULL,
    properties  TEXT NOT NULL,
    analyzer    TEXT NOT NULL,
    partitions  INTEGER NOT NULL,
    created_at  TEXT NOT NULL
);
`

// Open opens or creates the catalog database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, gterrors.Wrap(gterrors.ErrCodeCatalog,
				fmt.Errorf("failed to create catalog directory %s: %w", dir, err))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, gterrors.Wrap(gterrors.ErrCodeCatalog, err)
	}

	// Single writer, no connection churn
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Pragmas must go through statements: DSN params may be ignored by
	// the modernc driver.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, gterrors.Wrap(gterrors.ErrCodeCatalog,
				fmt.Errorf("failed to set pragma: %w", err))
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, gterrors.Wrap(gterrors.ErrCodeCatalog,
			fmt.Errorf("failed to initialize catalog schema: %w", err))
	}

	return &Store{db: db, path: path}, nil
}

// Save persists a descriptor. The identifier is the primary key; saving an
// existing identifier fails (descriptors are immutable after registration).
func (s *Store) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	props, err := json.Marshal(rec.Properties)
	if err != nil {
		return gterrors.Wrap(gterrors.ErrCodeCatalog, err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO index_descriptors (identifier, entity_type, properties, analyzer, partitions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Identifier, rec.EntityType, string(props), rec.Analyzer, rec.Partitions,
		createdAt.Format(time.RFC3339))
	if err != nil {
		return gterrors.Wrap(gterrors.ErrCodeCatalog,
			fmt.Errorf("failed to persist descriptor %q: %w", rec.Identifier, err))
	}
	return nil
}

// Delete removes a descriptor. Deleting an unknown identifier is not an
// error.
func (s *Store) Delete(ctx context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM index_descriptors WHERE identifier = ?`, identifier)
	if err != nil {
		return gterrors.Wrap(gterrors.ErrCodeCatalog,
			fmt.Errorf("failed to delete descriptor %q: %w", identifier, err))
	}
	return nil
}

// List returns all persisted descriptors ordered by identifier.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, entity_type, properties, analyzer, partitions, created_at
		 FROM index_descriptors ORDER BY identifier`)
	if err != nil {
		return nil, gterrors.Wrap(gterrors.ErrCodeCatalog, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var props, createdAt string
		if err := rows.Scan(&rec.Identifier, &rec.EntityType, &props,
			&rec.Analyzer, &rec.Partitions, &createdAt); err != nil {
			return nil, gterrors.Wrap(gterrors.ErrCodeCatalog, err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		if err := json.Unmarshal([]byte(props), &rec.Properties); err != nil {
			return nil, gterrors.Wrap(gterrors.ErrCodeCatalog,
				fmt.Errorf("corrupt property list for %q: %w", rec.Identifier, err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, gterrors.Wrap(gterrors.ErrCodeCatalog, err)
	}
	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
