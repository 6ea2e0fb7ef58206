// Package sqlite provides the SQLite-backed interaction store.
//
// It is the write-only sink for ask events and produced answers; the
// answering pipeline never reads it back. Downstream reporting and
// feedback tooling query the database directly.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lena-labs/lena-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.InteractionStore = (*Store)(nil)

// Store persists interaction events and answer records in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified storage
// directory. If storageDir is empty, defaults to ~/.lena/storage.
func NewStore(storageDir string) (*Store, error) {
	if storageDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		storageDir = filepath.Join(home, ".lena", "storage")
	}

	if err := os.MkdirAll(storageDir, 0700); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	dbPath := filepath.Join(storageDir, "interactions.db")

	// WAL mode keeps concurrent answering requests from blocking on
	// each other's writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// AppendEvent records one interaction event.
func (s *Store) AppendEvent(ctx context.Context, event driven.InteractionEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interaction_events (type, question_id, question, confidence, course_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.Type, event.QuestionID, event.Question, event.Confidence, event.CourseID, event.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("inserting interaction event: %w", err)
	}
	return nil
}

// RecordAnswer persists the produced answer. Re-recording the same
// question id replaces the previous row.
func (s *Store) RecordAnswer(ctx context.Context, record driven.AnswerRecord) error {
	citations, err := json.Marshal(record.Citations)
	if err != nil {
		return fmt.Errorf("marshalling citations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO answers (question_id, course_id, question, answer, citations, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(question_id) DO UPDATE SET
			course_id = excluded.course_id,
			question = excluded.question,
			answer = excluded.answer,
			citations = excluded.citations,
			confidence = excluded.confidence,
			created_at = excluded.created_at
	`, record.QuestionID, record.CourseID, record.Question, record.Answer, string(citations), record.Confidence, record.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("inserting answer: %w", err)
	}
	return nil
}

// migrate applies any pending .up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

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
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
