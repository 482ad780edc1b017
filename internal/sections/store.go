// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

const dbFile = "drafting.db"

// DatabasePath returns the database file location for a store config.
func DatabasePath(cfg types.StoreConfig) string {
	return filepath.Join(cfg.DataDir, dbFile)
}

// PersistenceError wraps a failed store write. The write is aborted as a
// whole; the previous current record of the affected type stays intact.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store manages the drafting SQLite database: section snapshots, their
// paragraphs, the current-pointer table, and the imported claims and title.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the drafting database at dataDir/drafting.db
// and ensures the schema exists.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", DatabasePath(cfg)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type_tag TEXT NOT NULL,
			title TEXT,
			query TEXT,
			created_at TIMESTAMP NOT NULL,
			skipped BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_type ON sections(type_tag, created_at)`,
		`CREATE TABLE IF NOT EXISTS paragraphs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			section_id INTEGER NOT NULL REFERENCES sections(id),
			paragraph_number TEXT NOT NULL,
			paragraph_text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paragraphs_section ON paragraphs(section_id)`,
		`CREATE TABLE IF NOT EXISTS section_current (
			type_tag TEXT PRIMARY KEY,
			section_id INTEGER NOT NULL REFERENCES sections(id)
		)`,
		`CREATE TABLE IF NOT EXISTS claims (
			claim_number INTEGER PRIMARY KEY,
			claim_text TEXT NOT NULL,
			source_document TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS title_of_invention (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			source_document TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSection numbers the content with the given strategy and persists the
// section and its paragraphs as one atomic unit. A skipped section is
// recorded with zero paragraphs. The new snapshot becomes the current
// record of its type; earlier snapshots remain queryable as history.
func (s *Store) SaveSection(ctx context.Context, typ types.SectionType, title, query, content string, skipped bool, numbering Numbering) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &PersistenceError{Op: "begin section write", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sections (type_tag, title, query, created_at, skipped)
		 VALUES (?, ?, ?, ?, ?)`,
		typ.Tag(), title, query, time.Now().UTC(), skipped,
	)
	if err != nil {
		return 0, &PersistenceError{Op: "insert section", Err: err}
	}

	sectionID, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "insert section", Err: err}
	}

	if !skipped {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO paragraphs (section_id, paragraph_number, paragraph_text)
			 VALUES (?, ?, ?)`)
		if err != nil {
			return 0, &PersistenceError{Op: "prepare paragraph insert", Err: err}
		}
		defer stmt.Close()

		for _, p := range NumberParagraphs(content, numbering) {
			if _, err := stmt.ExecContext(ctx, sectionID, p.Number, p.Text); err != nil {
				return 0, &PersistenceError{Op: "insert paragraph", Err: err}
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO section_current (type_tag, section_id) VALUES (?, ?)
		 ON CONFLICT(type_tag) DO UPDATE SET section_id=excluded.section_id`,
		typ.Tag(), sectionID,
	)
	if err != nil {
		return 0, &PersistenceError{Op: "update current pointer", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &PersistenceError{Op: "commit section write", Err: err}
	}
	return sectionID, nil
}

// GetSection returns the current record of the given type, or nil when none
// has been saved. The current pointer is authoritative; when absent (e.g. a
// database written before the pointer table existed) the latest created_at
// wins.
func (s *Store) GetSection(ctx context.Context, typ types.SectionType) (*types.Section, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.title, s.query, s.created_at, s.skipped
		 FROM sections s
		 JOIN section_current c ON c.section_id = s.id
		 WHERE c.type_tag = ?`,
		typ.Tag(),
	)

	section, err := s.scanSection(ctx, row, typ)
	if err == sql.ErrNoRows {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, title, query, created_at, skipped
			 FROM sections WHERE type_tag = ?
			 ORDER BY created_at DESC, id DESC LIMIT 1`,
			typ.Tag(),
		)
		section, err = s.scanSection(ctx, row, typ)
		if err == sql.ErrNoRows {
			return nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading section %s: %w", typ.Tag(), err)
	}
	return section, nil
}

// SectionHistory returns every snapshot of a type, newest first. The
// append-only log makes rollback a query, not a schema change.
func (s *Store) SectionHistory(ctx context.Context, typ types.SectionType) ([]types.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, query, created_at, skipped
		 FROM sections WHERE type_tag = ?
		 ORDER BY created_at DESC, id DESC`,
		typ.Tag(),
	)
	if err != nil {
		return nil, fmt.Errorf("reading section history %s: %w", typ.Tag(), err)
	}
	defer rows.Close()

	var history []types.Section
	for rows.Next() {
		section, err := s.scanSection(ctx, rows, typ)
		if err != nil {
			return nil, fmt.Errorf("reading section history %s: %w", typ.Tag(), err)
		}
		history = append(history, *section)
	}
	return history, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanSection(ctx context.Context, row scanner, typ types.SectionType) (*types.Section, error) {
	var section types.Section
	if err := row.Scan(&section.ID, &section.Title, &section.Query, &section.CreatedAt, &section.Skipped); err != nil {
		return nil, err
	}
	section.Type = typ

	paragraphs, err := s.sectionParagraphs(ctx, section.ID)
	if err != nil {
		return nil, err
	}
	section.Paragraphs = paragraphs
	return &section, nil
}

func (s *Store) sectionParagraphs(ctx context.Context, sectionID int64) ([]types.Paragraph, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT paragraph_number, paragraph_text FROM paragraphs
		 WHERE section_id = ? ORDER BY id`,
		sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paragraphs []types.Paragraph
	for rows.Next() {
		var p types.Paragraph
		if err := rows.Scan(&p.Number, &p.Text); err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs, rows.Err()
}
