// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// SaveClaims replaces the stored claim set with the given one. Claims are
// written as a unit; a failure leaves the previous set intact. Claim text
// is stored verbatim.
func (s *Store) SaveClaims(ctx context.Context, claimList []types.Claim, sourceDocument string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin claims write", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims`); err != nil {
		return &PersistenceError{Op: "clear claims", Err: err}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO claims (claim_number, claim_text, source_document, created_at)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return &PersistenceError{Op: "prepare claims insert", Err: err}
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range claimList {
		if _, err := stmt.ExecContext(ctx, c.Number, c.Text, sourceDocument, now); err != nil {
			return &PersistenceError{Op: fmt.Sprintf("insert claim %d", c.Number), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit claims write", Err: err}
	}
	return nil
}

// Claims returns all stored claims ordered by claim number.
func (s *Store) Claims(ctx context.Context) ([]types.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT claim_number, claim_text FROM claims ORDER BY claim_number`)
	if err != nil {
		return nil, fmt.Errorf("reading claims: %w", err)
	}
	defer rows.Close()

	var claimList []types.Claim
	for rows.Next() {
		var c types.Claim
		if err := rows.Scan(&c.Number, &c.Text); err != nil {
			return nil, fmt.Errorf("reading claims: %w", err)
		}
		claimList = append(claimList, c)
	}
	return claimList, rows.Err()
}

// IndependentClaim returns the text of claim 1, or "" when no claims are
// stored.
func (s *Store) IndependentClaim(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT claim_text FROM claims WHERE claim_number = 1`).Scan(&text)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading independent claim: %w", err)
	}
	return text, nil
}

// SaveTitle records the title of invention, replacing any previous one.
func (s *Store) SaveTitle(ctx context.Context, title, sourceDocument string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin title write", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM title_of_invention`); err != nil {
		return &PersistenceError{Op: "clear title", Err: err}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO title_of_invention (title, source_document, created_at) VALUES (?, ?, ?)`,
		title, sourceDocument, time.Now().UTC(),
	)
	if err != nil {
		return &PersistenceError{Op: "insert title", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit title write", Err: err}
	}
	return nil
}

// Title returns the stored title of invention, or "" when none is recorded.
func (s *Store) Title(ctx context.Context) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx,
		`SELECT title FROM title_of_invention ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&title)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading title: %w", err)
	}
	return title, nil
}
