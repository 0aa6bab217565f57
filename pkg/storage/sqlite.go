package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rubiojr/setsearch/pkg/query"
)

// BootstrapSQLite creates the content table and its FTS5 index when they do
// not exist. The index folds diacritics so "cafe" matches "café".
func BootstrapSQLite(ctx context.Context, db *sql.DB, s query.Schema) error {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return err
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s INTEGER PRIMARY KEY,
			%s TEXT NOT NULL,
			%s TEXT NOT NULL DEFAULT 'publish',
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT,
			%s TEXT
		)`, s.Table, s.ID, s.ContentType, s.Status, s.Title, s.Body, s.Excerpt, s.Slug, s.Thumbnail, s.Permalink),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_type_status ON %s(%s, %s)`,
			s.Table, s.Table, s.ContentType, s.Status),
		fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS %s_fts USING fts5(%s, %s, %s, %s, tokenize = 'unicode61 remove_diacritics 2')`,
			s.Table, s.Title, s.Body, s.Excerpt, s.Slug),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrapping schema: %w", err)
		}
	}
	return nil
}

// InsertSQLite stores r in the content table and its FTS5 index and
// returns the row id.
func InsertSQLite(ctx context.Context, db *sql.DB, s query.Schema, r Record) (int64, error) {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if r.Status == "" {
		r.Status = "publish"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	var id any
	if r.ID > 0 {
		id = r.ID
	}
	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.Table, s.ID, s.ContentType, s.Status, s.Title, s.Body, s.Excerpt, s.Slug, s.Thumbnail, s.Permalink),
		id, r.ContentType, r.Status, r.Title, r.Body, r.Excerpt, r.Slug, nullable(r.Thumbnail), nullable(r.Permalink))
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading record id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT OR REPLACE INTO %s_fts (rowid, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?)`,
			s.Table, s.Title, s.Body, s.Excerpt, s.Slug),
		rowID, r.Title, r.Body, r.Excerpt, r.Slug); err != nil {
		return 0, fmt.Errorf("indexing record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing record: %w", err)
	}
	committed = true
	return rowID, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
