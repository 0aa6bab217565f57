// Package storage runs compiled full-text queries against the content
// table and scans the rows into records.
//
// The store is dialect agnostic: it compiles descriptors with the dialect
// it was built with and only relies on database/sql. Failures are reported
// as *core.QueryExecutionError so callers never mistake a broken store for
// an empty result.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/log"
	"github.com/rubiojr/setsearch/pkg/query"
)

// Record is a raw row of the content table.
type Record struct {
	ID          int64
	ContentType string
	Status      string
	Title       string
	Body        string
	Excerpt     string
	Slug        string
	// Thumbnail and Permalink are empty when the column is NULL.
	Thumbnail string
	Permalink string
	Score     float64
}

// Store executes descriptors on a database.
type Store struct {
	db      *sql.DB
	dialect query.Dialect
	schema  query.Schema
	logger  *log.Logger
}

// New wraps an open database. The schema is completed with defaults and
// validated.
func New(db *sql.DB, dialect query.Dialect, schema query.Schema) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("nil database")
	}
	if dialect == nil {
		return nil, fmt.Errorf("nil dialect")
	}
	schema = schema.WithDefaults()
	if err := schema.Validate(); err != nil {
		return nil, core.NewConfigurationError("schema", "%v", err)
	}
	return &Store{
		db:      db,
		dialect: dialect,
		schema:  schema,
		logger:  log.ForService("store"),
	}, nil
}

// Open opens the database with driver ("sqlite3" or "postgres") and wraps it.
func Open(driver, dsn string, dialect query.Dialect, schema query.Schema) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driver == "sqlite3" {
		pragmas := []string{
			"PRAGMA busy_timeout = 30000",
			"PRAGMA temp_store = memory",
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
			}
		}
	}

	s, err := New(db, dialect, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB { return s.db }

// Schema returns the completed schema.
func (s *Store) Schema() query.Schema { return s.schema }

// Dialect returns the dialect queries are compiled with.
func (s *Store) Dialect() query.Dialect { return s.dialect }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) compile(d *query.Descriptor) (query.Compiled, error) {
	c, err := s.dialect.Compile(d, s.schema)
	if err != nil {
		return query.Compiled{}, core.NewConfigurationError("query", "compiling %s query: %v", d.Mode, err)
	}
	s.logger.Debugf("%s: %s %v", s.dialect.Name(), c.SQL, c.Args)
	return c, nil
}

func execError(op string, d *query.Descriptor, err error) error {
	return &core.QueryExecutionError{
		Op:          op,
		ContentType: strings.Join(d.ContentTypes, ","),
		Err:         err,
	}
}

// Count runs a count descriptor and returns the total.
func (s *Store) Count(ctx context.Context, d *query.Descriptor) (int, error) {
	if d.Mode != query.ModeCount {
		cp := *d
		cp.Mode = query.ModeCount
		d = &cp
	}
	c, err := s.compile(d)
	if err != nil {
		return 0, err
	}

	var total sql.NullInt64
	if err := s.db.QueryRowContext(ctx, c.SQL, c.Args...).Scan(&total); err != nil {
		return 0, execError("count", d, err)
	}
	return int(total.Int64), nil
}

// Select runs a select descriptor and returns the matching records in
// relevance order.
func (s *Store) Select(ctx context.Context, d *query.Descriptor) ([]Record, error) {
	if d.Mode != query.ModeSelect {
		cp := *d
		cp.Mode = query.ModeSelect
		d = &cp
	}
	c, err := s.compile(d)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, c.SQL, c.Args...)
	if err != nil {
		return nil, execError("select", d, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var records []Record
	for rows.Next() {
		var (
			r                                         Record
			ctype, status, title, body, excerpt, slug sql.NullString
			thumb, link                               sql.NullString
			score                                     sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &ctype, &status, &title, &body, &excerpt, &slug, &thumb, &link, &score); err != nil {
			return nil, execError("select", d, fmt.Errorf("scanning row: %w", err))
		}
		r.ContentType = ctype.String
		r.Status = status.String
		r.Title = title.String
		r.Body = body.String
		r.Excerpt = excerpt.String
		r.Slug = slug.String
		r.Thumbnail = thumb.String
		r.Permalink = link.String
		r.Score = score.Float64
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, execError("select", d, err)
	}
	return records, nil
}
