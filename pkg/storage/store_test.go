package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/query"
)

func newMockStore(t *testing.T, dialect query.Dialect) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db, dialect, query.DefaultSchema())
	require.NoError(t, err)
	return s, mock
}

var recordColumns = []string{"id", "content_type", "status", "title", "body", "excerpt", "slug", "thumbnail", "permalink", "score"}

func TestCountAndSelect(t *testing.T) {
	s, mock := newMockStore(t, query.MySQL)
	b := query.NewBuilder()

	cnt := b.Build("cafe", []string{"post"}, query.ModeCount)
	c, err := query.MySQL.Compile(cnt, query.DefaultSchema())
	require.NoError(t, err)
	mock.ExpectQuery(c.SQL).
		WithArgs("publish", "private", "post", "*cafe*").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	total, err := s.Count(context.Background(), cnt)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	sel := b.Build("cafe", []string{"post"}, query.ModeSelect)
	sel.Limit = 2
	c, err = query.MySQL.Compile(sel, query.DefaultSchema())
	require.NoError(t, err)
	mock.ExpectQuery(c.SQL).
		WithArgs("*cafe*", "publish", "private", "post", "*cafe*", 2).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(2, "post", "publish", "Le café", "body", "", "le-cafe", nil, nil, 1.5).
			AddRow(1, "post", "private", "Cafe time", "more", "ex", "cafe-time", "/img/a.png", "/p/1", 0.5))

	records, err := s.Select(context.Background(), sel)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, "Le café", records[0].Title)
	assert.Empty(t, records[0].Thumbnail)
	assert.Equal(t, "/img/a.png", records[1].Thumbnail)
	assert.Equal(t, "/p/1", records[1].Permalink)
	assert.InDelta(t, 0.5, records[1].Score, 0.0001)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFailureIsNotEmptyResult(t *testing.T) {
	s, mock := newMockStore(t, query.MySQL)
	d := query.NewBuilder().Build("cafe", []string{"post", "page"}, query.ModeCount)

	mock.ExpectQuery("SELECT COUNT(*) FROM posts p WHERE p.status IN (?, ?) AND p.content_type IN (?, ?)" +
		" AND MATCH (p.title, p.body, p.excerpt, p.slug) AGAINST (? IN BOOLEAN MODE)").
		WillReturnError(errors.New("connection refused"))

	_, err := s.Count(context.Background(), d)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQueryExecution)

	var qerr *core.QueryExecutionError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "count", qerr.Op)
	assert.Equal(t, "post,page", qerr.ContentType)
}

func TestSelectScanFailure(t *testing.T) {
	s, mock := newMockStore(t, query.MySQL)
	d := query.NewBuilder().Build("", []string{"post"}, query.ModeSelect)

	mock.ExpectQuery("SELECT p.id, p.content_type, p.status, p.title, p.body, p.excerpt, p.slug, p.thumbnail, p.permalink, 0 AS score" +
		" FROM posts p WHERE p.status IN (?, ?) AND p.content_type IN (?) ORDER BY p.id DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := s.Select(context.Background(), d)
	assert.ErrorIs(t, err, core.ErrQueryExecution)
}

func TestNewRejectsBadSchema(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, query.SQLite, query.Schema{Table: "posts; DROP TABLE posts"})
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func openSQLite(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "content.db")
	s, err := Open("sqlite3", dsn, query.SQLite, query.DefaultSchema())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, BootstrapSQLite(context.Background(), s.DB(), s.Schema()))
	return s
}

func seed(t *testing.T, db *sql.DB, records ...Record) {
	t.Helper()
	for _, r := range records {
		_, err := InsertSQLite(context.Background(), db, query.DefaultSchema(), r)
		require.NoError(t, err)
	}
}

func TestSQLiteFullText(t *testing.T) {
	s := openSQLite(t)
	seed(t, s.DB(),
		Record{ContentType: "post", Title: "Le café du coin", Body: "On y boit un bon café.", Slug: "le-cafe"},
		Record{ContentType: "post", Title: "Tea", Body: "Nothing to see", Slug: "tea"},
		Record{ContentType: "post", Status: "draft", Title: "Draft cafe", Body: "cafe", Slug: "draft"},
		Record{ContentType: "page", Title: "Cafe page", Body: "cafe menu", Slug: "menu", Thumbnail: "menu.png"},
	)

	ctx := context.Background()
	b := query.NewBuilder()

	total, err := s.Count(ctx, b.Build("cafe", []string{"post"}, query.ModeCount))
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	records, err := s.Select(ctx, b.Build("cafe", []string{"post", "page"}, query.ModeSelect))
	require.NoError(t, err)
	require.Len(t, records, 2)
	slugs := []string{records[0].Slug, records[1].Slug}
	assert.ElementsMatch(t, []string{"le-cafe", "menu"}, slugs)

	for _, r := range records {
		if r.Slug == "menu" {
			assert.Equal(t, "menu.png", r.Thumbnail)
		}
	}

	all, err := s.Count(ctx, b.Build("", []string{"post"}, query.ModeCount))
	require.NoError(t, err)
	assert.Equal(t, 2, all)
}

func TestSQLitePagination(t *testing.T) {
	s := openSQLite(t)
	for _, slug := range []string{"a", "b", "c", "d"} {
		seed(t, s.DB(), Record{ContentType: "post", Title: "latte " + slug, Body: "latte", Slug: slug})
	}

	d := query.NewBuilder().Build("latte", []string{"post"}, query.ModeSelect)
	d.Limit, d.Offset = 2, 2
	records, err := s.Select(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	d.Limit, d.Offset = 0, 3
	records, err = s.Select(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
