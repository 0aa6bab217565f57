package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectCols = "SELECT p.id, p.content_type, p.status, p.title, p.body, p.excerpt, p.slug, p.thumbnail, p.permalink, "

func TestMySQLCompile(t *testing.T) {
	b := NewBuilder()

	sel := b.Build("cafe", []string{"post"}, ModeSelect)
	sel.Limit, sel.Offset = 10, 20
	c, err := MySQL.Compile(sel, DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, selectCols+
		"MATCH (p.title, p.body, p.excerpt, p.slug) AGAINST (? IN BOOLEAN MODE) AS score"+
		" FROM posts p WHERE p.status IN (?, ?) AND p.content_type IN (?)"+
		" AND MATCH (p.title, p.body, p.excerpt, p.slug) AGAINST (? IN BOOLEAN MODE)"+
		" ORDER BY score DESC, p.id DESC LIMIT ? OFFSET ?", c.SQL)
	assert.Equal(t, []any{"*cafe*", "publish", "private", "post", "*cafe*", 10, 20}, c.Args)

	cnt, err := MySQL.Compile(b.Build("cafe", []string{"post"}, ModeCount), DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM posts p WHERE p.status IN (?, ?) AND p.content_type IN (?)"+
		" AND MATCH (p.title, p.body, p.excerpt, p.slug) AGAINST (? IN BOOLEAN MODE)", cnt.SQL)
	assert.Equal(t, []any{"publish", "private", "post", "*cafe*"}, cnt.Args)
}

func TestFilterOnlyShape(t *testing.T) {
	sel := NewBuilder().Build("", []string{"page"}, ModeSelect)
	sel.Limit = 5
	c, err := MySQL.Compile(sel, DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, selectCols+"0 AS score FROM posts p WHERE p.status IN (?, ?) AND p.content_type IN (?)"+
		" ORDER BY p.id DESC LIMIT ?", c.SQL)
	assert.Equal(t, []any{"publish", "private", "page", 5}, c.Args)
	assert.NotContains(t, c.SQL, "MATCH")
}

func TestSQLiteCompile(t *testing.T) {
	sel := NewBuilder().Build("cafe latte", []string{"post"}, ModeSelect)
	sel.Offset = 5
	c, err := SQLite.Compile(sel, DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, selectCols+"-bm25(posts_fts) AS score"+
		" FROM posts p JOIN posts_fts ON posts_fts.rowid = p.id"+
		" WHERE p.status IN (?, ?) AND p.content_type IN (?) AND posts_fts MATCH ?"+
		" ORDER BY score DESC, p.id DESC LIMIT -1 OFFSET ?", c.SQL)
	assert.Equal(t, []any{"publish", "private", "post",
		`{title body excerpt slug} : ("cafe"* OR "latte"*)`, 5}, c.Args)
}

func TestPostgresCompile(t *testing.T) {
	sel := NewBuilder().Build("e-mail", []string{"post"}, ModeSelect)
	sel.Limit = 10
	c, err := Postgres.Compile(sel, DefaultSchema())
	require.NoError(t, err)

	vector := "to_tsvector('simple', coalesce(p.title, '') || ' ' || coalesce(p.body, '') || ' ' || coalesce(p.excerpt, '') || ' ' || coalesce(p.slug, ''))"
	assert.Equal(t, selectCols+"ts_rank("+vector+", to_tsquery('simple', $1)) AS score"+
		" FROM posts p WHERE p.status IN ($2, $3) AND p.content_type IN ($4)"+
		" AND "+vector+" @@ to_tsquery('simple', $1)"+
		" ORDER BY score DESC, p.id DESC LIMIT $5", c.SQL)
	assert.Equal(t, []any{"e:* | mail:*", "publish", "private", "post", 10}, c.Args)
}

func TestOperatorOnlyTextMatchesNothing(t *testing.T) {
	d := NewBuilder().Build("+-", nil, ModeCount)
	require.True(t, d.HasText())

	c, err := SQLite.Compile(d, DefaultSchema())
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "1 = 0")
}

func TestCompileRejectsBadSchema(t *testing.T) {
	s := DefaultSchema()
	s.Table = "posts; DROP TABLE posts"
	_, err := MySQL.Compile(NewBuilder().Build("x", nil, ModeCount), s)
	assert.Error(t, err)
}

func TestDialectByName(t *testing.T) {
	for name, want := range map[string]Dialect{"mysql": MySQL, "sqlite3": SQLite, "PostgreSQL": Postgres} {
		d, err := DialectByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, d)
	}
	_, err := DialectByName("oracle")
	assert.ErrorIs(t, err, ErrUnknownDialect)
}
