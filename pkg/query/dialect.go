package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Dialect compiles descriptors into SQL understood by one store flavour.
type Dialect interface {
	Name() string
	Compile(d *Descriptor, s Schema) (Compiled, error)
}

var (
	// MySQL targets MySQL/MariaDB FULLTEXT indexes in boolean mode.
	MySQL Dialect = &dialect{
		name:    "mysql",
		noLimit: "LIMIT 18446744073709551615",
		from:    plainFrom,
		score:   mysqlMatch,
		cond:    mysqlMatch,
	}

	// SQLite targets an FTS5 table named "<table>_fts"
	// whose rowid is the content id and whose columns are the indexed ones.
	SQLite Dialect = &dialect{
		name:    "sqlite",
		noLimit: "LIMIT -1",
		from:    sqliteFrom,
		score:   sqliteScore,
		cond:    sqliteCond,
	}

	// Postgres matches a 'simple' text search vector built on the fly.
	Postgres Dialect = &dialect{
		name:     "postgres",
		numbered: true,
		from:     plainFrom,
		score:    postgresScore,
		cond:     postgresCond,
	}
)

// ErrUnknownDialect is returned by DialectByName.
var ErrUnknownDialect = errors.New("unknown dialect")

// DialectByName returns the dialect called name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

const alias = "p"

type dialect struct {
	name     string
	numbered bool
	// noLimit is emitted before OFFSET when no limit was requested.
	noLimit string
	from    func(s Schema, hasText bool) string
	score   func(text string, cols []string, s Schema, b *binder) string
	cond    func(text string, cols []string, s Schema, b *binder) string
}

func (dl *dialect) Name() string { return dl.name }

func (dl *dialect) Compile(d *Descriptor, s Schema) (Compiled, error) {
	if d == nil {
		return Compiled{}, errors.New("nil descriptor")
	}
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return Compiled{}, err
	}

	var cols []string
	if d.HasText() {
		var err error
		if cols, err = s.Columns(d.Fields); err != nil {
			return Compiled{}, err
		}
		if len(cols) == 0 {
			return Compiled{}, errors.New("full-text query without indexed fields")
		}
	}

	b := &binder{numbered: dl.numbered}
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if d.Mode == ModeCount {
		sb.WriteString("COUNT(*)")
	} else {
		for _, c := range []string{s.ID, s.ContentType, s.Status, s.Title, s.Body, s.Excerpt, s.Slug, s.Thumbnail, s.Permalink} {
			sb.WriteString(col(c))
			sb.WriteString(", ")
		}
		score := "0"
		if d.HasText() {
			score = dl.score(d.Text, cols, s, b)
		}
		sb.WriteString(score)
		sb.WriteString(" AS score")
	}

	sb.WriteString(" FROM ")
	sb.WriteString(dl.from(s, d.HasText()))

	var where []string
	if len(d.Statuses) > 0 {
		where = append(where, col(s.Status)+" IN ("+b.list(d.Statuses)+")")
	}
	if len(d.ContentTypes) > 0 {
		where = append(where, col(s.ContentType)+" IN ("+b.list(d.ContentTypes)+")")
	}
	if d.HasText() {
		where = append(where, dl.cond(d.Text, cols, s, b))
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if d.Mode == ModeSelect {
		if d.HasText() {
			sb.WriteString(" ORDER BY score DESC, " + col(s.ID) + " DESC")
		} else {
			sb.WriteString(" ORDER BY " + col(s.ID) + " DESC")
		}
		if d.Limit > 0 {
			sb.WriteString(" LIMIT " + b.bind(d.Limit))
		}
		if d.Offset > 0 {
			if d.Limit <= 0 && dl.noLimit != "" {
				sb.WriteString(" " + dl.noLimit)
			}
			sb.WriteString(" OFFSET " + b.bind(d.Offset))
		}
	}

	return Compiled{SQL: sb.String(), Args: b.args}, nil
}

func col(name string) string { return alias + "." + name }

func cols(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = col(n)
	}
	return strings.Join(out, ", ")
}

func plainFrom(s Schema, _ bool) string {
	return s.Table + " " + alias
}

func mysqlMatch(text string, names []string, _ Schema, b *binder) string {
	return "MATCH (" + cols(names) + ") AGAINST (" + b.bind(text) + " IN BOOLEAN MODE)"
}

func ftsTable(s Schema) string { return s.Table + "_fts" }

func sqliteFrom(s Schema, hasText bool) string {
	if !hasText {
		return plainFrom(s, false)
	}
	fts := ftsTable(s)
	return s.Table + " " + alias + " JOIN " + fts + " ON " + fts + ".rowid = " + col(s.ID)
}

func sqliteScore(text string, _ []string, s Schema, _ *binder) string {
	if len(Terms(text)) == 0 {
		return "0"
	}
	return "-bm25(" + ftsTable(s) + ")"
}

func sqliteCond(text string, names []string, s Schema, b *binder) string {
	expr := FTS5Match(text, names)
	if expr == "" {
		return "1 = 0"
	}
	return ftsTable(s) + " MATCH " + b.bind(expr)
}

// FTS5Match translates boolean mode text into an FTS5 query restricted to
// columns. FTS5 has no leading wildcards, so every term becomes a quoted
// prefix query and terms are OR-ed, like optional boolean mode words.
func FTS5Match(text string, columns []string) string {
	terms := Terms(text)
	if len(terms) == 0 {
		return ""
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"*`
	}
	return "{" + strings.Join(columns, " ") + "} : (" + strings.Join(parts, " OR ") + ")"
}

func postgresVector(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "coalesce(" + col(n) + ", '')"
	}
	return "to_tsvector('simple', " + strings.Join(parts, " || ' ' || ") + ")"
}

func postgresScore(text string, names []string, _ Schema, b *binder) string {
	q := TSQuery(text)
	if q == "" {
		return "0"
	}
	return "ts_rank(" + postgresVector(names) + ", to_tsquery('simple', " + b.shared("tsquery", q) + "))"
}

func postgresCond(text string, names []string, _ Schema, b *binder) string {
	q := TSQuery(text)
	if q == "" {
		return "1 = 0"
	}
	return postgresVector(names) + " @@ to_tsquery('simple', " + b.shared("tsquery", q) + ")"
}

// TSQuery translates boolean mode text into a to_tsquery expression of OR-ed
// prefix terms. Anything but letters and digits separates terms.
func TSQuery(text string) string {
	var terms []string
	for _, t := range Terms(text) {
		for _, w := range strings.FieldsFunc(t, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			terms = append(terms, w+":*")
		}
	}
	return strings.Join(terms, " | ")
}

// binder collects bind arguments and renders their placeholders.
type binder struct {
	numbered bool
	args     []any
	named    map[string]string
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	if b.numbered {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// shared binds v once per key on numbered dialects, which can reference
// the same placeholder twice.
func (b *binder) shared(key string, v any) string {
	if !b.numbered {
		return b.bind(v)
	}
	if p, ok := b.named[key]; ok {
		return p
	}
	if b.named == nil {
		b.named = make(map[string]string)
	}
	p := b.bind(v)
	b.named[key] = p
	return p
}

func (b *binder) list(values []string) string {
	ph := make([]string, len(values))
	for i, v := range values {
		ph[i] = b.bind(v)
	}
	return strings.Join(ph, ", ")
}
