// Package query builds typed full-text query descriptors and compiles them
// into parameterized SQL for a given store dialect.
//
// Descriptors never carry SQL fragments: user text, statuses and content
// types always travel as bind arguments.
package query

// Mode selects what a compiled query returns.
type Mode int

const (
	// ModeSelect returns result rows ordered by relevance.
	ModeSelect Mode = iota
	// ModeCount returns a single total count.
	ModeCount
)

func (m Mode) String() string {
	if m == ModeCount {
		return "count"
	}
	return "select"
}

// Descriptor describes a full-text query against the content table.
type Descriptor struct {
	Mode Mode

	// Text is the boolean mode search text, already wrapped in wildcard
	// markers ("*cafe*"). Empty means a filter-only query.
	Text string

	// ContentTypes restricts rows to these content types.
	ContentTypes []string

	// Statuses is the allow-list of content statuses.
	Statuses []string

	// Fields are the logical indexed fields scored by the full-text match.
	Fields []string

	// Limit of zero means no limit.
	Limit  int
	Offset int
}

// HasText reports whether the descriptor matches on text, as opposed to a
// filter-only query.
func (d *Descriptor) HasText() bool {
	return d.Text != ""
}

// Compiled is a dialect specific SQL statement with its bind arguments.
type Compiled struct {
	SQL  string
	Args []any
}
