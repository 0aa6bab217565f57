package snippet

import (
	"html"
	"regexp"
	"strings"
)

const (
	// DefaultWidth is the default window width, in runes.
	DefaultWidth = 140

	// Ellipsis marks text cut from either side of a window.
	Ellipsis = "..."

	matchOpen  = `<span class="match">`
	matchClose = `</span>`
)

// Extractor builds highlighted excerpts. The zero value is ready to use and
// safe for concurrent use.
type Extractor struct {
	// Width is the window width in runes. Zero means DefaultWidth.
	Width int

	// QuoteQuery makes highlighting match the query literally instead of
	// using it as a regular expression.
	QuoteQuery bool
}

// New returns an extractor with the given window width.
func New(width int) *Extractor {
	return &Extractor{Width: width}
}

var defaultExtractor = &Extractor{}

// Extract runs the default extractor, see Extractor.Extract.
func Extract(content, query string) (string, error) {
	return defaultExtractor.Extract(content, query)
}

// Highlight runs the default extractor, see Extractor.Highlight.
func Highlight(text, query string) (string, error) {
	return defaultExtractor.Highlight(text, query)
}

func (e *Extractor) width() int {
	if e == nil || e.Width <= 0 {
		return DefaultWidth
	}
	return e.Width
}

// Extract returns the highlighted excerpt of content around the first
// occurrence of query. The result is HTML and may be empty.
func (e *Extractor) Extract(content, query string) (string, error) {
	text := Normalize(content)
	return e.Highlight(e.Window(text, Locate(text, query)), query)
}

// Window cuts the excerpt of text around the rune position pos.
//
// The lower bound is pos-ceil(width/2), clamped to 0 (in which case no
// leading ellipsis is added). The upper bound pos+ceil(width/2) is clamped
// to width and then used as a length starting at the lower bound. A window
// that would only contain the trailing ellipsis is returned empty.
func (e *Extractor) Window(text string, pos int) string {
	w := e.width()
	half := (w + 1) / 2

	lower, upper := pos-half, pos+half

	start, prefix := 0, ""
	if lower >= 0 {
		start, prefix = lower, Ellipsis
	}

	length := upper
	if upper > w {
		length = w
	}

	out := prefix + substr(text, start, length) + Ellipsis
	if out == Ellipsis {
		return ""
	}
	return out
}

// substr returns length runes of s starting at rune start, truncated at the
// end of s.
func substr(s string, start, length int) string {
	if length <= 0 {
		return ""
	}
	rs := []rune(s)
	if start >= len(rs) {
		return ""
	}
	end := start + length
	if end > len(rs) {
		end = len(rs)
	}
	return string(rs[start:end])
}

// Highlight escapes text for HTML and wraps every case and accent
// insensitive occurrence of query in a match span. An empty query only
// escapes the text.
func (e *Extractor) Highlight(text, query string) (string, error) {
	if query == "" {
		return html.EscapeString(text), nil
	}

	re, err := e.pattern(query)
	if err != nil {
		return "", err
	}

	f := fold(text, false)
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(f.text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		from, to := f.source(loc[0], loc[1])
		if from < last {
			continue
		}
		b.WriteString(html.EscapeString(text[last:from]))
		b.WriteString(matchOpen)
		b.WriteString(html.EscapeString(text[from:to]))
		b.WriteString(matchClose)
		last = to
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String(), nil
}

func (e *Extractor) pattern(query string) (*regexp.Regexp, error) {
	expr := FoldAccents(query)
	if e != nil && e.QuoteQuery {
		expr = regexp.QuoteMeta(expr)
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, &HighlightPatternError{Pattern: query, Err: err}
	}
	return re, nil
}
