// Package mapper turns raw content records into display results.
package mapper

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/log"
	"github.com/rubiojr/setsearch/pkg/storage"
)

// DefaultPermalinkPattern builds links for records without a stored permalink.
const DefaultPermalinkPattern = "/{type}/{slug}/"

// ContentFormatter renders a record body for display.
type ContentFormatter interface {
	Format(body string) (string, error)
}

// FormatterFunc adapts a function to ContentFormatter.
type FormatterFunc func(body string) (string, error)

func (f FormatterFunc) Format(body string) (string, error) { return f(body) }

// Markdown renders bodies as CommonMark.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New()}
}

func (m *Markdown) Format(body string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Raw leaves bodies untouched.
var Raw = FormatterFunc(func(body string) (string, error) { return body, nil })

type Option func(*Mapper)

// WithFormatter replaces the markdown body formatter.
func WithFormatter(f ContentFormatter) Option {
	return func(m *Mapper) { m.formatter = f }
}

// WithMediaBaseURL resolves relative thumbnails against base.
func WithMediaBaseURL(base string) Option {
	return func(m *Mapper) { m.mediaBase = strings.TrimRight(base, "/") }
}

// WithPermalinkPattern sets the fallback link pattern. {type}, {slug} and
// {id} are substituted. An empty pattern disables fallback links.
func WithPermalinkPattern(pattern string) Option {
	return func(m *Mapper) { m.pattern = pattern }
}

// Mapper builds core.SearchResult values from storage records.
type Mapper struct {
	formatter ContentFormatter
	mediaBase string
	pattern   string
	logger    *log.Logger
}

func New(opts ...Option) *Mapper {
	m := &Mapper{
		formatter: NewMarkdown(),
		pattern:   DefaultPermalinkPattern,
		logger:    log.ForService("mapper"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map converts r. Missing optional fields leave the matching result field
// empty.
func (m *Mapper) Map(ctx context.Context, r storage.Record) core.SearchResult {
	return core.SearchResult{
		Title:     r.Title,
		Content:   r.Excerpt + m.body(r),
		Link:      m.link(r),
		Thumbnail: m.thumbnail(r.Thumbnail),
	}
}

// MapAll converts records preserving their order.
func (m *Mapper) MapAll(ctx context.Context, records []storage.Record) []core.SearchResult {
	results := make([]core.SearchResult, 0, len(records))
	for _, r := range records {
		results = append(results, m.Map(ctx, r))
	}
	return results
}

func (m *Mapper) body(r storage.Record) string {
	if r.Body == "" || m.formatter == nil {
		return r.Body
	}
	out, err := m.formatter.Format(r.Body)
	if err != nil {
		m.logger.Warnf("formatting body of %s %d: %v", r.ContentType, r.ID, err)
		return r.Body
	}
	return out
}

func (m *Mapper) link(r storage.Record) string {
	if r.Permalink != "" {
		return r.Permalink
	}
	if m.pattern == "" {
		return ""
	}
	if strings.Contains(m.pattern, "{slug}") && r.Slug == "" {
		return ""
	}
	return strings.NewReplacer(
		"{type}", url.PathEscape(r.ContentType),
		"{slug}", url.PathEscape(r.Slug),
		"{id}", strconv.FormatInt(r.ID, 10),
	).Replace(m.pattern)
}

func (m *Mapper) thumbnail(thumb string) string {
	if thumb == "" || m.mediaBase == "" || strings.HasPrefix(thumb, "/") {
		return thumb
	}
	if u, err := url.Parse(thumb); err == nil && u.IsAbs() {
		return thumb
	}
	return m.mediaBase + "/" + thumb
}
