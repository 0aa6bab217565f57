package query

import (
	"fmt"
	"regexp"
)

// Logical field names understood by descriptors.
const (
	FieldTitle   = "title"
	FieldBody    = "body"
	FieldExcerpt = "excerpt"
	FieldSlug    = "slug"
)

// IndexedFields is the fixed list of fields the full-text index covers.
var IndexedFields = []string{FieldTitle, FieldBody, FieldExcerpt, FieldSlug}

// Schema maps logical columns to the physical content table.
type Schema struct {
	Table       string `toml:"table"`
	ID          string `toml:"id"`
	ContentType string `toml:"content_type"`
	Status      string `toml:"status"`
	Title       string `toml:"title"`
	Body        string `toml:"body"`
	Excerpt     string `toml:"excerpt"`
	Slug        string `toml:"slug"`
	Thumbnail   string `toml:"thumbnail"`
	Permalink   string `toml:"permalink"`
}

// DefaultSchema returns the column layout of a stock "posts" table.
func DefaultSchema() Schema {
	return Schema{
		Table:       "posts",
		ID:          "id",
		ContentType: "content_type",
		Status:      "status",
		Title:       "title",
		Body:        "body",
		Excerpt:     "excerpt",
		Slug:        "slug",
		Thumbnail:   "thumbnail",
		Permalink:   "permalink",
	}
}

// WithDefaults fills empty columns from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.Table, d.Table)
	fill(&s.ID, d.ID)
	fill(&s.ContentType, d.ContentType)
	fill(&s.Status, d.Status)
	fill(&s.Title, d.Title)
	fill(&s.Body, d.Body)
	fill(&s.Excerpt, d.Excerpt)
	fill(&s.Slug, d.Slug)
	fill(&s.Thumbnail, d.Thumbnail)
	fill(&s.Permalink, d.Permalink)
	return s
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate makes sure every name is a plain SQL identifier, since table and
// column names cannot be bound as arguments.
func (s Schema) Validate() error {
	for name, v := range map[string]string{
		"table":        s.Table,
		"id":           s.ID,
		"content_type": s.ContentType,
		"status":       s.Status,
		"title":        s.Title,
		"body":         s.Body,
		"excerpt":      s.Excerpt,
		"slug":         s.Slug,
		"thumbnail":    s.Thumbnail,
		"permalink":    s.Permalink,
	} {
		if !identifier.MatchString(v) {
			return fmt.Errorf("schema %s: invalid identifier %q", name, v)
		}
	}
	return nil
}

// Column returns the physical column of a logical field.
func (s Schema) Column(field string) (string, bool) {
	switch field {
	case FieldTitle:
		return s.Title, true
	case FieldBody:
		return s.Body, true
	case FieldExcerpt:
		return s.Excerpt, true
	case FieldSlug:
		return s.Slug, true
	}
	return "", false
}

// Columns returns the physical columns of fields, in order.
func (s Schema) Columns(fields []string) ([]string, error) {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		c, ok := s.Column(f)
		if !ok {
			return nil, fmt.Errorf("unknown indexed field %q", f)
		}
		cols = append(cols, c)
	}
	return cols, nil
}
