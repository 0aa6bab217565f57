package query

import (
	"slices"
	"strings"
)

// Default searchable statuses.
var DefaultStatuses = []string{"publish", "private"}

// AttachmentType is the content type whose rows keep the status of their
// parent, hence the extra "inherit" status.
const AttachmentType = "attachment"

// StatusPolicy decides which statuses are searchable for the given content
// types and mode. It receives the default allow-list and returns the one to
// use. Returning an empty list disables status filtering.
type StatusPolicy func(statuses, contentTypes []string, mode Mode) []string

// Mutator rewrites a descriptor after it has been built. It receives the
// raw search text (before wildcard wrapping).
type Mutator func(d *Descriptor, text string)

// Builder turns search text into descriptors.
type Builder struct {
	statusPolicy StatusPolicy
	mutators     []Mutator
	fields       []string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithStatusPolicy overrides the searchable statuses.
func WithStatusPolicy(p StatusPolicy) BuilderOption {
	return func(b *Builder) { b.statusPolicy = p }
}

// WithMutator registers a descriptor mutator. Mutators run in registration order.
func WithMutator(m Mutator) BuilderOption {
	return func(b *Builder) { b.mutators = append(b.mutators, m) }
}

// NewBuilder returns a builder scoring on IndexedFields.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{fields: IndexedFields}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the descriptor for text restricted to contentTypes.
//
// Non-empty text is trimmed of '*' and wrapped in wildcard markers for
// substring style boolean matching. Empty text yields a filter-only
// descriptor: status and type filters apply, nothing is scored.
func (b *Builder) Build(text string, contentTypes []string, mode Mode) *Descriptor {
	d := &Descriptor{
		Mode:         mode,
		ContentTypes: slices.Clone(contentTypes),
		Statuses:     b.statuses(contentTypes, mode),
		Fields:       slices.Clone(b.fields),
	}

	if t := strings.Trim(strings.TrimSpace(text), "*"); t != "" {
		d.Text = "*" + t + "*"
	}

	for _, m := range b.mutators {
		m(d, text)
	}
	return d
}

func (b *Builder) statuses(contentTypes []string, mode Mode) []string {
	statuses := slices.Clone(DefaultStatuses)
	if slices.Contains(contentTypes, AttachmentType) {
		statuses = append(statuses, "inherit")
	}
	if b.statusPolicy != nil {
		statuses = b.statusPolicy(statuses, contentTypes, mode)
	}
	return statuses
}

// Terms splits boolean mode text into bare search terms, dropping the
// wildcard and operator characters.
func Terms(text string) []string {
	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `*+-~<>()"'@`)
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}
