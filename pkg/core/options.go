package core

import "strings"

// View modes understood by the renderers.
const (
	// ViewList renders a single set with pagination.
	ViewList = "list"
	// ViewExtract renders a grouped summary of every set with "see all" links.
	ViewExtract = "extract"
)

// Options carries the per-request rendering and paging options.
type Options struct {
	// View is either ViewList or ViewExtract. Anything other than ViewList
	// is treated as an extract view.
	View string

	// Limit is the page size. Zero means unset.
	Limit int

	// Page is the 1-based current page, used by pagination.
	Page int

	// Offset is the number of results to skip. When zero it is derived
	// from Page and Limit, see EffectiveOffset.
	Offset int

	// SearchServiceID identifies the set a list view browses. It is also
	// carried in "see all" and pagination links.
	SearchServiceID string

	// CSSClass is an optional extra class for the results list.
	CSSClass string
}

// IsList reports whether the options select the paginated list view.
func (o Options) IsList() bool {
	return o.View == ViewList
}

// HasLimit reports whether a page size was requested.
func (o Options) HasLimit() bool {
	return o.Limit > 0
}

// CurrentPage returns Page, defaulting to 1.
func (o Options) CurrentPage() int {
	if o.Page < 1 {
		return 1
	}
	return o.Page
}

// EffectiveOffset returns the explicit Offset when set, otherwise the offset
// of the current page.
func (o Options) EffectiveOffset() int {
	if o.Offset > 0 {
		return o.Offset
	}
	if o.HasLimit() && o.CurrentPage() > 1 {
		return (o.CurrentPage() - 1) * o.Limit
	}
	return 0
}

// ViewName returns the view used in CSS hooks.
func (o Options) ViewName() string {
	if v := strings.TrimSpace(o.View); v != "" {
		return v
	}
	return ViewExtract
}

// QueryContext is the input of a single search request. It is created per
// request, consumed once and discarded.
type QueryContext struct {
	Text    string
	Options Options
}
