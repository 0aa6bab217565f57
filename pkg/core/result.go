package core

// SearchResult is a single search hit, ready to be rendered.
//
// Results are built once by a mapper from a store record and never modified
// afterwards. Optional fields use the empty string to denote absence: a
// result with no Link renders without the wrapping anchor, a result with no
// Thumbnail renders without an image.
type SearchResult struct {
	// Title is the display title, highlighted but otherwise rendered as-is.
	Title string

	// Content is the raw text the snippet is cut from. It may still contain
	// markup; the snippet extractor strips it.
	Content string

	// Link is the permalink of the underlying document. Optional.
	Link string

	// Thumbnail is a reference (usually an URL) to a featured image. Optional.
	Thumbnail string
}

// HasLink reports whether the result carries a permalink.
func (r SearchResult) HasLink() bool { return r.Link != "" }

// HasThumbnail reports whether the result carries a thumbnail reference.
func (r SearchResult) HasThumbnail() bool { return r.Thumbnail != "" }

// SearchResultSet groups the results of one content collection.
//
// Results holds the current page only while TotalCount is the number of
// matches across the whole collection, so TotalCount >= len(Results).
type SearchResultSet struct {
	// ID selects the set in "see all" and pagination links. When empty the
	// renderers fall back to Options.SearchServiceID.
	ID string

	// Name is the machine key of the set, used for identification and as a
	// CSS hook (e.g. "post-set").
	Name string

	// Label is the human readable name of the set (e.g. "Articles").
	Label string

	// Results is the current page of results in relevance order.
	Results []SearchResult

	// TotalCount is the number of matches in the whole collection.
	TotalCount int
}

// NewSearchResultSet returns an empty set with the given name and label.
func NewSearchResultSet(name, label string) *SearchResultSet {
	return &SearchResultSet{
		Name:    name,
		Label:   label,
		Results: make([]SearchResult, 0),
	}
}

// Len returns the number of results on the current page.
func (s *SearchResultSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Results)
}

// IsEmpty reports whether the set has no match at all in its collection.
func (s *SearchResultSet) IsEmpty() bool {
	return s == nil || s.TotalCount <= 0
}
