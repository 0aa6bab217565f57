// Package render turns search result sets into HTML fragments.
//
// A SetRenderer renders one core.SearchResultSet: a header with the total
// count and label, one list item per result with a highlighted title and a
// content snippet, then either a pagination block (list view) or a "see all
// results" link (extract view). An Aggregator concatenates the fragments of
// several sets and falls back to a "no result" message when nothing was
// rendered.
//
// The markup keeps stable class hooks for stylesheets:
//
//	search-result-set, search-result-set-<view>, search-result-set-<name>
//	seat-head, set-total, set-title
//	set-results, res-thumb, res-title, res-content, match
//	search-go-back, search-all-res-in-cat
//
// Links follow the query string contract of the search page: s (query),
// t (set id), v=list and pageno, whose value is the literal {pageno}
// placeholder the Paginator substitutes.
package render
