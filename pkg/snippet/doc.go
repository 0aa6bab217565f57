// Package snippet cuts short, highlighted excerpts out of search result
// content.
//
// An excerpt is built in three steps:
//
//  1. Normalize: markup is stripped and carriage returns are turned into
//     spaces.
//  2. Locate: the query is searched for in an accent folded, lower cased
//     copy of the text ("cafe" finds "Café"). When the query is empty or
//     cannot be found the position is 0, so the excerpt shows the start of
//     the text.
//  3. Window: a fixed width window (140 runes by default) is cut around
//     the position, with "..." markers, and every occurrence of the query
//     is wrapped in <span class="match">.
//
// The window math is kept exactly as deployed sites expect it, quirks
// included: the second bound is clamped to the window width and is used as
// a length, not as an end offset.
//
// # Highlight patterns
//
// The query is used as a regular expression when highlighting and is not
// escaped, so "c.t" highlights "cat" and "cut". A query that is not a valid
// RE2 expression, like "(", makes Extract return a *HighlightPatternError.
// Callers that need literal matching set Extractor.QuoteQuery.
//
// Output is HTML: the text around and inside the highlight spans is escaped.
package snippet
