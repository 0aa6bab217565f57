// Package search runs grouped full-text searches over content sets.
//
// # Overview
//
// A Service searches a single content type and returns a core.SearchResultSet:
// a COUNT query reports the total number of matches, then a SELECT query
// fetches the requested page ordered by relevance, and every row goes
// through a Mapper.
//
// A Searcher fans a query out over several services concurrently and
// returns their sets in configuration order. In the list view only the
// service named by core.Options.SearchServiceID runs.
//
// # Usage
//
//	store, _ := storage.Open("sqlite3", "content.db", query.SQLite, query.DefaultSchema())
//	posts, _ := search.NewService(search.SetConfig{ID: "posts", ContentType: "post", Label: "Articles"}, store)
//	pages, _ := search.NewService(search.SetConfig{ID: "pages", ContentType: "page", Label: "Pages"}, store)
//	searcher, _ := search.NewSearcher(posts, pages)
//	sets, err := searcher.Search(ctx, "cafe", core.Options{View: core.ViewExtract, Limit: 5})
//
// # Request parameters
//
// ParseParams reads the query string contract shared with the renderers:
// s (search text), t (set id), v (view) and pageno (1-based page).
package search
