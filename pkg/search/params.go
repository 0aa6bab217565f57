package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rubiojr/setsearch/pkg/core"
)

// Request parameter names.
const (
	ParamQuery = "s"
	ParamSet   = "t"
	ParamView  = "v"
	ParamPage  = "pageno"
)

// Limits holds the page sizes of each view.
type Limits struct {
	Extract int
	List    int
}

// Params is a parsed search request.
type Params struct {
	Query   string
	Options core.Options
}

// ParseParams parses the query string of a search request. Unknown views
// fall back to the extract view and invalid pages to the first one.
func ParseParams(values url.Values, limits Limits) Params {
	p := Params{
		Query: strings.TrimSpace(values.Get(ParamQuery)),
		Options: core.Options{
			View:            core.ViewExtract,
			Limit:           limits.Extract,
			Page:            1,
			SearchServiceID: values.Get(ParamSet),
		},
	}

	if values.Get(ParamView) == core.ViewList {
		p.Options.View = core.ViewList
		p.Options.Limit = limits.List
	}

	if pageStr := values.Get(ParamPage); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			p.Options.Page = parsed
		}
	}

	return p
}
