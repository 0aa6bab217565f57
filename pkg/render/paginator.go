package render

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"github.com/rubiojr/setsearch/pkg/core"
)

// PagePlaceholder is replaced by the page number in pagination URLs.
const PagePlaceholder = "{pageno}"

// Pagination is the input of a Paginator.
type Pagination struct {
	TotalObjects int
	PerPage      int
	// URL contains PagePlaceholder.
	URL         string
	CurrentPage int
}

// Pages returns the number of pages needed for TotalObjects.
func (p Pagination) Pages() int {
	if p.PerPage <= 0 || p.TotalObjects <= 0 {
		return 0
	}
	return (p.TotalObjects + p.PerPage - 1) / p.PerPage
}

// PageURL returns URL for page n.
func (p Pagination) PageURL(n int) string {
	return strings.ReplaceAll(p.URL, PagePlaceholder, strconv.Itoa(n))
}

// Paginator renders pagination links.
type Paginator interface {
	Paginate(p Pagination) (template.HTML, error)
}

// NumberedPaginator renders previous/next links around page numbers.
// A single page renders nothing.
type NumberedPaginator struct {
	// MaxLinks bounds the number of page links around the current page.
	// Zero shows every page.
	MaxLinks int
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

func (n NumberedPaginator) Paginate(p Pagination) (template.HTML, error) {
	if p.PerPage <= 0 {
		return "", core.NewConfigurationError("limit", "pagination needs a positive page size, got %d", p.PerPage)
	}
	pages := p.Pages()
	if pages <= 1 {
		return "", nil
	}

	current := min(max(p.CurrentPage, 1), pages)
	first, last := 1, pages
	if n.MaxLinks > 0 && pages > n.MaxLinks {
		first = max(current-n.MaxLinks/2, 1)
		last = first + n.MaxLinks - 1
		if last > pages {
			last = pages
			first = last - n.MaxLinks + 1
		}
	}

	data := struct {
		Prev  string
		Next  string
		Pages []pageLink
	}{}
	if current > 1 {
		data.Prev = p.PageURL(current - 1)
	}
	if current < pages {
		data.Next = p.PageURL(current + 1)
	}
	for i := first; i <= last; i++ {
		data.Pages = append(data.Pages, pageLink{Number: i, URL: p.PageURL(i), Current: i == current})
	}

	var buf bytes.Buffer
	if err := paginationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
