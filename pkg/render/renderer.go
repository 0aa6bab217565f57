package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/i18n"
	"github.com/rubiojr/setsearch/pkg/snippet"
)

// Translator resolves message keys.
type Translator interface {
	Translate(key string) string
}

// SetRenderer renders a single result set.
type SetRenderer interface {
	Render(set *core.SearchResultSet, query string, opts core.Options) (template.HTML, error)
}

type Option func(*Renderer)

func WithExtractor(e *snippet.Extractor) Option {
	return func(r *Renderer) { r.extractor = e }
}

func WithPaginator(p Paginator) Option {
	return func(r *Renderer) { r.paginator = p }
}

func WithTranslator(t Translator) Option {
	return func(r *Renderer) { r.translator = t }
}

// WithBasePath sets the path of the search page links point to.
func WithBasePath(path string) Option {
	return func(r *Renderer) {
		if path != "" {
			r.basePath = path
		}
	}
}

// Renderer is the default SetRenderer.
type Renderer struct {
	extractor  *snippet.Extractor
	paginator  Paginator
	translator Translator
	basePath   string
}

// NewRenderer returns a renderer using a 140 character snippet window,
// numbered pagination and English messages unless overridden.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		extractor: snippet.New(snippet.DefaultWidth),
		paginator: NumberedPaginator{},
		basePath:  "/",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.translator == nil {
		r.translator = i18n.MustNew("en")
	}
	return r
}

// Render returns the markup of set. Sets with no matches render nothing.
// The list view needs opts.Limit for pagination and fails with a
// *core.ConfigurationError without it.
func (r *Renderer) Render(set *core.SearchResultSet, query string, opts core.Options) (template.HTML, error) {
	if set == nil || set.TotalCount <= 0 {
		return "", nil
	}
	list := opts.IsList()
	if list && !opts.HasLimit() {
		return "", core.NewConfigurationError("limit", "list view of %q needs a page size", set.Name)
	}
	if len(set.Results) == 0 {
		return "", nil
	}

	v := setView{
		List:     list,
		View:     opts.ViewName(),
		Name:     SanitizeName(set.Name),
		Total:    set.TotalCount,
		Label:    set.Label,
		CSSClass: opts.CSSClass,
	}

	for _, res := range set.Results {
		item, err := r.item(res, query)
		if err != nil {
			return "", err
		}
		v.Items = append(v.Items, item)
	}

	setID := set.ID
	if setID == "" {
		setID = opts.SearchServiceID
	}
	base := r.listURL(query, setID)
	if list {
		v.BackURL = r.backURL(query)
		v.BackLabel = r.translator.Translate(i18n.BackToResults)
		pagination, err := r.paginator.Paginate(Pagination{
			TotalObjects: set.TotalCount,
			PerPage:      opts.Limit,
			URL:          base + "&pageno=" + PagePlaceholder,
			CurrentPage:  opts.CurrentPage(),
		})
		if err != nil {
			return "", fmt.Errorf("paginating %s: %w", set.Name, err)
		}
		v.Pagination = pagination
	} else if !opts.HasLimit() || set.TotalCount > opts.Limit {
		v.SeeAllURL = base
		v.SeeAllLabel = r.translator.Translate(i18n.SeeAllResults)
	}

	var buf bytes.Buffer
	if err := setTmpl.ExecuteTemplate(&buf, "set", v); err != nil {
		return "", fmt.Errorf("rendering %s: %w", set.Name, err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) item(res core.SearchResult, query string) (itemView, error) {
	title, err := r.extractor.Highlight(res.Title, query)
	if err != nil {
		return itemView{}, err
	}
	item := itemView{Link: res.Link, Thumbnail: res.Thumbnail, Title: template.HTML(title)}
	if res.Content != "" {
		content, err := r.extractor.Extract(res.Content, query)
		if err != nil {
			return itemView{}, err
		}
		item.HasContent = true
		item.Content = template.HTML(content)
	}
	return item, nil
}

func (r *Renderer) listURL(query, setID string) string {
	q := url.Values{}
	q.Set("s", query)
	q.Set("t", setID)
	q.Set("v", core.ViewList)
	return r.basePath + "?" + q.Encode()
}

func (r *Renderer) backURL(query string) string {
	return r.basePath + "?s=" + url.QueryEscape(query)
}
