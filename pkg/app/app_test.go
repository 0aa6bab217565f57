package app

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsearch/pkg/config"
	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/query"
	"github.com/rubiojr/setsearch/pkg/storage"
)

func testApp(t *testing.T, extra string) *App {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "content.db")
	cfg, err := config.Parse([]byte(`
[database]
driver = "sqlite3"
dsn = "` + dsn + `"

[render]
extract_limit = 2
list_limit = 2
` + extra + `

[[sets]]
id = "posts"
content_type = "post"
label = "Articles"

[[sets]]
id = "pages"
content_type = "page"
label = "Pages"
`))
	require.NoError(t, err)

	a, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	ctx := context.Background()
	require.NoError(t, storage.BootstrapSQLite(ctx, a.Store().DB(), a.Store().Schema()))
	for _, r := range []storage.Record{
		{ContentType: "post", Title: "Le café du coin", Body: "Un **café** serré", Slug: "coin"},
		{ContentType: "post", Title: "Café crème", Body: "Du lait", Slug: "creme"},
		{ContentType: "post", Title: "Cafe noir", Body: "Sans sucre", Slug: "noir"},
		{ContentType: "page", Title: "Contact", Body: "Écrivez-nous", Slug: "contact"},
	} {
		_, err := storage.InsertSQLite(ctx, a.Store().DB(), query.DefaultSchema(), r)
		require.NoError(t, err)
	}
	return a
}

func TestRenderExtractView(t *testing.T) {
	a := testApp(t, "")

	out, sets, err := a.Render(context.Background(), a.Params(url.Values{"s": {"cafe"}}))
	require.NoError(t, err)
	require.Len(t, sets, 2)

	html := string(out)
	assert.Contains(t, html, `<span class="set-total">3</span> <span class="set-title">Articles</span>`)
	assert.Equal(t, 2, strings.Count(html, "<li>"))
	assert.Contains(t, html, `<a href="/?s=cafe&amp;t=posts&amp;v=list" class="search-all-res-in-cat">`)
	assert.Contains(t, html, `href="/post/coin/"`)
	assert.NotContains(t, html, "search-result-set-page-set")
}

func TestRenderListView(t *testing.T) {
	a := testApp(t, `fallback = "Nothing"`)

	p := a.Params(url.Values{"s": {"cafe"}, "t": {"posts"}, "v": {"list"}, "pageno": {"2"}})
	out, sets, err := a.Render(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Len(t, sets[0].Results, 1)

	html := string(out)
	assert.Contains(t, html, `<nav class="pagination">`)
	assert.Contains(t, html, `<span class="current">2</span>`)
	assert.NotContains(t, html, "search-all-res-in-cat")
}

func TestRenderFallback(t *testing.T) {
	a := testApp(t, `fallback = "Nothing <here>"`)

	out, _, err := a.Render(context.Background(), a.Params(url.Values{"s": {"zzzz"}}))
	require.NoError(t, err)
	assert.Equal(t, "Nothing &lt;here&gt;", string(out))
}

func TestRenderUnknownSet(t *testing.T) {
	a := testApp(t, "")

	_, _, err := a.Render(context.Background(), a.Params(url.Values{"s": {"cafe"}, "t": {"nope"}, "v": {"list"}}))
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestParamsCarryCSSClass(t *testing.T) {
	a := testApp(t, `css_class = "compact"`)
	p := a.Params(url.Values{"s": {"x"}})
	assert.Equal(t, "compact", p.Options.CSSClass)
	assert.Equal(t, 2, p.Options.Limit)
}
