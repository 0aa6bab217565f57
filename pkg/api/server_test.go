package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsearch/pkg/app"
	"github.com/rubiojr/setsearch/pkg/config"
	"github.com/rubiojr/setsearch/pkg/metrics"
	"github.com/rubiojr/setsearch/pkg/query"
	"github.com/rubiojr/setsearch/pkg/storage"
)

func newTestApp(t *testing.T, m *metrics.Metrics) *app.App {
	t.Helper()
	cfg, err := config.Parse([]byte(`
[database]
dsn = "` + filepath.Join(t.TempDir(), "content.db") + `"

[[sets]]
id = "posts"
content_type = "post"
label = "Articles"
`))
	require.NoError(t, err)

	a, err := app.Open(cfg, m)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	ctx := context.Background()
	require.NoError(t, storage.BootstrapSQLite(ctx, a.Store().DB(), a.Store().Schema()))
	_, err = storage.InsertSQLite(ctx, a.Store().DB(), query.DefaultSchema(), storage.Record{
		ContentType: "post", Title: "Le café du coin", Body: "Un café serré", Slug: "coin",
	})
	require.NoError(t, err)
	return a
}

func newTestServer(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	return NewServer(newTestApp(t, m), m), m
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/?s=cafe")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	body := rec.Body.String()
	assert.Contains(t, body, `<span class="set-title">Articles</span>`)
	assert.Contains(t, body, `<span class="match">café</span>`)
	assert.Contains(t, body, `value="cafe"`)
}

func TestSearchPageWithoutQuery(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "search-result-set")
}

func TestSearchPageUnknownSet(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/?s=cafe&t=nope&v=list")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "search-error")
}

func TestSearchAPI(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/api/search?s=cafe")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cafe", resp.Query)
	assert.Equal(t, "extract", resp.View)
	require.Len(t, resp.Sets, 1)
	assert.Equal(t, "posts", resp.Sets[0].ID)
	assert.Equal(t, "post-set", resp.Sets[0].Name)
	assert.Equal(t, 1, resp.Sets[0].TotalCount)
	assert.Equal(t, "/post/coin/", resp.Sets[0].Results[0].Link)
	assert.Contains(t, resp.HTML, "search-result-set-post-set")
}

func TestSearchAPIErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/api/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, s.Handler(), "/api/search?s=cafe&v=list&t=missing")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Error)

	// "c" matches the stored post, "c++" is not a valid pattern
	rec = get(t, s.Handler(), "/api/search?s=c%2B%2B")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Error)
	assert.Contains(t, resp.Message, "highlight pattern")

	rec = get(t, s.Handler(), "/?s=c%2B%2B")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "search-error")
}

func TestSearchAPIStoreFailure(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.App().Store().DB().Close())

	rec := get(t, s.Handler(), "/api/search?s=cafe")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "search_failed", resp.Error)
	assert.Equal(t, "Search failed", resp.Message)

	rec = get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	get(t, s.Handler(), "/?s=cafe")

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `setsearch_http_requests_total{method="GET",path="/",status="200"} 1`)
	assert.Contains(t, body, `setsearch_searches_total{set="post-set",status="ok"} 1`)
}

func TestRequestIDIsPropagated(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestGzip(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/?s="+strings.Repeat("cafe+", 300), nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<!DOCTYPE html>")
}

func TestSwap(t *testing.T) {
	s, m := newTestServer(t)
	old := s.App()
	next := newTestApp(t, m)

	assert.Same(t, old, s.Swap(next))
	assert.Same(t, next, s.App())
}
