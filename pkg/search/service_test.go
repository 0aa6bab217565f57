package search

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/mapper"
	"github.com/rubiojr/setsearch/pkg/metrics"
	"github.com/rubiojr/setsearch/pkg/query"
	"github.com/rubiojr/setsearch/pkg/storage"
)

type fakeStore struct {
	mu       sync.Mutex
	totals   map[string]int
	records  map[string][]storage.Record
	countErr error
	selErr   error
	seen     []*query.Descriptor
}

func (f *fakeStore) record(d *query.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, d)
}

func (f *fakeStore) Count(_ context.Context, d *query.Descriptor) (int, error) {
	f.record(d)
	if f.countErr != nil {
		return 0, &core.QueryExecutionError{Op: "count", ContentType: d.ContentTypes[0], Err: f.countErr}
	}
	return f.totals[d.ContentTypes[0]], nil
}

func (f *fakeStore) Select(_ context.Context, d *query.Descriptor) ([]storage.Record, error) {
	f.record(d)
	if f.selErr != nil {
		return nil, &core.QueryExecutionError{Op: "select", ContentType: d.ContentTypes[0], Err: f.selErr}
	}
	return f.records[d.ContentTypes[0]], nil
}

func newFake() *fakeStore {
	return &fakeStore{
		totals: map[string]int{"post": 5, "page": 0},
		records: map[string][]storage.Record{
			"post": {
				{ID: 3, ContentType: "post", Title: "Le café", Body: "un café", Slug: "le-cafe"},
				{ID: 2, ContentType: "post", Title: "Cafe au lait", Body: "lait", Slug: "lait"},
				{ID: 1, ContentType: "post", Title: "Cafe noir", Body: "noir", Permalink: "/noir"},
			},
		},
	}
}

func TestServiceSearch(t *testing.T) {
	store := newFake()
	svc, err := NewService(SetConfig{ID: "posts", ContentType: "post", Label: "Articles"}, store,
		WithMapper(mapper.New(mapper.WithFormatter(mapper.Raw))))
	require.NoError(t, err)

	set, err := svc.Search(context.Background(), "cafe", core.Options{Limit: 3, Page: 2})
	require.NoError(t, err)

	assert.Equal(t, "posts", set.ID)
	assert.Equal(t, "post-set", set.Name)
	assert.Equal(t, "Articles", set.Label)
	assert.Equal(t, 5, set.TotalCount)
	require.Len(t, set.Results, 3)
	assert.Equal(t, "Le café", set.Results[0].Title)
	assert.Equal(t, "/post/le-cafe/", set.Results[0].Link)
	assert.Equal(t, "/noir", set.Results[2].Link)

	require.Len(t, store.seen, 2)
	count, sel := store.seen[0], store.seen[1]
	assert.Equal(t, query.ModeCount, count.Mode)
	assert.Equal(t, "*cafe*", count.Text)
	assert.Equal(t, []string{"post"}, count.ContentTypes)
	assert.Equal(t, query.ModeSelect, sel.Mode)
	assert.Equal(t, 3, sel.Limit)
	assert.Equal(t, 3, sel.Offset)
}

func TestServiceSkipsSelectWithoutMatches(t *testing.T) {
	store := newFake()
	svc, err := NewService(SetConfig{ContentType: "page"}, store)
	require.NoError(t, err)

	set, err := svc.Search(context.Background(), "cafe", core.Options{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "page", svc.ID())
	assert.Equal(t, "page-set", set.Name)
	assert.True(t, set.IsEmpty())
	assert.Len(t, store.seen, 1)
}

func TestServiceStoreFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	store := newFake()
	store.selErr = errors.New("disk I/O error")
	svc, err := NewService(SetConfig{ContentType: "post"}, store, WithMetrics(m))
	require.NoError(t, err)

	set, err := svc.Search(context.Background(), "cafe", core.Options{Limit: 5})
	assert.Nil(t, set)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQueryExecution)

	var qerr *core.QueryExecutionError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "select", qerr.Op)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("post-set", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryErrorsTotal.WithLabelValues("post-set", "select")))
}

func TestServiceStatusOverride(t *testing.T) {
	store := newFake()
	svc, err := NewService(SetConfig{ContentType: "post", Statuses: []string{"publish"}}, store)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "", core.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"publish"}, store.seen[0].Statuses)
	assert.False(t, store.seen[0].HasText())
}

func TestNewServiceRequiresContentType(t *testing.T) {
	_, err := NewService(SetConfig{ID: "x"}, newFake())
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestParseParams(t *testing.T) {
	limits := Limits{Extract: 5, List: 20}

	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{
			name:  "extract view defaults",
			query: "s=cafe",
			want:  Params{Query: "cafe", Options: core.Options{View: core.ViewExtract, Limit: 5, Page: 1}},
		},
		{
			name:  "list view",
			query: "s=cafe&t=posts&v=list&pageno=3",
			want:  Params{Query: "cafe", Options: core.Options{View: core.ViewList, Limit: 20, Page: 3, SearchServiceID: "posts"}},
		},
		{
			name:  "invalid page defaults to first",
			query: "s=x&v=list&pageno=-2",
			want:  Params{Query: "x", Options: core.Options{View: core.ViewList, Limit: 20, Page: 1}},
		},
		{
			name:  "unknown view is extract",
			query: "s=+spaced+&v=grid",
			want:  Params{Query: "spaced", Options: core.Options{View: core.ViewExtract, Limit: 5, Page: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParseParams(values, limits))
		})
	}
}
