// Package app assembles the search pipeline described by a configuration:
// store, set services, renderer and aggregator.
package app

import (
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/rubiojr/setsearch/pkg/config"
	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/i18n"
	"github.com/rubiojr/setsearch/pkg/log"
	"github.com/rubiojr/setsearch/pkg/mapper"
	"github.com/rubiojr/setsearch/pkg/metrics"
	"github.com/rubiojr/setsearch/pkg/query"
	"github.com/rubiojr/setsearch/pkg/render"
	"github.com/rubiojr/setsearch/pkg/search"
	"github.com/rubiojr/setsearch/pkg/snippet"
	"github.com/rubiojr/setsearch/pkg/storage"
)

// App is an immutable search pipeline. Build a new one to apply a
// configuration change.
type App struct {
	cfg        *config.Config
	store      *storage.Store
	searcher   *search.Searcher
	aggregator *render.Aggregator
	translator *i18n.Catalog
	ownsStore  bool
}

// Open connects to the configured database and builds the pipeline.
func Open(cfg *config.Config, m *metrics.Metrics) (*App, error) {
	dialect, err := query.DialectByName(cfg.Database.Dialect)
	if err != nil {
		return nil, core.NewConfigurationError("database.dialect", "%v", err)
	}
	store, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN, dialect, cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a, err := New(cfg, store, m)
	if err != nil {
		store.Close()
		return nil, err
	}
	a.ownsStore = true
	return a, nil
}

// New builds the pipeline on an existing store. Closing the app leaves the
// store open.
func New(cfg *config.Config, store *storage.Store, m *metrics.Metrics) (*App, error) {
	translator, err := i18n.New(cfg.I18n.Locale, cfg.I18n.Messages)
	if err != nil {
		return nil, err
	}

	var mopts []mapper.Option
	if cfg.Mapper.MediaBaseURL != "" {
		mopts = append(mopts, mapper.WithMediaBaseURL(cfg.Mapper.MediaBaseURL))
	}
	if cfg.Mapper.PermalinkPattern != "" {
		mopts = append(mopts, mapper.WithPermalinkPattern(cfg.Mapper.PermalinkPattern))
	}
	if cfg.Mapper.Format == "raw" {
		mopts = append(mopts, mapper.WithFormatter(mapper.Raw))
	}
	mp := mapper.New(mopts...)

	services := make([]*search.Service, 0, len(cfg.Sets))
	for _, set := range cfg.Sets {
		svc, err := search.NewService(search.SetConfig{
			ID:          set.SetID(),
			ContentType: set.ContentType,
			Name:        set.Name,
			Label:       set.Label,
			Statuses:    set.Statuses,
		}, store, search.WithMapper(mp), search.WithMetrics(m))
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	searcher, err := search.NewSearcher(services...)
	if err != nil {
		return nil, err
	}
	searcher.SetWorkers(cfg.Server.Workers)

	renderer := render.NewRenderer(
		render.WithExtractor(&snippet.Extractor{Width: cfg.Render.SnippetWidth, QuoteQuery: cfg.Render.QuoteQuery}),
		render.WithPaginator(render.NumberedPaginator{MaxLinks: cfg.Render.MaxPageLinks}),
		render.WithTranslator(translator),
		render.WithBasePath(cfg.Render.BasePath),
	)

	log.ForService("app").Debugf("pipeline ready: %d sets, dialect %s", len(services), store.Dialect().Name())
	return &App{
		cfg:        cfg,
		store:      store,
		searcher:   searcher,
		aggregator: render.NewAggregator(renderer, render.StaticFallback(cfg.Render.Fallback)),
		translator: translator,
	}, nil
}

func (a *App) Config() *config.Config    { return a.cfg }
func (a *App) Store() *storage.Store      { return a.store }
func (a *App) Searcher() *search.Searcher { return a.searcher }
func (a *App) Translator() *i18n.Catalog  { return a.translator }

// Params parses request parameters with the configured page sizes.
func (a *App) Params(values url.Values) search.Params {
	p := search.ParseParams(values, search.Limits{
		Extract: a.cfg.Render.ExtractLimit,
		List:    a.cfg.Render.ListLimit,
	})
	p.Options.CSSClass = a.cfg.Render.CSSClass
	return p
}

// Search runs p over the configured sets.
func (a *App) Search(ctx context.Context, p search.Params) ([]*core.SearchResultSet, error) {
	return a.searcher.Search(ctx, p.Query, p.Options)
}

// Render searches and renders the aggregated markup.
func (a *App) Render(ctx context.Context, p search.Params) (template.HTML, []*core.SearchResultSet, error) {
	sets, err := a.Search(ctx, p)
	if err != nil {
		return "", nil, err
	}
	out, err := a.aggregator.Render(sets, p.Query, p.Options)
	if err != nil {
		return "", nil, err
	}
	return out, sets, nil
}

// Close releases the store when the app opened it.
func (a *App) Close() error {
	if a.ownsStore {
		return a.store.Close()
	}
	return nil
}
