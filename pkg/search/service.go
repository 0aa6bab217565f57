package search

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/log"
	"github.com/rubiojr/setsearch/pkg/mapper"
	"github.com/rubiojr/setsearch/pkg/metrics"
	"github.com/rubiojr/setsearch/pkg/query"
	"github.com/rubiojr/setsearch/pkg/storage"
)

// Store runs compiled descriptors. *storage.Store implements it.
type Store interface {
	Count(ctx context.Context, d *query.Descriptor) (int, error)
	Select(ctx context.Context, d *query.Descriptor) ([]storage.Record, error)
}

// Mapper converts a stored record into a display result.
type Mapper interface {
	Map(ctx context.Context, r storage.Record) core.SearchResult
}

// SetConfig describes one searchable set.
type SetConfig struct {
	// ID is the value of the "t" request parameter selecting the set.
	ID          string
	ContentType string
	// Name defaults to "<content type>-set".
	Name  string
	Label string
	// Statuses overrides the searchable statuses when not empty.
	Statuses []string
}

// Service searches a single content type.
type Service struct {
	cfg     SetConfig
	store   Store
	builder *query.Builder
	mapper  Mapper
	metrics *metrics.Metrics
	logger  *log.Logger
}

type Option func(*Service)

// WithBuilder replaces the query builder, e.g. to register mutators.
func WithBuilder(b *query.Builder) Option {
	return func(s *Service) { s.builder = b }
}

func WithMapper(m Mapper) Option {
	return func(s *Service) { s.mapper = m }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService returns a service for cfg backed by store.
func NewService(cfg SetConfig, store Store, opts ...Option) (*Service, error) {
	if cfg.ContentType == "" {
		return nil, core.NewConfigurationError("content_type", "set %q has no content type", cfg.ID)
	}
	if store == nil {
		return nil, fmt.Errorf("set %q: nil store", cfg.ID)
	}
	if cfg.ID == "" {
		cfg.ID = cfg.ContentType
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ContentType + "-set"
	}

	s := &Service{
		cfg:    cfg,
		store:  store,
		logger: log.ForService("search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		var bopts []query.BuilderOption
		if len(cfg.Statuses) > 0 {
			statuses := slices.Clone(cfg.Statuses)
			bopts = append(bopts, query.WithStatusPolicy(func([]string, []string, query.Mode) []string {
				return statuses
			}))
		}
		s.builder = query.NewBuilder(bopts...)
	}
	if s.mapper == nil {
		s.mapper = mapper.New()
	}
	return s, nil
}

// ID returns the identifier used by the "t" request parameter.
func (s *Service) ID() string { return s.cfg.ID }

// Config returns the set configuration with defaults applied.
func (s *Service) Config() SetConfig { return s.cfg }

// Search counts the matches of text and fetches the page selected by opts.
// Store failures are returned as *core.QueryExecutionError.
func (s *Service) Search(ctx context.Context, text string, opts core.Options) (*core.SearchResultSet, error) {
	set, err := s.search(ctx, text, opts)
	if err != nil {
		s.metrics.ObserveSearch(s.cfg.Name, 0, err)
		return nil, err
	}
	s.metrics.ObserveSearch(s.cfg.Name, set.TotalCount, nil)
	return set, nil
}

func (s *Service) search(ctx context.Context, text string, opts core.Options) (*core.SearchResultSet, error) {
	types := []string{s.cfg.ContentType}
	set := core.NewSearchResultSet(s.cfg.Name, s.cfg.Label)
	set.ID = s.cfg.ID

	count := s.builder.Build(text, types, query.ModeCount)
	start := time.Now()
	total, err := s.store.Count(ctx, count)
	s.metrics.ObserveQuery(s.cfg.Name, "count", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.cfg.Name, err)
	}
	set.TotalCount = total
	s.logger.Debugf("%s: %d matches for %q", s.cfg.Name, total, text)
	if total <= 0 {
		return set, nil
	}

	sel := s.builder.Build(text, types, query.ModeSelect)
	sel.Limit = opts.Limit
	sel.Offset = opts.EffectiveOffset()
	start = time.Now()
	records, err := s.store.Select(ctx, sel)
	s.metrics.ObserveQuery(s.cfg.Name, "select", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.cfg.Name, err)
	}

	set.Results = make([]core.SearchResult, 0, len(records))
	for _, r := range records {
		set.Results = append(set.Results, s.mapper.Map(ctx, r))
	}
	s.logger.Debugf("%s: fetched %d results (limit %d, offset %d)", s.cfg.Name, len(records), sel.Limit, sel.Offset)
	return set, nil
}
