package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rubiojr/setsearch/pkg/core"
)

// Searcher runs a query over several services.
type Searcher struct {
	services []*Service
	index    map[string]*Service
	workers  int
}

// NewSearcher keeps services in the given order. IDs must be unique.
func NewSearcher(services ...*Service) (*Searcher, error) {
	s := &Searcher{index: make(map[string]*Service, len(services))}
	for _, svc := range services {
		if svc == nil {
			continue
		}
		if _, dup := s.index[svc.ID()]; dup {
			return nil, core.NewConfigurationError("sets", "duplicate set id %q", svc.ID())
		}
		s.index[svc.ID()] = svc
		s.services = append(s.services, svc)
	}
	return s, nil
}

// SetWorkers bounds the number of concurrent set searches. Zero or less
// means one goroutine per set.
func (s *Searcher) SetWorkers(n int) { s.workers = n }

// Services returns the services in search order.
func (s *Searcher) Services() []*Service { return s.services }

// Service returns the service with id.
func (s *Searcher) Service(id string) (*Service, bool) {
	svc, ok := s.index[id]
	return svc, ok
}

// Search runs text against every service and returns the sets in service
// order. In the list view only the service selected by
// opts.SearchServiceID runs, and an unknown id is a configuration error.
// The first failure cancels the remaining searches.
func (s *Searcher) Search(ctx context.Context, text string, opts core.Options) ([]*core.SearchResultSet, error) {
	services := s.services
	if opts.IsList() {
		svc, ok := s.index[opts.SearchServiceID]
		if !ok {
			return nil, core.NewConfigurationError("t", "unknown result set %q", opts.SearchServiceID)
		}
		services = []*Service{svc}
	}

	eg, ctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		eg.SetLimit(s.workers)
	}

	sets := make([]*core.SearchResultSet, len(services))
	for i, svc := range services {
		eg.Go(func() error {
			set, err := svc.Search(ctx, text, opts)
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}
