package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/snippet"
	"github.com/rubiojr/setsearch/pkg/version"
)

// HandleSearch answers with the sets and rendered markup as JSON.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	a := s.App()
	p := a.Params(r.URL.Query())
	if p.Query == "" {
		s.writeError(w, http.StatusBadRequest, "missing_query", "Query parameter 's' is required")
		return
	}

	out, sets, err := a.Render(r.Context(), p)
	if err != nil {
		status, code := s.classify(r, err)
		msg := "Search failed"
		if status == http.StatusBadRequest {
			msg = err.Error()
		}
		s.writeError(w, status, code, msg)
		return
	}

	resp := SearchResponse{
		Query: p.Query,
		View:  p.Options.ViewName(),
		Page:  p.Options.CurrentPage(),
		Limit: p.Options.Limit,
		Sets:  make([]SetResponse, 0, len(sets)),
		HTML:  string(out),
	}
	for _, set := range sets {
		sr := SetResponse{
			ID:         set.ID,
			Name:       set.Name,
			Label:      set.Label,
			TotalCount: set.TotalCount,
			Results:    make([]ResultResponse, 0, set.Len()),
		}
		for _, res := range set.Results {
			sr.Results = append(sr.Results, ResultResponse{
				Title:     res.Title,
				Content:   res.Content,
				Link:      res.Link,
				Thumbnail: res.Thumbnail,
			})
		}
		resp.Sets = append(resp.Sets, sr)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// HandleSearchPage renders the HTML search page.
func (s *Server) HandleSearchPage(w http.ResponseWriter, r *http.Request) {
	a := s.App()
	p := a.Params(r.URL.Query())
	data := pageData{Query: p.Query, BasePath: a.Config().Render.BasePath}

	status := http.StatusOK
	if p.Query != "" {
		out, _, err := a.Render(r.Context(), p)
		if err != nil {
			status, _ = s.classify(r, err)
			data.Error = http.StatusText(status)
			if status == http.StatusBadRequest {
				data.Error = err.Error()
			}
		} else {
			data.Results = out
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Errorf("[%s] rendering page: %v", GetRequestID(r.Context()), err)
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   version.APIVersion(),
	}
	status := http.StatusOK
	if err := s.App().Store().DB().PingContext(r.Context()); err != nil {
		s.logger.Warnf("health check: %v", err)
		response.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, response)
}

// classify maps search errors to a status code and logs server side ones.
// Bad options and queries unusable as highlight patterns are client errors.
func (s *Server) classify(r *http.Request, err error) (int, string) {
	if errors.Is(err, core.ErrConfiguration) || errors.Is(err, snippet.ErrHighlightPattern) {
		return http.StatusBadRequest, "bad_request"
	}
	s.logger.Errorf("[%s] search %q failed: %v", GetRequestID(r.Context()), r.URL.RawQuery, err)
	return http.StatusInternalServerError, "search_failed"
}
