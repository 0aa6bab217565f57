package render

import (
	"html/template"
	"strings"

	"github.com/rubiojr/setsearch/pkg/core"
)

// DefaultFallbackText is shown when no set has results.
const DefaultFallbackText = "No result"

// FallbackFunc returns the markup shown when no set rendered anything.
type FallbackFunc func(opts core.Options) template.HTML

// StaticFallback returns a FallbackFunc showing text, HTML escaped.
func StaticFallback(text string) FallbackFunc {
	escaped := template.HTML(template.HTMLEscapeString(text))
	return func(core.Options) template.HTML { return escaped }
}

// Aggregator renders several sets in order.
type Aggregator struct {
	renderer SetRenderer
	fallback FallbackFunc
}

// NewAggregator returns an aggregator rendering sets with r. A nil fallback
// shows DefaultFallbackText.
func NewAggregator(r SetRenderer, fallback FallbackFunc) *Aggregator {
	if fallback == nil {
		fallback = StaticFallback(DefaultFallbackText)
	}
	return &Aggregator{renderer: r, fallback: fallback}
}

// Render concatenates the fragments of sets. When sets is empty or every
// fragment is empty the fallback is returned instead.
func (a *Aggregator) Render(sets []*core.SearchResultSet, query string, opts core.Options) (template.HTML, error) {
	var sb strings.Builder
	for _, set := range sets {
		fragment, err := a.renderer.Render(set, query, opts)
		if err != nil {
			return "", err
		}
		sb.WriteString(string(fragment))
	}
	if sb.Len() == 0 {
		return a.fallback(opts), nil
	}
	return template.HTML(sb.String()), nil
}
