// Package i18n translates the few user facing strings of the rendered
// markup.
package i18n

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/rubiojr/setsearch/pkg/core"
)

// Message keys used by the renderers.
const (
	SeeAllResults = "see.all.results"
	BackToResults = "back.to.results"
)

// Defaults holds the built-in messages by locale.
var Defaults = map[string]map[string]string{
	"en": {
		SeeAllResults: "See all results",
		BackToResults: "Back to results",
	},
	"fr": {
		SeeAllResults: "Voir tous les résultats",
		BackToResults: "Retour aux résultats",
	},
}

// Catalog translates keys for a single locale, falling back to English.
// Unknown keys translate to themselves.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a catalog for locale. overrides maps locales to key/message
// pairs added on top of Defaults.
func New(locale string, overrides map[string]map[string]string) (*Catalog, error) {
	tag := language.English
	if locale != "" {
		var err error
		if tag, err = language.Parse(locale); err != nil {
			return nil, core.NewConfigurationError("i18n.locale", "invalid locale %q: %v", locale, err)
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, messages := range []map[string]map[string]string{Defaults, overrides} {
		for _, loc := range sortedKeys(messages) {
			lt, err := language.Parse(loc)
			if err != nil {
				return nil, core.NewConfigurationError("i18n.messages", "invalid locale %q: %v", loc, err)
			}
			for key, msg := range messages[loc] {
				if err := b.SetString(lt, key, msg); err != nil {
					return nil, core.NewConfigurationError("i18n.messages", "%s/%s: %v", loc, key, err)
				}
			}
		}
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(locale string) *Catalog {
	c, err := New(locale, nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Locale returns the catalog language.
func (c *Catalog) Locale() language.Tag { return c.tag }

// Translate returns the message for key.
func (c *Catalog) Translate(key string) string {
	return c.printer.Sprintf(key)
}

func sortedKeys(m map[string]map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
