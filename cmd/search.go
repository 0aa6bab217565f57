package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/i18n"
	"github.com/rubiojr/setsearch/pkg/render"
	"github.com/rubiojr/setsearch/pkg/snippet"
)

var (
	setStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	snippetStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			PaddingLeft(2)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search content sets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Search query",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "set",
				Usage: "Result set id, required by the list view",
			},
			&cli.StringFlag{
				Name:  "view",
				Usage: "extract or list",
				Value: core.ViewExtract,
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number for the list view",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text or html",
				Value: "text",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			values := url.Values{}
			values.Set("s", c.String("query"))
			values.Set("t", c.String("set"))
			values.Set("v", c.String("view"))
			values.Set("pageno", strconv.Itoa(c.Int("page")))
			return searchSets(ctx, os.Stdout, c.String("config"), values, c.String("format"))
		},
	}
}

func searchSets(ctx context.Context, w io.Writer, configPath string, values url.Values, format string) error {
	a, err := openApp(configPath, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.Params(values)
	switch format {
	case "html":
		out, _, err := a.Render(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
	case "text":
		sets, err := a.Search(ctx, p)
		if err != nil {
			return err
		}
		printer := &textPrinter{
			extractor:  snippet.New(a.Config().Render.SnippetWidth),
			translator: a.Translator(),
			fallback:   a.Config().Render.Fallback,
		}
		printer.print(w, sets, p.Query, p.Options)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// textPrinter renders sets for terminals, following the HTML layout.
type textPrinter struct {
	extractor  *snippet.Extractor
	translator render.Translator
	fallback   string
}

func (tp *textPrinter) print(w io.Writer, sets []*core.SearchResultSet, q string, opts core.Options) {
	caser := cases.Title(language.Und, cases.NoLower)
	shown := 0

	for _, set := range sets {
		if set.IsEmpty() {
			continue
		}
		shown++
		fmt.Fprintln(w, setStyle.Render(fmt.Sprintf("%s (%d)", caser.String(set.Label), set.TotalCount)))
		for i, res := range set.Results {
			fmt.Fprintf(w, "%d. %s\n", opts.EffectiveOffset()+i+1, titleStyle.Render(res.Title))
			text := snippet.Normalize(res.Content)
			if s := tp.extractor.Window(text, snippet.Locate(text, q)); s != "" {
				fmt.Fprintln(w, snippetStyle.Render(s))
			}
			if res.HasLink() {
				fmt.Fprintln(w, linkStyle.Render(res.Link))
			}
		}
		if opts.IsList() {
			pages := render.Pagination{TotalObjects: set.TotalCount, PerPage: opts.Limit}.Pages()
			fmt.Fprintln(w, noDataStyle.Render(fmt.Sprintf("page %d/%d", opts.CurrentPage(), pages)))
		} else if !opts.HasLimit() || set.TotalCount > opts.Limit {
			fmt.Fprintln(w, noDataStyle.Render(tp.translator.Translate(i18n.SeeAllResults)+": --view list --set <id>"))
		}
	}

	if shown == 0 {
		fmt.Fprintln(w, noDataStyle.Render(tp.fallback))
	}
}
