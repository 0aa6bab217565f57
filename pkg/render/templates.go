package render

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/rubiojr/setsearch/pkg/snippet"
)

var setTemplate = `{{define "back"}}<a href="{{.BackURL}}" class="search-go-back">{{.BackLabel}}</a>{{end}}` +
	`{{define "set"}}{{if .List}}{{template "back" .}}{{end}}` +
	`<div class="search-result-set search-result-set-{{.View}} search-result-set-{{.Name}}">` +
	`<div class="seat-head"><span class="set-total">{{.Total}}</span> <span class="set-title">{{.Label}}</span></div>` +
	`<ul class="set-results{{with .CSSClass}} {{.}}{{end}}">` +
	`{{range .Items}}<li>{{if .Link}}<a href="{{.Link}}">{{end}}` +
	`{{with .Thumbnail}}<img class="res-thumb" src="{{.}}" alt="">{{end}}` +
	`<span class="res-title">{{.Title}}</span>` +
	`{{if .HasContent}}<div class="res-content">{{.Content}}</div>{{end}}` +
	`{{if .Link}}</a>{{end}}</li>{{end}}</ul>` +
	`{{if .List}}{{.Pagination}}{{template "back" .}}` +
	`{{else if .SeeAllURL}}<a href="{{.SeeAllURL}}" class="search-all-res-in-cat">{{.SeeAllLabel}}</a>{{end}}` +
	`</div>{{end}}`

var paginationTemplate = `<nav class="pagination"><ul>` +
	`{{with .Prev}}<li class="prev"><a href="{{.}}" rel="prev">&laquo;</a></li>{{end}}` +
	`{{range .Pages}}<li>{{if .Current}}<span class="current">{{.Number}}</span>{{else}}<a href="{{.URL}}">{{.Number}}</a>{{end}}</li>{{end}}` +
	`{{with .Next}}<li class="next"><a href="{{.}}" rel="next">&raquo;</a></li>{{end}}` +
	`</ul></nav>`

var (
	setTmpl        = template.Must(template.New("render").Parse(setTemplate))
	paginationTmpl = template.Must(template.New("pagination").Parse(paginationTemplate))
)

type setView struct {
	List        bool
	View        string
	Name        string
	Total       int
	Label       string
	CSSClass    string
	Items       []itemView
	Pagination  template.HTML
	BackURL     string
	BackLabel   string
	SeeAllURL   string
	SeeAllLabel string
}

type itemView struct {
	Link       string
	Thumbnail  string
	Title      template.HTML
	HasContent bool
	Content    template.HTML
}

var nonSlug = regexp.MustCompile(`[^a-z0-9_]+`)

// SanitizeName turns a set name into a CSS class suffix: accents folded,
// lower cased, and runs of other characters replaced by a dash.
func SanitizeName(name string) string {
	s := nonSlug.ReplaceAllString(snippet.Fold(name), "-")
	return strings.Trim(s, "-")
}
