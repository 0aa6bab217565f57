package api

import "html/template"

type pageData struct {
	Query    string
	BasePath string
	Results  template.HTML
	Error    string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Query}}{{.Query}} - {{end}}Search</title>
</head>
<body>
<form class="search-form" method="get" action="{{.BasePath}}">
<input type="search" name="s" value="{{.Query}}">
<button type="submit">Search</button>
</form>
{{if .Error}}<p class="search-error">{{.Error}}</p>{{end}}
<div class="search-results">{{.Results}}</div>
</body>
</html>
`))
