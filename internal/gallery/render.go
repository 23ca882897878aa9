package gallery

import (
	"html/template"
	"io"
)

const (
	bodyTemplateName = "table_body"
	pageTemplateName = "page"
)

var templates = template.Must(template.New(pageTemplateName).Parse(`{{define "table_body"}}{{range .}}<tr><td>{{.ID}}</td><td>{{.Category}}</td><td>{{.Summary}}</td><td><a href="{{.AssetURL}}" data-toggle="lightbox" data-caption="{{.Caption}}"><img width="100" src="{{.AssetURL}}" alt="{{.Caption}}"></a></td></tr>
{{end}}{{end}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="post" action="/refresh"><button type="submit">Load images</button></form>
<table id="tableImages">
<thead><tr><th>ID</th><th>Category</th><th>Summary</th><th>Image</th></tr></thead>
<tbody>
{{template "table_body" .Rows}}</tbody>
</table>
</body>
</html>
`))

// PageData is the input of the page template
type PageData struct {
	Title string
	Rows  []Row
}

// Templates returns the parsed page and table body templates
func Templates() *template.Template {
	return templates
}

// RenderTableBody writes one <tr> per row. All values are HTML escaped.
func RenderTableBody(w io.Writer, rows []Row) error {
	return templates.ExecuteTemplate(w, bodyTemplateName, rows)
}

// RenderPage writes the full gallery page with a #tableImages table
func RenderPage(w io.Writer, title string, rows []Row) error {
	return templates.ExecuteTemplate(w, pageTemplateName, PageData{Title: title, Rows: rows})
}
