package report

import (
	"html/template"
	"io"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.TitleText}}</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #999; padding: 2px 8px; }
td { text-align: right; }
td:first-child { text-align: left; }
th { background: #ddd; }
</style>
</head>
<body>
<h1>{{.TitleText}}</h1>
{{range .Tables}}<table>
{{if .Caption}}<caption>{{.Caption}}</caption>
{{end}}<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}</body>
</html>
`))

// WriteHTML renders the document as a standalone HTML page.
func WriteHTML(w io.Writer, doc Document) error {
	return htmlTemplate.Execute(w, doc)
}
