// Package report renders collected exports for download: an HTML page laid
// out like the WordPress personal data export, and a PDF printed from it by
// headless Chrome.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"bpexport/internal/exporter"
)

var exportPage = template.Must(template.New("export").Funcs(template.FuncMap{
	"value": sanitize,
}).Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { color: black; font-family: Arial, sans-serif; font-size: 11pt; margin: 15px auto; width: 860px; }
table { background: #f0f0f0; border: 1px solid #ddd; margin-bottom: 20px; width: 100%; }
th { padding: 5px; text-align: left; width: 20%; }
td { padding: 5px; }
tr:nth-child(odd) { background-color: #fafafa; }
</style>
</head>
<body>
<h1 id="top">{{.Title}}</h1>
<p>{{.Email}} · {{.Created}}</p>
{{- if gt (len .Groups) 1}}
<div id="table_of_contents"><h2>{{.Contents}}</h2><ul>
{{- range .Groups}}
<li><a href="#{{.GroupID}}">{{.GroupLabel}}</a> <span class="count">({{len .Items}})</span></li>
{{- end}}
</ul></div>
{{- end}}
{{- range .Groups}}
<div id="{{.GroupID}}">
<h2>{{.GroupLabel}}</h2>
{{- range .Items}}
<table id="{{.ItemID}}"><tbody>
{{- range .Data}}
<tr><th>{{.Name}}</th><td>{{value .Value}}</td></tr>
{{- end}}
</tbody></table>
{{- end}}
</div>
{{- end}}
</body>
</html>
`))

type view struct {
	Lang     string
	Title    string
	Contents string
	Email    string
	Created  string
	Groups   []exporter.ReportGroup
}

// Labels supplies the page title and the table of contents heading.
type Labels interface {
	T(msg string) string
}

// RenderHTML writes r as a standalone HTML document. lang is the document
// language, tr translates the fixed headings and may be nil.
func RenderHTML(w io.Writer, r exporter.Report, lang string, tr Labels) error {
	t := func(s string) string { return s }
	if tr != nil {
		t = tr.T
	}
	if lang == "" {
		lang = "en"
	}
	v := view{
		Lang:     lang,
		Title:    t("Personal Data Export"),
		Contents: t("Table of Contents"),
		Email:    r.Email,
		Created:  r.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST"),
		Groups:   r.Groups,
	}
	if err := exportPage.Execute(w, v); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTML renders r into a byte slice.
func HTML(r exporter.Report, lang string, tr Labels) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, r, lang, tr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
