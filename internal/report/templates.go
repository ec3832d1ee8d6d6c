package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/hargabyte/covreport/internal/analyze"
)

type totals struct {
	Stmts analyze.Counter
	Lines analyze.Counter
	Funcs analyze.Counter
}

type sessionView struct {
	ID    string
	Start string
	End   string
}

type summaryRow struct {
	Name  string
	Href  string
	Stmts analyze.Counter
	Lines analyze.Counter
	Funcs analyze.Counter
}

type indexData struct {
	Group    string
	Sessions []sessionView
	Projects []summaryRow
	Totals   totals
}

type fileRow struct {
	Path  string
	Href  string
	Stmts analyze.Counter
	Lines analyze.Counter
	Funcs analyze.Counter
}

type packageView struct {
	Name  string
	Stmts analyze.Counter
	Lines analyze.Counter
	Funcs analyze.Counter
	Files []fileRow
}

type bundleData struct {
	Group    string
	Name     string
	Totals   totals
	Packages []packageView
}

type functionView struct {
	Name      string
	StartLine int
	Stmts     analyze.Counter
}

// lineView is one rendered source line. Class is "cov", "miss" or ""
// for untracked lines.
type lineView struct {
	Num   int
	Class string
	Text  string
}

type fileData struct {
	Bundle    string
	Path      string
	Stmts     analyze.Counter
	Lines     analyze.Counter
	Funcs     analyze.Counter
	Functions []functionView
	Source    []lineView
}

var tmplFuncs = template.FuncMap{
	"pct": func(c analyze.Counter) string {
		return fmt.Sprintf("%.1f%%", c.Percent())
	},
	"frac": func(c analyze.Counter) string {
		return fmt.Sprintf("%d/%d", c.Covered, c.Total())
	},
}

func (w *Writer) render(rel string, tmpl *template.Template, data any) error {
	f, err := os.Create(filepath.Join(w.OutputDir, rel))
	if err != nil {
		return fmt.Errorf("create report page %s: %w", rel, err)
	}
	defer f.Close()
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render report page %s: %w", rel, err)
	}
	return nil
}

var indexTmpl = template.Must(template.New("index").Funcs(tmplFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Group}}</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<h1>{{.Group}}</h1>
<h2>Projects</h2>
<table class="summary">
<thead><tr><th>Project</th><th>Statements</th><th></th><th>Lines</th><th></th><th>Functions</th><th></th></tr></thead>
<tbody>
{{range .Projects}}<tr>
<td><a href="{{.Href}}">{{.Name}}</a></td>
<td class="num">{{pct .Stmts}}</td><td class="num">{{frac .Stmts}}</td>
<td class="num">{{pct .Lines}}</td><td class="num">{{frac .Lines}}</td>
<td class="num">{{pct .Funcs}}</td><td class="num">{{frac .Funcs}}</td>
</tr>
{{end}}</tbody>
<tfoot><tr>
<td>Total</td>
<td class="num">{{pct .Totals.Stmts}}</td><td class="num">{{frac .Totals.Stmts}}</td>
<td class="num">{{pct .Totals.Lines}}</td><td class="num">{{frac .Totals.Lines}}</td>
<td class="num">{{pct .Totals.Funcs}}</td><td class="num">{{frac .Totals.Funcs}}</td>
</tr></tfoot>
</table>
<h2>Sessions</h2>
<table class="summary">
<thead><tr><th>Session</th><th>Start</th><th>End</th></tr></thead>
<tbody>
{{range .Sessions}}<tr><td>{{.ID}}</td><td>{{.Start}}</td><td>{{.End}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

var bundleTmpl = template.Must(template.New("bundle").Funcs(tmplFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}} - {{.Group}}</title>
<link rel="stylesheet" href="../style.css">
</head>
<body>
<p class="crumbs"><a href="../index.html">{{.Group}}</a> &gt; {{.Name}}</p>
<h1>{{.Name}}</h1>
<p class="totals">Statements {{pct .Totals.Stmts}} ({{frac .Totals.Stmts}}),
Lines {{pct .Totals.Lines}} ({{frac .Totals.Lines}}),
Functions {{pct .Totals.Funcs}} ({{frac .Totals.Funcs}})</p>
{{range .Packages}}<h2>{{.Name}}</h2>
<table class="summary">
<thead><tr><th>File</th><th>Statements</th><th></th><th>Lines</th><th></th><th>Functions</th><th></th></tr></thead>
<tbody>
{{range .Files}}<tr>
<td>{{if .Href}}<a href="{{.Href}}">{{.Path}}</a>{{else}}{{.Path}}{{end}}</td>
<td class="num">{{pct .Stmts}}</td><td class="num">{{frac .Stmts}}</td>
<td class="num">{{pct .Lines}}</td><td class="num">{{frac .Lines}}</td>
<td class="num">{{pct .Funcs}}</td><td class="num">{{frac .Funcs}}</td>
</tr>
{{end}}</tbody>
<tfoot><tr>
<td>Package total</td>
<td class="num">{{pct .Stmts}}</td><td class="num">{{frac .Stmts}}</td>
<td class="num">{{pct .Lines}}</td><td class="num">{{frac .Lines}}</td>
<td class="num">{{pct .Funcs}}</td><td class="num">{{frac .Funcs}}</td>
</tr></tfoot>
</table>
{{end}}</body>
</html>
`))

var fileTmpl = template.Must(template.New("file").Funcs(tmplFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Path}} - {{.Bundle}}</title>
<link rel="stylesheet" href="../../style.css">
</head>
<body>
<p class="crumbs"><a href="../index.html">{{.Bundle}}</a> &gt; {{.Path}}</p>
<h1>{{.Path}}</h1>
<p class="totals">Statements {{pct .Stmts}} ({{frac .Stmts}}),
Lines {{pct .Lines}} ({{frac .Lines}}),
Functions {{pct .Funcs}} ({{frac .Funcs}})</p>
{{if .Functions}}<h2>Functions</h2>
<table class="summary">
<thead><tr><th>Function</th><th>Line</th><th>Statements</th><th></th></tr></thead>
<tbody>
{{range .Functions}}<tr>
<td><a href="#L{{.StartLine}}">{{.Name}}</a></td>
<td class="num">{{.StartLine}}</td>
<td class="num">{{pct .Stmts}}</td><td class="num">{{frac .Stmts}}</td>
</tr>
{{end}}</tbody>
</table>
{{end}}<h2>Source</h2>
<table class="source"><tbody>
{{range .Source}}<tr id="L{{.Num}}"{{if .Class}} class="{{.Class}}"{{end}}><td class="ln">{{.Num}}</td><td class="code">{{.Text}}</td></tr>
{{end}}</tbody></table>
</body>
</html>
`))

const styleCSS = `body {
  font-family: Helvetica, Arial, sans-serif;
  font-size: 14px;
  color: #222;
  margin: 1em 2em;
}
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.5em; }
a { color: #0645ad; text-decoration: none; }
a:hover { text-decoration: underline; }
p.crumbs { color: #666; }
table.summary { border-collapse: collapse; min-width: 40em; }
table.summary th, table.summary td {
  border: 1px solid #ccc;
  padding: 0.25em 0.6em;
  text-align: left;
}
table.summary th { background: #eee; }
table.summary tfoot td { font-weight: bold; background: #f6f6f6; }
td.num { text-align: right; white-space: nowrap; }
table.source {
  border-collapse: collapse;
  font-family: "SF Mono", Menlo, Consolas, monospace;
  font-size: 12px;
  width: 100%;
}
table.source td.ln {
  color: #999;
  text-align: right;
  padding: 0 0.8em 0 0.3em;
  border-right: 1px solid #ddd;
  user-select: none;
  width: 1%;
}
table.source td.code { padding-left: 0.8em; white-space: pre; }
table.source tr.cov td.code { background: #dcf5dc; }
table.source tr.miss td.code { background: #fbdbd9; }
`
