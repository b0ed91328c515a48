package render

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"report-dashboard/internal/format"
)

// NavItem is one report in the sidebar.
type NavItem struct {
	Key    string
	Title  string
	Active bool
}

// Layout is everything the dashboard page template needs.
type Layout struct {
	AppTitle    string
	Nav         []NavItem
	Report      string
	ReportTitle string
	Mode        string
	Snapshots   []string
	Selected    string
	Page        *Page
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"svgBars": svgBars,
}).Parse(`
<!doctype html><html><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.AppTitle}}</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Inter,Arial;background:#0b1020;color:#e8ecff;margin:0;display:flex}
nav{width:200px;min-height:100vh;background:#111837;border-right:1px solid #203063;padding:20px}
nav a{display:block;color:#9aa7cf;text-decoration:none;padding:6px 0} nav a.active{color:#e8ecff;font-weight:600}
main{flex:1;padding:20px}
.card{background:#111837;border:1px solid #203063;border-radius:14px;padding:16px;margin:12px 0}
h1{margin:0 0 10px 0} .muted{color:#9aa7cf} table{width:100%;border-collapse:collapse}
th,td{border-bottom:1px solid #22305f;padding:8px;vertical-align:top;text-align:left}
.tiles{display:flex;gap:12px;flex-wrap:wrap}
.tile{background:#1b2a59;padding:12px 16px;border-radius:10px;min-width:160px}
.tile .v{font-size:1.5em;font-weight:600}
.notice{padding:10px 14px;border-radius:10px;margin:8px 0}
.notice.info{background:#1b2a59} .notice.success{background:#14452f} .notice.warning{background:#5a4a12}
.error{background:#5a1a1a;border:1px solid #a33;padding:10px 14px;border-radius:10px;margin:8px 0}
svg{max-width:100%}
button{background:#7aa2ff;color:#04102a;border:none;padding:8px 12px;border-radius:10px;cursor:pointer}
button.danger{background:#ff7a7a}
input,select{margin:4px 8px 4px 0}
</style>
</head><body>
<nav>
  <h3>{{.AppTitle}}</h3>
  {{range .Nav}}<a href="/?report={{.Key}}"{{if .Active}} class="active"{{end}}>{{.Title}}</a>{{end}}
</nav>
<main>
<h1>{{.ReportTitle}}</h1>

<div class="card">
  <form method="GET" action="/">
    <input type="hidden" name="report" value="{{.Report}}">
    <label><input type="radio" name="mode" value="upload"{{if eq .Mode "upload"}} checked{{end}}> Upload New File</label>
    <label><input type="radio" name="mode" value="existing"{{if eq .Mode "existing"}} checked{{end}}> Load Existing File</label>
    <button type="submit">Select Mode</button>
  </form>
</div>

{{if eq .Mode "upload"}}
<div class="card">
  <h3>Upload CSV</h3>
  <form method="POST" action="/upload" enctype="multipart/form-data">
    <input type="hidden" name="report" value="{{.Report}}">
    <input type="file" name="file" accept=".csv" required>
    <input type="text" name="name" placeholder="Name to save this file as (without extension)">
    <button type="submit">Save &amp; Analyze</button>
  </form>
</div>
{{else if .Snapshots}}
<div class="card">
  <form method="GET" action="/">
    <input type="hidden" name="report" value="{{.Report}}">
    <input type="hidden" name="mode" value="existing">
    <select name="snapshot">
    {{range .Snapshots}}<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button type="submit">Load</button>
  </form>
  <h4>Delete a Saved File</h4>
  <form method="POST" action="/delete">
    <input type="hidden" name="report" value="{{.Report}}">
    <select name="name">
    {{range .Snapshots}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
    <button class="danger" type="submit">Delete Selected File</button>
  </form>
</div>
{{end}}

{{with .Page}}
{{range .Of "notice"}}<div class="notice {{.Level}}">{{.Text}}</div>{{end}}
{{with .Metrics}}<div class="card tiles">
  {{range .}}<div class="tile"><div class="muted">{{.Label}}</div><div class="v">{{.Display}}</div></div>{{end}}
</div>{{end}}
{{range .Blocks}}
  {{if eq (print .Kind) "table"}}
  <div class="card"><h3>{{.Title}}</h3>
  <table><thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead><tbody>
  {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
  </tbody></table></div>
  {{else if eq (print .Kind) "chart"}}
  <div class="card"><h3>{{.Title}}</h3>{{svgBars .Chart}}</div>
  {{else if eq (print .Kind) "text"}}
  <div class="card"><h3>{{.Title}}</h3><p>{{.Text}}</p></div>
  {{else if eq (print .Kind) "error"}}
  <div class="error"><strong>{{.Title}}:</strong> {{.Text}}</div>
  {{end}}
{{end}}
{{end}}
</main>
</body></html>
`))

// WriteHTML renders the dashboard page.
func WriteHTML(w io.Writer, l Layout) error {
	return pageTemplate.Execute(w, l)
}

// svgBars draws horizontal bars, first point at the bottom like a barh plot.
func svgBars(c *Chart) template.HTML {
	if c == nil || len(c.Points) == 0 {
		return template.HTML("<p class='muted'>No data.</p>")
	}
	const (
		labelW = 180.0
		valueW = 90.0
		plotW  = 420.0
		rowH   = 26.0
	)
	peak := 0.0
	for _, p := range c.Points {
		peak = max(peak, p.Value)
	}
	fill := "#" + hexOrDefault(c.Color)
	h := rowH*float64(len(c.Points)) + 30

	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %.0f %.0f">`, labelW+plotW+valueW, h)
	for i, p := range c.Points {
		y := h - 30 - rowH*float64(i+1)
		wBar := 0.0
		if peak > 0 && p.Value > 0 {
			wBar = p.Value / peak * plotW
		}
		fmt.Fprintf(&b, `<text x="%.0f" y="%.1f" fill="#9aa7cf" font-size="12" text-anchor="end">%s</text>`,
			labelW-6, y+rowH*0.65, html.EscapeString(p.Label))
		fmt.Fprintf(&b, `<rect x="%.0f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			labelW, y+3, wBar, rowH-6, html.EscapeString(fill))
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="#e8ecff" font-size="12">%s</text>`,
			labelW+wBar+6, y+rowH*0.65, format.Number(p.Value))
	}
	fmt.Fprintf(&b, `<line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f" stroke="#22305f"/>`, labelW, h-30, labelW+plotW, h-30)
	fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" fill="#9aa7cf" font-size="12" text-anchor="middle">%s</text>`,
		labelW+plotW/2, h-8, html.EscapeString(c.ValueLabel))
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}
