package render

import "report-dashboard/internal/format"

type BlockKind string

const (
	BlockNotice BlockKind = "notice"
	BlockTable  BlockKind = "table"
	BlockMetric BlockKind = "metric"
	BlockChart  BlockKind = "chart"
	BlockText   BlockKind = "text"
	BlockError  BlockKind = "error"
)

// MetricTile is a KPI value plus its display string.
type MetricTile struct {
	Label   string      `json:"label"`
	Value   float64     `json:"value"`
	Kind    format.Kind `json:"kind"`
	Display string      `json:"display"`
}

type Block struct {
	Kind   BlockKind   `json:"kind"`
	Title  string      `json:"title,omitempty"`
	Level  Level       `json:"level,omitempty"`
	Text   string      `json:"text,omitempty"`
	Header []string    `json:"header,omitempty"`
	Rows   [][]string  `json:"rows,omitempty"`
	Metric *MetricTile `json:"metric,omitempty"`
	Chart  *Chart      `json:"chart,omitempty"`
}

// Page is a Sink that keeps every block so the view can be served as HTML or JSON.
type Page struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

func NewPage(title string) *Page {
	return &Page{Title: title, Blocks: []Block{}}
}

func (p *Page) Notice(level Level, message string) {
	p.Blocks = append(p.Blocks, Block{Kind: BlockNotice, Level: level, Text: message})
}

func (p *Page) Table(title string, header []string, rows [][]string) {
	p.Blocks = append(p.Blocks, Block{Kind: BlockTable, Title: title, Header: header, Rows: rows})
}

func (p *Page) Metric(label string, value float64, kind format.Kind) {
	p.Blocks = append(p.Blocks, Block{Kind: BlockMetric, Metric: &MetricTile{
		Label:   label,
		Value:   value,
		Kind:    kind,
		Display: format.Value(kind, value),
	}})
}

func (p *Page) BarChart(chart Chart) {
	p.Blocks = append(p.Blocks, Block{Kind: BlockChart, Title: chart.Title, Chart: &chart})
}

func (p *Page) Text(title, body string) {
	p.Blocks = append(p.Blocks, Block{Kind: BlockText, Title: title, Text: body})
}

func (p *Page) Error(title string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	p.Blocks = append(p.Blocks, Block{Kind: BlockError, Title: title, Text: msg})
}

// Of returns the blocks of one kind, in order.
func (p *Page) Of(kind BlockKind) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Metrics groups consecutive metric blocks for the tile row.
func (p *Page) Metrics() []MetricTile {
	var out []MetricTile
	for _, b := range p.Of(BlockMetric) {
		out = append(out, *b.Metric)
	}
	return out
}
