// Package render turns dashboard output into something a browser or API client
// can show: a collected view model, an HTML page, or a PNG bar chart.
package render

import "report-dashboard/internal/format"

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Point is one labeled bar.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a named numeric series drawn as horizontal bars, in the order given.
type Chart struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ValueLabel string  `json:"value_label"`
	Color      string  `json:"color"`
	Points     []Point `json:"points"`
}

// Sink receives the pieces of one dashboard view in display order.
type Sink interface {
	Notice(level Level, message string)
	Table(title string, header []string, rows [][]string)
	Metric(label string, value float64, kind format.Kind)
	BarChart(chart Chart)
	Text(title, body string)
	Error(title string, err error)
}
