package render

import (
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"report-dashboard/internal/format"
)

// PNG layout, in pixels. Rows run bottom-up like the HTML bars.
const (
	pngPad    = 16
	pngTitleH = 40
	pngAxisH  = 36
	pngLabelW = 180
	pngPlotW  = 420
	pngValueW = 90
	pngRowH   = 32
	pngBarPad = 5
	pngWidth  = pngPad + pngLabelW + pngPlotW + pngValueW + pngPad
)

var (
	pngTextColor = drawing.ColorFromHex("333333")
	pngAxisColor = drawing.ColorFromHex("9AA7CF")
)

// ErrEmptyChart is returned when a chart has no points to draw.
var ErrEmptyChart = errors.New("chart has no data")

// BarChartPNG draws c as horizontal bars in a PNG image, first point on the bottom row.
func BarChartPNG(w io.Writer, c Chart) error {
	if len(c.Points) == 0 {
		return ErrEmptyChart
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	height := pngHeight(len(c.Points))
	r, err := chart.PNG(pngWidth, height)
	if err != nil {
		return err
	}
	r.SetDPI(chart.DefaultDPI)
	r.SetFont(font)

	chart.Draw.Box(r, chart.NewBox(0, 0, pngWidth, height), chart.Style{
		FillColor:   chart.ColorWhite,
		StrokeColor: chart.ColorWhite,
	})

	text := chart.Style{Font: font, FontSize: 10, FontColor: pngTextColor}
	title := text
	title.FontSize = 13
	title.TextHorizontalAlign = chart.TextHorizontalAlignCenter
	title.TextVerticalAlign = chart.TextVerticalAlignMiddle
	if c.Title != "" {
		chart.Draw.TextWithin(r, c.Title, chart.NewBox(0, 0, pngWidth, pngTitleH), title)
	}

	peak := 0.0
	for _, p := range c.Points {
		peak = max(peak, p.Value)
	}
	fill := drawing.ColorFromHex(hexOrDefault(c.Color))
	plotLeft := pngPad + pngLabelW
	baseline := height - pngAxisH

	label := text
	label.TextHorizontalAlign = chart.TextHorizontalAlignRight
	label.TextVerticalAlign = chart.TextVerticalAlignMiddle
	value := text
	value.TextVerticalAlign = chart.TextVerticalAlignMiddle

	for i, p := range c.Points {
		top := baseline - pngRowH*(i+1)
		bottom := top + pngRowH
		barW := barLength(p.Value, peak)

		if p.Label != "" {
			chart.Draw.TextWithin(r, p.Label, chart.NewBox(top, pngPad, plotLeft-6, bottom), label)
		}
		if barW > 0 {
			chart.Draw.Box(r, chart.NewBox(top+pngBarPad, plotLeft, plotLeft+barW, bottom-pngBarPad),
				chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1})
		}
		chart.Draw.TextWithin(r, format.Number(p.Value),
			chart.NewBox(top, plotLeft+barW+6, pngWidth-pngPad, bottom), value)
	}

	chart.Draw.Box(r, chart.NewBox(baseline, plotLeft, plotLeft+pngPlotW, baseline+1),
		chart.Style{FillColor: pngAxisColor, StrokeColor: pngAxisColor, StrokeWidth: 1})
	axis := text
	axis.TextHorizontalAlign = chart.TextHorizontalAlignCenter
	axis.TextVerticalAlign = chart.TextVerticalAlignMiddle
	if c.ValueLabel != "" {
		chart.Draw.TextWithin(r, c.ValueLabel, chart.NewBox(baseline, plotLeft, plotLeft+pngPlotW, height), axis)
	}

	return r.Save(w)
}

func pngHeight(rows int) int {
	return pngTitleH + rows*pngRowH + pngAxisH
}

// barLength scales v against the largest positive value; non-positive values draw no bar.
func barLength(v, peak float64) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	return int(v / peak * pngPlotW)
}

func hexOrDefault(color string) string {
	switch color {
	case "":
		return "1F77B4"
	case "orange":
		return "FF7F0E"
	case "green":
		return "2CA02C"
	}
	if color[0] == '#' {
		return color[1:]
	}
	return color
}
