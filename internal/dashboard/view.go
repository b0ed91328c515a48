package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"report-dashboard/internal/format"
	"report-dashboard/internal/kpi"
	"report-dashboard/internal/render"
	"report-dashboard/pkg/utils"
)

// Mode is how the operator picks the dataset for a view.
type Mode string

const (
	ModeUpload   Mode = "upload"
	ModeExisting Mode = "existing"
)

// ErrUnknownMode is returned for a mode other than upload or existing.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode maps form values, defaulting to existing.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "existing", "load":
		return ModeExisting, nil
	case "upload":
		return ModeUpload, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
}

// Request selects the dataset of one view. In upload mode Data is saved as Name
// first, nil meaning no file was chosen; the bytes are not checked before saving,
// so an empty file fails when it is loaded. In existing mode Name picks a stored
// snapshot, the first one when empty.
type Request struct {
	Mode Mode
	Name string
	Data []byte
}

// Render produces one dashboard view into sink. Failures in a single chart or the
// summary are shown inline; a failure to resolve the dataset halts the view and is
// also returned.
func (s *Service) Render(ctx context.Context, req Request, sink render.Sink) (string, error) {
	name := strings.TrimSpace(req.Name)

	switch req.Mode {
	case ModeUpload:
		if req.Data == nil {
			sink.Notice(render.LevelInfo, "Upload a CSV file to begin.")
			return "", nil
		}
		if name == "" {
			sink.Notice(render.LevelWarning, "Please enter a file name to save.")
			return "", nil
		}
		if err := s.Save(ctx, name, req.Data); err != nil {
			sink.Error("Could not save file", err)
			return "", err
		}
		sink.Notice(render.LevelSuccess, fmt.Sprintf("File saved as: %s", name))

	case ModeExisting:
		names, err := s.List()
		if err != nil {
			sink.Error("Could not list saved files", err)
			return "", err
		}
		if len(names) == 0 {
			sink.Notice(render.LevelWarning, "No saved files found. Please upload one.")
			return "", nil
		}
		if name == "" {
			name = names[0]
		}

	default:
		err := fmt.Errorf("%w %q", ErrUnknownMode, req.Mode)
		sink.Error("Invalid request", err)
		return "", err
	}

	ds, err := s.store.Load(name)
	if err != nil {
		sink.Error(fmt.Sprintf("Could not load %s", name), err)
		return name, err
	}

	sink.Table("Raw Data", ds.Columns, ds.Rows(utils.FormatValue))
	if s.report.Kind != KindFinancial {
		return name, nil
	}

	res, kpiErr := kpi.Compute(ds)
	if kpiErr != nil {
		sink.Error("Error calculating KPIs", kpiErr)
	} else {
		for _, tile := range tiles {
			if v, ok := res.Get(tile.metric); ok {
				sink.Metric(tile.label, v, tile.kind)
			}
		}
	}

	var revenue kpi.CategoryAggregate
	for _, def := range charts {
		agg, err := kpi.AggregateByCategory(ds, kpi.ColumnProductName, def.valueColumn, def.reduction)
		if errors.Is(err, kpi.ErrMissingColumn) {
			continue
		}
		if err != nil {
			sink.Error(def.title, err)
			continue
		}
		if def.id == ChartRevenue {
			revenue = agg
		}
		sink.BarChart(def.build(agg))
	}

	if kpiErr != nil {
		sink.Error("Executive Summary", fmt.Errorf("%w: %v", kpi.ErrSummaryUnavailable, kpiErr))
		return name, nil
	}
	summary, err := kpi.Summary(res, revenue, s.company)
	if err != nil {
		sink.Error("Executive Summary", err)
		return name, nil
	}
	sink.Text("Executive Summary", summary)
	return name, nil
}

type tile struct {
	metric kpi.Metric
	label  string
	kind   format.Kind
}

var tiles = []tile{
	{kpi.TotalRevenue, "Total Revenue", format.KindCurrency},
	{kpi.ARPU, "ARPU", format.KindCurrency},
	{kpi.ChurnRate, "Churn Rate", format.KindPercent},
	{kpi.AvgPenetration, "Avg Penetration %", format.KindPercent},
}

// DisplayMetric formats a metric the way its tile shows it; counts use plain numbers.
func DisplayMetric(m kpi.Metric, v float64) string {
	for _, t := range tiles {
		if t.metric == m {
			return format.Value(t.kind, v)
		}
	}
	return format.Number(v)
}

// Chart ids.
const (
	ChartRevenue     = "revenue"
	ChartSubscribers = "subscribers"
	ChartPenetration = "penetration"
)

type chartDef struct {
	id          string
	title       string
	valueColumn string
	reduction   kpi.Reduction
	valueLabel  string
	color       string
}

var charts = []chartDef{
	{ChartRevenue, "Revenue by Product", kpi.ColumnTotalAmount, kpi.Sum, "Revenue ($)", ""},
	{ChartSubscribers, "Subscribers by Product", kpi.ColumnSubCountEnd, kpi.Sum, "Subscribers", "orange"},
	{ChartPenetration, "Penetration % by Product", kpi.ColumnPenetration, kpi.Mean, "Penetration %", "green"},
}

// ChartIDs lists the product charts in display order.
func ChartIDs() []string {
	ids := make([]string, len(charts))
	for i, c := range charts {
		ids[i] = c.id
	}
	return ids
}

func chartByID(id string) (chartDef, bool) {
	for _, c := range charts {
		if c.id == id {
			return c, true
		}
	}
	return chartDef{}, false
}

func (d chartDef) build(agg kpi.CategoryAggregate) render.Chart {
	points := make([]render.Point, 0, agg.Len())
	for _, b := range agg.Buckets {
		points = append(points, render.Point{Label: b.Category, Value: b.Value})
	}
	return render.Chart{
		ID:         d.id,
		Title:      d.title,
		ValueLabel: d.valueLabel,
		Color:      d.color,
		Points:     points,
	}
}
