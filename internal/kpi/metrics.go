package kpi

import (
	"report-dashboard/internal/model"
	"report-dashboard/pkg/utils"
)

// Column names the engine reads.
const (
	ColumnTotalAmount   = "Total Amount"
	ColumnSubCountEnd   = "Sub Count End"
	ColumnSubCountStart = "Sub Count Start"
	ColumnPenetration   = "Penetration %"
	ColumnProductName   = "Product Name"
)

// Metric identifies one derived scalar.
type Metric string

const (
	TotalRevenue          Metric = "total_revenue"
	TotalSubscribersEnd   Metric = "total_subscribers_end"
	TotalSubscribersStart Metric = "total_subscribers_start"
	TotalSubscribersLost  Metric = "total_subscribers_lost"
	ARPU                  Metric = "arpu"
	ChurnRate             Metric = "churn_rate"
	AvgPenetration        Metric = "avg_penetration"
)

// Result holds the metrics that could be computed. A metric whose columns are
// absent (or, for averages, hold no values) is listed in Omitted instead.
type Result struct {
	Values  map[Metric]float64 `json:"values"`
	Omitted []Metric           `json:"omitted,omitempty"`
}

// Get returns the value of m and whether it was computed.
func (r Result) Get(m Metric) (float64, bool) {
	v, ok := r.Values[m]
	return v, ok
}

// column aggregates of the non-missing cells of one column
type columnStat struct {
	sum   float64
	count int
}

type columnStats map[string]columnStat

// definition declares which columns a metric needs and how it is derived.
type definition struct {
	metric   Metric
	requires []string
	compute  func(c columnStats) (float64, bool)
}

var definitions = []definition{
	{
		metric:   TotalRevenue,
		requires: []string{ColumnTotalAmount},
		compute: func(c columnStats) (float64, bool) {
			return c[ColumnTotalAmount].sum, true
		},
	},
	{
		metric:   TotalSubscribersEnd,
		requires: []string{ColumnSubCountEnd},
		compute: func(c columnStats) (float64, bool) {
			return c[ColumnSubCountEnd].sum, true
		},
	},
	{
		metric:   TotalSubscribersStart,
		requires: []string{ColumnSubCountStart},
		compute: func(c columnStats) (float64, bool) {
			return c[ColumnSubCountStart].sum, true
		},
	},
	{
		metric:   TotalSubscribersLost,
		requires: []string{ColumnSubCountStart, ColumnSubCountEnd},
		compute: func(c columnStats) (float64, bool) {
			return c[ColumnSubCountStart].sum - c[ColumnSubCountEnd].sum, true
		},
	},
	{
		metric:   ARPU,
		requires: []string{ColumnTotalAmount, ColumnSubCountEnd},
		compute: func(c columnStats) (float64, bool) {
			return safeDiv(c[ColumnTotalAmount].sum, c[ColumnSubCountEnd].sum), true
		},
	},
	{
		metric:   ChurnRate,
		requires: []string{ColumnSubCountStart, ColumnSubCountEnd},
		compute: func(c columnStats) (float64, bool) {
			start := c[ColumnSubCountStart].sum
			return safeDiv(start-c[ColumnSubCountEnd].sum, start) * 100, true
		},
	},
	{
		metric:   AvgPenetration,
		requires: []string{ColumnPenetration},
		compute: func(c columnStats) (float64, bool) {
			s := c[ColumnPenetration]
			if s.count == 0 {
				return 0, false
			}
			return s.sum / float64(s.count), true
		},
	},
}

// Metrics lists every metric in display order.
func Metrics() []Metric {
	out := make([]Metric, len(definitions))
	for i, d := range definitions {
		out[i] = d.metric
	}
	return out
}

// Compute derives the KPI result from ds. Metrics with absent columns are omitted;
// a non-numeric cell in a column that some metric uses fails the whole call.
func Compute(ds model.Dataset) (Result, error) {
	stats := make(columnStats)
	for _, def := range definitions {
		if len(ds.MissingColumns(def.requires...)) > 0 {
			continue
		}
		for _, col := range def.requires {
			if _, done := stats[col]; done {
				continue
			}
			stat, err := sumColumn(ds, col)
			if err != nil {
				return Result{}, err
			}
			stats[col] = stat
		}
	}

	res := Result{Values: make(map[Metric]float64, len(definitions))}
	for _, def := range definitions {
		if len(ds.MissingColumns(def.requires...)) > 0 {
			res.Omitted = append(res.Omitted, def.metric)
			continue
		}
		v, ok := def.compute(stats)
		if !ok {
			res.Omitted = append(res.Omitted, def.metric)
			continue
		}
		res.Values[def.metric] = v
	}
	return res, nil
}

func sumColumn(ds model.Dataset, column string) (columnStat, error) {
	var stat columnStat
	for i, rec := range ds.Records {
		v, ok, err := numericCell(rec, column, i)
		if err != nil {
			return columnStat{}, err
		}
		if !ok {
			continue
		}
		stat.sum += v
		stat.count++
	}
	return stat, nil
}

// numericCell returns ok=false for missing cells and an error for non-numeric ones.
func numericCell(rec model.Record, column string, index int) (float64, bool, error) {
	raw, present := rec[column]
	if !present || raw == nil {
		return 0, false, nil
	}
	v, ok := utils.ToFloat(raw)
	if !ok {
		return 0, false, &ComputationError{Column: column, Row: index + 1, Value: raw}
	}
	return v, true, nil
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
