package kpi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-dashboard/internal/model"
	"report-dashboard/internal/tabular"
)

func scenarioDataset() model.Dataset {
	return model.Dataset{
		Columns: []string{ColumnTotalAmount, ColumnSubCountEnd, ColumnSubCountStart, ColumnProductName},
		Records: []model.Record{
			{ColumnTotalAmount: 100, ColumnSubCountEnd: 10, ColumnSubCountStart: 12, ColumnProductName: "A"},
			{ColumnTotalAmount: 50, ColumnSubCountEnd: 5, ColumnSubCountStart: 5, ColumnProductName: "B"},
		},
	}
}

func TestComputeScenario(t *testing.T) {
	res, err := Compute(scenarioDataset())
	require.NoError(t, err)

	assertMetric(t, res, TotalRevenue, 150)
	assertMetric(t, res, TotalSubscribersEnd, 15)
	assertMetric(t, res, TotalSubscribersStart, 17)
	assertMetric(t, res, TotalSubscribersLost, 2)
	assertMetric(t, res, ARPU, 10)
	assertMetric(t, res, ChurnRate, 2.0/17.0*100)

	churn, _ := res.Get(ChurnRate)
	assert.InDelta(t, 11.76, churn, 0.01)

	_, ok := res.Get(AvgPenetration)
	assert.False(t, ok)
	assert.Equal(t, []Metric{AvgPenetration}, res.Omitted)
}

func TestComputeZeroSubscribersGuards(t *testing.T) {
	ds := model.Dataset{
		Columns: []string{ColumnTotalAmount, ColumnSubCountEnd, ColumnSubCountStart},
		Records: []model.Record{
			{ColumnTotalAmount: 500, ColumnSubCountEnd: 0, ColumnSubCountStart: 0},
		},
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	assertMetric(t, res, ARPU, 0)
	assertMetric(t, res, ChurnRate, 0)
}

func TestComputeOmitsMetricsPerMissingColumn(t *testing.T) {
	ds := model.Dataset{
		Columns: []string{ColumnTotalAmount, ColumnPenetration},
		Records: []model.Record{
			{ColumnTotalAmount: 20.5, ColumnPenetration: 30},
			{ColumnTotalAmount: 9.5, ColumnPenetration: nil},
			{ColumnTotalAmount: nil, ColumnPenetration: 50.0},
		},
	}
	res, err := Compute(ds)
	require.NoError(t, err)

	assertMetric(t, res, TotalRevenue, 30)
	assertMetric(t, res, AvgPenetration, 40)
	assert.ElementsMatch(t, []Metric{TotalSubscribersEnd, TotalSubscribersStart, TotalSubscribersLost, ARPU, ChurnRate}, res.Omitted)
}

func TestComputePenetrationWithoutValuesIsOmitted(t *testing.T) {
	ds := model.Dataset{
		Columns: []string{ColumnPenetration},
		Records: []model.Record{{ColumnPenetration: nil}},
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	_, ok := res.Get(AvgPenetration)
	assert.False(t, ok)
	assert.Contains(t, res.Omitted, AvgPenetration)
}

func TestComputeRejectsNonNumericCell(t *testing.T) {
	ds := scenarioDataset()
	ds.Records[1][ColumnSubCountEnd] = "five"

	_, err := Compute(ds)
	var ce *ComputationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ColumnSubCountEnd, ce.Column)
	assert.Equal(t, 2, ce.Row)
	assert.Contains(t, err.Error(), "Sub Count End")
}

func TestComputeAcceptsFormattedNumbers(t *testing.T) {
	ds := model.Dataset{
		Columns: []string{ColumnTotalAmount},
		Records: []model.Record{{ColumnTotalAmount: "1,250.50"}, {ColumnTotalAmount: 49.5}},
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	assertMetric(t, res, TotalRevenue, 1300)
}

func TestComputeSkipsNaNAndInfCells(t *testing.T) {
	ds, err := tabular.Parse([]byte("Product Name,Total Amount,Sub Count End,Sub Count Start,Penetration %\n" +
		"A,NaN,10,12,Inf\nB,50,5,5,-infinity\n"))
	require.NoError(t, err)
	require.Nil(t, ds.Records[0][ColumnTotalAmount])

	res, err := Compute(ds)
	require.NoError(t, err)
	assertMetric(t, res, TotalRevenue, 50)
	assertMetric(t, res, ARPU, 50.0/15.0)
	assert.Contains(t, res.Omitted, AvgPenetration)

	agg, err := AggregateByCategory(ds, ColumnProductName, ColumnTotalAmount, Sum)
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Category: "A", Value: 0, Count: 0}, {Category: "B", Value: 50, Count: 1}}, agg.Buckets)
}

func TestComputeRejectsNonFiniteValues(t *testing.T) {
	ds := scenarioDataset()
	ds.Records[0][ColumnTotalAmount] = math.NaN()

	_, err := Compute(ds)
	var ce *ComputationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Row)
}

func TestMetricsOrder(t *testing.T) {
	assert.Equal(t, []Metric{
		TotalRevenue, TotalSubscribersEnd, TotalSubscribersStart, TotalSubscribersLost,
		ARPU, ChurnRate, AvgPenetration,
	}, Metrics())
}

func assertMetric(t *testing.T, res Result, m Metric, want float64) {
	t.Helper()
	got, ok := res.Get(m)
	require.True(t, ok, "metric %s should be computed", m)
	assert.InDelta(t, want, got, 1e-9, "metric %s", m)
}
