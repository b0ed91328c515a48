package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-dashboard/internal/model"
)

func TestAggregateScenarioRevenueByProduct(t *testing.T) {
	agg, err := AggregateByCategory(scenarioDataset(), ColumnProductName, ColumnTotalAmount, Sum)
	require.NoError(t, err)

	assert.Equal(t, []Bucket{
		{Category: "B", Value: 50, Count: 1},
		{Category: "A", Value: 100, Count: 1},
	}, agg.Buckets)
}

func TestAggregateOneBucketPerCategorySortedAscending(t *testing.T) {
	ds := model.Dataset{
		Columns: []string{ColumnProductName, ColumnSubCountEnd, ColumnPenetration},
		Records: []model.Record{
			{ColumnProductName: "Fiber", ColumnSubCountEnd: 40, ColumnPenetration: 20.0},
			{ColumnProductName: "Voice", ColumnSubCountEnd: 5, ColumnPenetration: 10.0},
			{ColumnProductName: "Fiber", ColumnSubCountEnd: 60, ColumnPenetration: 40.0},
			{ColumnProductName: "TV", ColumnSubCountEnd: 30, ColumnPenetration: nil},
			{ColumnProductName: nil, ColumnSubCountEnd: 999, ColumnPenetration: 99.0},
			{ColumnProductName: "Voice", ColumnSubCountEnd: nil, ColumnPenetration: 20.0},
		},
	}

	subs, err := AggregateByCategory(ds, ColumnProductName, ColumnSubCountEnd, Sum)
	require.NoError(t, err)
	assert.Equal(t, []string{"Voice", "TV", "Fiber"}, categories(subs))
	assert.Equal(t, []float64{5, 30, 100}, values(subs))

	pen, err := AggregateByCategory(ds, ColumnProductName, ColumnPenetration, Mean)
	require.NoError(t, err)
	assert.Equal(t, []string{"TV", "Voice", "Fiber"}, categories(pen))
	assert.Equal(t, []float64{0, 15, 30}, values(pen))

	for i := 1; i < pen.Len(); i++ {
		assert.LessOrEqual(t, pen.Buckets[i-1].Value, pen.Buckets[i].Value)
	}
}

func TestAggregateTiesAreDeterministic(t *testing.T) {
	ds := model.Dataset{
		Columns: []string{"Region", "Total Amount"},
		Records: []model.Record{
			{"Region": "north", "Total Amount": 10},
			{"Region": "east", "Total Amount": 10},
			{"Region": "west", "Total Amount": 10},
		},
	}
	agg, err := AggregateByCategory(ds, "Region", "Total Amount", Sum)
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "north", "west"}, categories(agg))

	top, ok := agg.Top()
	require.True(t, ok)
	assert.Equal(t, "east", top.Category)
}

func TestAggregateMissingColumns(t *testing.T) {
	ds := model.Dataset{Columns: []string{ColumnTotalAmount}}

	_, err := AggregateByCategory(ds, ColumnProductName, ColumnPenetration, Mean)
	require.ErrorIs(t, err, ErrMissingColumn)

	var mc *MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{ColumnProductName, ColumnPenetration}, mc.Columns)
}

func TestAggregateNonNumericValueFails(t *testing.T) {
	ds := scenarioDataset()
	ds.Records[0][ColumnTotalAmount] = "lots"

	_, err := AggregateByCategory(ds, ColumnProductName, ColumnTotalAmount, Sum)
	var ce *ComputationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ColumnTotalAmount, ce.Column)
}

func TestAggregateNumericCategories(t *testing.T) {
	ds := model.Dataset{
		Columns: []string{"Year", "Total Amount"},
		Records: []model.Record{{"Year": 2024, "Total Amount": 3}, {"Year": 2025, "Total Amount": 1}},
	}
	agg, err := AggregateByCategory(ds, "Year", "Total Amount", Sum)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025", "2024"}, categories(agg))
}

func TestParseReduction(t *testing.T) {
	for in, want := range map[string]Reduction{"sum": Sum, "SUM": Sum, "mean": Mean, "avg": Mean, " average ": Mean} {
		got, err := ParseReduction(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseReduction("median")
	assert.Error(t, err)

	_, err = AggregateByCategory(scenarioDataset(), ColumnProductName, ColumnTotalAmount, Reduction("max"))
	assert.Error(t, err)
}

func TestAggregateTable(t *testing.T) {
	agg, err := AggregateByCategory(scenarioDataset(), ColumnProductName, ColumnTotalAmount, Sum)
	require.NoError(t, err)

	header, rows := agg.Table()
	assert.Equal(t, []string{"Product Name", "Total Amount (sum)", "count"}, header)
	assert.Equal(t, [][]string{{"B", "50", "1"}, {"A", "100", "1"}}, rows)
}

func TestTopOfEmptyAggregate(t *testing.T) {
	_, ok := CategoryAggregate{}.Top()
	assert.False(t, ok)
}

func categories(a CategoryAggregate) []string {
	out := make([]string, 0, a.Len())
	for _, b := range a.Buckets {
		out = append(out, b.Category)
	}
	return out
}

func values(a CategoryAggregate) []float64 {
	out := make([]float64, 0, a.Len())
	for _, b := range a.Buckets {
		out = append(out, b.Value)
	}
	return out
}
