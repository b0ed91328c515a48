package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryScenario(t *testing.T) {
	ds := scenarioDataset()
	res, err := Compute(ds)
	require.NoError(t, err)
	revenue, err := AggregateByCategory(ds, ColumnProductName, ColumnTotalAmount, Sum)
	require.NoError(t, err)

	text, err := Summary(res, revenue, "")
	require.NoError(t, err)
	assert.Equal(t,
		"For the selected period, Pioneer Broadband generated $150.00 in total revenue with an ARPU of $10.00."+
			" The churn rate for this period was 11.76%."+
			" Revenue was primarily driven by A ($100.00).",
		text)
}

func TestSummaryMentionsPenetrationWhenPresent(t *testing.T) {
	res := Result{Values: map[Metric]float64{
		TotalRevenue:   1234.5,
		ARPU:           41.15,
		ChurnRate:      3.2,
		AvgPenetration: 27.125,
	}}
	revenue := CategoryAggregate{
		CategoryColumn: ColumnProductName,
		Buckets:        []Bucket{{Category: "Voice", Value: 234.5}, {Category: "Fiber", Value: 1000}},
	}

	text, err := Summary(res, revenue, "Acme Fiber")
	require.NoError(t, err)
	assert.Contains(t, text, "Acme Fiber generated $1,234.50")
	assert.Contains(t, text, "average penetration of 27.13% across products")
	assert.Contains(t, text, "driven by Fiber ($1,000.00)")

	again, err := Summary(res, revenue, "Acme Fiber")
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestSummaryEmptyRevenueAggregate(t *testing.T) {
	res := Result{Values: map[Metric]float64{TotalRevenue: 0, ARPU: 0, ChurnRate: 0}}
	_, err := Summary(res, CategoryAggregate{CategoryColumn: ColumnProductName}, "")
	require.ErrorIs(t, err, ErrSummaryUnavailable)
	assert.Contains(t, err.Error(), "product name")
}

func TestSummaryMissingKPIs(t *testing.T) {
	res := Result{Values: map[Metric]float64{TotalRevenue: 10}}
	revenue := CategoryAggregate{Buckets: []Bucket{{Category: "A", Value: 10}}}

	_, err := Summary(res, revenue, "")
	require.ErrorIs(t, err, ErrSummaryUnavailable)
	assert.Contains(t, err.Error(), "arpu")
	assert.Contains(t, err.Error(), "churn_rate")
}
