package kpi

import (
	"fmt"
	"sort"
	"strings"

	"report-dashboard/internal/model"
	"report-dashboard/pkg/utils"
)

// Reduction is how values within one category are combined.
type Reduction string

const (
	Sum  Reduction = "sum"
	Mean Reduction = "mean"
)

// ParseReduction accepts "sum", "mean" and the aliases "avg"/"average".
func ParseReduction(s string) (Reduction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return Sum, nil
	case "mean", "avg", "average":
		return Mean, nil
	default:
		return "", fmt.Errorf("unknown reduction %q (want sum or mean)", s)
	}
}

// Bucket is the reduced value of one category.
// Count is the number of non-missing values that contributed.
type Bucket struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Count    int     `json:"count"`
}

// CategoryAggregate is a per-category reduction sorted ascending by value.
type CategoryAggregate struct {
	CategoryColumn string    `json:"category_column"`
	ValueColumn    string    `json:"value_column"`
	Reduction      Reduction `json:"reduction"`
	Buckets        []Bucket  `json:"buckets"`
}

// Len returns the number of categories.
func (a CategoryAggregate) Len() int { return len(a.Buckets) }

// Top returns the bucket with the largest value; ties go to the smallest category key.
func (a CategoryAggregate) Top() (Bucket, bool) {
	if len(a.Buckets) == 0 {
		return Bucket{}, false
	}
	top := a.Buckets[0]
	for _, b := range a.Buckets[1:] {
		if b.Value > top.Value || (b.Value == top.Value && b.Category < top.Category) {
			top = b
		}
	}
	return top, true
}

// Table returns a header and rows suitable for CSV export.
func (a CategoryAggregate) Table() ([]string, [][]string) {
	header := []string{a.CategoryColumn, fmt.Sprintf("%s (%s)", a.ValueColumn, a.Reduction), "count"}
	rows := make([][]string, 0, len(a.Buckets))
	for _, b := range a.Buckets {
		rows = append(rows, []string{b.Category, utils.FormatValue(b.Value), fmt.Sprintf("%d", b.Count)})
	}
	return header, rows
}

// accumulator collects one category while scanning
type accumulator struct {
	sum   float64
	count int
}

// AggregateByCategory groups records by categoryColumn and reduces valueColumn in each group.
// Records with an empty category are skipped; empty values are skipped inside a group.
// A group with no values reduces to 0.
func AggregateByCategory(ds model.Dataset, categoryColumn, valueColumn string, reduction Reduction) (CategoryAggregate, error) {
	if reduction != Sum && reduction != Mean {
		return CategoryAggregate{}, fmt.Errorf("unknown reduction %q", reduction)
	}
	if missing := ds.MissingColumns(uniqueColumns(categoryColumn, valueColumn)...); len(missing) > 0 {
		return CategoryAggregate{}, &MissingColumnError{Columns: missing}
	}

	groups := make(map[string]*accumulator)
	for i, rec := range ds.Records {
		groupValue := rec[categoryColumn]
		if groupValue == nil {
			continue
		}
		groupKey := utils.FormatValue(groupValue)

		acc, exists := groups[groupKey]
		if !exists {
			acc = &accumulator{}
			groups[groupKey] = acc
		}

		v, ok, err := numericCell(rec, valueColumn, i)
		if err != nil {
			return CategoryAggregate{}, err
		}
		if ok {
			acc.sum += v
			acc.count++
		}
	}

	result := CategoryAggregate{
		CategoryColumn: categoryColumn,
		ValueColumn:    valueColumn,
		Reduction:      reduction,
		Buckets:        make([]Bucket, 0, len(groups)),
	}
	for key, acc := range groups {
		b := Bucket{Category: key, Count: acc.count}
		switch reduction {
		case Sum:
			b.Value = acc.sum
		case Mean:
			b.Value = safeDiv(acc.sum, float64(acc.count))
		}
		result.Buckets = append(result.Buckets, b)
	}
	SortBuckets(result.Buckets, true)
	return result, nil
}

// SortBuckets orders buckets by value, breaking ties by category so output is deterministic.
func SortBuckets(buckets []Bucket, ascending bool) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			if ascending {
				return buckets[i].Value < buckets[j].Value
			}
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].Category < buckets[j].Category
	})
}

func uniqueColumns(cols ...string) []string {
	out := cols[:0:0]
	for _, c := range cols {
		dup := false
		for _, o := range out {
			if o == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}
