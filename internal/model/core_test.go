package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatasetColumns(t *testing.T) {
	ds := Dataset{
		Columns: []string{"Product Name", "Total Amount"},
		Records: []Record{
			{"Product Name": "Fiber", "Total Amount": 100},
			{"Product Name": "Voice", "Total Amount": nil},
		},
	}

	require.Equal(t, 2, ds.Len())
	require.True(t, ds.HasColumn("Total Amount"))
	require.False(t, ds.HasColumn("total amount"))
	require.Equal(t, []string{"Sub Count End", "Penetration %"},
		ds.MissingColumns("Total Amount", "Sub Count End", "Penetration %"))
	require.Nil(t, ds.MissingColumns("Product Name"))

	rows := ds.Rows(func(v interface{}) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprint(v)
	})
	require.Equal(t, [][]string{{"Fiber", "100"}, {"Voice", "-"}}, rows)
}
