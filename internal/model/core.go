package model

// Record is a single row of a dataset keyed by column name.
// Values are int, float64, string, or nil for an empty cell.
type Record map[string]interface{}

// Dataset is an ordered sequence of records sharing the header's column set.
type Dataset struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

// HasColumn reports whether the header declares column.
func (d Dataset) HasColumn(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of required columns absent from the header,
// in the order they were requested.
func (d Dataset) MissingColumns(required ...string) []string {
	var missing []string
	for _, field := range required {
		if !d.HasColumn(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Rows returns the records as string cells in header order, for table display.
func (d Dataset) Rows(format func(interface{}) string) [][]string {
	rows := make([][]string, 0, len(d.Records))
	for _, rec := range d.Records {
		row := make([]string, len(d.Columns))
		for i, col := range d.Columns {
			row[i] = format(rec[col])
		}
		rows = append(rows, row)
	}
	return rows
}
