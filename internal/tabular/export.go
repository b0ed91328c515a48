package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"report-dashboard/internal/model"
	"report-dashboard/pkg/utils"
)

// Encode writes a dataset back to CSV: header first, then one row per record.
func Encode(ds model.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, ds.Columns, ds.Rows(utils.FormatValue)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTable exports a header and rows as CSV.
func WriteTable(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
