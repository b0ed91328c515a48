package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"report-dashboard/internal/model"
	"report-dashboard/pkg/utils"
)

var (
	// ErrEmpty is returned for a payload without a header row.
	ErrEmpty = errors.New("csv has no header row")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// ------------------- CSV Parsing -------------------

// Parse decodes comma-separated text with a header row into a Dataset.
// Every row must have as many fields as the header.
func Parse(raw []byte) (model.Dataset, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	csvReader := csv.NewReader(bytes.NewReader(raw))
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err == io.EOF {
		return model.Dataset{}, ErrEmpty
	} else if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := cleanHeaders(headers)
	if err != nil {
		return model.Dataset{}, err
	}

	ds := model.Dataset{Columns: columns, Records: make([]model.Record, 0)}
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			return ds, nil
		} else if err != nil {
			return model.Dataset{}, fmt.Errorf("CSV read error: %w", err)
		}

		recMap := make(model.Record, len(columns))
		for i, h := range columns {
			recMap[h] = utils.ParseValue(record[i])
		}
		ds.Records = append(ds.Records, recMap)
	}
}

// cleanHeaders trims whitespace and removes ALL quotes from header names.
func cleanHeaders(headers []string) ([]string, error) {
	seen := make(map[string]bool, len(headers))
	columns := make([]string, len(headers))
	for i, h := range headers {
		cleanHeader := strings.TrimSpace(h)
		cleanHeader = strings.ReplaceAll(cleanHeader, `"`, "")
		if cleanHeader == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		if seen[cleanHeader] {
			return nil, fmt.Errorf("duplicate column %q", cleanHeader)
		}
		seen[cleanHeader] = true
		columns[i] = cleanHeader
	}
	return columns, nil
}
