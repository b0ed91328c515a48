package dashboard

import (
	"errors"
	"fmt"
)

// ErrUnknownReport is returned for a report key that is not registered.
var ErrUnknownReport = errors.New("unknown report")

// Kind decides what a report renders beyond its raw table.
type Kind string

const (
	KindFinancial Kind = "financial"
	KindTable     Kind = "table"
)

// Report is one sidebar entry with its own snapshot folder.
type Report struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Folder string `json:"folder"`
	Kind   Kind   `json:"kind"`
}

var defaultReports = []Report{
	{Key: "tally", Title: "Tally Report", Folder: "saved_tally", Kind: KindTable},
	{Key: "construction", Title: "Construction Report", Folder: "saved_construction", Kind: KindTable},
	{Key: "workorders", Title: "Work Orders", Folder: "saved_workorders", Kind: KindTable},
	{Key: "installs", Title: "Installs", Folder: "saved_installs", Kind: KindTable},
	{Key: "financial", Title: "Financial / Customer Insights", Folder: "saved_financial", Kind: KindFinancial},
}

// DefaultReport is shown when no report is selected.
const DefaultReport = "financial"

// Registry returns the reports in sidebar order with folder overrides applied.
func Registry(folders map[string]string) ([]Report, error) {
	out := make([]Report, len(defaultReports))
	copy(out, defaultReports)
	known := make(map[string]bool, len(out))
	for i := range out {
		known[out[i].Key] = true
		if f, ok := folders[out[i].Key]; ok && f != "" {
			out[i].Folder = f
		}
	}
	for key := range folders {
		if !known[key] {
			return nil, fmt.Errorf("%w %q in report_folders", ErrUnknownReport, key)
		}
	}
	return out, nil
}
