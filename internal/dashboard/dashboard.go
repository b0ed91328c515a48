package dashboard

import "fmt"

// Dashboard holds one Service per registered report.
type Dashboard struct {
	reports  []Report
	services map[string]*Service
}

func New(dataDir string, catalog Catalog, opts Options) (*Dashboard, error) {
	reports, err := Registry(opts.Folders)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		reports:  reports,
		services: make(map[string]*Service, len(reports)),
	}
	for _, r := range reports {
		d.services[r.Key] = NewService(r, dataDir, catalog, opts)
	}
	return d, nil
}

// Reports returns the registered reports in sidebar order.
func (d *Dashboard) Reports() []Report {
	out := make([]Report, len(d.reports))
	copy(out, d.reports)
	return out
}

// Service returns the service of report key.
func (d *Dashboard) Service(key string) (*Service, error) {
	s, ok := d.services[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownReport, key)
	}
	return s, nil
}
