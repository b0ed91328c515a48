package dashboard

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"report-dashboard/internal/kpi"
	"report-dashboard/internal/model"
	"report-dashboard/internal/render"
	"report-dashboard/internal/snapshot"
	"report-dashboard/internal/store"
	"report-dashboard/internal/tabular"
)

// ErrUnknownChart is returned for a chart id outside the chart set.
var ErrUnknownChart = errors.New("unknown chart")

// Catalog is the history the service writes to after each save or delete.
type Catalog interface {
	RecordEvent(ctx context.Context, ev store.Event) (store.Event, error)
	ListEvents(ctx context.Context, report string, limit int) ([]store.Event, error)
}

// Options configure every report service of a dashboard.
type Options struct {
	Company string
	Cache   bool
	Folders map[string]string
	Logger  *zap.Logger
}

// Service manages the snapshots of one report and renders its views.
type Service struct {
	report  Report
	store   *snapshot.Store[model.Dataset]
	catalog Catalog
	company string
	logger  *zap.Logger
}

func NewService(report Report, dataDir string, catalog Catalog, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("report", report.Key))

	storeOpts := []snapshot.Option{snapshot.WithLogger(logger)}
	if opts.Cache {
		storeOpts = append(storeOpts, snapshot.WithCache())
	}
	company := opts.Company
	if company == "" {
		company = kpi.DefaultCompany
	}
	return &Service{
		report:  report,
		store:   snapshot.New(filepath.Join(dataDir, report.Folder), tabular.Parse, storeOpts...),
		catalog: catalog,
		company: company,
		logger:  logger,
	}
}

func (s *Service) Report() Report { return s.report }

func (s *Service) List() ([]string, error) { return s.store.List() }

func (s *Service) Load(name string) (model.Dataset, error) { return s.store.Load(name) }

func (s *Service) Raw(name string) ([]byte, error) { return s.store.Raw(name) }

// Save writes raw under name and records the event.
func (s *Service) Save(ctx context.Context, name string, raw []byte) error {
	if err := s.store.Save(name, raw); err != nil {
		return err
	}
	s.record(ctx, store.Event{Report: s.report.Key, Name: name, Action: store.ActionSave, SizeBytes: int64(len(raw))})
	return nil
}

// Delete removes the snapshot and records the event.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(name); err != nil {
		return err
	}
	s.record(ctx, store.Event{Report: s.report.Key, Name: name, Action: store.ActionDelete})
	return nil
}

// History lists recent saves and deletes, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]store.Event, error) {
	if s.catalog == nil {
		return []store.Event{}, nil
	}
	return s.catalog.ListEvents(ctx, s.report.Key, limit)
}

// a failed history write is logged, the snapshot operation already succeeded
func (s *Service) record(ctx context.Context, ev store.Event) {
	if s.catalog == nil {
		return
	}
	if _, err := s.catalog.RecordEvent(ctx, ev); err != nil {
		s.logger.Warn("catalog write failed",
			zap.String("name", ev.Name),
			zap.String("action", string(ev.Action)),
			zap.Error(err))
	}
}

// KPIs computes the metric set of a stored snapshot.
func (s *Service) KPIs(name string) (kpi.Result, error) {
	ds, err := s.store.Load(name)
	if err != nil {
		return kpi.Result{}, err
	}
	return kpi.Compute(ds)
}

// Aggregate groups a stored snapshot by categoryColumn.
func (s *Service) Aggregate(name, categoryColumn, valueColumn string, reduction kpi.Reduction) (kpi.CategoryAggregate, error) {
	ds, err := s.store.Load(name)
	if err != nil {
		return kpi.CategoryAggregate{}, err
	}
	return kpi.AggregateByCategory(ds, categoryColumn, valueColumn, reduction)
}

// Summary writes the executive summary of a stored snapshot.
func (s *Service) Summary(name string) (string, error) {
	ds, err := s.store.Load(name)
	if err != nil {
		return "", err
	}
	res, err := kpi.Compute(ds)
	if err != nil {
		return "", err
	}
	revenue, err := kpi.AggregateByCategory(ds, kpi.ColumnProductName, kpi.ColumnTotalAmount, kpi.Sum)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kpi.ErrSummaryUnavailable, err)
	}
	return kpi.Summary(res, revenue, s.company)
}

// Chart builds one product chart of a stored snapshot.
func (s *Service) Chart(name, id string) (render.Chart, error) {
	def, ok := chartByID(id)
	if !ok {
		return render.Chart{}, fmt.Errorf("%w %q", ErrUnknownChart, id)
	}
	ds, err := s.store.Load(name)
	if err != nil {
		return render.Chart{}, err
	}
	agg, err := kpi.AggregateByCategory(ds, kpi.ColumnProductName, def.valueColumn, def.reduction)
	if err != nil {
		return render.Chart{}, err
	}
	return def.build(agg), nil
}
