package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"report-dashboard/internal/api"
	"report-dashboard/internal/api/handler"
	"report-dashboard/internal/config"
	"report-dashboard/internal/dashboard"
	"report-dashboard/internal/store"
	"report-dashboard/pkg/router"
)

// App wires configuration, storage and the HTTP server together.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Catalog   *store.Catalog
	Dashboard *dashboard.Dashboard
	Server    *http.Server
}

// Initialize opens the catalog and builds the dashboard and its HTTP server.
func Initialize(cfg *config.Config, logger *zap.Logger) (*App, error) {
	catalog, err := store.Open(cfg.Catalog(), logger.Named("catalog"))
	if err != nil {
		return nil, err
	}

	dash, err := dashboard.New(cfg.DataDir, catalog, dashboard.Options{
		Company: cfg.CompanyName,
		Cache:   cfg.SnapshotCache,
		Folders: cfg.ReportFolders,
		Logger:  logger.Named("snapshots"),
	})
	if err != nil {
		_ = catalog.Close()
		return nil, err
	}

	h := handler.New(dash, handler.Options{
		Title:        cfg.CompanyName + " Dashboard",
		HistoryLimit: cfg.HistoryLimit,
		Logger:       logger.Named("api"),
	})
	r := router.New(logger.Named("http"))
	api.RegisterRoutes(r, h)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Dashboard: dash,
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler.WithCORS(r),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start serves until ctx is cancelled, then shuts down and closes the catalog.
func (a *App) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Starting server", zap.String("addr", a.Server.Addr), zap.String("data_dir", a.Config.DataDir))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	a.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.Server.Shutdown(shutdownCtx)

	if err := a.Catalog.Close(); err != nil {
		a.Logger.Error("Failed to close catalog", zap.Error(err))
	}
	return serveErr
}
