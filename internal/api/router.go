package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "report-dashboard/docs"
	"report-dashboard/internal/api/handler"
	"report-dashboard/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/health", h.Health)

	// HTML dashboard
	r.GET("/", h.Index)
	r.POST("/upload", h.UploadForm)
	r.POST("/delete", h.DeleteForm)

	r.GET("/api/v1/reports", h.ListReports)
	r.GET("/api/v1/reports/{report}/history", h.History)
	r.GET("/api/v1/reports/{report}/snapshots", h.ListSnapshots)
	r.POST("/api/v1/reports/{report}/snapshots", h.UploadSnapshot)
	// More specific routes first
	r.GET("/api/v1/reports/{report}/snapshots/{name}/raw", h.RawSnapshot)
	r.GET("/api/v1/reports/{report}/snapshots/{name}/view", h.View)
	r.GET("/api/v1/reports/{report}/snapshots/{name}/kpis", h.KPIs)
	r.GET("/api/v1/reports/{report}/snapshots/{name}/aggregate", h.Aggregate)
	r.GET("/api/v1/reports/{report}/snapshots/{name}/summary", h.Summary)
	r.GET("/api/v1/reports/{report}/snapshots/{name}/charts/{chart}", h.Chart)
	// Generic snapshot routes last
	r.GET("/api/v1/reports/{report}/snapshots/{name}", h.GetSnapshot)
	r.DELETE("/api/v1/reports/{report}/snapshots/{name}", h.DeleteSnapshot)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
