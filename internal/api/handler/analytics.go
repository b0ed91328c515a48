package handler

import (
	"bytes"
	"net/http"
	"strings"

	"report-dashboard/internal/dashboard"
	"report-dashboard/internal/kpi"
	"report-dashboard/internal/render"
	"report-dashboard/internal/tabular"
	"report-dashboard/pkg/router"
)

// KPIResponse is the metric set of one snapshot.
type KPIResponse struct {
	Name    string             `json:"name"`
	Values  map[string]float64 `json:"values"`
	Display map[string]string  `json:"display"`
	Omitted []kpi.Metric       `json:"omitted"`
}

// SummaryResponse carries the executive summary paragraph.
type SummaryResponse struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// View renders the full dashboard view of a snapshot
// @Summary Dashboard view
// @Description Raw table, KPI tiles, product charts and executive summary as ordered blocks; chart and summary failures appear as error blocks
// @Tags analytics
// @Produce json
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Success 200 {object} render.Page
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name}/view [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	name := router.Param(r, "name")
	page := render.NewPage(svc.Report().Title)
	if _, err := svc.Render(r.Context(), dashboard.Request{Mode: dashboard.ModeExisting, Name: name}, page); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// KPIs computes the metric set of a snapshot
// @Summary Snapshot KPIs
// @Description Total revenue, subscribers, ARPU, churn rate and average penetration; metrics whose columns are absent are listed as omitted
// @Tags analytics
// @Produce json
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Success 200 {object} KPIResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name}/kpis [get]
func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	name := router.Param(r, "name")
	res, err := svc.KPIs(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := KPIResponse{
		Name:    name,
		Values:  make(map[string]float64, len(res.Values)),
		Display: make(map[string]string, len(res.Values)),
		Omitted: res.Omitted,
	}
	if resp.Omitted == nil {
		resp.Omitted = []kpi.Metric{}
	}
	for m, v := range res.Values {
		resp.Values[string(m)] = v
		resp.Display[string(m)] = dashboard.DisplayMetric(m, v)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Aggregate groups a snapshot by a category column
// @Summary Aggregate by category
// @Description Sum or mean of a value column per distinct category, ascending by value
// @Tags analytics
// @Produce json
// @Produce text/csv
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Param category query string false "Category column" default(Product Name)
// @Param value query string false "Value column" default(Total Amount)
// @Param reduction query string false "sum or mean" default(sum)
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} kpi.CategoryAggregate
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name}/aggregate [get]
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	category := queryOr(q.Get("category"), kpi.ColumnProductName)
	value := queryOr(q.Get("value"), kpi.ColumnTotalAmount)
	reduction, err := kpi.ParseReduction(queryOr(q.Get("reduction"), string(kpi.Sum)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outFormat := strings.ToLower(queryOr(q.Get("format"), "json"))
	if outFormat != "json" && outFormat != "csv" {
		writeError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	agg, err := svc.Aggregate(router.Param(r, "name"), category, value, reduction)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if outFormat == "csv" {
		header, rows := agg.Table()
		var buf bytes.Buffer
		if err := tabular.WriteTable(&buf, header, rows); err != nil {
			h.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(buf.Bytes())
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// Summary writes the executive summary of a snapshot
// @Summary Executive summary
// @Tags analytics
// @Produce json
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Success 200 {object} SummaryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name}/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	name := router.Param(r, "name")
	text, err := svc.Summary(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Name: name, Summary: text})
}

// Chart draws one product chart as PNG
// @Summary Product chart
// @Description revenue, subscribers or penetration by product
// @Tags analytics
// @Produce image/png
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Param chart path string true "Chart file" Enums(revenue.png, subscribers.png, penetration.png)
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name}/charts/{chart} [get]
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	id := strings.TrimSuffix(router.Param(r, "chart"), ".png")
	chart, err := svc.Chart(router.Param(r, "name"), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.BarChartPNG(&buf, chart); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func queryOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
