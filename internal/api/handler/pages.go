package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"report-dashboard/internal/dashboard"
	"report-dashboard/internal/render"
)

// Index renders the dashboard page for ?report=&mode=&snapshot=.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	svc, ok := h.pageService(w, queryOr(q.Get("report"), dashboard.DefaultReport))
	if !ok {
		return
	}
	mode, err := dashboard.ParseMode(q.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := render.NewPage(svc.Report().Title)
	if mode == dashboard.ModeUpload {
		h.writePage(w, r, svc, mode, "", page)
		return
	}
	selected, err := svc.Render(r.Context(), dashboard.Request{Mode: mode, Name: q.Get("snapshot")}, page)
	h.logRenderError(r, svc, err)
	h.writePage(w, r, svc, mode, selected, page)
}

// UploadForm saves the posted file and shows its view.
func (h *Handler) UploadForm(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	svc, ok := h.pageService(w, queryOr(r.FormValue("report"), dashboard.DefaultReport))
	if !ok {
		return
	}

	page := render.NewPage(svc.Report().Title)
	selected, err := svc.Render(r.Context(), dashboard.Request{Mode: dashboard.ModeUpload, Name: name, Data: data}, page)
	h.logRenderError(r, svc, err)
	mode := dashboard.ModeExisting
	if selected == "" {
		mode = dashboard.ModeUpload
	}
	h.writePage(w, r, svc, mode, selected, page)
}

// DeleteForm removes the posted snapshot and shows the remaining ones.
func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	svc, ok := h.pageService(w, queryOr(r.FormValue("report"), dashboard.DefaultReport))
	if !ok {
		return
	}

	page := render.NewPage(svc.Report().Title)
	name := strings.TrimSpace(r.FormValue("name"))
	if err := svc.Delete(r.Context(), name); err != nil {
		page.Error("Could not delete file", err)
	} else {
		page.Notice(render.LevelSuccess, fmt.Sprintf("%s has been deleted.", name))
	}

	selected, err := svc.Render(r.Context(), dashboard.Request{Mode: dashboard.ModeExisting}, page)
	h.logRenderError(r, svc, err)
	h.writePage(w, r, svc, dashboard.ModeExisting, selected, page)
}

func (h *Handler) pageService(w http.ResponseWriter, key string) (*dashboard.Service, bool) {
	svc, err := h.dash.Service(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return svc, true
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, svc *dashboard.Service, mode dashboard.Mode, selected string, page *render.Page) {
	snapshots, err := svc.List()
	if err != nil {
		h.logger.Warn("list snapshots for page", zap.String("report", svc.Report().Key), zap.Error(err))
	}

	layout := render.Layout{
		AppTitle:    h.title,
		Report:      svc.Report().Key,
		ReportTitle: svc.Report().Title,
		Mode:        string(mode),
		Snapshots:   snapshots,
		Selected:    selected,
		Page:        page,
	}
	for _, rep := range h.dash.Reports() {
		layout.Nav = append(layout.Nav, render.NavItem{Key: rep.Key, Title: rep.Title, Active: rep.Key == svc.Report().Key})
	}

	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, layout); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// view errors are already on the page; log the ones that point at the server
func (h *Handler) logRenderError(r *http.Request, svc *dashboard.Service, err error) {
	if err == nil || statusFor(err) < http.StatusInternalServerError {
		return
	}
	h.logger.Error("render view",
		zap.String("report", svc.Report().Key),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}
