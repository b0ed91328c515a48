package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"report-dashboard/internal/model"
	"report-dashboard/internal/store"
	"report-dashboard/pkg/router"
)

// SnapshotList is the response of ListSnapshots.
type SnapshotList struct {
	Report    string   `json:"report"`
	Snapshots []string `json:"snapshots"`
}

// SnapshotSaved is the response of UploadSnapshot.
type SnapshotSaved struct {
	Report    string `json:"report"`
	Name      string `json:"name"`
	SizeBytes int    `json:"size_bytes"`
}

// SnapshotData is a parsed snapshot.
type SnapshotData struct {
	Report string `json:"report"`
	Name   string `json:"name"`
	model.Dataset
}

// ListReports returns the registered report kinds
// @Summary List reports
// @Description Report kinds, each with its own snapshot folder
// @Tags reports
// @Produce json
// @Success 200 {array} dashboard.Report
// @Router /reports [get]
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Reports())
}

// ListSnapshots returns saved snapshot names
// @Summary List snapshots
// @Description Names of the saved snapshots of a report, sorted ascending
// @Tags snapshots
// @Produce json
// @Param report path string true "Report key"
// @Success 200 {object} SnapshotList
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/{report}/snapshots [get]
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	names, err := svc.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SnapshotList{Report: svc.Report().Key, Snapshots: names})
}

// UploadSnapshot saves an uploaded CSV under a name, replacing any snapshot of that name
// @Summary Upload a snapshot
// @Tags snapshots
// @Accept multipart/form-data
// @Produce json
// @Param report path string true "Report key"
// @Param name formData string true "Snapshot name without extension"
// @Param file formData file true "CSV file"
// @Success 201 {object} SnapshotSaved
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/{report}/snapshots [post]
func (h *Handler) UploadSnapshot(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	name, data, err := readUpload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if data == nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := svc.Save(r.Context(), name, data); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SnapshotSaved{Report: svc.Report().Key, Name: name, SizeBytes: len(data)})
}

// GetSnapshot returns a parsed snapshot
// @Summary Get a snapshot
// @Tags snapshots
// @Produce json
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Success 200 {object} SnapshotData
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name} [get]
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	name := router.Param(r, "name")
	ds, err := svc.Load(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SnapshotData{Report: svc.Report().Key, Name: name, Dataset: ds})
}

// DeleteSnapshot removes a snapshot
// @Summary Delete a snapshot
// @Tags snapshots
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name} [delete]
func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	if err := svc.Delete(r.Context(), router.Param(r, "name")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RawSnapshot downloads the stored bytes
// @Summary Download a snapshot
// @Tags snapshots
// @Produce text/csv
// @Param report path string true "Report key"
// @Param name path string true "Snapshot name"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /reports/{report}/snapshots/{name}/raw [get]
func (h *Handler) RawSnapshot(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	name := router.Param(r, "name")
	raw, err := svc.Raw(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	_, _ = w.Write(raw)
}

// History lists recent saves and deletes
// @Summary Snapshot history
// @Tags snapshots
// @Produce json
// @Param report path string true "Report key"
// @Success 200 {array} store.Event
// @Failure 404 {object} ErrorResponse
// @Router /reports/{report}/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	events, err := svc.History(r.Context(), h.historyLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if events == nil {
		events = []store.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// readUpload pulls the name field and file bytes out of a multipart form.
// Data is nil when no file part was sent and empty for a zero-byte file.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, fmt.Errorf("invalid upload: %w", err)
	}
	name := strings.TrimSpace(r.FormValue("name"))

	f, _, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return name, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("invalid upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return name, data, nil
}
