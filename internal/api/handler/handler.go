package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"report-dashboard/internal/dashboard"
	"report-dashboard/internal/kpi"
	"report-dashboard/internal/render"
	"report-dashboard/internal/snapshot"
	"report-dashboard/pkg/router"
)

const maxUploadBytes = 32 << 20

// Handler serves the dashboard page and the JSON API.
type Handler struct {
	dash         *dashboard.Dashboard
	logger       *zap.Logger
	title        string
	historyLimit int
}

type Options struct {
	Title        string
	HistoryLimit int
	Logger       *zap.Logger
}

func New(dash *dashboard.Dashboard, opts Options) *Handler {
	h := &Handler{
		dash:         dash,
		logger:       opts.Logger,
		title:        opts.Title,
		historyLimit: opts.HistoryLimit,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.title == "" {
		h.title = "Pioneer Dashboard"
	}
	if h.historyLimit <= 0 {
		h.historyLimit = 50
	}
	return h
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		parseErr   *snapshot.ParseError
		computeErr *kpi.ComputationError
	)
	switch {
	case errors.Is(err, dashboard.ErrUnknownReport),
		errors.Is(err, dashboard.ErrUnknownChart),
		errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, snapshot.ErrInvalidName),
		errors.Is(err, dashboard.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.As(err, &parseErr),
		errors.As(err, &computeErr),
		errors.Is(err, kpi.ErrMissingColumn),
		errors.Is(err, kpi.ErrSummaryUnavailable),
		errors.Is(err, render.ErrEmptyChart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", w.Header().Get(router.RequestIDHeader)),
			zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// service resolves the {report} path segment.
func (h *Handler) service(w http.ResponseWriter, r *http.Request) (*dashboard.Service, bool) {
	svc, err := h.dash.Service(router.Param(r, "report"))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return svc, true
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WithCORS allows browser clients on other origins to call the API.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+router.RequestIDHeader)
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodPost+", "+http.MethodDelete+", "+http.MethodOptions)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
