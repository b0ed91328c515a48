package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"report-dashboard/internal/api/handler"
	"report-dashboard/internal/dashboard"
	"report-dashboard/internal/render"
	"report-dashboard/internal/store"
	"report-dashboard/pkg/router"
)

const revenueCSV = "Product Name,Total Amount,Sub Count End,Sub Count Start\nA,100,10,12\nB,50,5,5\n"

func newServer(t *testing.T) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()

	catalog, err := store.Open(filepath.Join(dir, "dashboard.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })

	dash, err := dashboard.New(dir, catalog, dashboard.Options{Logger: logger})
	require.NoError(t, err)

	r := router.New(logger)
	RegisterRoutes(r, handler.New(dash, handler.Options{Logger: logger}))
	return handler.WithCORS(r)
}

func do(t *testing.T, srv http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string, file string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != "" {
		fw, err := mw.CreateFormFile("file", "upload.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, srv http.Handler, report, name, csv string) *httptest.ResponseRecorder {
	body, ct := multipartBody(t, map[string]string{"name": name}, csv)
	return do(t, srv, http.MethodPost, "/api/v1/reports/"+report+"/snapshots", body, ct)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndReports(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	rec = do(t, srv, http.MethodGet, "/api/v1/reports", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	reports := decode[[]dashboard.Report](t, rec)
	require.Len(t, reports, 5)
}

func TestSnapshotLifecycle(t *testing.T) {
	srv := newServer(t)

	rec := upload(t, srv, "financial", "january", revenueCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[handler.SnapshotSaved](t, rec)
	require.Equal(t, len(revenueCSV), saved.SizeBytes)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/financial/snapshots", nil, "")
	require.Equal(t, []string{"january"}, decode[handler.SnapshotList](t, rec).Snapshots)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/financial/snapshots/january", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[handler.SnapshotData](t, rec)
	require.Equal(t, []string{"Product Name", "Total Amount", "Sub Count End", "Sub Count Start"}, data.Columns)
	require.Len(t, data.Records, 2)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/financial/snapshots/january/raw", nil, "")
	require.Equal(t, revenueCSV, rec.Body.String())
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	rec = do(t, srv, http.MethodDelete, "/api/v1/reports/financial/snapshots/january", nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/financial/snapshots/january", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotEmpty(t, decode[handler.ErrorResponse](t, rec).Error)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/financial/history", nil, "")
	events := decode[[]store.Event](t, rec)
	require.Len(t, events, 2)
	require.Equal(t, store.ActionDelete, events[0].Action)
}

func TestUploadValidation(t *testing.T) {
	srv := newServer(t)

	require.Equal(t, http.StatusBadRequest, upload(t, srv, "financial", "", revenueCSV).Code)
	require.Equal(t, http.StatusBadRequest, upload(t, srv, "financial", "jan", "").Code)
	require.Equal(t, http.StatusBadRequest, upload(t, srv, "financial", "../etc", revenueCSV).Code)
	require.Equal(t, http.StatusNotFound, upload(t, srv, "payroll", "jan", revenueCSV).Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv := newServer(t)
	require.Equal(t, http.StatusCreated, upload(t, srv, "financial", "jan", revenueCSV).Code)
	base := "/api/v1/reports/financial/snapshots/jan"

	rec := do(t, srv, http.MethodGet, base+"/kpis", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	kpis := decode[handler.KPIResponse](t, rec)
	require.Equal(t, 150.0, kpis.Values["total_revenue"])
	require.Equal(t, 10.0, kpis.Values["arpu"])
	require.Equal(t, "11.76%", kpis.Display["churn_rate"])
	require.Equal(t, "15", kpis.Display["total_subscribers_end"])
	require.Len(t, kpis.Omitted, 1)

	rec = do(t, srv, http.MethodGet, base+"/aggregate", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"buckets":[{"category":"B","value":50,"count":1},{"category":"A","value":100,"count":1}]`)

	rec = do(t, srv, http.MethodGet, base+"/aggregate?value=Sub+Count+End&reduction=mean&format=csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Product Name,Sub Count End (mean),count\nB,5,1\nA,10,1\n", rec.Body.String())

	require.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, base+"/aggregate?reduction=median", nil, "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, base+"/aggregate?format=xml", nil, "").Code)
	require.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodGet, base+"/aggregate?value=Penetration+%25", nil, "").Code)

	rec = do(t, srv, http.MethodGet, base+"/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, decode[handler.SummaryResponse](t, rec).Summary, "Pioneer Broadband generated $150.00")

	rec = do(t, srv, http.MethodGet, base+"/view", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[render.Page](t, rec)
	require.Len(t, page.Of(render.BlockChart), 2)
	require.Len(t, page.Of(render.BlockText), 1)

	rec = do(t, srv, http.MethodGet, base+"/charts/revenue.png", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(rec.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, base+"/charts/pie.png", nil, "").Code)
	require.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodGet, base+"/charts/penetration.png", nil, "").Code)
	require.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/v1/reports/financial/snapshots/feb/kpis", nil, "").Code)
}

func TestParseErrorIsUnprocessable(t *testing.T) {
	srv := newServer(t)
	require.Equal(t, http.StatusCreated, upload(t, srv, "tally", "bad", "a,b\n1,2,3\n").Code)

	rec := do(t, srv, http.MethodGet, "/api/v1/reports/tally/snapshots/bad", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEmptyUploadIsSavedAndRejectedOnLoad(t *testing.T) {
	srv := newServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "blank"))
	_, err := mw.CreateFormFile("file", "blank.csv")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := do(t, srv, http.MethodPost, "/api/v1/reports/financial/snapshots", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, 0, decode[handler.SnapshotSaved](t, rec).SizeBytes)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/financial/snapshots/blank", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDashboardPages(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No saved files found")

	body, ct := multipartBody(t, map[string]string{"report": "financial"}, revenueCSV)
	rec = do(t, srv, http.MethodPost, "/upload", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Please enter a file name to save.")

	body, ct = multipartBody(t, map[string]string{"report": "financial", "name": "march"}, revenueCSV)
	rec = do(t, srv, http.MethodPost, "/upload", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	require.Contains(t, out, "File saved as: march")
	require.Contains(t, out, "$150.00")
	require.Contains(t, out, "Executive Summary")

	rec = do(t, srv, http.MethodGet, "/?report=financial&mode=existing&snapshot=march", nil, "")
	require.Contains(t, rec.Body.String(), `<option value="march" selected>march</option>`)

	form := bytes.NewBufferString("report=financial&name=march")
	rec = do(t, srv, http.MethodPost, "/delete", form, "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "march has been deleted.")
	require.Contains(t, rec.Body.String(), "No saved files found")

	rec = do(t, srv, http.MethodGet, "/?report=payroll", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/?mode=upload&report=tally", nil, "")
	require.True(t, strings.Contains(rec.Body.String(), `enctype="multipart/form-data"`))
}

func TestSwaggerAndCORS(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/reports/{report}/snapshots")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reports", nil)
	req.Header.Set("Origin", "http://example.test")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "http://example.test", rr.Header().Get("Access-Control-Allow-Origin"))
}
