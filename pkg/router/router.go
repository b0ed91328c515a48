package router

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request id, echoed back when the client sent one.
const RequestIDHeader = "X-Request-ID"

type HandlerFunc func(http.ResponseWriter, *http.Request)

type paramsKey struct{}

type route struct {
	method   string
	segments []string
	handler  HandlerFunc
}

type Router struct {
	routes   map[string]HandlerFunc // key = METHOD:PATH
	paths    map[string]bool        // track registered paths
	patterns []route                // routes with {param} or * segments, in registration order
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		logger: logger,
	}
}

// ServeHTTP dispatches exact routes first, then pattern routes in registration order.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	lrw.Header().Set(RequestIDHeader, requestID)

	r.dispatch(lrw, req)

	r.logger.Info("request",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", lrw.statusCode),
		zap.Duration("duration", time.Since(start)),
	)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	key := req.Method + ":" + req.URL.Path
	if h, ok := r.routes[key]; ok {
		h(w, req)
		return
	}

	var allowed []string
	for _, rt := range r.patterns {
		params, ok := matchRoute(req.URL.Path, rt.segments)
		if !ok {
			continue
		}
		if rt.method != req.Method {
			allowed = append(allowed, rt.method)
			continue
		}
		if len(params) > 0 {
			req = req.WithContext(context.WithValue(req.Context(), paramsKey{}, params))
		}
		rt.handler(w, req)
		return
	}

	if r.paths[req.URL.Path] {
		for k := range r.routes {
			if method, path, _ := strings.Cut(k, ":"); path == req.URL.Path {
				allowed = append(allowed, method)
			}
		}
	}
	if len(allowed) > 0 {
		sort.Strings(allowed)
		w.Header().Set("Allow", strings.Join(dedupe(allowed), ", "))
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchRoute checks a request path against route segments. "{name}" captures one
// segment, "*" matches one segment, and a trailing "*" matches the rest.
func matchRoute(requestPath string, routeSegments []string) (map[string]string, bool) {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")

	if n := len(routeSegments); n > 0 && routeSegments[n-1] == "*" {
		if len(requestSegments) < n-1 {
			return nil, false
		}
		return matchSegments(requestSegments[:n-1], routeSegments[:n-1])
	}

	if len(requestSegments) != len(routeSegments) {
		return nil, false
	}
	return matchSegments(requestSegments, routeSegments)
}

func matchSegments(requestSegments, routeSegments []string) (map[string]string, bool) {
	var params map[string]string
	for i, routeSegment := range routeSegments {
		switch {
		case routeSegment == "*":
			continue
		case isParam(routeSegment):
			if requestSegments[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[routeSegment[1:len(routeSegment)-1]] = requestSegments[i]
		case requestSegments[i] != routeSegment:
			return nil, false
		}
	}
	return params, true
}

// Param returns the value captured by "{name}" in the matched route.
func Param(r *http.Request, name string) string {
	params, _ := r.Context().Value(paramsKey{}).(map[string]string)
	return params[name]
}

func isParam(segment string) bool {
	return len(segment) > 2 && segment[0] == '{' && segment[len(segment)-1] == '}'
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	r.routes[key] = handler
	r.paths[path] = true

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for _, s := range segments {
		if s == "*" || isParam(s) {
			r.patterns = append(r.patterns, route{method: method, segments: segments, handler: handler})
			break
		}
	}
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func dedupe(sorted []string) []string {
	out := make([]string, 0, len(sorted))
	for _, s := range sorted {
		if len(out) == 0 || out[len(out)-1] != s {
			out = append(out, s)
		}
	}
	return out
}
