package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPStats receives per-request measurements.
type HTTPStats interface {
	RecordRequest(method, path, status string)
	ObserveRequest(method, path string, duration time.Duration)
}

// MetricsMiddleware records HTTP request metrics.
type MetricsMiddleware struct {
	stats HTTPStats
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(stats HTTPStats) *MetricsMiddleware {
	return &MetricsMiddleware{stats: stats}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		m.stats.RecordRequest(r.Method, path, strconv.Itoa(wrapped.statusCode))
		m.stats.ObserveRequest(r.Method, path, time.Since(start))
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath replaces resource IDs with a placeholder to keep
// label cardinality bounded.
// /api/v1/accounts/01ABC123/deposit -> /api/v1/accounts/:id/deposit
func normalizePath(path string) string {
	for _, prefix := range []string{"/api/v1/accounts/", "/api/v1/holders/"} {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || rest == "" {
			continue
		}

		suffix := ""
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			suffix = rest[i:]
		}

		return prefix + ":id" + suffix
	}

	return path
}
