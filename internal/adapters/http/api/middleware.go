package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hackdesk/hackdesk/pkg/metrics"
)

// MetricsMiddleware records request count and duration per endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMS := float64(time.Since(start).Milliseconds())
		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode))
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, durationMS)
	}
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
