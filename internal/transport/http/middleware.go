package http

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ameyer/url-shortener/internal/metrics"
)

// Middleware wraps handlers with request logging and latency metrics
type Middleware struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	verbose bool
}

// NewMiddleware creates the shared HTTP middleware
func NewMiddleware(logger *zap.Logger, m *metrics.Metrics, verbose bool) *Middleware {
	return &Middleware{
		logger:  logger,
		metrics: m,
		verbose: verbose,
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// Wrap returns the instrumented handler
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		m.metrics.HTTPDurations.
			WithLabelValues(r.Method, strconv.Itoa(rec.statusCode)).
			Observe(duration.Seconds())

		if m.verbose {
			m.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", rec.statusCode),
				zap.Duration("duration", duration))
		}
	})
}
