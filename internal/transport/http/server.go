package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ameyer/url-shortener/internal/metrics"
	"github.com/ameyer/url-shortener/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *mux.Router
	server *http.Server
	logger *zap.Logger
	port   string
}

// NewServer creates a new HTTP server. registry is exposed on /metrics.
func NewServer(shortener service.URLShortener, m *metrics.Metrics, registry *prometheus.Registry, logger *zap.Logger, port string, verbose bool) *Server {
	handler := NewHandler(shortener, logger)
	middleware := NewMiddleware(logger, m, verbose)

	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/urls", handler.CreateURL).Methods(http.MethodPost)
	api.HandleFunc("/urls/{code}", handler.GetURL).Methods(http.MethodGet)
	api.HandleFunc("/urls/{code}", handler.DeleteURL).Methods(http.MethodDelete)
	api.HandleFunc("/urls/{code}/analytics", handler.GetAnalytics).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Redirect endpoint last so it doesn't shadow the API routes
	router.HandleFunc("/{code}", handler.Redirect).Methods(http.MethodGet)

	wrapped := middleware.Wrap(router)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         ":" + port,
			Handler:      wrapped,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		port:   port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("port", s.port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// Handler returns the server's HTTP handler (useful for testing)
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Port returns the server port
func (s *Server) Port() string {
	return s.port
}
