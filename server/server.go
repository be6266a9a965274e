// Package server exposes PDF extraction over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/antflydb/docparse/config"
	"github.com/antflydb/docparse/extraction"
)

// Server serves the extraction API plus health and metrics endpoints.
type Server struct {
	cfg     config.ServerConfig
	service *extraction.Service
	logger  *zap.Logger
	version string

	httpSrv *http.Server

	specOnce sync.Once
	specJSON []byte
	specErr  error
}

// New wires the extraction service into an HTTP server listening on the
// configured host and port.
func New(cfg config.ServerConfig, service *extraction.Service, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		service: service,
		logger:  logger,
		version: version,
	}
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 40 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/extract", s.handleExtract)
	mux.HandleFunc("POST /v1/extract/text", s.handleExtractText)
	mux.HandleFunc("POST /v1/extract/tables", s.handleExtractTables)

	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)

	return s.accessLog(mux)
}

// Handler returns the full route table, probes and middleware included.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.logger.Info("docparse listening",
		zap.String("addr", s.httpSrv.Addr),
		zap.String("engine", s.service.Engine().Name()),
	)
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Probe and metrics endpoints answer often and say little, so they stay
// out of the access log and the request metrics.
var quietPaths = map[string]bool{
	"/v1/health": true,
	"/healthz":   true,
	"/readyz":    true,
	"/metrics":   true,
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		took := time.Since(start)
		observeRequest(r, rec.status, took)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("took", took),
		)
	})
}
