// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the browser upload interface: PDFs posted to /upload
// are converted into a shared output directory, then downloaded one at a
// time or as a zip.
package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf2jpg/pkg/types"
)

//go:embed static/index.html
var indexHTML []byte

// Converter converts one uploaded PDF.
type Converter interface {
	Convert(ctx context.Context, req types.ConversionRequest) types.ConversionOutcome
}

// Server holds the router and its dependencies.
type Server struct {
	cfg     types.ServerConfig
	conv    Converter
	scratch *Scratch
	logger  *zap.Logger
	router  chi.Router
}

// New prepares the scratch directories and builds the router.
func New(cfg types.ServerConfig, conv Converter, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	scratch, err := NewScratch(cfg.UploadDir, cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, conv: conv, scratch: scratch, logger: logger}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.UploadsPerMinute > 0 {
			r.Use(httprate.LimitByIP(s.cfg.UploadsPerMinute, time.Minute))
		}
		if s.cfg.MaxUploadMB > 0 {
			r.Use(middleware.RequestSize(s.cfg.MaxUploadMB << 20))
		}
		r.Post("/upload", s.handleUpload)
	})

	r.Get("/download/{filename}", s.handleDownload)
	r.Get("/download_all", s.handleDownloadAll)
	r.Get("/clear", s.handleClear)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down, giving
// in-flight requests cfg.ShutdownTimeout to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type loggerKey struct{}

const requestIDHeader = "X-Request-ID"

// requestID tags each request with a UUID, echoed in the response header and
// attached to the request's logger.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		l := s.logger.With(zap.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, l)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		requestLogger(r, s.logger).Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}

func requestLogger(r *http.Request, fallback *zap.Logger) *zap.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return fallback
}
