// Package web serves the dashboard over HTTP: the page, htmx fragments for
// the two dropdowns, a small JSON API and report downloads.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/yildizm/CovTrack/internal/config"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/figure"
	"github.com/yildizm/CovTrack/internal/logger"
	"github.com/yildizm/CovTrack/internal/monitor"
)

// Server holds the current dashboard and serves it.
type Server struct {
	cfg     config.ServerConfig
	base    string
	bars    figure.BarOptions
	current atomic.Pointer[dashboard.Dashboard]
	metrics *monitor.Collector
	log     *logger.Logger
	handler http.Handler
}

// NewServer builds a server around d.
func NewServer(cfg config.ServerConfig, d *dashboard.Dashboard, log *logger.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("web server needs a dashboard")
	}
	if log == nil {
		log = logger.Nop()
	}
	base := cfg.BasePath
	if base == "" {
		base = "/"
	}
	if !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/") {
		return nil, fmt.Errorf("base path must start and end with '/': %q", base)
	}

	s := &Server{cfg: cfg, base: base, bars: figure.DefaultBarOptions(), metrics: monitor.New(), log: log}
	s.current.Store(d)
	s.handler = Chain(s.routes(), RequestID(), RecoverPanic(log), AccessLog(log))
	return s, nil
}

// Dashboard returns the dashboard currently served.
func (s *Server) Dashboard() *dashboard.Dashboard {
	return s.current.Load()
}

// SetDashboard swaps in a freshly loaded dashboard. Requests already running
// finish against the previous one.
func (s *Server) SetDashboard(d *dashboard.Dashboard) {
	if d == nil {
		return
	}
	s.current.Store(d)
	s.metrics.DatasetSwapped()
	s.log.InfoWithFields("Dashboard swapped", []logger.Field{
		logger.Count(len(d.Regions())),
		logger.F("months", len(d.Dataset().Months())),
	})
}

// TrackReload times one dataset reload attempt; failures are counted.
func (s *Server) TrackReload(load func() error) error {
	return s.metrics.TrackOperationWithError(monitor.OperationReload, load)
}

// ReloadFailed notes a reload that left the current dashboard in place.
func (s *Server) ReloadFailed(err error) {
	s.log.WarnWithFields("Keeping previous dashboard", []logger.Field{logger.Error(err)})
}

// Metrics returns the operation timings of this server.
func (s *Server) Metrics() *monitor.Collector {
	return s.metrics
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln until the context ends. Shutdown waits
// at most the configured shutdown timeout for requests in flight.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	s.log.InfoWithFields("Dashboard listening", []logger.Field{
		logger.F("addr", ln.Addr().String()),
		logger.F("base_path", s.base),
	})
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultConfig().Server.ShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		err := httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
