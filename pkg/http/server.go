package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"HurstLab/pkg/http/middleware"
	applogger "HurstLab/pkg/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig configures Server. Zero values take the defaults noted on
// each field.
type ServerConfig struct {
	Host string // 0.0.0.0
	Port int    // 0 picks a free port

	ReadTimeout     time.Duration // 10s
	WriteTimeout    time.Duration // 10s
	ShutdownTimeout time.Duration // 10s

	// AllowOrigins enables CORS for the listed origins. Empty disables it.
	AllowOrigins []string
	// MetricsPath serves Prometheus metrics and enables request metrics.
	// Empty disables both.
	MetricsPath   string
	SlowThreshold time.Duration // 2s
}

func (c ServerConfig) withDefaults() ServerConfig {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.SlowThreshold <= 0 {
		c.SlowThreshold = 2 * time.Second
	}
	return c
}

// Server is an Echo instance with the standard middleware chain.
type Server struct {
	echo *echo.Echo
	cfg  ServerConfig
	log  *applogger.Logger
	addr net.Addr
}

// NewServer builds the middleware chain and registers h's routes. h and l
// may be nil.
func NewServer(h Handler, cfg ServerConfig, l *applogger.Logger) *Server {
	cfg = cfg.withDefaults()
	if l == nil {
		l = applogger.Nop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recover(l), middleware.RequestLogging(l, cfg.MetricsPath))
	if cfg.MetricsPath != "" {
		e.Use(middleware.Metrics(l, cfg.SlowThreshold))
		e.GET(cfg.MetricsPath, echo.WrapHandler(promhttp.Handler()))
	}
	if len(cfg.AllowOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			MaxAge:       int((time.Hour).Seconds()),
		}))
	}
	if h != nil {
		h.RegisterRoutes(e)
	}

	return &Server{echo: e, cfg: cfg, log: l}
}

// Start binds the listener and serves in the background. Bind errors are
// returned; later serve errors are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.addr = ln.Addr()
	s.log.Info("http server listening", applogger.String("addr", s.addr.String()))

	go func() {
		if err := s.echo.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http serve", applogger.Error(err))
		}
	}()
	return nil
}

// Stop drains in-flight requests, bounded by ctx.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Addr is the bound address, or nil before Start.
func (s *Server) Addr() net.Addr { return s.addr }

func (s *Server) ShutdownTimeout() time.Duration { return s.cfg.ShutdownTimeout }

// Echo exposes the router, mainly for tests.
func (s *Server) Echo() *echo.Echo { return s.echo }
