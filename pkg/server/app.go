package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/scheduler"
	"HurstLab/pkg/cache"
	pkgch "HurstLab/pkg/clickhouse"
	xhttp "HurstLab/pkg/http"
	applogger "HurstLab/pkg/logger"
)

// ReportDrainer waits for analysis reports still being published.
type ReportDrainer interface {
	Drain(ctx context.Context) error
}

// App encapsulates the application lifecycle: the HTTP server and the
// infrastructure clients it closes on shutdown.
type App struct {
	l          *applogger.Logger
	httpServer *xhttp.Server
	publisher  domrepo.ReportPublisher
	cache      cache.Service
	chClient   *pkgch.Client
	refresh    *scheduler.RefreshScheduler
	reports    ReportDrainer
}

// New creates a new App. Everything but httpServer may be nil.
func New(
	l *applogger.Logger,
	httpServer *xhttp.Server,
	publisher domrepo.ReportPublisher,
	c cache.Service,
	chClient *pkgch.Client,
	refresh *scheduler.RefreshScheduler,
	reports ReportDrainer,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		l:          l,
		httpServer: httpServer,
		publisher:  publisher,
		cache:      c,
		chClient:   chClient,
		refresh:    refresh,
		reports:    reports,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and shuts everything down once ctx is
// done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	if a.refresh != nil {
		a.refresh.Start()
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the server first so no request is left holding a client
// that is about to be closed.
func (a *App) shutdown() error {
	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.refresh != nil {
		if err := a.refresh.Stop(shutdownCtx); err != nil {
			a.l.Warn("refresh scheduler stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.reports != nil {
		if err := a.reports.Drain(shutdownCtx); err != nil {
			a.l.Warn("report drain error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("report publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
