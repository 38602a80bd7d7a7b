package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	domrepo "HurstLab/internal/domain/repository"
	applogger "HurstLab/pkg/logger"
)

// Target is one cached history kept fresh by the scheduler.
type Target struct {
	Symbol    string
	Frequency domrepo.Frequency
}

// Targets expands every symbol against every frequency.
func Targets(symbols, frequencies []string) []Target {
	out := make([]Target, 0, len(symbols)*len(frequencies))
	for _, s := range symbols {
		for _, f := range frequencies {
			out = append(out, Target{Symbol: s, Frequency: domrepo.NormalizeFrequency(f)})
		}
	}
	return out
}

// Options tune a refresh run.
type Options struct {
	// Timeout bounds each target. Defaults to 2m.
	Timeout time.Duration
	// Concurrency caps targets refreshed at once. Defaults to 1.
	Concurrency int
}

// RefreshScheduler periodically refetches cached quote histories, which
// otherwise never expire.
type RefreshScheduler struct {
	cron      *cron.Cron
	refresher domrepo.QuoteRefresher
	targets   []Target
	opts      Options
	l         *applogger.Logger
}

// NewRefreshScheduler registers one job on spec, a standard five-field
// cron expression or descriptor such as "@daily", evaluated in UTC.
func NewRefreshScheduler(spec string, r domrepo.QuoteRefresher, targets []Target, opts Options, l *applogger.Logger) (*RefreshScheduler, error) {
	if l == nil {
		l = applogger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	s := &RefreshScheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refresher: r,
		targets:   targets,
		opts:      opts,
		l:         l,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *RefreshScheduler) Start() {
	s.cron.Start()
	s.l.Info("refresh scheduler started",
		applogger.Int("targets", len(s.targets)),
		applogger.Int("concurrency", s.opts.Concurrency),
	)
}

// Stop prevents new runs and waits for a running one, bounded by ctx.
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.l.Info("refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("refresh scheduler stop: %w", ctx.Err())
	}
}

// RunOnce refreshes every target and returns how many succeeded. Failures
// are logged and do not stop the run.
func (s *RefreshScheduler) RunOnce(ctx context.Context) int {
	var (
		ok atomic.Int64
		g  errgroup.Group
	)
	g.SetLimit(s.opts.Concurrency)
	for _, t := range s.targets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if s.refreshOne(ctx, t) {
				ok.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(ok.Load())
}

func (s *RefreshScheduler) refreshOne(ctx context.Context, t Target) bool {
	if ctx.Err() != nil {
		return false
	}
	tctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	n, err := s.refresher.Refresh(tctx, t.Symbol, t.Frequency)
	if err != nil {
		s.l.Warn("quote refresh failed",
			applogger.String("symbol", t.Symbol),
			applogger.String("frequency", string(t.Frequency)),
			applogger.Error(err),
		)
		return false
	}
	s.l.Info("quote refreshed",
		applogger.String("symbol", t.Symbol),
		applogger.String("frequency", string(t.Frequency)),
		applogger.Int("rows", n),
	)
	return true
}
