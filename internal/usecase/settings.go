package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/services/signal"
	"HurstLab/internal/services/stats"
	"HurstLab/internal/services/wavelet"
	applogger "HurstLab/pkg/logger"
)

// Settings are the analysis parameters used when a request leaves them unset.
type Settings struct {
	HurstWindow int
	SmoothWidth int
	MACDShort   int
	MACDLong    int
	Scale       int
	Wavelet     string
}

func DefaultSettings() Settings {
	return Settings{
		HurstWindow: stats.DefaultHurstWindow,
		SmoothWidth: 5,
		MACDShort:   signal.DefaultMACDShort,
		MACDLong:    signal.DefaultMACDLong,
		Scale:       wavelet.DefaultScale,
		Wavelet:     "db1",
	}
}

func (s Settings) orDefault() Settings {
	d := DefaultSettings()
	if s.HurstWindow <= 0 {
		s.HurstWindow = d.HurstWindow
	}
	if s.SmoothWidth <= 0 {
		s.SmoothWidth = d.SmoothWidth
	}
	if s.MACDShort <= 0 {
		s.MACDShort = d.MACDShort
	}
	if s.MACDLong <= 0 {
		s.MACDLong = d.MACDLong
	}
	if s.Scale <= 0 {
		s.Scale = d.Scale
	}
	if s.Wavelet == "" {
		s.Wavelet = d.Wavelet
	}
	return s
}

const publishTimeout = 5 * time.Second

// observer records metrics for a finished run and hands successful reports
// to the publisher without blocking the caller. inflight counts publishes
// not yet returned.
type observer struct {
	metrics   domrepo.Metrics
	publisher domrepo.ReportPublisher
	l         *applogger.Logger
	inflight  *sync.WaitGroup
}

// drain waits for in-flight publishes, bounded by ctx and publishTimeout.
func (o observer) drain(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain reports: %w", ctx.Err())
	}
}

func (o observer) finish(kind string, sig models.SignalKind, started time.Time, report *models.AnalysisReport, err error) {
	elapsed := time.Since(started)
	if err != nil {
		if o.metrics != nil {
			o.metrics.RecordError(kind, errs.Kind(err))
		}
		o.l.Warn("analysis failed",
			applogger.String("kind", kind),
			applogger.String("error_kind", errs.Kind(err)),
			applogger.Error(err),
		)
		return
	}
	if o.metrics != nil {
		o.metrics.RecordAnalysis(kind, string(sig), elapsed.Seconds())
	}
	o.l.Info("analysis done",
		applogger.String("kind", kind),
		applogger.String("symbol", report.Symbol),
		applogger.Int("rows", report.Rows),
		applogger.Duration("took", elapsed),
	)
	if o.publisher == nil {
		return
	}
	report.ID = uuid.NewString()
	report.DurationMsec = elapsed.Milliseconds()
	report.GeneratedAt = time.Now().UTC()
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := o.publisher.Publish(ctx, report); err != nil {
			o.l.Warn("report publish failed", applogger.String("symbol", report.Symbol), applogger.Error(err))
		}
	}()
}
