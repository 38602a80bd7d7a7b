package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/domain/service"
	"HurstLab/internal/services/segment"
	"HurstLab/internal/services/signal"
	"HurstLab/internal/services/stats"
	"HurstLab/internal/services/wavelet"
	applogger "HurstLab/pkg/logger"
)

// Research segments a smoothed signal by sign and transforms every segment.
type Research struct {
	loader    domrepo.QuoteLoader
	transform service.WaveletTransform
	settings  Settings
	obs       observer
}

func NewResearch(loader domrepo.QuoteLoader, transform service.WaveletTransform, m domrepo.Metrics, pub domrepo.ReportPublisher, settings Settings, l *applogger.Logger) *Research {
	if l == nil {
		l = applogger.Nop()
	}
	return &Research{
		loader:    loader,
		transform: transform,
		settings:  settings.orDefault(),
		obs:       observer{metrics: m, publisher: pub, l: l, inflight: &sync.WaitGroup{}},
	}
}

// Drain blocks until reports handed to the publisher by Research and
// Analyse runs have been sent or have failed. Call it before closing the
// publisher.
func (r *Research) Drain(ctx context.Context) error { return r.obs.drain(ctx) }

// Families lists the supported wavelet families.
func (r *Research) Families() []string { return r.transform.Families() }

type ResearchParams struct {
	Symbol      string
	Frequency   domrepo.Frequency
	Start       time.Time
	End         time.Time
	Signal      models.SignalKind
	Wavelet     string
	SmoothWidth int
	HurstWindow int
	MACDShort   int
	MACDLong    int
	Scale       int
	Cepstrum    bool
}

func (r *Research) Run(ctx context.Context, p ResearchParams) (*models.ResearchResult, error) {
	started := time.Now()
	p = r.withDefaults(p)

	res, series, err := r.run(ctx, p)
	var report *models.AnalysisReport
	if err == nil {
		report = &models.AnalysisReport{
			Kind:      "research",
			Symbol:    series.Symbol,
			Frequency: series.Frequency,
			Signal:    p.Signal,
			Wavelet:   p.Wavelet,
			Start:     series.Timestamp[0],
			End:       series.Timestamp[series.Len()-1],
			Rows:      series.Len(),
			Segments:  len(res.Segments),
		}
		if p.Signal == models.SignalHurst && len(res.SignalLine.Values) > 0 {
			report.LastHurst = res.SignalLine.Values[len(res.SignalLine.Values)-1]
		}
	}
	r.obs.finish("research", p.Signal, started, report, err)
	return res, err
}

func (r *Research) run(ctx context.Context, p ResearchParams) (*models.ResearchResult, *models.Series, error) {
	if p.Signal != models.SignalHurst && p.Signal != models.SignalMACD {
		return nil, nil, errs.Computation("unknown signal %q", p.Signal)
	}
	series, err := r.loader.Load(ctx, p.Symbol, domrepo.NormalizeFrequency(string(p.Frequency)), p.Start, p.End)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.Compute(series, p)
	if err != nil {
		return nil, nil, err
	}
	return res, series, nil
}

func (r *Research) withDefaults(p ResearchParams) ResearchParams {
	if p.Signal == "" {
		p.Signal = models.SignalHurst
	}
	if p.Wavelet == "" {
		p.Wavelet = r.settings.Wavelet
	}
	if p.SmoothWidth <= 0 {
		p.SmoothWidth = r.settings.SmoothWidth
	}
	if p.HurstWindow <= 0 {
		p.HurstWindow = r.settings.HurstWindow
	}
	if p.MACDShort <= 0 {
		p.MACDShort = r.settings.MACDShort
	}
	if p.MACDLong <= 0 {
		p.MACDLong = r.settings.MACDLong
	}
	if p.Scale <= 0 {
		p.Scale = r.settings.Scale
	}
	return p
}

// Compute runs the research pipeline over an already loaded series: smooth
// the close, derive the signal, split it around its division line, then
// resample and transform every segment. The first failing segment aborts.
func (r *Research) Compute(series *models.Series, p ResearchParams) (*models.ResearchResult, error) {
	p = r.withDefaults(p)
	closes, err := series.Field(models.FieldClose)
	if err != nil {
		return nil, err
	}

	smoothed, err := signal.EMA(closes, p.SmoothWidth)
	if err != nil {
		return nil, err
	}

	var values []float64
	switch p.Signal {
	case models.SignalHurst:
		values, err = stats.RollingHurst(smoothed, p.HurstWindow)
	case models.SignalMACD:
		values, err = signal.MACD(smoothed, p.MACDShort, p.MACDLong)
	default:
		err = errs.Computation("unknown signal %q", p.Signal)
	}
	if err != nil {
		return nil, err
	}

	line, err := models.AlignedLine(series.Timestamp, values)
	if err != nil {
		return nil, err
	}
	division := p.Signal.DivisionLine()
	parts, err := segment.SplitBySign(line.Values, line.Dates, division)
	if err != nil {
		return nil, err
	}

	res := &models.ResearchResult{
		Symbol:       series.Symbol,
		Frequency:    series.Frequency,
		Signal:       p.Signal,
		Wavelet:      p.Wavelet,
		DivisionLine: division,
		Smoothed:     models.Line{Dates: append([]time.Time(nil), series.Timestamp...), Values: smoothed},
		SignalLine:   line,
		Segments:     parts.Values,
		SegmentDates: parts.Dates,
		Wavelets:     make([][]float64, 0, parts.Len()),
		Spectra:      make([]models.Spectrum, 0, parts.Len()),
	}
	for i, seg := range parts.Values {
		w, err := wavelet.Resample(r.transform, seg, p.Wavelet, p.Scale)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		spec, err := signal.FFT(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		res.Wavelets = append(res.Wavelets, w)
		res.Spectra = append(res.Spectra, spec)
		if p.Cepstrum {
			c, err := signal.Cepstrum(seg)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			res.Cepstra = append(res.Cepstra, c)
		}
	}
	return res, nil
}
