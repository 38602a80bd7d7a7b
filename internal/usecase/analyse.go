package usecase

import (
	"context"
	"time"

	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/services/signal"
	"HurstLab/internal/services/stats"
	"HurstLab/internal/services/wavelet"
)

// Analyse builds the chart payload: the quotes, their rolling Hurst index
// and, on request, the research breakdown of that index.
type Analyse struct {
	research *Research
}

func NewAnalyse(r *Research) *Analyse {
	return &Analyse{research: r}
}

type AnalyseParams struct {
	Currency  string
	Frequency domrepo.Frequency
	Start     time.Time
	End       time.Time
	Wavelet   string
	Extended  bool
}

func (a *Analyse) Run(ctx context.Context, p AnalyseParams) (*models.AnalyseResult, error) {
	started := time.Now()
	r := a.research
	if p.Wavelet == "" {
		p.Wavelet = r.settings.Wavelet
	}

	res, series, err := a.run(ctx, p)
	var report *models.AnalysisReport
	if err == nil {
		report = &models.AnalysisReport{
			Kind:      "analyse",
			Symbol:    series.Symbol,
			Frequency: series.Frequency,
			Signal:    models.SignalHurst,
			Start:     series.Timestamp[0],
			End:       series.Timestamp[series.Len()-1],
			Rows:      series.Len(),
		}
		if v := res.HurstIndex.Values; len(v) > 0 {
			report.LastHurst = v[len(v)-1]
		}
		if res.WaveletDetails != nil {
			report.Wavelet = p.Wavelet
			report.Segments = len(res.WaveletDetails.Segments)
		}
	}
	r.obs.finish("analyse", models.SignalHurst, started, report, err)
	return res, err
}

func (a *Analyse) run(ctx context.Context, p AnalyseParams) (*models.AnalyseResult, *models.Series, error) {
	r := a.research
	series, err := r.loader.Load(ctx, p.Currency, domrepo.NormalizeFrequency(string(p.Frequency)), p.Start, p.End)
	if err != nil {
		return nil, nil, err
	}
	closes, err := series.Field(models.FieldClose)
	if err != nil {
		return nil, nil, err
	}

	hurst, err := stats.RollingHurst(closes, r.settings.HurstWindow)
	if err != nil {
		return nil, nil, err
	}
	line, err := models.AlignedLine(series.Timestamp, hurst)
	if err != nil {
		return nil, nil, err
	}
	res := &models.AnalyseResult{TimeSeries: series.Candles(), HurstIndex: line}
	if !p.Extended {
		return res, series, nil
	}

	details, err := r.Compute(series, ResearchParams{Signal: models.SignalHurst, Wavelet: p.Wavelet})
	if err != nil {
		return nil, nil, err
	}
	flat, err := wavelet.Resample(r.transform, closes, p.Wavelet, r.settings.Scale)
	if err != nil {
		return nil, nil, err
	}
	spec, err := signal.FFT(closes)
	if err != nil {
		return nil, nil, err
	}
	ind, err := a.indicators(series.Timestamp, closes, hurst)
	if err != nil {
		return nil, nil, err
	}
	res.WaveletDetails = details
	res.FlattenTransforms = &models.FlattenTransforms{Wavelet: flat, Spectrum: spec}
	res.Indicators = ind
	return res, series, nil
}

func (a *Analyse) indicators(stamps []time.Time, closes, hurst []float64) (*models.Indicators, error) {
	sma, err := signal.SMA(closes, a.research.settings.SmoothWidth)
	if err != nil {
		return nil, err
	}
	rsi, err := signal.RSI(closes, signal.DefaultRSIPeriod)
	if err != nil {
		return nil, err
	}
	next, err := stats.PredictNext(hurst, stats.DefaultPredictDegree)
	if err != nil {
		return nil, err
	}
	smaLine, err := models.AlignedLine(stamps, sma)
	if err != nil {
		return nil, err
	}
	rsiLine, err := models.AlignedLine(stamps, rsi)
	if err != nil {
		return nil, err
	}
	return &models.Indicators{SMA: smaLine, RSI: rsiLine, NextHurst: next}, nil
}
