package models

import (
	"time"

	"HurstLab/internal/domain/errs"
)

// Spectrum is a complex sequence split into real and imaginary parts so it
// can be encoded as JSON.
type Spectrum struct {
	Real []float64 `json:"real"`
	Imag []float64 `json:"imag"`
}

// SpectrumOf splits c into a Spectrum.
func SpectrumOf(c []complex128) Spectrum {
	s := Spectrum{Real: make([]float64, len(c)), Imag: make([]float64, len(c))}
	for i, v := range c {
		s.Real[i] = real(v)
		s.Imag[i] = imag(v)
	}
	return s
}

// Len returns the number of bins.
func (s Spectrum) Len() int { return len(s.Real) }

// Complex joins the parts back into a complex sequence.
func (s Spectrum) Complex() ([]complex128, error) {
	if len(s.Real) != len(s.Imag) {
		return nil, errs.Computation("spectrum: %d real parts, %d imaginary parts", len(s.Real), len(s.Imag))
	}
	out := make([]complex128, len(s.Real))
	for i := range out {
		out[i] = complex(s.Real[i], s.Imag[i])
	}
	return out, nil
}

// Line is a value sequence with its timestamps.
type Line struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// AlignedLine attaches the last len(values) timestamps to values. Rolling
// window outputs are suffix-aligned with the series they were computed from.
func AlignedLine(stamps []time.Time, values []float64) (Line, error) {
	if len(values) > len(stamps) {
		return Line{}, errs.Computation("align: %d values for %d timestamps", len(values), len(stamps))
	}
	return Line{
		Dates:  append([]time.Time(nil), stamps[len(stamps)-len(values):]...),
		Values: values,
	}, nil
}

// SignalKind selects the signal segmented by the research pipeline.
type SignalKind string

const (
	SignalHurst SignalKind = "hurst"
	SignalMACD  SignalKind = "macd"
)

// DivisionLine returns the level the signal is split around.
func (k SignalKind) DivisionLine() float64 {
	if k == SignalHurst {
		return 0.5
	}
	return 0
}

// ResearchResult is the per-segment research output. Segments, SegmentDates,
// Wavelets and Spectra are parallel: index i describes segment i.
type ResearchResult struct {
	Symbol       string        `json:"symbol"`
	Frequency    string        `json:"frequency"`
	Signal       SignalKind    `json:"signal"`
	Wavelet      string        `json:"wavelet"`
	DivisionLine float64       `json:"divisionLine"`
	Smoothed     Line          `json:"smoothed"`
	SignalLine   Line          `json:"signalLine"`
	Segments     [][]float64   `json:"segments"`
	SegmentDates [][]time.Time `json:"segmentDates"`
	Wavelets     [][]float64   `json:"wavelets"`
	Spectra      []Spectrum    `json:"spectra"`
	Cepstra      []Spectrum    `json:"cepstra,omitempty"`
}

// FlattenTransforms holds whole-series transforms of the close price: the
// single-level wavelet resample and the FFT. It is not a continuous wavelet
// power summary; only the field name is shared with such payloads.
type FlattenTransforms struct {
	Wavelet  []float64 `json:"wavelet"`
	Spectrum Spectrum  `json:"spectrum"`
}

// Indicators are auxiliary close-price indicators. NextHurst extrapolates
// the Hurst index one step with a low-degree polynomial fit.
type Indicators struct {
	SMA       Line    `json:"sma"`
	RSI       Line    `json:"rsi"`
	NextHurst float64 `json:"nextHurst"`
}

// AnalyseResult is the payload of the analyse use case.
type AnalyseResult struct {
	TimeSeries        []Candle           `json:"timeSeries"`
	HurstIndex        Line               `json:"hurstIndex"`
	WaveletDetails    *ResearchResult    `json:"waveletDetails,omitempty"`
	FlattenTransforms *FlattenTransforms `json:"flattenTransforms,omitempty"`
	Indicators        *Indicators        `json:"indicators,omitempty"`
}

// AnalysisReport is the compact summary published after a successful run.
type AnalysisReport struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	Symbol       string     `json:"symbol"`
	Frequency    string     `json:"frequency"`
	Signal       SignalKind `json:"signal,omitempty"`
	Wavelet      string     `json:"wavelet,omitempty"`
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
	Rows         int        `json:"rows"`
	Segments     int        `json:"segments"`
	LastHurst    float64    `json:"lastHurst,omitempty"`
	GeneratedAt  time.Time  `json:"generatedAt"`
	DurationMsec int64      `json:"durationMs"`
}
