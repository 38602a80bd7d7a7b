package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"HurstLab/internal/domain/errs"
)

// DefaultHurstWindow is the trailing window length used by the research pipeline.
const DefaultHurstWindow = 30

// MinHurstWindow is the smallest window length accepted by RollingHurst.
const MinHurstWindow = 4

// LagBound selects the upper bound of the lag range.
type LagBound int

const (
	// LagsHalfExclusive uses lags 1 .. windowLen/2-1.
	LagsHalfExclusive LagBound = iota
	// LagsHalfInclusive uses lags 1 .. windowLen/2.
	LagsHalfInclusive
)

// WindowMode selects how each trailing window is sliced out of the series.
type WindowMode int

const (
	// WindowClamped slices values[max(1, tail-windowLen):tail]. Index 0 never
	// starts a window, so the first window is one sample short.
	WindowClamped WindowMode = iota
	// WindowTrailing slices values[max(0, tail-windowLen):tail].
	WindowTrailing
	// WindowExpanding slices values[:tail].
	WindowExpanding
)

// HurstOptions holds the estimator details that differ between reference
// datasets. The zero value is the default estimator.
type HurstOptions struct {
	Lags   LagBound
	Window WindowMode
}

// RollingHurst estimates the Hurst exponent over a trailing window for every
// tail position in [windowLen, len(values)). The result has exactly
// len(values)-windowLen elements; element k belongs to values[windowLen+k-1].
//
// Each estimate is twice the slope of log(sqrt(std(lagged differences)))
// against log(lag). This is not the rescaled-range statistic.
func RollingHurst(values []float64, windowLen int) ([]float64, error) {
	return RollingHurstWithOptions(values, windowLen, HurstOptions{})
}

// RollingHurstWithOptions is RollingHurst with explicit estimator options.
func RollingHurstWithOptions(values []float64, windowLen int, opts HurstOptions) ([]float64, error) {
	lags, err := hurstLags(windowLen, opts.Lags)
	if err != nil {
		return nil, err
	}
	if len(values) <= windowLen {
		return nil, errs.DataTooShort("rolling hurst: %d samples for window %d", len(values), windowLen)
	}

	logLags := make([]float64, len(lags))
	for i, lag := range lags {
		logLags[i] = math.Log(float64(lag))
	}

	out := make([]float64, 0, len(values)-windowLen)
	logTau := make([]float64, len(lags))
	diffs := make([]float64, windowLen)

	for tail := windowLen; tail < len(values); tail++ {
		window := values[windowStart(tail, windowLen, opts.Window):tail]
		for i, lag := range lags {
			tau, err := lagTau(window, lag, diffs)
			if err != nil {
				return nil, errs.Computation("rolling hurst at %d: %v", tail, err)
			}
			logTau[i] = math.Log(tau)
		}

		_, slope, err := FitLine(logLags, logTau)
		if err != nil {
			return nil, errs.Computation("rolling hurst at %d: %v", tail, err)
		}
		out = append(out, 2*slope)
	}
	return out, nil
}

func hurstLags(windowLen int, bound LagBound) ([]int, error) {
	if windowLen < MinHurstWindow {
		return nil, errs.DataTooShort("rolling hurst: window %d below minimum %d", windowLen, MinHurstWindow)
	}
	upper := windowLen / 2
	if bound == LagsHalfInclusive {
		upper++
	}
	lags := make([]int, 0, upper)
	for lag := 1; lag < upper; lag++ {
		lags = append(lags, lag)
	}
	if len(lags) < 2 {
		return nil, errs.DataTooShort("rolling hurst: window %d gives %d lag(s), need 2", windowLen, len(lags))
	}
	return lags, nil
}

func windowStart(tail, windowLen int, mode WindowMode) int {
	switch mode {
	case WindowTrailing:
		return max(0, tail-windowLen)
	case WindowExpanding:
		return 0
	default:
		return max(1, tail-windowLen)
	}
}

// lagTau returns sqrt of the population standard deviation of the lag
// differences of window. buf is scratch space.
func lagTau(window []float64, lag int, buf []float64) (float64, error) {
	n := len(window) - lag
	if n < 1 {
		return 0, errs.DataTooShort("lag %d exceeds window of %d", lag, len(window))
	}
	if cap(buf) < n {
		buf = make([]float64, n)
	}
	d := buf[:n]
	for i := 0; i < n; i++ {
		d[i] = window[i+lag] - window[i]
	}

	sd := stat.PopStdDev(d, nil)
	if sd == 0 {
		return 0, errs.Computation("zero variance of lag-%d differences", lag)
	}
	if !finite(sd) {
		return 0, errs.Computation("non-finite deviation of lag-%d differences", lag)
	}
	return math.Sqrt(sd), nil
}
