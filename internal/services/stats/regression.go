package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"HurstLab/internal/domain/errs"
)

// FitLine returns the ordinary least squares line y = intercept + slope*x.
// At least two distinct x values are required and every input must be finite.
func FitLine(x, y []float64) (intercept, slope float64, err error) {
	if len(x) != len(y) {
		return 0, 0, errs.Computation("fit line: x has %d points, y has %d", len(x), len(y))
	}
	if distinct(x) < 2 {
		return 0, 0, errs.DataTooShort("fit line: need at least 2 distinct x values, got %d", distinct(x))
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return 0, 0, errs.Computation("fit line: non-finite point at %d (%v, %v)", i, x[i], y[i])
		}
	}

	intercept, slope = stat.LinearRegression(x, y, nil, false)
	if !finite(intercept) || !finite(slope) {
		return 0, 0, errs.Computation("fit line: degenerate regression (slope=%v)", slope)
	}
	return intercept, slope, nil
}

// LogLogSlope fits log(y) against log(x) and returns the slope.
func LogLogSlope(x, y []float64) (float64, error) {
	lx := make([]float64, len(x))
	ly := make([]float64, len(y))
	for i, v := range x {
		lx[i] = math.Log(v)
	}
	for i, v := range y {
		ly[i] = math.Log(v)
	}
	_, slope, err := FitLine(lx, ly)
	return slope, err
}

func distinct(x []float64) int {
	seen := make(map[float64]struct{}, len(x))
	for _, v := range x {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
