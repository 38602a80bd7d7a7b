package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HurstLab/internal/domain/errs"
)

func TestFitLine(t *testing.T) {
	intercept, slope, err := FitLine([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, intercept, 1e-12)
	assert.InDelta(t, 2.0, slope, 1e-12)
}

func TestFitLine_Errors(t *testing.T) {
	_, _, err := FitLine([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, errs.ErrDataTooShort)

	_, _, err = FitLine([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, errs.ErrComputation)

	_, _, err = FitLine([]float64{1, 2, 3}, []float64{1, math.Inf(-1), 3})
	assert.ErrorIs(t, err, errs.ErrComputation)
}

func TestLogLogSlope_PowerLaw(t *testing.T) {
	x := []float64{1, 2, 4, 8, 16}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 3 * math.Pow(v, 0.7)
	}
	slope, err := LogLogSlope(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, slope, 1e-12)
}

func TestPredictNext(t *testing.T) {
	quad := make([]float64, 10)
	for i := range quad {
		quad[i] = float64(i * i)
	}
	got, err := PredictNext(quad, DefaultPredictDegree)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-8)

	line := []float64{1, 3, 5, 7, 9}
	got, err = PredictNext(line, 1)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, got, 1e-9)

	_, err = PredictNext([]float64{1, 2}, 2)
	assert.ErrorIs(t, err, errs.ErrDataTooShort)
}
