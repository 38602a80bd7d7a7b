package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HurstLab/internal/domain/errs"
)

func randomWalk(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	v := 100.0
	for i := range out {
		v += r.NormFloat64()
		out[i] = v
	}
	return out
}

func TestRollingHurst_Length(t *testing.T) {
	for _, tc := range []struct {
		n, window int
	}{
		{31, 30}, {100, 30}, {250, 30}, {20, 6}, {64, 8}, {65, 9},
	} {
		got, err := RollingHurst(randomWalk(tc.n, int64(tc.n*tc.window)), tc.window)
		require.NoError(t, err)
		assert.Len(t, got, tc.n-tc.window, "n=%d window=%d", tc.n, tc.window)
		for i, v := range got {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "value %d is %v", i, v)
		}
	}
}

func TestRollingHurst_GoldenTwoLags(t *testing.T) {
	// window 6 -> lags {1, 2}; the only window is values[1:6] = 0 1 1 0 2.
	// lag 1 diffs 1 0 -1 2 -> variance 5/4; lag 2 diffs 1 -1 1 -> variance 8/9.
	// With two lags H = log2(std2/std1) = 0.5*log2((8/9)/(5/4)).
	values := []float64{99, 0, 1, 1, 0, 2, 7}

	got, err := RollingHurst(values, 6)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.5*math.Log2(32.0/45.0), got[0], 1e-12)
}

func TestRollingHurst_FirstWindowSkipsIndexZero(t *testing.T) {
	values := []float64{99, 0, 1, 1, 0, 2, 7}
	clamped, err := RollingHurst(values, 6)
	require.NoError(t, err)

	values[0] = -1e6
	again, err := RollingHurst(values, 6)
	require.NoError(t, err)
	assert.Equal(t, clamped, again)

	trailing, err := RollingHurstWithOptions(values, 6, HurstOptions{Window: WindowTrailing})
	require.NoError(t, err)
	assert.NotEqual(t, clamped, trailing)
}

func TestRollingHurst_Errors(t *testing.T) {
	linear := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 1.2345
	}

	tests := []struct {
		name   string
		values []float64
		window int
		want   error
	}{
		{"window below minimum", linear, 3, errs.ErrDataTooShort},
		{"window 4 has a single lag", linear, 4, errs.ErrDataTooShort},
		{"window 5 has a single lag", linear, 5, errs.ErrDataTooShort},
		{"series not longer than window", linear, 10, errs.ErrDataTooShort},
		{"constant differences", linear, 6, errs.ErrComputation},
		{"flat segment", flat, 30, errs.ErrComputation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RollingHurst(tt.values, tt.window)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRollingHurst_InclusiveLagBound(t *testing.T) {
	// window 6 with the inclusive bound yields lags {1, 2, 3}.
	values := randomWalk(12, 3)
	got, err := RollingHurstWithOptions(values, 6, HurstOptions{Lags: LagsHalfInclusive})
	require.NoError(t, err)
	assert.Len(t, got, 6)

	_, err = RollingHurstWithOptions(values, 4, HurstOptions{Lags: LagsHalfInclusive})
	assert.ErrorIs(t, err, errs.ErrComputation)
}

func TestRollingHurst_DoesNotMutateInput(t *testing.T) {
	values := randomWalk(60, 11)
	orig := append([]float64(nil), values...)
	_, err := RollingHurst(values, DefaultHurstWindow)
	require.NoError(t, err)
	assert.Equal(t, orig, values)
}
