package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestEMA_ConstantSeries(t *testing.T) {
	in := []float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7}
	out, err := EMA(in, 5)
	require.NoError(t, err)
	for _, v := range out {
		assert.InDelta(t, 7.0, v, 1e-12)
	}
}

func TestEMA_Recurrence(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	out, err := EMA(in, 2)
	require.NoError(t, err)

	c := 2.0 / 3.0
	want := []float64{1, 0, 0, 0}
	for i := 1; i < len(in); i++ {
		want[i] = c*in[i] + (1-c)*want[i-1]
	}
	assert.InDeltaSlice(t, want, out, 1e-12)
	assert.Equal(t, []float64{1, 2, 3, 4}, in)
}

func TestEMA_Errors(t *testing.T) {
	_, err := EMA(ramp(9), 5)
	assert.ErrorIs(t, err, errs.ErrDataTooShort)

	_, err = EMA(ramp(10), 0)
	assert.ErrorIs(t, err, errs.ErrDataTooShort)

	_, err = EMA(ramp(10), 5)
	assert.NoError(t, err)
}

func TestSMA(t *testing.T) {
	out, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, out, 1e-12)

	_, err = SMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, errs.ErrDataTooShort)
}

func TestMACD_IsDifferenceOfEMAs(t *testing.T) {
	in := make([]float64, 60)
	for i := range in {
		in[i] = 100 + 5*math.Sin(float64(i)/4)
	}
	got, err := MACD(in, DefaultMACDShort, DefaultMACDLong)
	require.NoError(t, err)
	require.Len(t, got, len(in))

	fast, _ := EMA(in, DefaultMACDShort)
	slow, _ := EMA(in, DefaultMACDLong)
	for i := range got {
		assert.InDelta(t, fast[i]-slow[i], got[i], 1e-12)
	}
}

func TestMACD_Errors(t *testing.T) {
	_, err := MACD(ramp(51), DefaultMACDShort, DefaultMACDLong)
	assert.ErrorIs(t, err, errs.ErrDataTooShort)

	_, err = MACD(ramp(60), 26, 12)
	assert.ErrorIs(t, err, errs.ErrComputation)
}

func TestRSI(t *testing.T) {
	out, err := RSI(ramp(20), DefaultRSIPeriod)
	require.NoError(t, err)
	require.Len(t, out, 20)
	for _, v := range out {
		assert.Equal(t, 100.0, v)
	}

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	out, err = RSI(falling, DefaultRSIPeriod)
	require.NoError(t, err)
	for _, v := range out {
		assert.InDelta(t, 0.0, v, 1e-12)
	}

	_, err = RSI(ramp(15), DefaultRSIPeriod)
	assert.ErrorIs(t, err, errs.ErrDataTooShort)
}

func TestRSI_Bounded(t *testing.T) {
	in := make([]float64, 50)
	for i := range in {
		in[i] = 10 + math.Sin(float64(i))
	}
	out, err := RSI(in, 5)
	require.NoError(t, err)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestFFT_KnownValues(t *testing.T) {
	s, err := FFT([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, -2, -2, -2}, s.Real, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 2, 0, -2}, s.Imag, 1e-12)
}

func TestFFT_RoundTrip(t *testing.T) {
	in := []float64{0.5, -1, 3, 2.25, 8, -4, 1}
	s, err := FFT(in)
	require.NoError(t, err)
	back, err := InverseFFT(s)
	require.NoError(t, err)
	assert.InDeltaSlice(t, in, back.Real, 1e-9)
	for _, v := range back.Imag {
		assert.InDelta(t, 0.0, v, 1e-9)
	}
}

func TestFFT_Empty(t *testing.T) {
	_, err := FFT(nil)
	assert.ErrorIs(t, err, errs.ErrDataTooShort)

	_, err = InverseFFT(models.Spectrum{Real: []float64{1}, Imag: nil})
	assert.ErrorIs(t, err, errs.ErrComputation)
}

func TestCepstrum(t *testing.T) {
	// impulse: every bin has magnitude 1, log is 0
	c, err := Cepstrum([]float64{1, 0, 0, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, c.Real, 1e-12)

	// constant series has zero magnitude at every bin but DC
	_, err = Cepstrum([]float64{1, 1, 1, 1})
	assert.ErrorIs(t, err, errs.ErrComputation)
}

func TestMagnitude(t *testing.T) {
	m := Magnitude(models.Spectrum{Real: []float64{3, 0}, Imag: []float64{4, -2}})
	assert.InDeltaSlice(t, []float64{5, 2}, m, 1e-12)
}
