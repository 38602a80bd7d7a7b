package signal

import (
	"github.com/markcheno/go-talib"

	"HurstLab/internal/domain/errs"
)

// EMA returns the exponential moving average of values with smoothing
// c = 2/(width+1). The average is seeded with the first sample, so the
// output has the same length as the input.
func EMA(values []float64, width int) ([]float64, error) {
	if width < 1 {
		return nil, errs.DataTooShort("ema: width %d", width)
	}
	if len(values) < 2*width {
		return nil, errs.DataTooShort("ema: %d samples for width %d, need %d", len(values), width, 2*width)
	}
	c := 2.0 / float64(width+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = c*values[i] + (1-c)*out[i-1]
	}
	return out, nil
}

// SMA returns the simple moving average over every full window of width
// samples. The result has len(values)-width+1 elements.
func SMA(values []float64, width int) ([]float64, error) {
	if width < 1 || len(values) < width {
		return nil, errs.DataTooShort("sma: %d samples for width %d", len(values), width)
	}
	// talib pads the first width-1 slots with zeros.
	return talib.Sma(values, width)[width-1:], nil
}
