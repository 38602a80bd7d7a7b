package wavelet

import (
	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/service"
)

// DefaultScale is the number of interpolation points per approximation pair.
const DefaultScale = 3

// Resample stretches the single-level approximation of values back to
// len(values) points by linear interpolation between neighbouring
// coefficients. An even-length input comes out one point short and is
// padded with a trailing zero.
func Resample(t service.WaveletTransform, values []float64, family string, scale int) ([]float64, error) {
	if scale < 2 {
		return nil, errs.Computation("wavelet resample: scale %d below 2", scale)
	}
	approx, _, err := t.Decompose(values, family)
	if err != nil {
		return nil, err
	}
	if len(approx) == 0 {
		return nil, errs.Computation("wavelet resample: empty approximation")
	}

	out := make([]float64, 0, len(values))
	out = append(out, approx[0])
	step := float64(scale - 1)
	for i := 1; i < len(approx); i++ {
		a, b := approx[i-1], approx[i]
		for k := 1; k < scale; k++ {
			out = append(out, a+(b-a)*float64(k)/step)
		}
	}

	switch len(out) {
	case len(values):
	case len(values) - 1:
		out = append(out, 0)
	default:
		return nil, errs.Computation("wavelet resample: %d points for %d samples", len(out), len(values))
	}
	return out, nil
}
