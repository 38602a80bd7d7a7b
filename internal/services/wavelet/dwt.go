package wavelet

import (
	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/service"
)

// DWT is a single-level periodized discrete wavelet transform.
//
// Odd-length input is extended by repeating its last sample, then convolved
// circularly with the decomposition filters and downsampled by two, giving
// ceil(N/2) coefficients per band.
type DWT struct{}

var _ service.WaveletTransform = DWT{}

// NewDWT returns the transform.
func NewDWT() DWT { return DWT{} }

// Families lists the supported wavelet names.
func (DWT) Families() []string { return Families() }

// Decompose returns the approximation and detail coefficients of values.
func (DWT) Decompose(values []float64, family string) ([]float64, []float64, error) {
	if len(values) == 0 {
		return nil, nil, errs.DataTooShort("dwt: empty input")
	}
	lo, hi, ok := filterBank(family)
	if !ok {
		return nil, nil, errs.Computation("dwt: unknown wavelet %q", family)
	}

	x := values
	if len(x)%2 == 1 {
		x = make([]float64, len(values)+1)
		copy(x, values)
		x[len(values)] = values[len(values)-1]
	}
	n := len(x)
	half := len(lo) / 2

	approx := make([]float64, n/2)
	detail := make([]float64, n/2)
	for o := range approx {
		var a, d float64
		for j := range lo {
			idx := (half + 2*o - j) % n
			if idx < 0 {
				idx += n
			}
			a += lo[j] * x[idx]
			d += hi[j] * x[idx]
		}
		approx[o] = a
		detail[o] = d
	}
	return approx, detail, nil
}
