package signal

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
)

// FFT returns the unnormalised discrete Fourier transform of values.
func FFT(values []float64) (models.Spectrum, error) {
	if len(values) == 0 {
		return models.Spectrum{}, errs.DataTooShort("fft: empty input")
	}
	seq := make([]complex128, len(values))
	for i, v := range values {
		seq[i] = complex(v, 0)
	}
	coeff := fourier.NewCmplxFFT(len(seq)).Coefficients(nil, seq)
	return models.SpectrumOf(coeff), nil
}

// InverseFFT returns the inverse transform of s, scaled by 1/n.
func InverseFFT(s models.Spectrum) (models.Spectrum, error) {
	coeff, err := s.Complex()
	if err != nil {
		return models.Spectrum{}, err
	}
	if len(coeff) == 0 {
		return models.Spectrum{}, errs.DataTooShort("inverse fft: empty input")
	}
	return models.SpectrumOf(inverse(coeff)), nil
}

// Cepstrum returns ifft(log|fft(values)|). A zero magnitude bin has no
// logarithm and fails with ErrComputation.
func Cepstrum(values []float64) (models.Spectrum, error) {
	spec, err := FFT(values)
	if err != nil {
		return models.Spectrum{}, err
	}
	logMag := make([]complex128, spec.Len())
	for i := range logMag {
		m := math.Hypot(spec.Real[i], spec.Imag[i])
		if m == 0 {
			return models.Spectrum{}, errs.Computation("cepstrum: zero magnitude at bin %d", i)
		}
		logMag[i] = complex(math.Log(m), 0)
	}
	return models.SpectrumOf(inverse(logMag)), nil
}

func inverse(coeff []complex128) []complex128 {
	seq := fourier.NewCmplxFFT(len(coeff)).Sequence(nil, coeff)
	scale := complex(1/float64(len(seq)), 0)
	for i := range seq {
		seq[i] *= scale
	}
	return seq
}

// Magnitude returns |X[k]| for every bin.
func Magnitude(s models.Spectrum) []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = cmplx.Abs(complex(s.Real[i], s.Imag[i]))
	}
	return out
}
