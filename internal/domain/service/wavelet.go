package service

// WaveletTransform performs a single-level discrete wavelet decomposition.
// approx and detail have the same length, ceil(len(values)/2) for
// periodized transforms.
type WaveletTransform interface {
	Decompose(values []float64, family string) (approx, detail []float64, err error)
	Families() []string
}
