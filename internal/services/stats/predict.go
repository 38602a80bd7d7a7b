package stats

import (
	"gonum.org/v1/gonum/mat"

	"HurstLab/internal/domain/errs"
)

// DefaultPredictDegree is the polynomial degree used by PredictNext callers.
const DefaultPredictDegree = 2

// PredictNext fits a least squares polynomial of the given degree to values
// indexed 0..n-1 and evaluates it at index n.
func PredictNext(values []float64, degree int) (float64, error) {
	if degree < 0 {
		return 0, errs.Computation("predict: negative degree %d", degree)
	}
	n := len(values)
	if n <= degree {
		return 0, errs.DataTooShort("predict: %d samples for degree %d", n, degree)
	}

	a := mat.NewDense(n, degree+1, nil)
	for i := 0; i < n; i++ {
		p := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, p)
			p *= float64(i)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), values...))

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return 0, errs.Computation("predict: %v", err)
	}

	x := float64(n)
	y, p := 0.0, 1.0
	for j := 0; j <= degree; j++ {
		y += coef.AtVec(j) * p
		p *= x
	}
	if !finite(y) {
		return 0, errs.Computation("predict: non-finite prediction")
	}
	return y, nil
}
