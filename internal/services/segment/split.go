// Package segment cuts a signal into consecutive runs that stay on one side
// of a division line.
package segment

import "HurstLab/internal/domain/errs"

// Result holds the segments and their timestamps. Values[i] and Dates[i]
// have equal length. Adjacent segments share their boundary element.
type Result[T any] struct {
	Values [][]float64
	Dates  [][]T
}

// Len returns the number of segments.
func (r Result[T]) Len() int { return len(r.Values) }

// SplitBySign splits values at every crossing of divisionLine. The sample
// on which a crossing is detected closes the current segment and opens the
// next one. Segments hold copies of the original values. When the last
// crossing falls on the final sample no one-element tail segment follows
// it, so the result ends on that crossing.
func SplitBySign[T any](values []float64, stamps []T, divisionLine float64) (Result[T], error) {
	if len(values) != len(stamps) {
		return Result[T]{}, errs.Computation("split: %d values, %d timestamps", len(values), len(stamps))
	}

	pivot := -1
	for i, v := range values {
		if v-divisionLine != 0 {
			pivot = i
			break
		}
	}
	if pivot < 0 {
		return Result[T]{}, errs.EmptySeries("split: no sample off the division line %g", divisionLine)
	}

	var res Result[T]
	sign := -signOf(values[pivot] - divisionLine)
	last := 0
	for i := pivot; i < len(values); i++ {
		w := (values[i] - divisionLine) * sign
		if w >= 0 {
			res.add(values, stamps, last, i)
			last = i
		}
		if w > 0 {
			sign = -sign
		}
	}
	if last < len(values)-1 || res.Len() == 0 {
		res.add(values, stamps, last, len(values)-1)
	}
	return res, nil
}

func (r *Result[T]) add(values []float64, stamps []T, from, to int) {
	r.Values = append(r.Values, append([]float64(nil), values[from:to+1]...))
	r.Dates = append(r.Dates, append([]T(nil), stamps[from:to+1]...))
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
