package errs

import (
	"errors"
	"fmt"
)

// Analysis error taxonomy. Every error is fatal to the current request;
// callers wrap these with context and match them with errors.Is.
var (
	ErrDataTooShort = errors.New("data too short")
	ErrEmptySeries  = errors.New("empty series")
	ErrComputation  = errors.New("computation error")
	ErrDateNotFound = errors.New("date not found")
	ErrDataFetch    = errors.New("data fetch failed")
)

// DataTooShort wraps ErrDataTooShort with a formatted reason.
func DataTooShort(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDataTooShort, fmt.Sprintf(format, a...))
}

// EmptySeries wraps ErrEmptySeries with a formatted reason.
func EmptySeries(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrEmptySeries, fmt.Sprintf(format, a...))
}

// Computation wraps ErrComputation with a formatted reason.
func Computation(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrComputation, fmt.Sprintf(format, a...))
}

// DateNotFound wraps ErrDateNotFound with a formatted reason.
func DateNotFound(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDateNotFound, fmt.Sprintf(format, a...))
}

// DataFetch wraps an underlying transport or parse error as ErrDataFetch.
func DataFetch(err error, format string, a ...interface{}) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDataFetch, fmt.Sprintf(format, a...))
	}
	return fmt.Errorf("%w: %s: %w", ErrDataFetch, fmt.Sprintf(format, a...), err)
}

// Kind returns a stable, low-cardinality label for err, used for metrics
// labels and API error codes.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrDataTooShort):
		return "data_too_short"
	case errors.Is(err, ErrEmptySeries):
		return "empty_series"
	case errors.Is(err, ErrComputation):
		return "computation"
	case errors.Is(err, ErrDateNotFound):
		return "date_not_found"
	case errors.Is(err, ErrDataFetch):
		return "data_fetch"
	default:
		return "internal"
	}
}
