package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "none"},
		{"too short", DataTooShort("need %d samples", 52), "data_too_short"},
		{"empty", EmptySeries("all zero"), "empty_series"},
		{"computation", Computation("zero variance"), "computation"},
		{"date", DateNotFound("2004-06-02"), "date_not_found"},
		{"fetch", DataFetch(errors.New("eof"), "alphavantage"), "data_fetch"},
		{"wrapped twice", fmt.Errorf("research: %w", Computation("nan")), "computation"},
		{"unknown", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestDataFetchKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := DataFetch(cause, "get %s", "EURUSD")

	assert.ErrorIs(t, err, ErrDataFetch)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "get EURUSD")
}
