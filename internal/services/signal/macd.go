package signal

import "HurstLab/internal/domain/errs"

const (
	DefaultMACDShort = 12
	DefaultMACDLong  = 26
)

// MACD returns EMA(values, short) - EMA(values, long) over the full input.
func MACD(values []float64, short, long int) ([]float64, error) {
	if short >= long {
		return nil, errs.Computation("macd: short width %d must be below long width %d", short, long)
	}
	fast, err := EMA(values, short)
	if err != nil {
		return nil, err
	}
	slow, err := EMA(values, long)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i := range out {
		out[i] = fast[i] - slow[i]
	}
	return out, nil
}
