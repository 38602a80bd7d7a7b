package signal

import "HurstLab/internal/domain/errs"

// DefaultRSIPeriod is the Wilder look-back.
const DefaultRSIPeriod = 14

// RSI computes Wilder's relative strength index. The first period+1 price
// changes seed the averages; the first period outputs repeat the seed value.
// A window without losses yields 100.
func RSI(values []float64, period int) ([]float64, error) {
	if period < 1 {
		return nil, errs.DataTooShort("rsi: period %d", period)
	}
	if len(values) < period+2 {
		return nil, errs.DataTooShort("rsi: %d samples for period %d, need %d", len(values), period, period+2)
	}
	n := float64(period)

	var up, down float64
	for i := 1; i <= period+1; i++ {
		d := values[i] - values[i-1]
		if d >= 0 {
			up += d
		} else {
			down -= d
		}
	}
	up /= n
	down /= n

	out := make([]float64, len(values))
	seed := strength(up, down)
	for i := 0; i < period; i++ {
		out[i] = seed
	}
	for i := period; i < len(values); i++ {
		d := values[i] - values[i-1]
		var gain, loss float64
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		up = (up*(n-1) + gain) / n
		down = (down*(n-1) + loss) / n
		out[i] = strength(up, down)
	}
	return out, nil
}

func strength(up, down float64) float64 {
	if down == 0 {
		return 100
	}
	return 100 - 100/(1+up/down)
}
