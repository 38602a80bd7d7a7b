package models

import (
	"sort"
	"time"

	"HurstLab/internal/domain/errs"
)

// Candle is one OHLCV row as produced by a quote source.
type Candle struct {
	Timestamp time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Series holds OHLCV history as parallel arrays sharing one timestamp axis.
// Index i of every array refers to Timestamp[i]; timestamps strictly increase.
type Series struct {
	Symbol    string
	Frequency string
	Timestamp []time.Time
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64
}

// PriceField names one of the price columns of a Series.
type PriceField string

const (
	FieldOpen   PriceField = "open"
	FieldHigh   PriceField = "high"
	FieldLow    PriceField = "low"
	FieldClose  PriceField = "close"
	FieldVolume PriceField = "volume"
)

// NewSeries sorts candles ascending by time, drops rows with a repeated
// timestamp (first one wins) and splits them into parallel arrays.
func NewSeries(symbol, frequency string, candles []Candle) *Series {
	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	s := &Series{
		Symbol:    symbol,
		Frequency: frequency,
		Timestamp: make([]time.Time, 0, len(sorted)),
		Open:      make([]float64, 0, len(sorted)),
		High:      make([]float64, 0, len(sorted)),
		Low:       make([]float64, 0, len(sorted)),
		Close:     make([]float64, 0, len(sorted)),
		Volume:    make([]float64, 0, len(sorted)),
	}
	for i, c := range sorted {
		if i > 0 && c.Timestamp.Equal(sorted[i-1].Timestamp) {
			continue
		}
		s.Timestamp = append(s.Timestamp, c.Timestamp)
		s.Open = append(s.Open, c.Open)
		s.High = append(s.High, c.High)
		s.Low = append(s.Low, c.Low)
		s.Close = append(s.Close, c.Close)
		s.Volume = append(s.Volume, c.Volume)
	}
	return s
}

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.Timestamp) }

// Validate checks the parallel array invariant.
func (s *Series) Validate() error {
	n := len(s.Timestamp)
	for name, col := range map[string][]float64{
		"open": s.Open, "high": s.High, "low": s.Low, "close": s.Close, "volume": s.Volume,
	} {
		if len(col) != n {
			return errs.Computation("series %s: column %s has %d rows, timestamps %d", s.Symbol, name, len(col), n)
		}
	}
	for i := 1; i < n; i++ {
		if !s.Timestamp[i].After(s.Timestamp[i-1]) {
			return errs.Computation("series %s: timestamps not increasing at %d", s.Symbol, i)
		}
	}
	return nil
}

// Field returns the column for f. The slice aliases the series.
func (s *Series) Field(f PriceField) ([]float64, error) {
	switch f {
	case FieldOpen:
		return s.Open, nil
	case FieldHigh:
		return s.High, nil
	case FieldLow:
		return s.Low, nil
	case FieldClose, "":
		return s.Close, nil
	case FieldVolume:
		return s.Volume, nil
	default:
		return nil, errs.Computation("unknown price field %q", f)
	}
}

// Slice returns rows [from, to) as a new Series backed by copies.
func (s *Series) Slice(from, to int) *Series {
	return &Series{
		Symbol:    s.Symbol,
		Frequency: s.Frequency,
		Timestamp: append([]time.Time(nil), s.Timestamp[from:to]...),
		Open:      append([]float64(nil), s.Open[from:to]...),
		High:      append([]float64(nil), s.High[from:to]...),
		Low:       append([]float64(nil), s.Low[from:to]...),
		Close:     append([]float64(nil), s.Close[from:to]...),
		Volume:    append([]float64(nil), s.Volume[from:to]...),
	}
}

// Candles converts the series back into rows.
func (s *Series) Candles() []Candle {
	out := make([]Candle, s.Len())
	for i := range out {
		out[i] = Candle{
			Timestamp: s.Timestamp[i],
			Open:      s.Open[i],
			High:      s.High[i],
			Low:       s.Low[i],
			Close:     s.Close[i],
			Volume:    s.Volume[i],
		}
	}
	return out
}
