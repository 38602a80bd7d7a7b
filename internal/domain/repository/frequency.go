package repository

import "strings"

// Frequency represents the sampling interval of a quote series.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// IsValidFrequency returns true if f is a supported frequency.
func IsValidFrequency(f Frequency) bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly:
		return true
	default:
		return false
	}
}

// DefaultFrequency returns the default frequency.
func DefaultFrequency() Frequency { return FreqDaily }

// NormalizeFrequency converts a raw string to a valid frequency (or default).
// Provider function names such as TIME_SERIES_WEEKLY are accepted.
func NormalizeFrequency(s string) Frequency {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFrequency()
	}
	for _, f := range []Frequency{FreqDaily, FreqWeekly, FreqMonthly} {
		if s == string(f) || strings.HasSuffix(s, "_"+string(f)) {
			return f
		}
	}
	return DefaultFrequency()
}
