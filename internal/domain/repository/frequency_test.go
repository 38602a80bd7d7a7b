package repository

import "testing"

func TestNormalizeFrequency(t *testing.T) {
	cases := map[string]Frequency{
		"":                   FreqDaily,
		"daily":              FreqDaily,
		"WEEKLY":             FreqWeekly,
		" monthly ":          FreqMonthly,
		"TIME_SERIES_WEEKLY": FreqWeekly,
		"FX_MONTHLY":         FreqMonthly,
		"hourly":             FreqDaily,
	}
	for in, want := range cases {
		if got := NormalizeFrequency(in); got != want {
			t.Fatalf("NormalizeFrequency(%q) = %q, want %q", in, got, want)
		}
	}
	if IsValidFrequency("1m") {
		t.Fatalf("1m must not be a valid frequency")
	}
}
