package models

import (
	"time"

	"HurstLab/internal/domain/errs"
)

// DefaultMaxTrimAttempts bounds the day-by-day search for a trim boundary.
const DefaultMaxTrimAttempts = 30

const dayLayout = "2006-01-02"

// Trim returns the rows between start and end inclusive. Boundaries are
// matched by calendar day; when a day has no row the start walks forward and
// the end walks backward one day at a time, at most maxAttempts times.
func (s *Series) Trim(start, end time.Time, maxAttempts int) (*Series, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxTrimAttempts
	}
	index := make(map[string]int, s.Len())
	for i, ts := range s.Timestamp {
		key := ts.UTC().Format(dayLayout)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}
	// last row of the day for the end boundary (intraday series)
	lastOfDay := make(map[string]int, s.Len())
	for i, ts := range s.Timestamp {
		lastOfDay[ts.UTC().Format(dayLayout)] = i
	}

	from, err := findDateIndex(index, start, 1, maxAttempts)
	if err != nil {
		return nil, err
	}
	to, err := findDateIndex(lastOfDay, end, -1, maxAttempts)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, errs.DateNotFound("start %s resolves after end %s", start.Format(dayLayout), end.Format(dayLayout))
	}
	return s.Slice(from, to+1), nil
}

func findDateIndex(index map[string]int, day time.Time, direction, maxAttempts int) (int, error) {
	d := day.UTC()
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		if i, ok := index[d.Format(dayLayout)]; ok {
			return i, nil
		}
		d = d.AddDate(0, 0, direction)
	}
	return -1, errs.DateNotFound("no row within %d days of %s", maxAttempts, day.Format(dayLayout))
}
