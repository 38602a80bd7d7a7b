package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	xutil "HurstLab/pkg/util"
)

// ParseQuoteCSV reads timestamp,open,high,low,close[,volume] rows. A header
// row is skipped, rows with a zero open price are dropped, and row order is
// preserved.
func ParseQuoteCSV(r io.Reader) ([]models.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := make([]models.Candle, 0, 1024)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.DataFetch(err, "csv line %d", line+1)
		}
		line++
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 5 {
			return nil, errs.DataFetch(nil, "csv line %d: %d columns, want at least 5", line, len(rec))
		}

		c, err := parseCandle(rec)
		if err != nil {
			return nil, errs.DataFetch(err, "csv line %d", line)
		}
		if c.Open == 0 {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func isHeader(rec []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(rec[len(rec)-1]), 64)
	return err != nil
}

func parseCandle(rec []string) (models.Candle, error) {
	var c models.Candle
	ts, ok := xutil.ParseTime(strings.TrimSpace(rec[0]))
	if !ok {
		return c, fmt.Errorf("bad timestamp %q", rec[0])
	}
	c.Timestamp = ts.UTC()

	fields := []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume}
	for i := 1; i < len(rec) && i <= len(fields); i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return c, fmt.Errorf("column %d: %w", i+1, err)
		}
		*fields[i-1] = v
	}
	return c, nil
}

// providerError detects the JSON notices some providers return with a 200
// status instead of CSV (invalid key, throttling).
func providerError(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return errs.DataFetch(nil, "empty response")
	}
	if trimmed[0] == '{' {
		msg := string(trimmed)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return errs.DataFetch(nil, "provider notice: %s", msg)
	}
	return nil
}
