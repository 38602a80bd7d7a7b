package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"HurstLab/internal/domain/models"
)

func TestRenderTable(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2020, 1, day, 0, 0, 0, 0, time.UTC) }
	res := &models.ResearchResult{
		Symbol:       "EURUSD",
		Frequency:    "daily",
		Signal:       models.SignalHurst,
		Wavelet:      "db1",
		DivisionLine: 0.5,
		Segments:     [][]float64{{0.6, 0.7, 0.4}, {0.4, 0.3, 0.6}},
		SegmentDates: [][]time.Time{{d(1), d(2), d(3)}, {d(3), d(4), d(5)}},
		Spectra: []models.Spectrum{
			{Real: []float64{1, 0, 3, 0}, Imag: []float64{0, 1, 0, 1}},
			{Real: []float64{1, 2}, Imag: []float64{0, 0}},
		},
	}

	var buf bytes.Buffer
	renderTable(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "EURUSD daily")
	assert.Contains(t, out, "2020-01-05")
	assert.Contains(t, out, "above")
	assert.Contains(t, out, "below")
	assert.Contains(t, out, "+0.0667")
}

func TestPeakBin(t *testing.T) {
	assert.Equal(t, 2, peakBin(models.Spectrum{Real: []float64{9, 1, 3, 1}, Imag: []float64{0, 0, 0, 0}}))
	assert.Equal(t, 0, peakBin(models.Spectrum{Real: []float64{1}, Imag: []float64{0}}))
}
