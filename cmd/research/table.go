package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"HurstLab/internal/domain/models"
)

// renderTable prints one row per segment: its date span, length, mean
// distance from the division line and dominant spectral bin.
func renderTable(w io.Writer, res *models.ResearchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s %s  signal=%s  wavelet=%s  line=%.2f",
		res.Symbol, res.Frequency, res.Signal, res.Wavelet, res.DivisionLine))
	t.AppendHeader(table.Row{"#", "from", "to", "n", "side", "mean dev", "peak bin"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	for i, seg := range res.Segments {
		dates := res.SegmentDates[i]
		dev := stat.Mean(seg, nil) - res.DivisionLine
		side := "above"
		if dev < 0 {
			side = "below"
		}
		t.AppendRow(table.Row{
			i,
			dates[0].Format("2006-01-02"),
			dates[len(dates)-1].Format("2006-01-02"),
			len(seg),
			side,
			fmt.Sprintf("%+.4f", dev),
			peakBin(res.Spectra[i]),
		})
	}
	t.AppendFooter(table.Row{"", "", "segments", len(res.Segments)})
	t.Render()
}

// peakBin is the index of the largest magnitude among the positive
// frequencies, skipping the DC term.
func peakBin(s models.Spectrum) int {
	n := s.Len()/2 + 1
	if n < 2 {
		return 0
	}
	mags := make([]float64, n-1)
	for k := 1; k < n; k++ {
		mags[k-1] = s.Real[k]*s.Real[k] + s.Imag[k]*s.Imag[k]
	}
	return floats.MaxIdx(mags) + 1
}
