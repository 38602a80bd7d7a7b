package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
)

// CSVSource reads quotes from local files named <SYMBOL>_<frequency>.csv,
// falling back to <SYMBOL>.csv.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) Fetch(_ context.Context, symbol string, freq domrepo.Frequency) ([]models.Candle, error) {
	candidates := []string{
		filepath.Join(s.dir, symbol+"_"+string(freq)+".csv"),
		filepath.Join(s.dir, symbol+".csv"),
	}
	for _, path := range candidates {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errs.DataFetch(err, "open %s", path)
		}
		rows, err := ParseQuoteCSV(f)
		_ = f.Close()
		return rows, err
	}
	return nil, errs.DataFetch(nil, "no csv file for %s %s in %s", symbol, freq, s.dir)
}
