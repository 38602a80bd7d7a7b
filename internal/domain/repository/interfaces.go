package repository

import (
	"context"
	"time"

	"HurstLab/internal/domain/models"
)

// QuoteSource fetches the full available OHLCV history of a symbol from an
// upstream provider. Rows may come in any order.
type QuoteSource interface {
	Name() string
	Fetch(ctx context.Context, symbol string, freq Frequency) ([]models.Candle, error)
}

// QuoteLoader returns a symbol's history sorted ascending and trimmed to
// [start, end] by nearest available dates.
type QuoteLoader interface {
	Load(ctx context.Context, symbol string, freq Frequency, start, end time.Time) (*models.Series, error)
}

// QuoteRefresher replaces a cached history with a fresh upstream copy and
// reports how many rows were stored.
type QuoteRefresher interface {
	Refresh(ctx context.Context, symbol string, freq Frequency) (int, error)
}

// ReportPublisher ships analysis summaries to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, r *models.AnalysisReport) error
	Close() error
}

// Metrics records analysis outcomes.
type Metrics interface {
	RecordAnalysis(kind, signal string, seconds float64)
	RecordError(kind, errKind string)
	RecordCache(result string)
}
