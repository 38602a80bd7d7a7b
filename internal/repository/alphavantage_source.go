package repository

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/service/ratelimit"
	xhttp "HurstLab/pkg/http"
	applogger "HurstLab/pkg/logger"
)

// AlphaVantageSource fetches full daily/weekly/monthly history as CSV.
type AlphaVantageSource struct {
	client     *xhttp.Client
	baseURL    string
	apiKey     string
	outputSize string
	limit      *ratelimit.Bucket
	l          *applogger.Logger
}

// AlphaVantageConfig holds source settings.
type AlphaVantageConfig struct {
	BaseURL    string
	APIKey     string
	OutputSize string
}

func NewAlphaVantageSource(client *xhttp.Client, cfg AlphaVantageConfig, limit *ratelimit.Bucket, l *applogger.Logger) *AlphaVantageSource {
	if l == nil {
		l = applogger.Nop()
	}
	if cfg.OutputSize == "" {
		cfg.OutputSize = "full"
	}
	return &AlphaVantageSource{
		client:     client,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		outputSize: cfg.OutputSize,
		limit:      limit,
		l:          l,
	}
}

func (s *AlphaVantageSource) Name() string { return "alphavantage" }

// Fetch issues a single request; there are no retries.
func (s *AlphaVantageSource) Fetch(ctx context.Context, symbol string, freq domrepo.Frequency) ([]models.Candle, error) {
	if s.limit != nil && !s.limit.Allow() {
		s.l.Warn("alphavantage rate_limited", applogger.String("symbol", symbol))
		return nil, errs.DataFetch(nil, "upstream rate limit reached for %s", symbol)
	}

	start := time.Now()
	body, err := s.client.Fetch(ctx, &xhttp.RequestOptions{
		URL: s.baseURL,
		Query: url.Values{
			"function":   {functionFor(freq)},
			"symbol":     {symbol},
			"outputsize": {s.outputSize},
			"datatype":   {"csv"},
			"apikey":     {s.apiKey},
		},
	})
	if err != nil {
		s.l.Error("alphavantage fetch error",
			applogger.String("symbol", symbol),
			applogger.String("frequency", string(freq)),
			applogger.Error(err),
		)
		return nil, errs.DataFetch(err, "alphavantage %s %s", symbol, freq)
	}
	if err := providerError(body); err != nil {
		s.l.Error("alphavantage notice", applogger.String("symbol", symbol), applogger.Error(err))
		return nil, err
	}

	rows, err := ParseQuoteCSV(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	s.l.Info("alphavantage fetch ok",
		applogger.String("symbol", symbol),
		applogger.String("frequency", string(freq)),
		applogger.Int("rows", len(rows)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return rows, nil
}

func functionFor(freq domrepo.Frequency) string {
	return "TIME_SERIES_" + strings.ToUpper(string(domrepo.NormalizeFrequency(string(freq))))
}
