package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/service/ratelimit"
	applogger "HurstLab/pkg/logger"
)

const binanceKlineLimit = 1000

// BinanceConfig holds spot klines settings. Klines are public, so the
// credentials may stay empty.
type BinanceConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
	// Since is the earliest open time requested.
	Since time.Time
}

// BinanceSource pages spot klines from Since up to now.
type BinanceSource struct {
	client *binance.Client
	since  time.Time
	limit  *ratelimit.Bucket
	l      *applogger.Logger
	now    func() time.Time
}

func NewBinanceSource(cfg BinanceConfig, limit *ratelimit.Bucket, l *applogger.Logger) *BinanceSource {
	c := binance.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.Since.IsZero() {
		cfg.Since = time.Date(2017, 7, 1, 0, 0, 0, 0, time.UTC)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &BinanceSource{client: c, since: cfg.Since, limit: limit, l: l, now: time.Now}
}

func (s *BinanceSource) Name() string { return "binance" }

func (s *BinanceSource) Fetch(ctx context.Context, symbol string, freq domrepo.Frequency) ([]models.Candle, error) {
	if s.limit != nil && !s.limit.Allow() {
		return nil, errs.DataFetch(nil, "upstream rate limit reached for %s", symbol)
	}

	interval := klineInterval(freq)
	end := s.now().UnixMilli()
	from := s.since.UnixMilli()
	var rows []models.Candle
	for pages := 0; from < end; pages++ {
		klines, err := s.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(from).
			EndTime(end).
			Limit(binanceKlineLimit).
			Do(ctx)
		if err != nil {
			s.l.Error("binance klines error",
				applogger.String("symbol", symbol),
				applogger.Int("page", pages),
				applogger.Error(err),
			)
			return nil, errs.DataFetch(err, "binance %s %s", symbol, interval)
		}
		for _, k := range klines {
			c, err := candleFromKline(k)
			if err != nil {
				return nil, errs.DataFetch(err, "binance %s", symbol)
			}
			rows = append(rows, c)
		}
		if len(klines) < binanceKlineLimit {
			break
		}
		from = klines[len(klines)-1].CloseTime + 1
	}

	s.l.Info("binance fetch ok",
		applogger.String("symbol", symbol),
		applogger.String("interval", interval),
		applogger.Int("rows", len(rows)),
	)
	return rows, nil
}

func klineInterval(freq domrepo.Frequency) string {
	switch domrepo.NormalizeFrequency(string(freq)) {
	case domrepo.FreqWeekly:
		return "1w"
	case domrepo.FreqMonthly:
		return "1M"
	default:
		return "1d"
	}
}

func candleFromKline(k *binance.Kline) (models.Candle, error) {
	var (
		c   = models.Candle{Timestamp: time.UnixMilli(k.OpenTime).UTC()}
		err error
	)
	for _, f := range []struct {
		dst *float64
		src string
	}{
		{&c.Open, k.Open},
		{&c.High, k.High},
		{&c.Low, k.Low},
		{&c.Close, k.Close},
		{&c.Volume, k.Volume},
	} {
		if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
			return c, fmt.Errorf("kline %d: parse %q: %w", k.OpenTime, f.src, err)
		}
	}
	return c, nil
}
