package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HurstLab/internal/domain/errs"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/service/ratelimit"
	pkgch "HurstLab/pkg/clickhouse"
	xhttp "HurstLab/pkg/http"
)

func TestAlphaVantageSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "TIME_SERIES_WEEKLY", q.Get("function"))
		assert.Equal(t, "MSFT", q.Get("symbol"))
		assert.Equal(t, "csv", q.Get("datatype"))
		assert.Equal(t, "key", q.Get("apikey"))
		assert.Equal(t, "full", q.Get("outputsize"))
		_, _ = w.Write([]byte("timestamp,open,high,low,close,volume\n2020-01-10,2,2,2,2,1\n2020-01-03,1,1,1,1,1\n"))
	}))
	defer srv.Close()

	s := NewAlphaVantageSource(xhttp.NewClient(), AlphaVantageConfig{BaseURL: srv.URL, APIKey: "key"}, nil, nil)
	assert.Equal(t, "alphavantage", s.Name())
	rows, err := s.Fetch(context.Background(), "MSFT", domrepo.FreqWeekly)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAlphaVantageSource_Failures(t *testing.T) {
	status := http.StatusOK
	body := `{"Error Message": "Invalid API call"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	s := NewAlphaVantageSource(xhttp.NewClient(), AlphaVantageConfig{BaseURL: srv.URL}, nil, nil)
	_, err := s.Fetch(context.Background(), "MSFT", domrepo.FreqDaily)
	assert.ErrorIs(t, err, errs.ErrDataFetch)

	status, body = http.StatusBadGateway, "oops"
	_, err = s.Fetch(context.Background(), "MSFT", domrepo.FreqDaily)
	assert.ErrorIs(t, err, errs.ErrDataFetch)
	var se *xhttp.StatusError
	assert.ErrorAs(t, err, &se)
}

func TestAlphaVantageSource_RateLimited(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("2020-01-01,1,1,1,1,1\n"))
	}))
	defer srv.Close()

	bucket := ratelimit.NewBucket(ratelimit.New(), "alphavantage", 1, 0.0001)
	s := NewAlphaVantageSource(xhttp.NewClient(), AlphaVantageConfig{BaseURL: srv.URL}, bucket, nil)
	_, err := s.Fetch(context.Background(), "MSFT", domrepo.FreqDaily)
	require.NoError(t, err)
	_, err = s.Fetch(context.Background(), "MSFT", domrepo.FreqDaily)
	assert.ErrorIs(t, err, errs.ErrDataFetch)
	assert.Equal(t, 1, calls)
}

func TestCSVSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EURUSD_daily.csv"), []byte("2020-01-01,1,1,1,1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MSFT.csv"), []byte("2020-01-01,2,2,2,2,5\n2020-01-02,3,3,3,3,5\n"), 0o600))

	s := NewCSVSource(dir)
	rows, err := s.Fetch(context.Background(), "EURUSD", domrepo.FreqDaily)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = s.Fetch(context.Background(), "MSFT", domrepo.FreqWeekly)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = s.Fetch(context.Background(), "AAPL", domrepo.FreqDaily)
	assert.ErrorIs(t, err, errs.ErrDataFetch)
}

func TestCHQuoteSource_SQL(t *testing.T) {
	ch := pkgch.NewClientFromDB(nil)
	_, err := NewCHQuoteSource(ch, "candles; DROP TABLE x", nil)
	assert.Error(t, err)

	s, err := NewCHQuoteSource(ch, "market.candles", nil)
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", s.Name())
	assert.Contains(t, s.query(), "FROM market.candles FINAL")
	assert.Contains(t, s.Schema()[0], "CREATE TABLE IF NOT EXISTS market.candles")
}

func TestBinanceSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTCUSDT", q.Get("symbol"))
		assert.Equal(t, "1w", q.Get("interval"))
		assert.Equal(t, "1000", q.Get("limit"))
		assert.Equal(t, "1577836800000", q.Get("startTime"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1577836800000,"7195.24","7255.00","7175.15","7200.85","16792.38",1578441599999,"0",0,"0","0","0"],
			[1578441600000,"7200.77","8200.00","7150.00","8100.01","25012.55",1579046399999,"0",0,"0","0","0"]
		]`))
	}))
	defer srv.Close()

	s := NewBinanceSource(BinanceConfig{
		BaseURL: srv.URL,
		Since:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil, nil)
	s.now = func() time.Time { return time.Date(2020, 1, 20, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, "binance", s.Name())

	rows, err := s.Fetch(context.Background(), "BTCUSDT", domrepo.FreqWeekly)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC), rows[1].Timestamp)
	assert.InDelta(t, 8100.01, rows[1].Close, 1e-9)
	assert.InDelta(t, 16792.38, rows[0].Volume, 1e-9)
}

func TestBinanceSource_Errors(t *testing.T) {
	body := `{"code":-1121,"msg":"Invalid symbol."}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	s := NewBinanceSource(BinanceConfig{BaseURL: srv.URL}, nil, nil)
	_, err := s.Fetch(context.Background(), "NOPE", domrepo.FreqDaily)
	assert.ErrorIs(t, err, errs.ErrDataFetch)

	_, err = candleFromKline(&binance.Kline{OpenTime: 1, Open: "x"})
	assert.Error(t, err)
	assert.Equal(t, "1M", klineInterval(domrepo.FreqMonthly))
	assert.Equal(t, "1d", klineInterval("TIME_SERIES_DAILY"))
}
