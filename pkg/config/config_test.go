package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, "alphavantage", c.Source.Type)
	assert.Equal(t, "file", c.Cache.Backend)
	assert.Equal(t, 100*time.Millisecond, c.Cache.LockPoll)
	assert.Equal(t, 30, c.Analysis.HurstWindow)
	assert.Equal(t, 5, c.Analysis.SmoothWidth)
	assert.Equal(t, 12, c.Analysis.MACDShort)
	assert.Equal(t, 26, c.Analysis.MACDLong)
	assert.Equal(t, 3, c.Analysis.WaveletScale)
	assert.Equal(t, 30, c.Analysis.MaxTrimAttempts)
	assert.Equal(t, 0.2, c.RateLimit.Refill)
	assert.NoError(t, c.Validate())
}

func TestParse_OverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
server:
  port: 9090
cache:
  backend: memory
analysis:
  hurst_window: 40
kafka:
  enabled: true
  brokers: ["k1:9092"]
`))
	require.NoError(t, err)
	assert.True(t, c.IsProduction())
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, 40, c.Analysis.HurstWindow)
	assert.Equal(t, 5, c.Analysis.SmoothWidth)
	assert.Equal(t, []string{"k1:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "hurstlab.reports", c.Kafka.Topic)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "server: [",
		"source":         "source:\n  type: yahoo\n",
		"cache":          "cache:\n  backend: disk\n",
		"window":         "analysis:\n  hurst_window: 3\n",
		"macd":           "analysis:\n  macd_short: 30\n",
		"kafka brokers":  "kafka:\n  enabled: true\n",
		"clickhouse off": "source:\n  type: clickhouse\n",
		"port":           "server:\n  port: 70000\n",
		"rate limit":     "rate_limit:\n  capacity: 0\n",
		"binance since":  "source:\n  type: binance\n  binance:\n    since: soon\n",
		"cron":           "refresh:\n  schedule: every day\n  symbols: [EURUSD]\n",
		"cron symbols":   "refresh:\n  schedule: \"0 6 * * 1-5\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ALPHAVANTAGE_API_KEY": "secret",
		"QUOTE_SOURCE":         "csv",
		"CACHE_BACKEND":        "redis",
		"CACHE_DIR":            "/tmp/quotes",
		"REDIS_ADDR":           "redis:6379",
		"KAFKA_BROKERS":        "a:9092,b:9092",
		"BINANCE_API_KEY":      "bk",
	}
	c := Default()
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "secret", c.Source.AlphaVantage.APIKey)
	assert.Equal(t, "csv", c.Source.Type)
	assert.Equal(t, "redis", c.Cache.Backend)
	assert.Equal(t, "/tmp/quotes", c.Cache.Dir)
	assert.Equal(t, "redis:6379", c.Cache.RedisAddr)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, "bk", c.Source.Binance.APIKey)
	assert.NoError(t, c.Validate())
}

func TestParse_RefreshAndBinance(t *testing.T) {
	c, err := Parse([]byte(`
source:
  type: binance
refresh:
  schedule: "30 6 * * 1-5"
  symbols: [BTCUSDT, ETHUSDT]
`))
	require.NoError(t, err)
	assert.Equal(t, "https://api.binance.com", c.Source.Binance.BaseURL)
	assert.Equal(t, "2017-07-01", c.Source.Binance.Since)
	assert.Equal(t, []string{"daily"}, c.Refresh.Frequencies)
	assert.Equal(t, 2*time.Minute, c.Refresh.Timeout)
	assert.Equal(t, 1, c.Refresh.Concurrency)
}

func TestLoadWithEnv_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BINANCE_API_SECRET=from-dotenv\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("BINANCE_API_SECRET") })

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", c.Source.Binance.SecretKey)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Environment)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
