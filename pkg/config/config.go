package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	xutil "HurstLab/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		AllowOrigins    []string      `yaml:"allow_origins" default:"[\"*\"]"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
	} `yaml:"log"`
	Source struct {
		Type         string `yaml:"type" default:"alphavantage"`
		AlphaVantage struct {
			BaseURL    string        `yaml:"base_url" default:"https://www.alphavantage.co/query"`
			APIKey     string        `yaml:"api_key"`
			OutputSize string        `yaml:"output_size" default:"full"`
			Timeout    time.Duration `yaml:"timeout" default:"30s"`
		} `yaml:"alphavantage"`
		CSV struct {
			Dir string `yaml:"dir" default:"data"`
		} `yaml:"csv"`
		ClickHouse struct {
			Table string `yaml:"table" default:"candles"`
		} `yaml:"clickhouse"`
		Binance struct {
			BaseURL   string `yaml:"base_url" default:"https://api.binance.com"`
			APIKey    string `yaml:"api_key"`
			SecretKey string `yaml:"secret_key"`
			Since     string `yaml:"since" default:"2017-07-01"`
		} `yaml:"binance"`
	} `yaml:"source"`
	Cache struct {
		Backend    string        `yaml:"backend" default:"file"`
		Dir        string        `yaml:"dir" default:"cache"`
		Prefix     string        `yaml:"prefix" default:"hurstlab"`
		MemorySize int           `yaml:"memory_size" default:"100"`
		LockTTL    time.Duration `yaml:"lock_ttl" default:"60s"`
		LockWait   time.Duration `yaml:"lock_wait" default:"30s"`
		LockPoll   time.Duration `yaml:"lock_poll" default:"100ms"`
		RedisAddr  string        `yaml:"redis_addr" default:"localhost:6379"`
		RedisPass  string        `yaml:"redis_password"`
		RedisDB    int           `yaml:"redis_db"`
		RedisPool  int           `yaml:"redis_pool_size" default:"10"`
	} `yaml:"cache"`
	Analysis struct {
		HurstWindow     int    `yaml:"hurst_window" default:"30"`
		SmoothWidth     int    `yaml:"smooth_width" default:"5"`
		MACDShort       int    `yaml:"macd_short" default:"12"`
		MACDLong        int    `yaml:"macd_long" default:"26"`
		WaveletScale    int    `yaml:"wavelet_scale" default:"3"`
		DefaultWavelet  string `yaml:"default_wavelet" default:"db1"`
		MaxTrimAttempts int    `yaml:"max_trim_attempts" default:"30"`
	} `yaml:"analysis"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"market"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecTime  time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"hurstlab.reports"`
		RequiredAcks int           `yaml:"required_acks" default:"1"`
		Compression  string        `yaml:"compression" default:"snappy"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Async        bool          `yaml:"async" default:"true"`
	} `yaml:"kafka"`
	Refresh struct {
		// Schedule is a cron expression; empty disables scheduled refreshes.
		Schedule    string        `yaml:"schedule"`
		Symbols     []string      `yaml:"symbols"`
		Frequencies []string      `yaml:"frequencies" default:"[\"daily\"]"`
		Timeout     time.Duration `yaml:"timeout" default:"2m"`
		Concurrency int           `yaml:"concurrency" default:"1"`
	} `yaml:"refresh"`
	RateLimit struct {
		Capacity int     `yaml:"capacity" default:"5"`
		Refill   float64 `yaml:"refill_per_second" default:"0.2"`
	} `yaml:"rate_limit"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(err)
	}
	return &c
}

// Load reads and parses a YAML configuration file. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Variables from a .env file in the working directory are loaded first when
// present. An empty path skips the file and starts from defaults.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c = Default()
	} else if c, err = Load(path); err != nil {
		return nil, err
	}

	// a missing .env is fine, plain environment variables still apply
	_ = godotenv.Load()
	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Source.AlphaVantage.APIKey = v
	}
	if v := getenv("BINANCE_API_KEY"); v != "" {
		c.Source.Binance.APIKey = v
	}
	if v := getenv("BINANCE_API_SECRET"); v != "" {
		c.Source.Binance.SecretKey = v
	}
	if v := getenv("QUOTE_SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv("CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Source.Type {
	case "alphavantage", "csv":
	case "binance":
		if _, ok := xutil.ParseTime(c.Source.Binance.Since); !ok {
			return fmt.Errorf("source.binance.since must be an ISO-8601 date, got '%s'", c.Source.Binance.Since)
		}
	case "clickhouse":
		if !c.ClickHouse.Enabled {
			return fmt.Errorf("source.type 'clickhouse' requires clickhouse.enabled")
		}
	default:
		return fmt.Errorf("source.type must be 'alphavantage', 'binance', 'csv' or 'clickhouse', got '%s'", c.Source.Type)
	}
	switch c.Cache.Backend {
	case "file":
		if c.Cache.Dir == "" {
			return fmt.Errorf("cache.dir is required for the file backend")
		}
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'file', 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Analysis.HurstWindow < 4 {
		return fmt.Errorf("analysis.hurst_window must be at least 4, got %d", c.Analysis.HurstWindow)
	}
	if c.Analysis.SmoothWidth < 1 {
		return fmt.Errorf("analysis.smooth_width must be positive, got %d", c.Analysis.SmoothWidth)
	}
	if c.Analysis.MACDShort >= c.Analysis.MACDLong {
		return fmt.Errorf("analysis.macd_short must be below analysis.macd_long")
	}
	if c.Analysis.WaveletScale < 2 {
		return fmt.Errorf("analysis.wavelet_scale must be at least 2, got %d", c.Analysis.WaveletScale)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
			return fmt.Errorf("refresh.schedule: %w", err)
		}
		if len(c.Refresh.Symbols) == 0 {
			return fmt.Errorf("refresh.symbols cannot be empty when refresh.schedule is set")
		}
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.Refill <= 0 {
		return fmt.Errorf("rate_limit.capacity and rate_limit.refill_per_second must be positive")
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
