package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/domain/service"
	"HurstLab/internal/handler/api"
	internalrepo "HurstLab/internal/repository"
	"HurstLab/internal/scheduler"
	"HurstLab/internal/service/ratelimit"
	"HurstLab/internal/services/wavelet"
	"HurstLab/internal/usecase"
	"HurstLab/pkg/cache"
	pkgch "HurstLab/pkg/clickhouse"
	"HurstLab/pkg/config"
	xhttp "HurstLab/pkg/http"
	pkgkafka "HurstLab/pkg/kafka"
	applogger "HurstLab/pkg/logger"
	"HurstLab/pkg/metrics"
	"HurstLab/pkg/server"
	xutil "HurstLab/pkg/util"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stderr",
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the quote cache backend selected by cache.backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	cc := cfg.Cache
	switch cc.Backend {
	case "memory":
		return cache.NewMemoryCache(cc.MemorySize), nil
	case "redis", "layered":
		rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPass,
			DB:       cc.RedisDB,
			PoolSize: cc.RedisPool,
			Prefix:   cc.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cc.Backend == "layered" {
			return cache.NewLayeredCache(rc, cc.MemorySize), nil
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cc.Dir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		return fc, nil
	}
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(context.Background(), pkgch.Config{
		Host:        cfg.ClickHouse.Host,
		Port:        cfg.ClickHouse.Port,
		Database:    cfg.ClickHouse.Database,
		User:        cfg.ClickHouse.User,
		Password:    cfg.ClickHouse.Password,
		UseHTTP:     cfg.ClickHouse.UseHTTP,
		DialTimeout: cfg.ClickHouse.DialTimeout,
		ReadTimeout: cfg.ClickHouse.ReadTimeout,
		MaxExecTime: cfg.ClickHouse.MaxExecTime,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideQuoteSource creates the upstream selected by source.type.
func ProvideQuoteSource(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (domrepo.QuoteSource, error) {
	switch cfg.Source.Type {
	case "csv":
		return internalrepo.NewCSVSource(cfg.Source.CSV.Dir), nil
	case "clickhouse":
		if ch == nil {
			return nil, errors.New("clickhouse source requires clickhouse.enabled")
		}
		src, err := internalrepo.NewCHQuoteSource(ch, cfg.Source.ClickHouse.Table, l)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ch.InitSchema(ctx, src.Schema()); err != nil {
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return src, nil
	case "binance":
		bc := cfg.Source.Binance
		since, _ := xutil.ParseTime(bc.Since)
		limit := ratelimit.NewBucket(ratelimit.New(), "binance", cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
		return internalrepo.NewBinanceSource(internalrepo.BinanceConfig{
			BaseURL:   bc.BaseURL,
			APIKey:    bc.APIKey,
			SecretKey: bc.SecretKey,
			Since:     since,
		}, limit, l), nil
	default:
		av := cfg.Source.AlphaVantage
		client := xhttp.NewClient(xhttp.WithTimeout(av.Timeout), xhttp.WithUserAgent("hurstlab/1.0"))
		limit := ratelimit.NewBucket(ratelimit.New(), "alphavantage", cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
		return internalrepo.NewAlphaVantageSource(client, internalrepo.AlphaVantageConfig{
			BaseURL:    av.BaseURL,
			APIKey:     av.APIKey,
			OutputSize: av.OutputSize,
		}, limit, l), nil
	}
}

// ProvideQuoteLoader wraps the source with the quote cache.
func ProvideQuoteLoader(cfg *config.Config, src domrepo.QuoteSource, c cache.Service, m domrepo.Metrics, l *applogger.Logger) *internalrepo.CachedQuoteLoader {
	return internalrepo.NewCachedQuoteLoader(src, c, m, internalrepo.LoaderOptions{
		LockTTL:         cfg.Cache.LockTTL,
		LockWait:        cfg.Cache.LockWait,
		LockPoll:        cfg.Cache.LockPoll,
		MaxTrimAttempts: cfg.Analysis.MaxTrimAttempts,
	}, l)
}

// ProvideReportPublisher creates the Kafka report publisher, or a no-op one
// when kafka is disabled.
func ProvideReportPublisher(cfg *config.Config) (domrepo.ReportPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopReportPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		Compression:  cfg.Kafka.Compression,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		WriteTimeout: cfg.Kafka.WriteTimeout,
		ReadTimeout:  cfg.Kafka.WriteTimeout,
		MaxAttempts:  cfg.Kafka.MaxAttempts,
		Async:        cfg.Kafka.Async,
		HashByKey:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaReportPublisher(producer), nil
}

// ProvideWaveletTransform returns the in-process DWT.
func ProvideWaveletTransform() service.WaveletTransform {
	return wavelet.NewDWT()
}

// ProvideSettings maps the analysis section onto use case defaults.
func ProvideSettings(cfg *config.Config) usecase.Settings {
	a := cfg.Analysis
	return usecase.Settings{
		HurstWindow: a.HurstWindow,
		SmoothWidth: a.SmoothWidth,
		MACDShort:   a.MACDShort,
		MACDLong:    a.MACDLong,
		Scale:       a.WaveletScale,
		Wavelet:     a.DefaultWavelet,
	}
}

// ProvideHandler registers the analysis API.
func ProvideHandler(l *applogger.Logger, an *usecase.Analyse, r *usecase.Research) xhttp.Handler {
	return api.NewAnalysisEchoHandler(l, an, r)
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, xhttp.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowOrigins:    cfg.Server.AllowOrigins,
		MetricsPath:     metricsPath,
	}, l)
}

// ProvideRefreshScheduler creates the cron driven cache refresher, or nil
// when refresh.schedule is empty.
func ProvideRefreshScheduler(cfg *config.Config, r domrepo.QuoteRefresher, l *applogger.Logger) (*scheduler.RefreshScheduler, error) {
	rc := cfg.Refresh
	if rc.Schedule == "" {
		return nil, nil
	}
	return scheduler.NewRefreshScheduler(rc.Schedule, r, scheduler.Targets(rc.Symbols, rc.Frequencies), scheduler.Options{
		Timeout:     rc.Timeout,
		Concurrency: rc.Concurrency,
	}, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	l *applogger.Logger,
	srv *xhttp.Server,
	pub domrepo.ReportPublisher,
	c cache.Service,
	ch *pkgch.Client,
	refresh *scheduler.RefreshScheduler,
	r *usecase.Research,
) *server.App {
	return server.New(l, srv, pub, c, ch, refresh, r)
}

// Tool is the research use case with its resources, for one-shot runs.
type Tool struct {
	Research  *usecase.Research
	Refresher domrepo.QuoteRefresher
	Logger    *applogger.Logger

	publisher domrepo.ReportPublisher
	cache     cache.Service
	ch        *pkgch.Client
}

// Close waits for pending reports, flushes the publisher and releases the
// cache and clickhouse pool.
func (t *Tool) Close() error {
	var errs []error
	if t.Research != nil {
		if err := t.Research.Drain(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := t.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := t.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if t.ch != nil {
		if err := t.ch.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ProvideTool assembles a Tool.
func ProvideTool(l *applogger.Logger, r *usecase.Research, qr domrepo.QuoteRefresher, pub domrepo.ReportPublisher, c cache.Service, ch *pkgch.Client) *Tool {
	return &Tool{Research: r, Refresher: qr, Logger: l, publisher: pub, cache: c, ch: ch}
}
