package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jpillora/backoff"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/pkg/cache"
	applogger "HurstLab/pkg/logger"
	xutil "HurstLab/pkg/util"
)

// LoaderOptions tunes the cached loader.
type LoaderOptions struct {
	LockTTL         time.Duration
	LockWait        time.Duration
	LockPoll        time.Duration
	MaxTrimAttempts int
}

// CachedQuoteLoader serves quote history from the cache, fetching from the
// source once per (source, symbol, frequency). Entries never expire.
type CachedQuoteLoader struct {
	source  domrepo.QuoteSource
	cache   cache.Service
	metrics domrepo.Metrics
	opts    LoaderOptions
	l       *applogger.Logger
}

var _ domrepo.QuoteLoader = (*CachedQuoteLoader)(nil)

func NewCachedQuoteLoader(source domrepo.QuoteSource, c cache.Service, m domrepo.Metrics, opts LoaderOptions, l *applogger.Logger) *CachedQuoteLoader {
	if opts.LockTTL <= 0 {
		opts.LockTTL = time.Minute
	}
	if opts.LockWait <= 0 {
		opts.LockWait = 30 * time.Second
	}
	if opts.LockPoll <= 0 {
		opts.LockPoll = 100 * time.Millisecond
	}
	if opts.MaxTrimAttempts <= 0 {
		opts.MaxTrimAttempts = models.DefaultMaxTrimAttempts
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedQuoteLoader{source: source, cache: c, metrics: m, opts: opts, l: l}
}

// Load returns the history of symbol sorted ascending and trimmed to
// [start, end].
func (q *CachedQuoteLoader) Load(ctx context.Context, symbol string, freq domrepo.Frequency, start, end time.Time) (*models.Series, error) {
	symbol = xutil.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, errs.DataFetch(nil, "empty symbol")
	}

	rows, err := q.rows(ctx, symbol, freq)
	if err != nil {
		return nil, err
	}

	series := models.NewSeries(symbol, string(freq), rows)
	if series.Len() == 0 {
		return nil, errs.EmptySeries("no quotes for %s %s", symbol, freq)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series.Trim(start, end, q.opts.MaxTrimAttempts)
}

func (q *CachedQuoteLoader) key(symbol string, freq domrepo.Frequency) string {
	return cache.Key("quotes", q.source.Name(), symbol, freq)
}

// rows implements check, lock, fetch, write. A caller that loses the lock
// polls the cache until the winner has written the entry.
func (q *CachedQuoteLoader) rows(ctx context.Context, symbol string, freq domrepo.Frequency) ([]models.Candle, error) {
	key := q.key(symbol, freq)

	if rows, ok := q.cached(ctx, key); ok {
		q.record("hit")
		return rows, nil
	}

	token, locked, err := q.cache.TryLock(ctx, key, q.opts.LockTTL)
	if err != nil {
		q.l.Warn("quote cache lock error", applogger.String("key", key), applogger.Error(err))
		locked = false
	}
	if locked {
		defer func() {
			if err := q.cache.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
				q.l.Warn("quote cache unlock error", applogger.String("key", key), applogger.Error(err))
			}
		}()
		// the previous holder may have finished between the miss and the lock
		if rows, ok := q.cached(ctx, key); ok {
			q.record("hit")
			return rows, nil
		}
		q.record("miss")
		return q.fetchAndStore(ctx, key, symbol, freq)
	}

	q.record("wait")
	rows, err := q.waitFor(ctx, key)
	if err == nil {
		return rows, nil
	}
	if ctx.Err() != nil {
		return nil, errs.DataFetch(ctx.Err(), "waiting for %s", key)
	}
	q.l.Warn("quote cache wait expired, fetching", applogger.String("key", key), applogger.Error(err))
	return q.fetchAndStore(ctx, key, symbol, freq)
}

func (q *CachedQuoteLoader) cached(ctx context.Context, key string) ([]models.Candle, bool) {
	rows, err := cache.GetJSON[[]models.Candle](ctx, q.cache, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			q.l.Warn("quote cache read error", applogger.String("key", key), applogger.Error(err))
		}
		return nil, false
	}
	return rows, true
}

var errWaitExpired = errors.New("lock wait expired")

// waitFor polls key with exponential backoff between LockPoll and
// 8*LockPoll until LockWait elapses.
func (q *CachedQuoteLoader) waitFor(ctx context.Context, key string) ([]models.Candle, error) {
	deadline := time.NewTimer(q.opts.LockWait)
	defer deadline.Stop()
	b := &backoff.Backoff{Min: q.opts.LockPoll, Max: 8 * q.opts.LockPoll, Factor: 2, Jitter: true}

	for {
		next := time.NewTimer(b.Duration())
		select {
		case <-ctx.Done():
			next.Stop()
			return nil, ctx.Err()
		case <-deadline.C:
			next.Stop()
			return nil, errWaitExpired
		case <-next.C:
			if rows, ok := q.cached(ctx, key); ok {
				return rows, nil
			}
		}
	}
}

// ErrRefreshBusy is returned by Refresh when another caller holds the
// fetch lock for the same key.
var ErrRefreshBusy = errors.New("quote refresh already in progress")

// Refresh refetches symbol from the source and overwrites the cached
// entry. It returns the number of rows stored.
func (q *CachedQuoteLoader) Refresh(ctx context.Context, symbol string, freq domrepo.Frequency) (int, error) {
	symbol = xutil.NormalizeSymbol(symbol)
	if symbol == "" {
		return 0, errs.DataFetch(nil, "empty symbol")
	}
	key := q.key(symbol, freq)

	token, locked, err := q.cache.TryLock(ctx, key, q.opts.LockTTL)
	if err != nil {
		return 0, errs.DataFetch(err, "lock %s", key)
	}
	if !locked {
		return 0, ErrRefreshBusy
	}
	defer func() {
		if err := q.cache.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			q.l.Warn("quote cache unlock error", applogger.String("key", key), applogger.Error(err))
		}
	}()

	q.record("refresh")
	rows, err := q.fetchAndStore(ctx, key, symbol, freq)
	return len(rows), err
}

func (q *CachedQuoteLoader) fetchAndStore(ctx context.Context, key, symbol string, freq domrepo.Frequency) ([]models.Candle, error) {
	rows, err := q.source.Fetch(ctx, symbol, freq)
	if err != nil {
		if !errors.Is(err, errs.ErrDataFetch) {
			err = errs.DataFetch(err, "%s %s", symbol, freq)
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.EmptySeries("source %s returned no rows for %s %s", q.source.Name(), symbol, freq)
	}
	if err := cache.SetJSON(ctx, q.cache, key, rows); err != nil {
		q.l.Warn("quote cache write error", applogger.String("key", key), applogger.Error(err))
	}
	q.l.Debug("quote cache stored", applogger.String("key", key), applogger.Int("rows", len(rows)))
	return rows, nil
}

func (q *CachedQuoteLoader) record(result string) {
	if q.metrics != nil {
		q.metrics.RecordCache(result)
	}
}
