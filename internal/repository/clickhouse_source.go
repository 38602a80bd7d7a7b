package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	pkgch "HurstLab/pkg/clickhouse"
	applogger "HurstLab/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// CHQuoteSource reads candles from a ClickHouse table with columns
// (symbol, frequency, ts, open, high, low, close, volume).
type CHQuoteSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHQuoteSource(ch *pkgch.Client, table string, l *applogger.Logger) (*CHQuoteSource, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHQuoteSource{db: ch.DB(), table: table, l: l}, nil
}

func (s *CHQuoteSource) Name() string { return "clickhouse" }

// Schema returns the idempotent DDL for the candles table.
func (s *CHQuoteSource) Schema() []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            symbol    LowCardinality(String),
            frequency LowCardinality(String),
            ts        DateTime,
            open      Float64,
            high      Float64,
            low       Float64,
            close     Float64,
            volume    Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, frequency, ts)
    `, s.table)}
}

func (s *CHQuoteSource) query() string {
	return fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND frequency = ? AND open != 0
        ORDER BY ts ASC
    `, s.table)
}

func (s *CHQuoteSource) Fetch(ctx context.Context, symbol string, freq domrepo.Frequency) ([]models.Candle, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, s.query(), symbol, string(freq))
	if err != nil {
		s.l.Error("clickhouse quotes query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.String("frequency", string(freq)),
			applogger.Error(err),
		)
		return nil, errs.DataFetch(err, "clickhouse %s %s", symbol, freq)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 1024)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			s.l.Error("clickhouse quotes scan error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
			return nil, errs.DataFetch(err, "scan candle")
		}
		c.Timestamp = c.Timestamp.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.DataFetch(err, "clickhouse rows")
	}
	s.l.Info("clickhouse quotes ok",
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.String("frequency", string(freq)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}
