package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TrendCast/internal/domain/models"
	domrepo "TrendCast/internal/domain/repository"
	pkgch "TrendCast/pkg/clickhouse"
	applogger "TrendCast/pkg/logger"
)

// CHBarSource implements BarSource backed by a ClickHouse daily-bars table.
type CHBarSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHBarSource(ch *pkgch.Client, table string) *CHBarSource {
	return &CHBarSource{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHBarSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarSource) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	start := time.Now()
	const qtpl = `
        SELECT day, open, high, low, close, volume
        FROM %s
        WHERE symbol = ? AND day >= ? AND day <= ?
        ORDER BY day ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse fetch_daily query error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, models.NewDataFetchError(symbol, "clickhouse query failed", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 256)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, models.NewDataFetchError(symbol, "scan bar failed", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewDataFetchError(symbol, "rows iteration failed", err)
	}
	if len(out) == 0 {
		return nil, models.NewDataFetchError(symbol, "no bars in range", nil)
	}

	if s.l != nil {
		s.l.Info("clickhouse fetch_daily ok",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

var _ domrepo.BarSource = (*CHBarSource)(nil)
