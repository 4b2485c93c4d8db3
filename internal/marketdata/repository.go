package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceRepository persists daily closes in PostgreSQL so repeated
// backtests over the same window skip the chart API entirely.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetByTickerAndRange retrieves cached closes for a ticker within
// [from, to], ascending.
func (r *PriceRepository) GetByTickerAndRange(ctx context.Context, ticker string, from, to time.Time) ([]DailyClose, error) {
	query := `
		SELECT trade_date, close_price
		FROM market.daily_closes
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closes []DailyClose
	for rows.Next() {
		var dc DailyClose
		if err := rows.Scan(&dc.Day, &dc.Close); err != nil {
			return nil, err
		}
		dc.Day = dc.Day.UTC().Truncate(24 * time.Hour)
		closes = append(closes, dc)
	}
	return closes, rows.Err()
}

// LatestDay returns the most recent cached trading day for a ticker;
// ok is false when nothing is cached.
func (r *PriceRepository) LatestDay(ctx context.Context, ticker string) (time.Time, bool, error) {
	query := `
		SELECT trade_date
		FROM market.daily_closes
		WHERE ticker = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var day time.Time
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return day.UTC().Truncate(24 * time.Hour), true, nil
}

// Save upserts a single close.
func (r *PriceRepository) Save(ctx context.Context, ticker string, dc DailyClose) error {
	query := `
		INSERT INTO market.daily_closes (ticker, trade_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price
	`

	_, err := r.pool.Exec(ctx, query, ticker, dc.Day, dc.Close)
	return err
}

// SaveBatch upserts multiple closes for one ticker.
func (r *PriceRepository) SaveBatch(ctx context.Context, ticker string, closes []DailyClose) error {
	if len(closes) == 0 {
		return nil
	}

	for _, dc := range closes {
		if err := r.Save(ctx, ticker, dc); err != nil {
			return err
		}
	}
	return nil
}
