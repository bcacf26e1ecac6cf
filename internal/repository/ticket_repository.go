package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ticketstory/story-server/internal/pipeline"
	"github.com/ticketstory/story-server/internal/repository/models"
)

// maxResolutionHours caps the resolution window considered plausible;
// anything longer is treated as a data artifact and excluded from averages.
const maxResolutionHours = 24 * 30

// sqliteTimeLayout is sqlite's native datetime text format, which keeps
// strftime, julianday, and lexicographic comparisons consistent.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// TicketRepository computes analytics aggregates over the tickets of one
// processing run. It is backed by an in-memory database that lives only for
// the duration of the run; nothing is persisted.
type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// InitSchema creates the per-run ticket table.
func (r *TicketRepository) InitSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_number TEXT NOT NULL,
		acceptance_time TEXT NOT NULL,
		completion_time TEXT,
		customer_number TEXT NOT NULL,
		category_code TEXT NOT NULL,
		product TEXT NOT NULL
	)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tickets table: %w", err)
	}
	return nil
}

// InsertTickets loads one run's normalized tickets in a single transaction.
func (r *TicketRepository) InsertTickets(ctx context.Context, tickets []pipeline.Ticket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tickets (order_number, acceptance_time, completion_time, customer_number, category_code, product)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tickets {
		var completion any
		if !t.Open() {
			completion = t.CompletionTime.UTC().Format(sqliteTimeLayout)
		}
		_, err := stmt.ExecContext(ctx,
			t.OrderNumber,
			t.AcceptanceTime.UTC().Format(sqliteTimeLayout),
			completion,
			t.CustomerNumber,
			t.CategoryCode,
			t.Product,
		)
		if err != nil {
			return fmt.Errorf("insert ticket %s: %w", t.OrderNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert tx: %w", err)
	}
	return nil
}

// GetDatasetStats returns whole-dataset aggregates computed in SQL.
func (r *TicketRepository) GetDatasetStats(ctx context.Context) (models.DatasetStats, error) {
	const query = `
		SELECT
			COUNT(*) AS total,
			COUNT(DISTINCT customer_number) AS customers,
			MIN(acceptance_time) AS first_acceptance,
			MAX(acceptance_time) AS last_acceptance
		FROM tickets
	`

	var total, customers sql.NullInt64
	var first, last sql.NullString

	err := r.db.QueryRowContext(ctx, query).Scan(&total, &customers, &first, &last)
	if err != nil {
		return models.DatasetStats{}, fmt.Errorf("query GetDatasetStats: %w", err)
	}

	stats := models.DatasetStats{}
	if total.Valid {
		stats.TotalTickets = total.Int64
	}
	if customers.Valid {
		stats.UniqueCustomers = customers.Int64
	}
	if first.Valid {
		if ts, err := time.Parse(sqliteTimeLayout, first.String); err == nil {
			stats.FirstAcceptance = ts.UTC()
		}
	}
	if last.Valid {
		if ts, err := time.Parse(sqliteTimeLayout, last.String); err == nil {
			stats.LastAcceptance = ts.UTC()
		}
	}
	return stats, nil
}

// GetDailyVolume aggregates ticket counts by acceptance day.
func (r *TicketRepository) GetDailyVolume(ctx context.Context) ([]models.DailyVolume, error) {
	const query = `
		SELECT strftime('%Y-%m-%d', acceptance_time) AS day, COUNT(*) AS ticket_count
		FROM tickets
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query GetDailyVolume: %w", err)
	}
	defer rows.Close()

	var results []models.DailyVolume
	for rows.Next() {
		var v models.DailyVolume
		if err := rows.Scan(&v.Day, &v.Count); err != nil {
			return nil, fmt.Errorf("scan GetDailyVolume row: %w", err)
		}
		results = append(results, v)
	}
	return results, rows.Err()
}

// GetProductCounts aggregates ticket counts by product.
func (r *TicketRepository) GetProductCounts(ctx context.Context) ([]models.ProductCount, error) {
	const query = `
		SELECT product, COUNT(*) AS ticket_count
		FROM tickets
		GROUP BY product
		ORDER BY ticket_count DESC, product
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query GetProductCounts: %w", err)
	}
	defer rows.Close()

	var results []models.ProductCount
	for rows.Next() {
		var p models.ProductCount
		if err := rows.Scan(&p.Product, &p.Count); err != nil {
			return nil, fmt.Errorf("scan GetProductCounts row: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// GetCategoryCounts aggregates ticket counts by raw category code.
func (r *TicketRepository) GetCategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	const query = `
		SELECT category_code, COUNT(*) AS ticket_count
		FROM tickets
		GROUP BY category_code
		ORDER BY ticket_count DESC, category_code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query GetCategoryCounts: %w", err)
	}
	defer rows.Close()

	var results []models.CategoryCount
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan GetCategoryCounts row: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// GetCustomerActivity returns the most active customers, busiest first.
func (r *TicketRepository) GetCustomerActivity(ctx context.Context, limit int) ([]models.CustomerActivity, error) {
	const query = `
		SELECT customer_number, COUNT(*) AS ticket_count
		FROM tickets
		GROUP BY customer_number
		ORDER BY ticket_count DESC, customer_number
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query GetCustomerActivity: %w", err)
	}
	defer rows.Close()

	var results []models.CustomerActivity
	for rows.Next() {
		var a models.CustomerActivity
		if err := rows.Scan(&a.CustomerNumber, &a.Count); err != nil {
			return nil, fmt.Errorf("scan GetCustomerActivity row: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// GetRepeatCustomerCount counts customers with more than one ticket.
func (r *TicketRepository) GetRepeatCustomerCount(ctx context.Context) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM (
			SELECT customer_number
			FROM tickets
			GROUP BY customer_number
			HAVING COUNT(*) > 1
		)
	`

	var count sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("query GetRepeatCustomerCount: %w", err)
	}
	return count.Int64, nil
}

// GetRecentTicketCount counts tickets accepted within the trailing window
// ending at the newest acceptance time in the dataset.
func (r *TicketRepository) GetRecentTicketCount(ctx context.Context, days int) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM tickets
		WHERE acceptance_time >= datetime((SELECT MAX(acceptance_time) FROM tickets), ?)
	`

	var count sql.NullInt64
	offset := fmt.Sprintf("-%d days", days)
	if err := r.db.QueryRowContext(ctx, query, offset).Scan(&count); err != nil {
		return 0, fmt.Errorf("query GetRecentTicketCount: %w", err)
	}
	return count.Int64, nil
}

// GetResolutionStats computes average resolution hours per product over
// closed tickets, entirely in SQL. Tickets resolved before acceptance or
// after more than thirty days are excluded as implausible.
func (r *TicketRepository) GetResolutionStats(ctx context.Context) ([]models.ResolutionStat, error) {
	const query = `
		SELECT
			product,
			AVG((julianday(completion_time) - julianday(acceptance_time)) * 24.0) AS avg_hours,
			COUNT(*) AS closed_count
		FROM tickets
		WHERE completion_time IS NOT NULL
		  AND (julianday(completion_time) - julianday(acceptance_time)) * 24.0 >= 0
		  AND (julianday(completion_time) - julianday(acceptance_time)) * 24.0 <= ?
		GROUP BY product
		ORDER BY product
	`

	rows, err := r.db.QueryContext(ctx, query, maxResolutionHours)
	if err != nil {
		return nil, fmt.Errorf("query GetResolutionStats: %w", err)
	}
	defer rows.Close()

	var results []models.ResolutionStat
	for rows.Next() {
		var s models.ResolutionStat
		if err := rows.Scan(&s.Product, &s.AvgHours, &s.ClosedCount); err != nil {
			return nil, fmt.Errorf("scan GetResolutionStats row: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
