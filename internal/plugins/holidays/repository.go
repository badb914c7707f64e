package holidays

import (
	"context"
	"database/sql"
	"fmt"
)

// HolidayRepository defines persistence operations for holidays.
type HolidayRepository interface {
	// ReplaceAll swaps the whole table for the given list in one transaction.
	ReplaceAll(ctx context.Context, holidays []Holiday) error

	// ListRange returns holidays with from <= date <= to (YYYY-MM-DD),
	// ordered by date and then by import order.
	ListRange(ctx context.Context, from, to string) ([]Holiday, error)

	Count(ctx context.Context) (int, error)
}

// holidayRepo is the MariaDB implementation of HolidayRepository.
type holidayRepo struct {
	db *sql.DB
}

// NewHolidayRepository creates a new MariaDB-backed holiday repository.
func NewHolidayRepository(db *sql.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

// ReplaceAll deletes every row and inserts the new list. Exact duplicates
// (same date and name) collapse to one row.
func (r *holidayRepo) ReplaceAll(ctx context.Context, holidays []Holiday) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holidays`); err != nil {
		return fmt.Errorf("clearing holidays: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT IGNORE INTO holidays (holiday_date, name, position) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range holidays {
		if _, err := stmt.ExecContext(ctx, h.Date, h.Name, i); err != nil {
			return fmt.Errorf("inserting holiday %s %s: %w", h.Date, h.Name, err)
		}
	}
	return tx.Commit()
}

// ListRange returns holidays in the closed date range.
func (r *holidayRepo) ListRange(ctx context.Context, from, to string) ([]Holiday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DATE_FORMAT(holiday_date, '%Y-%m-%d'), name
		 FROM holidays
		 WHERE holiday_date BETWEEN ? AND ?
		 ORDER BY holiday_date, position`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Count returns the number of stored holidays.
func (r *holidayRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM holidays`).Scan(&n)
	return n, err
}
