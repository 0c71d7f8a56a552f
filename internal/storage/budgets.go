package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// UpsertBudget inserts or replaces the budget for (month, category) in a
// single statement. The unique constraint plus ON CONFLICT makes the
// read-modify-write atomic under concurrent writers; at most one row per
// pair survives.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO budgets (month, category_id, amount_cents)
		VALUES (?, ?, ?)
		ON CONFLICT(month, category_id) DO UPDATE SET amount_cents = excluded.amount_cents
		RETURNING id`,
		b.Month, b.CategoryID, b.Amount.Cents).Scan(&id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", mapError(err))
	}

	b.ID = id
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, month string) ([]core.Budget, error) {
	query := `SELECT id, month, category_id, amount_cents FROM budgets`
	var args []any
	if month != "" {
		query += ` WHERE month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Month, &b.CategoryID, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
