package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
)

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer dbtx.Rollback()

	var categoryID sql.NullInt64
	if tx.Category.Valid {
		categoryID = sql.NullInt64{Int64: tx.Category.ID, Valid: true}
	}

	res, err := dbtx.ExecContext(ctx, `
		INSERT INTO transactions (date, description, amount_cents, type, account_id, category_id, transfer_group)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.String(), tx.Description, tx.Amount.Cents, string(tx.Type),
		tx.AccountID, categoryID, tx.TransferGroup)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}

	for _, name := range normalizeTags(tx.Tags) {
		tagID, err := getOrCreateTag(ctx, dbtx, name)
		if err != nil {
			return core.Transaction{}, err
		}
		if _, err := dbtx.ExecContext(ctx,
			`INSERT OR IGNORE INTO transaction_tags (transaction_id, tag_id) VALUES (?, ?)`,
			id, tagID); err != nil {
			return core.Transaction{}, fmt.Errorf("link tag %q: %w", name, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"amount_cents", tx.Amount.Cents,
		"type", string(tx.Type),
		"account_id", tx.AccountID)

	return r.GetTransaction(ctx, id)
}

// getOrCreateTag resolves a tag name to its id, creating the tag if needed.
// INSERT OR IGNORE plus the unique constraint makes concurrent creates of
// the same name converge on a single row.
func getOrCreateTag(ctx context.Context, dbtx *sql.Tx, name string) (int64, error) {
	if _, err := dbtx.ExecContext(ctx,
		`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("insert tag %q: %w", name, err)
	}
	var id int64
	if err := dbtx.QueryRowContext(ctx,
		`SELECT id FROM tags WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve tag %q: %w", name, err)
	}
	return id, nil
}

// normalizeTags trims, drops empties and removes duplicates while
// preserving first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.date, t.description, t.amount_cents, t.type,
		       t.account_id, t.category_id, c.name, t.transfer_group, t.created_at
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, mapError(err))
	}

	tags, err := r.transactionTags(ctx, []int64{id})
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Tags = tags[id]
	return tx, nil
}

// ListTransactions pushes the date-range predicate into SQL (it is the
// indexed, selective one) and delegates the remaining predicates, ordering
// and pagination to the core query engine, keeping matching semantics in
// one place.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, q core.Query) ([]core.Transaction, error) {
	query := `
		SELECT t.id, t.date, t.description, t.amount_cents, t.type,
		       t.account_id, t.category_id, c.name, t.transfer_group, t.created_at
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id`
	var (
		conds []string
		args  []any
	)
	if q.Start != nil {
		conds = append(conds, "t.date >= ?")
		args = append(args, q.Start.String())
	}
	if q.End != nil {
		conds = append(conds, "t.date < ?")
		args = append(args, q.End.String())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var (
		txs []core.Transaction
		ids []int64
	)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
		ids = append(ids, tx.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	tags, err := r.transactionTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		txs[i].Tags = tags[txs[i].ID]
	}

	return core.ApplyQuery(txs, q), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx         core.Transaction
		dateStr    string
		txType     string
		categoryID sql.NullInt64
		catName    sql.NullString
	)
	if err := row.Scan(&tx.ID, &dateStr, &tx.Description, &tx.Amount.Cents, &txType,
		&tx.AccountID, &categoryID, &catName, &tx.TransferGroup, &tx.CreatedAt); err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	tx.Date = date
	tx.Type = core.TxType(txType)
	if categoryID.Valid {
		tx.Category = core.SomeCategory(categoryID.Int64)
		tx.CategoryName = catName.String
	}
	return tx, nil
}

// transactionTags loads the tag names for a set of transaction ids.
func (r *SQLiteRepository) transactionTags(ctx context.Context, ids []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT tt.transaction_id, tg.name
		FROM transaction_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.transaction_id IN (`+placeholders+`)
		ORDER BY tg.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("load transaction tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID int64
		var name string
		if err := rows.Scan(&txID, &name); err != nil {
			return nil, fmt.Errorf("scan transaction tag: %w", err)
		}
		out[txID] = append(out[txID], name)
	}
	return out, rows.Err()
}

// PendingSyncTransactions returns transactions not yet mirrored to the
// export backend, oldest first.
func (r *SQLiteRepository) PendingSyncTransactions(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync transactions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
