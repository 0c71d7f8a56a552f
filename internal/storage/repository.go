// Package storage implements the persistence ports over SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// mapError translates driver errors to the store sentinel errors.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return store.ErrConflict
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return store.ErrNotFound
	}
	return err
}

var (
	_ store.AccountStore     = (*SQLiteRepository)(nil)
	_ store.CategoryStore    = (*SQLiteRepository)(nil)
	_ store.TransactionStore = (*SQLiteRepository)(nil)
	_ store.BudgetStore      = (*SQLiteRepository)(nil)
)

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type) VALUES (?, ?)`, a.Name, a.Type)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account insert id: %w", err)
	}
	return r.GetAccount(ctx, id)
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, created_at FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Type, &a.CreatedAt)
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %d: %w", id, mapError(err))
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, created_at FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, kind) VALUES (?, ?)`, c.Name, string(c.Kind))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return r.GetCategory(ctx, id)
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	var kind string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, kind FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &kind)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, mapError(err))
	}
	c.Kind = core.CategoryKind(kind)
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var kind string
		if err := rows.Scan(&c.ID, &c.Name, &kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Kind = core.CategoryKind(kind)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CategoryNames(ctx context.Context) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("category names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
