// Package store declares the persistence ports the HTTP and service layers
// depend on. The SQLite repository in internal/storage implements all of
// them; tests substitute small fakes.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

type (
	AccountStore interface {
		CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
		ListAccounts(ctx context.Context) ([]core.Account, error)
		GetAccount(ctx context.Context, id int64) (core.Account, error)
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
		// CategoryNames maps category ids to display names for reporting.
		CategoryNames(ctx context.Context) (map[int64]string, error)
	}

	TransactionStore interface {
		// CreateTransaction persists tx with its tags, lazily creating any
		// tag that does not exist yet, and returns the stored record.
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		// ListTransactions returns the transactions matching q, ordered by
		// (date desc, id desc) with q's offset and limit applied.
		ListTransactions(ctx context.Context, q core.Query) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	}

	BudgetStore interface {
		// UpsertBudget atomically inserts or replaces the budget for
		// (month, category); at most one row per pair survives.
		UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		ListBudgets(ctx context.Context, month string) ([]core.Budget, error)
	}
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on unique-constraint violations outside the
	// budget upsert path.
	ErrConflict = errors.New("already exists")
)
