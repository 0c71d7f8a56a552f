// Package services orchestrates writes that span more than one backend.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Publisher publishes a sync message for a created transaction.
type Publisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
}

// TransactionService saves transactions and notifies the export pipeline.
// The AMQP side is best-effort: a failed publish never fails the request,
// the worker's periodic pending scan picks the row up later.
type TransactionService struct {
	txs       store.TransactionStore
	publisher Publisher
}

var _ Publisher = (*amqp.Client)(nil)

func NewTransactionService(txs store.TransactionStore, publisher Publisher) *TransactionService {
	return &TransactionService{
		txs:       txs,
		publisher: publisher,
	}
}

// CreateTransaction persists the transaction, then publishes a sync message.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.txs.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		return created, nil
	}
	if err := s.publisher.PublishTransactionSync(ctx, created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", created.ID, "error", err)
	}

	return created, nil
}

func (s *TransactionService) ListTransactions(ctx context.Context, q core.Query) ([]core.Transaction, error) {
	return s.txs.ListTransactions(ctx, q)
}
