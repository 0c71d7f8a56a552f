// Package worker mirrors created transactions to the export backend.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
)

// Store is the slice of the repository the worker needs.
type Store interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	PendingSyncTransactions(ctx context.Context, limit int) ([]int64, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker exports transactions one at a time, driven either by AMQP
// messages or by the periodic pending scan.
type SyncWorker struct {
	store     Store
	exporter  export.TransactionExporter
	batchSize int
}

func NewSyncWorker(store Store, exporter export.TransactionExporter, batchSize int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &SyncWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one AMQP sync message. Returning an error
// makes the client nack-and-requeue the delivery.
func (w *SyncWorker) HandleSyncMessage(msg *amqp.TransactionSyncMessage) error {
	return w.syncOne(context.Background(), msg.ID)
}

// ProcessPending exports transactions that are still pending, covering
// messages lost while the worker was down. Export failures are recorded and
// the pass continues with the next row.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.store.PendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending transactions: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(ids))

	for _, id := range ids {
		if err := w.syncOne(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending transaction", "id", id, "error", err)
		}
	}
	return nil
}

func (w *SyncWorker) syncOne(ctx context.Context, id int64) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}

	ref, err := w.exporter.Export(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("export transaction %d: %w", id, err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction %d synced: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction exported", "id", id, "row_ref", ref)
	return nil
}
