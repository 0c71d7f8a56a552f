package worker

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

type fakeStore struct {
	txs       map[int64]core.Transaction
	pending   []int64
	synced    []int64
	errored   []int64
	listErr   error
	markErr   error
	getErrFor int64
}

func (f *fakeStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	if f.getErrFor == id {
		return core.Transaction{}, errors.New("row gone")
	}
	tx, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, errors.New("not found")
	}
	return tx, nil
}

func (f *fakeStore) PendingSyncTransactions(ctx context.Context, limit int) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeStore) MarkSynced(ctx context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeStore) MarkSyncError(ctx context.Context, id int64) error {
	f.errored = append(f.errored, id)
	return nil
}

type fakeExporter struct {
	exported []int64
	failFor  int64
}

func (f *fakeExporter) Export(ctx context.Context, tx core.Transaction) (string, error) {
	if f.failFor == tx.ID {
		return "", errors.New("export failed")
	}
	f.exported = append(f.exported, tx.ID)
	return "Transactions!A1", nil
}

func sampleTx(id int64) core.Transaction {
	return core.Transaction{
		ID:          id,
		Date:        core.NewDate(2024, 3, 1),
		Description: "Groceries",
		Amount:      core.Money{Cents: -4200},
		Type:        core.TypeExpense,
		AccountID:   1,
	}
}

func TestHandleSyncMessage(t *testing.T) {
	st := &fakeStore{txs: map[int64]core.Transaction{7: sampleTx(7)}}
	exp := &fakeExporter{}
	w := NewSyncWorker(st, exp, 10)

	if err := w.HandleSyncMessage(amqp.NewTransactionSyncMessage(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exp.exported) != 1 || exp.exported[0] != 7 {
		t.Fatalf("exported = %v", exp.exported)
	}
	if len(st.synced) != 1 || st.synced[0] != 7 {
		t.Fatalf("synced = %v", st.synced)
	}
}

func TestHandleSyncMessageExportFailure(t *testing.T) {
	st := &fakeStore{txs: map[int64]core.Transaction{7: sampleTx(7)}}
	exp := &fakeExporter{failFor: 7}
	w := NewSyncWorker(st, exp, 10)

	if err := w.HandleSyncMessage(amqp.NewTransactionSyncMessage(7)); err == nil {
		t.Fatal("expected error")
	}
	if len(st.errored) != 1 || st.errored[0] != 7 {
		t.Fatalf("errored = %v", st.errored)
	}
	if len(st.synced) != 0 {
		t.Fatalf("nothing should be marked synced, got %v", st.synced)
	}
}

func TestProcessPending(t *testing.T) {
	st := &fakeStore{
		txs:     map[int64]core.Transaction{1: sampleTx(1), 2: sampleTx(2), 3: sampleTx(3)},
		pending: []int64{1, 2, 3},
	}
	exp := &fakeExporter{failFor: 2}
	w := NewSyncWorker(st, exp, 10)

	// One failing row must not stop the pass.
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.synced) != 2 {
		t.Fatalf("synced = %v", st.synced)
	}
	if len(st.errored) != 1 || st.errored[0] != 2 {
		t.Fatalf("errored = %v", st.errored)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	st := &fakeStore{
		txs:     map[int64]core.Transaction{1: sampleTx(1), 2: sampleTx(2), 3: sampleTx(3)},
		pending: []int64{1, 2, 3},
	}
	exp := &fakeExporter{}
	w := NewSyncWorker(st, exp, 2)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exp.exported) != 2 {
		t.Fatalf("exported = %v, want 2 rows", exp.exported)
	}
}

func TestProcessPendingListFailure(t *testing.T) {
	st := &fakeStore{listErr: errors.New("db down")}
	w := NewSyncWorker(st, &fakeExporter{}, 10)

	if err := w.ProcessPending(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewSyncWorkerBatchSizeFloor(t *testing.T) {
	w := NewSyncWorker(&fakeStore{}, &fakeExporter{}, 0)
	if w.batchSize != 10 {
		t.Fatalf("batchSize = %d, want the default of 10", w.batchSize)
	}
}
