package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
)

type fakeTxStore struct {
	created []core.Transaction
	err     error
}

func (f *fakeTxStore) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	tx.ID = int64(len(f.created) + 1)
	f.created = append(f.created, tx)
	return tx, nil
}

func (f *fakeTxStore) ListTransactions(ctx context.Context, q core.Query) ([]core.Transaction, error) {
	return f.created, f.err
}

func (f *fakeTxStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	for _, tx := range f.created {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, errors.New("not found")
}

type fakePublisher struct {
	published []int64
	err       error
}

func (f *fakePublisher) PublishTransactionSync(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func validTx() core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(2024, 3, 1),
		Description: "Groceries",
		Amount:      core.Money{Cents: -4200},
		Type:        core.TypeExpense,
		AccountID:   1,
	}
}

func TestCreateTransactionPublishes(t *testing.T) {
	st := &fakeTxStore{}
	pub := &fakePublisher{}
	svc := NewTransactionService(st, pub)

	created, err := svc.CreateTransaction(context.Background(), validTx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("id = %d", created.ID)
	}
	if len(pub.published) != 1 || pub.published[0] != 1 {
		t.Fatalf("published = %v", pub.published)
	}
}

func TestCreateTransactionPublishFailureIsBestEffort(t *testing.T) {
	st := &fakeTxStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(st, pub)

	created, err := svc.CreateTransaction(context.Background(), validTx())
	if err != nil {
		t.Fatalf("publish failure must not fail the request, got %v", err)
	}
	if created.ID != 1 || len(st.created) != 1 {
		t.Fatalf("transaction not stored: %+v", created)
	}
}

func TestCreateTransactionNilPublisher(t *testing.T) {
	svc := NewTransactionService(&fakeTxStore{}, nil)

	if _, err := svc.CreateTransaction(context.Background(), validTx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateTransactionStoreFailure(t *testing.T) {
	st := &fakeTxStore{err: errors.New("disk full")}
	pub := &fakePublisher{}
	svc := NewTransactionService(st, pub)

	if _, err := svc.CreateTransaction(context.Background(), validTx()); err == nil {
		t.Fatal("expected error")
	}
	if len(pub.published) != 0 {
		t.Fatalf("nothing should be published on store failure, got %v", pub.published)
	}
}
