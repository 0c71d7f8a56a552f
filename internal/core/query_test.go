package core

import "testing"

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: 1, Date: NewDate(2024, 3, 1), Description: "Groceries at market", Amount: Money{Cents: -4200}, Type: TypeExpense, AccountID: 1, Category: SomeCategory(1), Tags: []string{"food"}},
		{ID: 2, Date: NewDate(2024, 3, 15), Description: "Salary", Amount: Money{Cents: 250000}, Type: TypeIncome, AccountID: 1, Category: SomeCategory(2)},
		{ID: 3, Date: NewDate(2024, 3, 15), Description: "Dinner out", Amount: Money{Cents: -6500}, Type: TypeExpense, AccountID: 2, Category: SomeCategory(1), Tags: []string{"food", "restaurant"}},
		{ID: 4, Date: NewDate(2024, 3, 31), Description: "Savings move", Amount: Money{Cents: -10000}, Type: TypeTransfer, AccountID: 1, TransferGroup: "tg-1"},
		{ID: 5, Date: NewDate(2024, 4, 1), Description: "Rent", Amount: Money{Cents: -90000}, Type: TypeExpense, AccountID: 1},
	}
}

func TestApplyQueryOrdering(t *testing.T) {
	got := ApplyQuery(sampleTransactions(), Query{})
	want := []int64{5, 4, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestApplyQueryDateWindow(t *testing.T) {
	start := NewDate(2024, 3, 1)
	end := NewDate(2024, 4, 1)
	got := ApplyQuery(sampleTransactions(), Query{Start: &start, End: &end})
	for _, tx := range got {
		if tx.ID == 5 {
			t.Fatalf("end date must be exclusive, got transaction dated %s", tx.Date)
		}
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 rows in March, got %d", len(got))
	}

	// A window ending on the 15th excludes that day's rows.
	mid := NewDate(2024, 3, 15)
	got = ApplyQuery(sampleTransactions(), Query{Start: &start, End: &mid})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only the March 1st row, got %d rows", len(got))
	}
}

func TestApplyQueryPredicates(t *testing.T) {
	cases := []struct {
		name string
		q    Query
		want []int64
	}{
		{"account", Query{AccountID: 2}, []int64{3}},
		{"category", Query{CategoryID: 1}, []int64{3, 1}},
		{"tag", Query{Tag: "restaurant"}, []int64{3}},
		{"search", Query{Search: "groceries"}, []int64{1}},
		{"type", Query{Type: TypeTransfer}, []int64{4}},
		{"combined", Query{AccountID: 1, Type: TypeExpense}, []int64{5, 1}},
		{"no match", Query{Tag: "travel"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyQuery(sampleTransactions(), tc.q)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d rows, got %d", len(tc.want), len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestApplyQueryPagination(t *testing.T) {
	got := ApplyQuery(sampleTransactions(), Query{Limit: 2})
	if len(got) != 2 || got[0].ID != 5 || got[1].ID != 4 {
		t.Fatalf("limit 2: unexpected page %+v", ids(got))
	}

	got = ApplyQuery(sampleTransactions(), Query{Offset: 2, Limit: 2})
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 2 {
		t.Fatalf("offset 2 limit 2: unexpected page %+v", ids(got))
	}

	got = ApplyQuery(sampleTransactions(), Query{Offset: 10})
	if len(got) != 0 {
		t.Fatalf("offset past the end should return nothing, got %d rows", len(got))
	}
}

func ids(txs []Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}
