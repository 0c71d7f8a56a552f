package core

import (
	"math"
	"testing"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in string
		ok bool
		y  int
		m  int
	}{
		{"2024-03", true, 2024, 3},
		{"2024-12", true, 2024, 12},
		{"0001-01", true, 1, 1},
		{"2024-13", false, 0, 0},
		{"2024-00", false, 0, 0},
		{"2024-3", false, 0, 0},
		{"24-03", false, 0, 0},
		{"2024/03", false, 0, 0},
		{"202403", false, 0, 0},
		{"", false, 0, 0},
		{"abcd-ef", false, 0, 0},
	}
	for _, tc := range cases {
		y, m, err := ParseMonth(tc.in)
		if tc.ok {
			if err != nil || y != tc.y || m != tc.m {
				t.Fatalf("%q expected %d-%d, got %d-%d (err=%v)", tc.in, tc.y, tc.m, y, m, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	start, end, err := MonthWindow("2024-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.String() != "2024-03-01" || end.String() != "2024-04-01" {
		t.Fatalf("got [%s, %s)", start, end)
	}

	// December rolls over to January of the next year.
	start, end, err = MonthWindow("2024-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.String() != "2024-12-01" || end.String() != "2025-01-01" {
		t.Fatalf("got [%s, %s)", start, end)
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{ID: 1, Date: NewDate(2024, 3, 2), Amount: Money{Cents: -4237}, Type: TypeExpense, Category: SomeCategory(1), CategoryName: "Groceries"},
		{ID: 2, Date: NewDate(2024, 3, 5), Amount: Money{Cents: -1500}, Type: TypeExpense, Category: SomeCategory(1), CategoryName: "Groceries"},
		{ID: 3, Date: NewDate(2024, 3, 10), Amount: Money{Cents: 250000}, Type: TypeIncome, Category: SomeCategory(2), CategoryName: "Salary"},
		{ID: 4, Date: NewDate(2024, 3, 12), Amount: Money{Cents: -800}, Type: TypeExpense},
		{ID: 5, Date: NewDate(2024, 3, 20), Amount: Money{Cents: -10000}, Type: TypeTransfer, TransferGroup: "tg-1"},
		{ID: 6, Date: NewDate(2024, 3, 20), Amount: Money{Cents: 10000}, Type: TypeTransfer, TransferGroup: "tg-1"},
	}

	got := Summarize("2024-03", txs)
	if got.Month != "2024-03" {
		t.Fatalf("month = %q", got.Month)
	}
	if got.TotalExpense != 65.37 {
		t.Fatalf("total_expense = %v, want 65.37", got.TotalExpense)
	}
	if got.TotalIncome != 2500.0 {
		t.Fatalf("total_income = %v, want 2500", got.TotalIncome)
	}

	// Buckets sorted by category name; transfers never appear.
	wantNames := []string{"Groceries", "Salary", UncategorizedLabel}
	if len(got.ByCategory) != len(wantNames) {
		t.Fatalf("expected %d buckets, got %d", len(wantNames), len(got.ByCategory))
	}
	for i, name := range wantNames {
		if got.ByCategory[i].Category != name {
			t.Fatalf("bucket %d: expected %q, got %q", i, name, got.ByCategory[i].Category)
		}
	}
	if got.ByCategory[0].Spent != 57.37 {
		t.Fatalf("Groceries spent = %v, want 57.37", got.ByCategory[0].Spent)
	}
	if got.ByCategory[1].Income != 2500.0 {
		t.Fatalf("Salary income = %v, want 2500", got.ByCategory[1].Income)
	}
	if got.ByCategory[2].Spent != 8.0 {
		t.Fatalf("Uncategorized spent = %v, want 8", got.ByCategory[2].Spent)
	}

	// Bucket totals add back up to the month totals.
	var spent, income float64
	for _, row := range got.ByCategory {
		spent += row.Spent
		income += row.Income
	}
	if math.Abs(spent-got.TotalExpense) > 1e-9 || math.Abs(income-got.TotalIncome) > 1e-9 {
		t.Fatalf("buckets (%v, %v) do not match totals (%v, %v)", spent, income, got.TotalExpense, got.TotalIncome)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize("2024-07", nil)
	if got.TotalExpense != 0 || got.TotalIncome != 0 || len(got.ByCategory) != 0 {
		t.Fatalf("empty month should produce zero totals, got %+v", got)
	}
}

func TestProgress(t *testing.T) {
	budgets := []Budget{
		{ID: 1, Month: "2024-03", CategoryID: 1, Amount: Money{Cents: 10000}},
		{ID: 2, Month: "2024-03", CategoryID: 2, Amount: Money{Cents: 5000}},
	}
	txs := []Transaction{
		{ID: 1, Date: NewDate(2024, 3, 2), Amount: Money{Cents: -4237}, Type: TypeExpense, Category: SomeCategory(1), CategoryName: "Groceries"},
		{ID: 2, Date: NewDate(2024, 3, 5), Amount: Money{Cents: -7500}, Type: TypeExpense, Category: SomeCategory(2), CategoryName: "Transport"},
		{ID: 3, Date: NewDate(2024, 3, 8), Amount: Money{Cents: -999}, Type: TypeExpense}, // no category, no budget row
		{ID: 4, Date: NewDate(2024, 3, 9), Amount: Money{Cents: 250000}, Type: TypeIncome, Category: SomeCategory(1)},
		{ID: 5, Date: NewDate(2024, 3, 20), Amount: Money{Cents: -10000}, Type: TypeTransfer},
	}
	names := map[int64]string{1: "Groceries", 2: "Transport"}

	got := Progress("2024-03", budgets, txs, names)
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}

	groceries := got.Items[0]
	if groceries.Category != "Groceries" || groceries.Budget != 100.0 || groceries.Spent != 42.37 || groceries.Remaining != 57.63 {
		t.Fatalf("groceries item = %+v", groceries)
	}

	// Overspending yields a negative remaining, not a clamp at zero.
	transport := got.Items[1]
	if transport.Spent != 75.0 || transport.Remaining != -25.0 {
		t.Fatalf("transport item = %+v", transport)
	}
}

func TestProgressNoBudgets(t *testing.T) {
	got := Progress("2024-03", nil, sampleTransactions(), nil)
	if len(got.Items) != 0 {
		t.Fatalf("no budgets should yield no items, got %d", len(got.Items))
	}
}
