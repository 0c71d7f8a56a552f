package core

import (
	"sort"
	"strconv"
	"strings"
)

// ReportFetchLimit bounds the number of rows a report pulls for one month.
// Large enough for any realistic month, finite so pathological data cannot
// grow memory without bound.
const ReportFetchLimit = 10000

// CategorySummary is one row of a monthly summary, amounts in decimal units.
type CategorySummary struct {
	Category string  `json:"category"`
	Spent    float64 `json:"spent"`
	Income   float64 `json:"income"`
}

// MonthlySummary aggregates one month of non-transfer transactions.
type MonthlySummary struct {
	Month        string            `json:"month"`
	TotalExpense float64           `json:"total_expense"`
	TotalIncome  float64           `json:"total_income"`
	ByCategory   []CategorySummary `json:"by_category"`
}

// BudgetProgressItem compares one budget against the month's spending.
type BudgetProgressItem struct {
	Category  string  `json:"category"`
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// BudgetProgress holds the progress rows for every budget of a month.
type BudgetProgress struct {
	Month string               `json:"month"`
	Items []BudgetProgressItem `json:"items"`
}

// ParseMonth validates a YYYY-MM token and returns its year and month.
func ParseMonth(month string) (int, int, error) {
	parts := strings.Split(month, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, ErrInvalidMonth
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y < 1 {
		return 0, 0, ErrInvalidMonth
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, ErrInvalidMonth
	}
	return y, m, nil
}

// MonthWindow computes the half-open window [first-of-month,
// first-of-next-month) for a YYYY-MM token. December rolls over to January
// of the following year.
func MonthWindow(month string) (start, end Date, err error) {
	y, m, err := ParseMonth(month)
	if err != nil {
		return Date{}, Date{}, err
	}
	start = NewDate(y, m, 1)
	if m == 12 {
		end = NewDate(y+1, 1, 1)
	} else {
		end = NewDate(y, m+1, 1)
	}
	return start, end, nil
}

// Summarize computes the monthly summary over the month's transactions.
// Transfers are balance-neutral movements between own accounts and are
// excluded from every total. Conversion from cents to decimals happens only
// here, at the output boundary.
func Summarize(month string, txs []Transaction) MonthlySummary {
	type bucket struct {
		spent  int64
		income int64
	}

	var totalExpense, totalIncome int64
	byCat := make(map[string]*bucket)

	for _, tx := range txs {
		if tx.Type == TypeTransfer {
			continue
		}
		name := tx.CategoryName
		if !tx.Category.Valid || name == "" {
			name = UncategorizedLabel
		}
		b := byCat[name]
		if b == nil {
			b = &bucket{}
			byCat[name] = b
		}
		if tx.Amount.Cents < 0 {
			totalExpense += tx.Amount.Abs()
			b.spent += tx.Amount.Abs()
		} else {
			totalIncome += tx.Amount.Cents
			b.income += tx.Amount.Cents
		}
	}

	names := make([]string, 0, len(byCat))
	for name := range byCat {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]CategorySummary, 0, len(names))
	for _, name := range names {
		b := byCat[name]
		rows = append(rows, CategorySummary{
			Category: name,
			Spent:    Money{Cents: b.spent}.Amount(),
			Income:   Money{Cents: b.income}.Amount(),
		})
	}

	return MonthlySummary{
		Month:        month,
		TotalExpense: Money{Cents: totalExpense}.Amount(),
		TotalIncome:  Money{Cents: totalIncome}.Amount(),
		ByCategory:   rows,
	}
}

// Progress compares each budget of a month against the spending that
// actually occurred. Spending without a category accumulates under the
// empty CategoryRef, which can never match a budget's category; that bucket
// deliberately never contributes to any row.
func Progress(month string, budgets []Budget, txs []Transaction, categoryNames map[int64]string) BudgetProgress {
	spentBy := make(map[CategoryRef]int64)
	for _, tx := range txs {
		if tx.Type == TypeTransfer || tx.Amount.Cents >= 0 {
			continue
		}
		spentBy[tx.Category] += tx.Amount.Abs()
	}

	items := make([]BudgetProgressItem, 0, len(budgets))
	for _, b := range budgets {
		spent := spentBy[SomeCategory(b.CategoryID)]
		items = append(items, BudgetProgressItem{
			Category:  categoryNames[b.CategoryID],
			Budget:    b.Amount.Amount(),
			Spent:     Money{Cents: spent}.Amount(),
			Remaining: Money{Cents: b.Amount.Cents - spent}.Amount(),
		})
	}

	return BudgetProgress{Month: month, Items: items}
}
