package core

import (
	"sort"
	"strings"
)

// Query is an optional predicate set over transactions. Every field is
// optional; set predicates combine with logical AND.
type Query struct {
	Start      *Date // inclusive
	End        *Date // exclusive, so [Start, End) covers a whole month cleanly
	AccountID  int64 // 0 = any
	CategoryID int64 // 0 = any
	Tag        string
	Search     string // case-insensitive substring on description
	Type       TxType // "" = any
	Limit      int    // 0 = no limit
	Offset     int
}

// MonthQuery returns the query covering the half-open window of a month
// token, capped at limit rows. The caller must have validated the token.
func MonthQuery(start, end Date, limit int) Query {
	return Query{Start: &start, End: &end, Limit: limit}
}

// Matches reports whether tx satisfies every set predicate of q.
func (q Query) Matches(tx Transaction) bool {
	if q.Start != nil && tx.Date.Before(q.Start.Time) {
		return false
	}
	if q.End != nil && !tx.Date.Before(q.End.Time) {
		return false
	}
	if q.AccountID != 0 && tx.AccountID != q.AccountID {
		return false
	}
	if q.CategoryID != 0 && (!tx.Category.Valid || tx.Category.ID != q.CategoryID) {
		return false
	}
	if q.Tag != "" && !hasTag(tx.Tags, q.Tag) {
		return false
	}
	if q.Search != "" &&
		!strings.Contains(strings.ToLower(tx.Description), strings.ToLower(q.Search)) {
		return false
	}
	if q.Type != "" && tx.Type != q.Type {
		return false
	}
	return true
}

// ApplyQuery filters txs by q, orders the result by (date desc, id desc)
// and applies offset/limit after ordering. The input slice is not modified.
func ApplyQuery(txs []Transaction, q Query) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if q.Matches(tx) {
			out = append(out, tx)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []Transaction{}
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func hasTag(tags []string, name string) bool {
	for _, t := range tags {
		if t == name {
			return true
		}
	}
	return false
}
