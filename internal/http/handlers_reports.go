package http

import (
	"net/http"

	"fintrack/internal/core"
)

// monthParam validates the required ?month=YYYY-MM parameter.
func monthParam(r *http.Request) (string, error) {
	month := r.URL.Query().Get("month")
	if _, _, err := core.ParseMonth(month); err != nil {
		return "", err
	}
	return month, nil
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if cached, ok := s.summaryCache.Get(month); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txs, err := s.monthTransactions(r, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	summary := core.Summarize(month, txs)
	s.summaryCache.Set(month, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if cached, ok := s.progressCache.Get(month); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	budgets, err := s.budgets.ListBudgets(r.Context(), month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	txs, err := s.monthTransactions(r, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	names, err := s.categories.CategoryNames(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	progress := core.Progress(month, budgets, txs, names)
	s.progressCache.Set(month, progress)
	writeJSON(w, http.StatusOK, progress)
}

// monthTransactions loads every transaction of a validated month token.
func (s *Server) monthTransactions(r *http.Request, month string) ([]core.Transaction, error) {
	start, end, err := core.MonthWindow(month)
	if err != nil {
		return nil, err
	}
	return s.txs.ListTransactions(r.Context(), core.MonthQuery(start, end, core.ReportFetchLimit))
}
