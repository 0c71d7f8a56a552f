package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
)

type budgetRequest struct {
	Month      string      `json:"month"`
	CategoryID int64       `json:"category_id"`
	Amount     json.Number `json:"amount"`
}

type budgetResponse struct {
	ID         int64   `json:"id"`
	Month      string  `json:"month"`
	CategoryID int64   `json:"category_id"`
	Amount     float64 `json:"amount"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{ID: b.ID, Month: b.Month, CategoryID: b.CategoryID, Amount: b.Amount.Amount()}
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleUpsertBudget(w, r)
	case http.MethodGet:
		s.handleListBudgets(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParsePositiveAmount(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	budget := core.Budget{
		Month:      sanitizeInput(req.Month),
		CategoryID: req.CategoryID,
		Amount:     core.Money{Cents: cents},
	}
	if err := budget.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.budgets.UpsertBudget(r.Context(), budget)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateMonth(saved.Month)
	writeJSON(w, http.StatusOK, toBudgetResponse(saved))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" {
		if _, _, err := core.ParseMonth(month); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	budgets, err := s.budgets.ListBudgets(r.Context(), month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}
