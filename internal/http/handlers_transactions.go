package http

import (
	"encoding/json"
	"net/http"
	"time"

	"fintrack/internal/core"
)

type transactionRequest struct {
	Date          string      `json:"date"`
	Description   string      `json:"description"`
	Amount        json.Number `json:"amount"`
	Type          string      `json:"type"`
	AccountID     int64       `json:"account_id"`
	CategoryID    *int64      `json:"category_id"`
	TransferGroup string      `json:"transfer_group"`
	Tags          []string    `json:"tags"`
}

type transactionResponse struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
	AccountID     int64     `json:"account_id"`
	CategoryID    *int64    `json:"category_id"`
	Category      string    `json:"category,omitempty"`
	TransferGroup string    `json:"transfer_group,omitempty"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            tx.ID,
		Date:          tx.Date.String(),
		Description:   tx.Description,
		Amount:        tx.Amount.Amount(),
		Type:          string(tx.Type),
		AccountID:     tx.AccountID,
		Category:      tx.CategoryName,
		TransferGroup: tx.TransferGroup,
		Tags:          tx.Tags,
		CreatedAt:     tx.CreatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if tx.Category.Valid {
		id := tx.Category.ID
		resp.CategoryID = &id
	}
	return resp
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	cents, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx := core.Transaction{
		Date:          date,
		Description:   sanitizeInput(req.Description),
		Amount:        core.Money{Cents: cents},
		Type:          core.TxType(sanitizeInput(req.Type)),
		AccountID:     req.AccountID,
		Category:      core.NoCategory(),
		TransferGroup: sanitizeInput(req.TransferGroup),
		Tags:          req.Tags,
	}
	if req.CategoryID != nil {
		tx.Category = core.SomeCategory(*req.CategoryID)
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.txs.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateMonth(created.Date.Format("2006-01"))
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := s.queryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.txs.ListTransactions(r.Context(), q)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

// queryFromRequest turns list parameters into a core.Query, applying the
// server's page size default and cap.
func (s *Server) queryFromRequest(r *http.Request) (core.Query, error) {
	var q core.Query
	params := r.URL.Query()

	if v := params.Get("start"); v != "" {
		start, err := core.ParseDate(v)
		if err != nil {
			return q, err
		}
		q.Start = &start
	}
	if v := params.Get("end"); v != "" {
		end, err := core.ParseDate(v)
		if err != nil {
			return q, err
		}
		q.End = &end
	}

	accountID, err := queryInt64(r, "account_id")
	if err != nil {
		return q, err
	}
	q.AccountID = accountID

	categoryID, err := queryInt64(r, "category_id")
	if err != nil {
		return q, err
	}
	q.CategoryID = categoryID

	q.Tag = sanitizeInput(params.Get("tag"))
	q.Search = sanitizeInput(params.Get("search"))

	if v := params.Get("type"); v != "" {
		txType := core.TxType(v)
		if err := txType.Validate(); err != nil {
			return q, err
		}
		q.Type = txType
	}

	limit, err := queryInt(r, "limit", s.defaultPageSize)
	if err != nil {
		return q, err
	}
	// An explicit limit=0 would mean "no limit" to the query engine and
	// bypass the page size cap; treat it as the default instead.
	if limit == 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	q.Limit = limit

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return q, err
	}
	q.Offset = offset

	return q, nil
}
