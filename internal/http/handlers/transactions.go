package handlers

import (
	"net/http"

	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/service"
)

// TransactionHandler serves the caller's income and expense entries.
type TransactionHandler struct {
	transactions *service.TransactionService
}

func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Register wires the handler into a ServeMux.
func (h *TransactionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/transactions", h.handleList)
	mux.HandleFunc("POST /api/transactions", h.handleCreate)
	mux.HandleFunc("GET /api/transactions/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/transactions/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.handleDelete)
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	start, ok := queryDate(w, r, "startDate")
	if !ok {
		return
	}
	end, ok := queryDate(w, r, "endDate")
	if !ok {
		return
	}
	q := r.URL.Query()
	txs, err := h.transactions.List(r.Context(), userID, service.TransactionQuery{
		StartDate:    start,
		EndDate:      end,
		CategoryName: q.Get("categoryName"),
		CategoryType: q.Get("categoryType"),
	})
	if err != nil {
		respondError(w, r, err, "list transactions")
		return
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.NewTransactionResponse(t))
	}
	respond.JSON(w, http.StatusOK, "ok", out)
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req dto.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.transactions.Create(r.Context(), userID, service.TransactionInput{
		Amount:       req.Amount,
		Date:         req.Date,
		CategoryName: req.CategoryRef(),
		Description:  req.Description,
	})
	if err != nil {
		respondError(w, r, err, "create transaction")
		return
	}
	respond.JSON(w, http.StatusCreated, "Transaction created", dto.NewTransactionResponse(created))
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.transactions.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err, "get transaction")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewTransactionResponse(t))
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.transactions.Update(r.Context(), userID, id, service.TransactionInput{
		Amount:       req.Amount,
		CategoryName: req.CategoryRef(),
		Description:  req.Description,
	})
	if err != nil {
		respondError(w, r, err, "update transaction")
		return
	}
	respond.JSON(w, http.StatusOK, "Transaction updated", dto.NewTransactionResponse(updated))
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.transactions.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, err, "delete transaction")
		return
	}
	respond.JSON(w, http.StatusOK, "Transaction deleted", nil)
}
