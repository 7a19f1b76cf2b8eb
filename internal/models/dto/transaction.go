package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
)

// TransactionRequest accepts the category under either "categoryName" or "category".
type TransactionRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Date         models.Date     `json:"date"`
	CategoryName string          `json:"categoryName"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
}

// CategoryRef returns whichever category field was supplied.
func (r TransactionRequest) CategoryRef() string {
	if name := strings.TrimSpace(r.CategoryName); name != "" {
		return name
	}
	return strings.TrimSpace(r.Category)
}

type TransactionResponse struct {
	ID          int64               `json:"id"`
	Amount      json.Number         `json:"amount"`
	Date        models.Date         `json:"date"`
	Category    string              `json:"category"`
	Type        models.CategoryType `json:"type"`
	Description string              `json:"description"`
}

func NewTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Amount:      Money(t.Amount),
		Date:        t.Date,
		Category:    t.CategoryName,
		Type:        t.CategoryType,
		Description: t.Description,
	}
}
