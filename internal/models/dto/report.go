package dto

import (
	"encoding/json"

	"github.com/hongminglow/finance-be/internal/finance"
	"github.com/hongminglow/finance-be/internal/models"
)

type SummaryResponse struct {
	Year          int                    `json:"year,omitempty"`
	Month         int                    `json:"month,omitempty"`
	TotalIncome   map[string]json.Number `json:"totalIncome"`
	TotalExpenses map[string]json.Number `json:"totalExpenses"`
	IncomeSum     json.Number            `json:"incomeSum"`
	ExpenseSum    json.Number            `json:"expenseSum"`
	NetSavings    json.Number            `json:"netSavings"`
}

func NewSummaryResponse(s finance.Summary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:   moneyMap(s.Income),
		TotalExpenses: moneyMap(s.Expenses),
		IncomeSum:     Money(s.TotalIncome),
		ExpenseSum:    Money(s.TotalExpenses),
		NetSavings:    Money(s.Net),
	}
}

type CategorySpendingResponse struct {
	CategoryName string              `json:"categoryName"`
	CategoryType models.CategoryType `json:"categoryType"`
	TotalAmount  json.Number         `json:"totalAmount"`
}

func NewSpendingResponse(rows []finance.CategorySpending) []CategorySpendingResponse {
	out := make([]CategorySpendingResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategorySpendingResponse{CategoryName: r.Name, CategoryType: r.Type, TotalAmount: Money(r.Total)})
	}
	return out
}
