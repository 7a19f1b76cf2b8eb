package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const maxDescription = 255

// Amounts must fit NUMERIC(15,2). Inputs with more fractional digits than
// maxAmountScale are refused before rounding, which would rescale them.
const maxAmountScale = 32

var maxAmount = decimal.RequireFromString("9999999999999.99")

// TransactionInput is a new or edited transaction. Date is ignored on update.
type TransactionInput struct {
	Amount       decimal.Decimal
	Date         models.Date
	CategoryName string
	Description  string
}

// TransactionQuery filters List. Zero values do not filter.
type TransactionQuery struct {
	StartDate    *models.Date
	EndDate      *models.Date
	CategoryName string
	CategoryType string
}

// TransactionService records income and expenses.
type TransactionService struct {
	txs        storage.TransactionStore
	categories *CategoryService
	events     events.Publisher
	clock      Clock
}

// NewTransactionService constructs the service.
func NewTransactionService(txs storage.TransactionStore, categories *CategoryService, publisher events.Publisher, clock Clock) *TransactionService {
	return &TransactionService{txs: txs, categories: categories, events: publisher, clock: clock}
}

// Create records a transaction dated today or earlier against an accessible category.
func (s *TransactionService) Create(ctx context.Context, userID int64, in TransactionInput) (models.Transaction, error) {
	amount, err := validAmount(in.Amount, "amount")
	if err != nil {
		return models.Transaction{}, err
	}
	if in.Date.IsZero() {
		return models.Transaction{}, invalid("date is required")
	}
	if in.Date.After(s.clock.Today()) {
		return models.Transaction{}, invalid("date cannot be in the future")
	}
	desc, err := validDescription(in.Description)
	if err != nil {
		return models.Transaction{}, err
	}
	category, err := s.categories.Resolve(ctx, userID, in.CategoryName)
	if err != nil {
		return models.Transaction{}, err
	}

	created, err := s.txs.CreateTransaction(ctx, models.Transaction{
		UserID:      userID,
		CategoryID:  category.ID,
		Amount:      amount,
		Date:        in.Date,
		Description: desc,
	})
	if err != nil {
		return models.Transaction{}, storeError(err, "transaction", "create")
	}
	events.Notify(ctx, s.events, events.New(events.TransactionCreated, userID, transactionPayload(created)))
	return created, nil
}

// Get returns one of the user's transactions.
func (s *TransactionService) Get(ctx context.Context, userID, id int64) (models.Transaction, error) {
	t, err := s.txs.FindTransaction(ctx, userID, id)
	if err != nil {
		return models.Transaction{}, storeError(err, "transaction", "find")
	}
	return t, nil
}

// List returns the user's transactions matching q, newest first.
func (s *TransactionService) List(ctx context.Context, userID int64, q TransactionQuery) ([]models.Transaction, error) {
	filter := storage.TransactionFilter{StartDate: q.StartDate, EndDate: q.EndDate}
	if q.StartDate != nil && q.EndDate != nil && q.StartDate.After(*q.EndDate) {
		return nil, invalid("startDate must not be after endDate")
	}
	if strings.TrimSpace(q.CategoryName) != "" {
		c, err := s.categories.Resolve(ctx, userID, q.CategoryName)
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &c.ID
	}
	if strings.TrimSpace(q.CategoryType) != "" {
		typ, err := models.ParseCategoryType(q.CategoryType)
		if err != nil {
			return nil, invalid("%s", err.Error())
		}
		filter.CategoryType = typ
	}
	txs, err := s.txs.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Update edits amount, category and description. The original date is kept.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, in TransactionInput) (models.Transaction, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := validAmount(in.Amount, "amount")
	if err != nil {
		return models.Transaction{}, err
	}
	desc, err := validDescription(in.Description)
	if err != nil {
		return models.Transaction{}, err
	}
	category, err := s.categories.Resolve(ctx, userID, in.CategoryName)
	if err != nil {
		return models.Transaction{}, err
	}

	existing.CategoryID = category.ID
	existing.Amount = amount
	existing.Description = desc
	updated, err := s.txs.UpdateTransaction(ctx, existing)
	if err != nil {
		return models.Transaction{}, storeError(err, "transaction", "update")
	}
	events.Notify(ctx, s.events, events.New(events.TransactionUpdated, userID, transactionPayload(updated)))
	return updated, nil
}

// Delete removes one of the user's transactions.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.txs.DeleteTransaction(ctx, userID, id); err != nil {
		return storeError(err, "transaction", "delete")
	}
	events.Notify(ctx, s.events, events.New(events.TransactionDeleted, userID, map[string]int64{"id": id}))
	return nil
}

func transactionPayload(t models.Transaction) map[string]any {
	return map[string]any{
		"id":       t.ID,
		"amount":   t.Amount.StringFixed(2),
		"date":     t.Date.String(),
		"category": t.CategoryName,
		"type":     t.CategoryType,
	}
}

// validAmount rounds to cents and requires a result in (0, maxAmount].
func validAmount(d decimal.Decimal, field string) (decimal.Decimal, error) {
	if d.Sign() <= 0 {
		return decimal.Zero, invalid("%s must be greater than 0", field)
	}
	// Above this exponent the value exceeds maxAmount whatever the coefficient.
	if d.Exponent() > 13 {
		return decimal.Zero, invalid("%s must not exceed %s", field, maxAmount.StringFixed(2))
	}
	if d.Exponent() < -maxAmountScale {
		return decimal.Zero, invalid("%s has too many decimal places", field)
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, invalid("%s must be greater than 0", field)
	}
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, invalid("%s must not exceed %s", field, maxAmount.StringFixed(2))
	}
	return d, nil
}

func validDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxDescription {
		return "", invalid("description must be at most %d characters", maxDescription)
	}
	return s, nil
}
