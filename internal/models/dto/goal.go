package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/service"
)

// GoalRequest is used for both create and update; on update absent fields are kept.
type GoalRequest struct {
	GoalName     *string          `json:"goalName"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	TargetDate   *models.Date     `json:"targetDate"`
	StartDate    *models.Date     `json:"startDate"`
}

func (r GoalRequest) CreateInput() service.GoalInput {
	in := service.GoalInput{}
	if r.GoalName != nil {
		in.Name = *r.GoalName
	}
	if r.TargetAmount != nil {
		in.TargetAmount = *r.TargetAmount
	}
	if r.TargetDate != nil {
		in.TargetDate = *r.TargetDate
	}
	if r.StartDate != nil {
		in.StartDate = *r.StartDate
	}
	return in
}

func (r GoalRequest) UpdateInput() service.GoalUpdate {
	return service.GoalUpdate{Name: r.GoalName, TargetAmount: r.TargetAmount, TargetDate: r.TargetDate}
}

type GoalResponse struct {
	ID                 int64       `json:"id"`
	GoalName           string      `json:"goalName"`
	TargetAmount       json.Number `json:"targetAmount"`
	TargetDate         models.Date `json:"targetDate"`
	StartDate          models.Date `json:"startDate"`
	CurrentProgress    json.Number `json:"currentProgress"`
	ProgressPercentage string      `json:"progressPercentage"`
	RemainingAmount    json.Number `json:"remainingAmount"`
}

func NewGoalResponse(g service.GoalView) GoalResponse {
	return GoalResponse{
		ID:                 g.ID,
		GoalName:           g.Name,
		TargetAmount:       Money(g.TargetAmount),
		TargetDate:         g.TargetDate,
		StartDate:          g.StartDate,
		CurrentProgress:    Money(g.CurrentProgress),
		ProgressPercentage: g.Percentage,
		RemainingAmount:    Money(g.Remaining),
	}
}
