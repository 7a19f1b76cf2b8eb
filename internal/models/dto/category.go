package dto

import "github.com/hongminglow/finance-be/internal/models"

type CategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type CategoryResponse struct {
	Name   string              `json:"name"`
	Type   models.CategoryType `json:"type"`
	Custom bool                `json:"custom"`
}

func NewCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Type: c.Type, Custom: c.IsCustom()}
}
