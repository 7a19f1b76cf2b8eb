package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

const maxCategoryName = 50

// CategoryInput names and types a custom category.
type CategoryInput struct {
	Name string
	Type string
}

// CategoryService manages default and custom categories.
type CategoryService struct {
	store storage.CategoryStore
}

// NewCategoryService constructs the service.
func NewCategoryService(store storage.CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// List returns the defaults plus the user's own categories, by type then name.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]models.Category, error) {
	cats, err := s.store.ListAccessibleCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Create adds a custom category. Its name may not repeat one the user can already see.
func (s *CategoryService) Create(ctx context.Context, userID int64, in CategoryInput) (models.Category, error) {
	name, typ, err := validateCategory(in)
	if err != nil {
		return models.Category{}, err
	}
	if err := s.ensureNameFree(ctx, userID, name); err != nil {
		return models.Category{}, err
	}
	created, err := s.store.CreateCategory(ctx, models.Category{Name: name, Type: typ, Owner: models.CustomOwner(userID)})
	if err != nil {
		return models.Category{}, storeError(err, "category", "create")
	}
	return created, nil
}

// Update renames or retypes one of the user's custom categories.
func (s *CategoryService) Update(ctx context.Context, userID int64, currentName string, in CategoryInput) (models.Category, error) {
	existing, err := s.findCustom(ctx, userID, currentName)
	if err != nil {
		return models.Category{}, err
	}
	name, typ, err := validateCategory(in)
	if err != nil {
		return models.Category{}, err
	}
	if name != existing.Name {
		if err := s.ensureNameFree(ctx, userID, name); err != nil {
			return models.Category{}, err
		}
	}
	existing.Name = name
	existing.Type = typ
	updated, err := s.store.UpdateCategory(ctx, existing)
	if err != nil {
		return models.Category{}, storeError(err, "category", "update")
	}
	return updated, nil
}

// Delete removes one of the user's custom categories unless a transaction uses it.
func (s *CategoryService) Delete(ctx context.Context, userID int64, name string) error {
	existing, err := s.findCustom(ctx, userID, name)
	if err != nil {
		return err
	}
	inUse, err := s.store.CategoryInUse(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("check category usage: %w", err)
	}
	if inUse {
		return conflict("category %s is used by existing transactions", existing.Name)
	}
	if err := s.store.DeleteCategory(ctx, userID, existing.ID); err != nil {
		if errors.Is(err, storage.ErrInUse) {
			return conflict("category %s is used by existing transactions", existing.Name)
		}
		return storeError(err, "category", "delete")
	}
	return nil
}

// Resolve finds a category the user may reference by name. Custom categories
// shadow defaults of the same name.
func (s *CategoryService) Resolve(ctx context.Context, userID int64, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, invalid("category is required")
	}
	c, err := s.store.FindAccessibleCategoryByName(ctx, userID, name)
	if err != nil {
		return models.Category{}, storeError(err, "category "+name, "find")
	}
	return c, nil
}

func (s *CategoryService) findCustom(ctx context.Context, userID int64, name string) (models.Category, error) {
	c, err := s.store.FindCustomCategoryByName(ctx, userID, strings.TrimSpace(name))
	if err != nil {
		return models.Category{}, storeError(err, "custom category", "find")
	}
	return c, nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, userID int64, name string) error {
	_, err := s.store.FindAccessibleCategoryByName(ctx, userID, name)
	switch {
	case err == nil:
		return conflict("category %s already exists", name)
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("find category: %w", err)
	}
}

func validateCategory(in CategoryInput) (string, models.CategoryType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", invalid("category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return "", "", invalid("category name must be at most %d characters", maxCategoryName)
	}
	typ, err := models.ParseCategoryType(in.Type)
	if err != nil {
		return "", "", invalid("%s", err.Error())
	}
	return name, typ, nil
}
