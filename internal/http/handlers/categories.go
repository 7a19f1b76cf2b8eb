package handlers

import (
	"net/http"

	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/service"
)

// CategoryHandler serves default and custom categories.
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Register wires the handler into a ServeMux.
func (h *CategoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.handleList)
	mux.HandleFunc("POST /api/categories", h.handleCreate)
	mux.HandleFunc("PUT /api/categories/{name}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/categories/{name}", h.handleDelete)
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	cats, err := h.categories.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, "list categories")
		return
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.NewCategoryResponse(c))
	}
	respond.JSON(w, http.StatusOK, "ok", out)
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.categories.Create(r.Context(), userID, service.CategoryInput{Name: req.Name, Type: req.Type})
	if err != nil {
		respondError(w, r, err, "create category")
		return
	}
	respond.JSON(w, http.StatusCreated, "Category created", dto.NewCategoryResponse(created))
}

func (h *CategoryHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.categories.Update(r.Context(), userID, r.PathValue("name"), service.CategoryInput{Name: req.Name, Type: req.Type})
	if err != nil {
		respondError(w, r, err, "update category")
		return
	}
	respond.JSON(w, http.StatusOK, "Category updated", dto.NewCategoryResponse(updated))
}

func (h *CategoryHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.categories.Delete(r.Context(), userID, r.PathValue("name")); err != nil {
		respondError(w, r, err, "delete category")
		return
	}
	respond.JSON(w, http.StatusOK, "Category deleted", nil)
}
