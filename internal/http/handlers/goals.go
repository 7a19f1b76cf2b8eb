package handlers

import (
	"net/http"

	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/service"
)

// GoalHandler serves savings goals with live progress.
type GoalHandler struct {
	goals *service.GoalService
}

func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// Register wires the handler into a ServeMux.
func (h *GoalHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/goals", h.handleList)
	mux.HandleFunc("POST /api/goals", h.handleCreate)
	mux.HandleFunc("GET /api/goals/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/goals/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/goals/{id}", h.handleDelete)
}

func (h *GoalHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	goals, err := h.goals.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, "list goals")
		return
	}
	out := make([]dto.GoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, dto.NewGoalResponse(g))
	}
	respond.JSON(w, http.StatusOK, "ok", out)
}

func (h *GoalHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req dto.GoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.goals.Create(r.Context(), userID, req.CreateInput())
	if err != nil {
		respondError(w, r, err, "create goal")
		return
	}
	respond.JSON(w, http.StatusCreated, "Goal created", dto.NewGoalResponse(created))
}

func (h *GoalHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := h.goals.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err, "get goal")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.NewGoalResponse(g))
}

func (h *GoalHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.GoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.goals.Update(r.Context(), userID, id, req.UpdateInput())
	if err != nil {
		respondError(w, r, err, "update goal")
		return
	}
	respond.JSON(w, http.StatusOK, "Goal updated", dto.NewGoalResponse(updated))
}

func (h *GoalHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.goals.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, err, "delete goal")
		return
	}
	respond.JSON(w, http.StatusOK, "Goal deleted", nil)
}
