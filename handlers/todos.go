package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"mediashelf/internal/store"
	"mediashelf/models"
	"mediashelf/services/todos"
)

type todoService interface {
	Add(title string) (models.TodoItem, bool)
	Toggle(id string) bool
	Remove(id string) bool
	SetFilter(filter models.TodoFilter)
	ClearCompleted() int
	State() store.Reader[todos.State]
}

var _ todoService = (*todos.Store)(nil)

type TodosHandler struct {
	Service todoService
}

func NewTodosHandler(s todoService) *TodosHandler {
	return &TodosHandler{Service: s}
}

type todosResponse struct {
	Todos          []models.TodoItem `json:"todos"`
	Filter         models.TodoFilter `json:"filter"`
	Filtered       []models.TodoItem `json:"filtered"`
	ActiveCount    int               `json:"activeCount"`
	CompletedCount int               `json:"completedCount"`
}

func (h *TodosHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, http.StatusOK)
}

func (h *TodosHandler) Add(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	todo, ok := h.Service.Add(request.Title)
	if !ok {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(todo)
}

func (h *TodosHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if !h.Service.Toggle(mux.Vars(r)["id"]) {
		http.Error(w, "todo not found", http.StatusNotFound)
		return
	}
	h.writeState(w, http.StatusOK)
}

func (h *TodosHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.Service.Remove(mux.Vars(r)["id"]) {
		http.Error(w, "todo not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TodosHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	filter, err := models.ParseTodoFilter(request.Filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Service.SetFilter(filter)
	h.writeState(w, http.StatusOK)
}

func (h *TodosHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	cleared := h.Service.ClearCompleted()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"cleared": cleared})
}

// writeState renders one snapshot so the counts always match the lists.
func (h *TodosHandler) writeState(w http.ResponseWriter, status int) {
	snap := h.Service.State().Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(todosResponse{
		Todos:          snap.Todos,
		Filter:         snap.Filter,
		Filtered:       todos.Filtered(snap),
		ActiveCount:    todos.ActiveCount(snap),
		CompletedCount: todos.CompletedCount(snap),
	})
}
