package todos

import (
	"strings"
	"time"

	"mediashelf/models"
)

// State is the immutable todo snapshot.
type State struct {
	Todos  []models.TodoItem
	Filter models.TodoFilter
}

func indexOf(todos []models.TodoItem, id string) int {
	for i, todo := range todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a todo with the trimmed title. Blank titles are rejected.
func Add(s State, id, title string, now time.Time) (State, models.TodoItem, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s, models.TodoItem{}, false
	}

	todo := models.TodoItem{ID: id, Title: title, CreatedAt: now}
	next := make([]models.TodoItem, 0, len(s.Todos)+1)
	next = append(next, s.Todos...)
	next = append(next, todo)
	return State{Todos: next, Filter: s.Filter}, todo, true
}

// Toggle flips Completed on the matching todo and returns it as updated.
func Toggle(s State, id string) (State, models.TodoItem, bool) {
	idx := indexOf(s.Todos, id)
	if idx < 0 {
		return s, models.TodoItem{}, false
	}

	next := make([]models.TodoItem, len(s.Todos))
	copy(next, s.Todos)
	next[idx].Completed = !next[idx].Completed
	return State{Todos: next, Filter: s.Filter}, next[idx], true
}

// Remove deletes the matching todo.
func Remove(s State, id string) (State, models.TodoItem, bool) {
	idx := indexOf(s.Todos, id)
	if idx < 0 {
		return s, models.TodoItem{}, false
	}

	removed := s.Todos[idx]
	next := make([]models.TodoItem, 0, len(s.Todos)-1)
	next = append(next, s.Todos[:idx]...)
	next = append(next, s.Todos[idx+1:]...)
	return State{Todos: next, Filter: s.Filter}, removed, true
}

// SetFilter always yields a new state, even when the filter is unchanged.
func SetFilter(s State, filter models.TodoFilter) State {
	return State{Todos: s.Todos, Filter: filter}
}

// ClearCompleted drops every completed todo and reports how many went.
func ClearCompleted(s State) (State, int, bool) {
	cleared := CompletedCount(s)
	if cleared == 0 {
		return s, 0, false
	}

	next := make([]models.TodoItem, 0, len(s.Todos)-cleared)
	for _, todo := range s.Todos {
		if !todo.Completed {
			next = append(next, todo)
		}
	}
	return State{Todos: next, Filter: s.Filter}, cleared, true
}

// Filtered applies the current filter, keeping list order.
func Filtered(s State) []models.TodoItem {
	out := make([]models.TodoItem, 0, len(s.Todos))
	for _, todo := range s.Todos {
		if s.Filter.Includes(todo) {
			out = append(out, todo)
		}
	}
	return out
}

func CompletedCount(s State) int {
	n := 0
	for _, todo := range s.Todos {
		if todo.Completed {
			n++
		}
	}
	return n
}

func ActiveCount(s State) int {
	return len(s.Todos) - CompletedCount(s)
}
