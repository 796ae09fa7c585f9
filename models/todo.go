package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TodoItem is a single entry in the todo list.
type TodoItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// TodoFilter selects which todos are visible.
type TodoFilter string

const (
	TodoFilterAll       TodoFilter = "all"
	TodoFilterActive    TodoFilter = "active"
	TodoFilterCompleted TodoFilter = "completed"
)

// ErrInvalidFilter is returned for unknown filter names.
var ErrInvalidFilter = errors.New("invalid todo filter")

// ParseTodoFilter converts user input into a TodoFilter. An empty string means all.
func ParseTodoFilter(raw string) (TodoFilter, error) {
	switch TodoFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TodoFilterAll:
		return TodoFilterAll, nil
	case TodoFilterActive:
		return TodoFilterActive, nil
	case TodoFilterCompleted:
		return TodoFilterCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
}

// Next cycles all -> active -> completed -> all.
func (f TodoFilter) Next() TodoFilter {
	switch f {
	case TodoFilterAll:
		return TodoFilterActive
	case TodoFilterActive:
		return TodoFilterCompleted
	default:
		return TodoFilterAll
	}
}

// Includes reports whether a todo passes the filter.
func (f TodoFilter) Includes(todo TodoItem) bool {
	switch f {
	case TodoFilterActive:
		return !todo.Completed
	case TodoFilterCompleted:
		return todo.Completed
	default:
		return true
	}
}
