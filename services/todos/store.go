// Package todos is the standalone todo list.
package todos

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"mediashelf/internal/store"
	"mediashelf/models"
	"mediashelf/services/notify"
)

// notificationDuration is how long todo messages stay visible.
const notificationDuration = 3 * time.Second

// Store applies todo transitions and announces them through a notifier.
type Store struct {
	state    *store.Store[State]
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
}

type Option func(*Store)

// WithTodos seeds the list, typically from persisted data.
func WithTodos(todos []models.TodoItem) Option {
	return func(s *Store) {
		s.state = store.New(State{Todos: append([]models.TodoItem{}, todos...), Filter: models.TodoFilterAll})
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore returns an empty list with the "all" filter.
func NewStore(notifier notify.Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = notify.Discard
	}
	s := &Store{
		state:    store.New(State{Todos: []models.TodoItem{}, Filter: models.TodoFilterAll}),
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() store.Reader[State] {
	return s.state
}

// Add creates a todo from title. It reports false for blank titles.
func (s *Store) Add(title string) (models.TodoItem, bool) {
	var created models.TodoItem
	changed := s.state.Update(func(cur State) (State, bool) {
		next, todo, ok := Add(cur, s.newID(), title, s.now())
		created = todo
		return next, ok
	})
	if !changed {
		return models.TodoItem{}, false
	}
	s.notifier.Notify(notify.Timed(fmt.Sprintf("Added todo: %s", created.Title), notificationDuration))
	return created, true
}

func (s *Store) Toggle(id string) bool {
	var toggled models.TodoItem
	changed := s.state.Update(func(cur State) (State, bool) {
		next, todo, ok := Toggle(cur, id)
		toggled = todo
		return next, ok
	})
	if changed {
		status := "active"
		if toggled.Completed {
			status = "completed"
		}
		s.notifier.Notify(notify.Timed(fmt.Sprintf("Marked \"%s\" as %s", toggled.Title, status), notificationDuration))
	}
	return changed
}

func (s *Store) Remove(id string) bool {
	var removed models.TodoItem
	changed := s.state.Update(func(cur State) (State, bool) {
		next, todo, ok := Remove(cur, id)
		removed = todo
		return next, ok
	})
	if changed {
		s.notifier.Notify(notify.Timed(fmt.Sprintf("Removed todo: %s", removed.Title), notificationDuration))
	}
	return changed
}

func (s *Store) SetFilter(filter models.TodoFilter) {
	s.state.Update(func(cur State) (State, bool) {
		return SetFilter(cur, filter), true
	})
}

// ClearCompleted removes all completed todos and returns how many it removed.
func (s *Store) ClearCompleted() int {
	var cleared int
	changed := s.state.Update(func(cur State) (State, bool) {
		next, n, ok := ClearCompleted(cur)
		cleared = n
		return next, ok
	})
	if !changed {
		return 0
	}

	suffix := "s"
	if cleared == 1 {
		suffix = ""
	}
	s.notifier.Notify(notify.Timed(fmt.Sprintf("Cleared %d completed todo%s", cleared, suffix), notificationDuration))
	return cleared
}

func (s *Store) Todos() []models.TodoItem {
	return slices.Clone(s.state.Snapshot().Todos)
}

func (s *Store) Filter() models.TodoFilter {
	return s.state.Snapshot().Filter
}

func (s *Store) FilteredTodos() []models.TodoItem {
	return Filtered(s.state.Snapshot())
}

func (s *Store) ActiveCount() int {
	return ActiveCount(s.state.Snapshot())
}

func (s *Store) CompletedCount() int {
	return CompletedCount(s.state.Snapshot())
}
