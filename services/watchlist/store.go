// Package watchlist owns the user's list of saved movies and shows.
package watchlist

import (
	"fmt"
	"slices"
	"time"

	"mediashelf/internal/store"
	"mediashelf/models"
	"mediashelf/services/notify"
)

// Store applies watchlist transitions and announces them through a notifier.
type Store struct {
	state    *store.Store[State]
	notifier notify.Notifier
	now      func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithItems seeds the store, typically from persisted data.
func WithItems(items []models.WatchlistItem) Option {
	return func(s *Store) {
		s.state = store.New(State{Items: append([]models.WatchlistItem{}, items...)})
	}
}

// WithClock overrides the time source used for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns an empty watchlist. A nil notifier discards notifications.
func NewStore(notifier notify.Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = notify.Discard
	}
	s := &Store{
		state:    store.New(State{Items: []models.WatchlistItem{}}),
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State exposes the read side of the store.
func (s *Store) State() store.Reader[State] {
	return s.state
}

func (s *Store) Add(candidate models.WatchlistCandidate) bool {
	var added models.WatchlistItem
	changed := s.state.Update(func(cur State) (State, bool) {
		next, item, ok := Add(cur, candidate, s.now())
		added = item
		return next, ok
	})
	if changed {
		s.notifier.Notify(notify.Message(fmt.Sprintf("Added %s to watchlist", added.Title)))
	}
	return changed
}

func (s *Store) Remove(id int, mediaType models.MediaType) bool {
	var removed models.WatchlistItem
	changed := s.state.Update(func(cur State) (State, bool) {
		next, item, ok := Remove(cur, id, mediaType)
		removed = item
		return next, ok
	})
	if changed {
		s.notifier.Notify(notify.Message(fmt.Sprintf("Removed %s from watchlist", removed.Title)))
	}
	return changed
}

func (s *Store) ToggleWatched(id int, mediaType models.MediaType) bool {
	var toggled models.WatchlistItem
	changed := s.state.Update(func(cur State) (State, bool) {
		next, item, ok := ToggleWatched(cur, id, mediaType)
		toggled = item
		return next, ok
	})
	if changed {
		status := "unwatched"
		if toggled.IsWatched {
			status = "watched"
		}
		s.notifier.Notify(notify.Message(fmt.Sprintf("Marked %s as %s", toggled.Title, status)))
	}
	return changed
}

func (s *Store) IsInWatchlist(id int, mediaType models.MediaType) bool {
	return Contains(s.state.Snapshot(), id, mediaType)
}

func (s *Store) WatchedStatus(id int, mediaType models.MediaType) bool {
	return IsWatched(s.state.Snapshot(), id, mediaType)
}

// Items returns a copy of every item in insertion order.
func (s *Store) Items() []models.WatchlistItem {
	return slices.Clone(s.state.Snapshot().Items)
}

func (s *Store) WatchedItems() []models.WatchlistItem {
	return Watched(s.state.Snapshot())
}

func (s *Store) UnwatchedItems() []models.WatchlistItem {
	return Unwatched(s.state.Snapshot())
}
