package watchlist

import (
	"time"

	"mediashelf/models"
)

// State is the immutable watchlist snapshot. Items keep insertion order.
type State struct {
	Items []models.WatchlistItem
}

func indexOf(items []models.WatchlistItem, id int, mediaType models.MediaType) int {
	for i, item := range items {
		if item.Matches(id, mediaType) {
			return i
		}
	}
	return -1
}

// Add appends candidate unless an item with the same key already exists.
func Add(s State, candidate models.WatchlistCandidate, now time.Time) (State, models.WatchlistItem, bool) {
	if indexOf(s.Items, candidate.ID, candidate.Type) >= 0 {
		return s, models.WatchlistItem{}, false
	}

	item := models.WatchlistItem{
		ID:         candidate.ID,
		Type:       candidate.Type,
		Title:      candidate.Title,
		PosterPath: candidate.PosterPath,
		AddedAt:    now,
	}

	items := make([]models.WatchlistItem, 0, len(s.Items)+1)
	items = append(items, s.Items...)
	items = append(items, item)
	return State{Items: items}, item, true
}

// Remove drops the matching item, keeping the others in order.
func Remove(s State, id int, mediaType models.MediaType) (State, models.WatchlistItem, bool) {
	idx := indexOf(s.Items, id, mediaType)
	if idx < 0 {
		return s, models.WatchlistItem{}, false
	}

	removed := s.Items[idx]
	items := make([]models.WatchlistItem, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	return State{Items: items}, removed, true
}

// ToggleWatched flips IsWatched on the matching item and returns it as updated.
func ToggleWatched(s State, id int, mediaType models.MediaType) (State, models.WatchlistItem, bool) {
	idx := indexOf(s.Items, id, mediaType)
	if idx < 0 {
		return s, models.WatchlistItem{}, false
	}

	items := make([]models.WatchlistItem, len(s.Items))
	copy(items, s.Items)
	items[idx].IsWatched = !items[idx].IsWatched
	return State{Items: items}, items[idx], true
}

// Contains reports whether the key is on the watchlist.
func Contains(s State, id int, mediaType models.MediaType) bool {
	return indexOf(s.Items, id, mediaType) >= 0
}

// IsWatched reports the watched flag, false when the item is absent.
func IsWatched(s State, id int, mediaType models.MediaType) bool {
	idx := indexOf(s.Items, id, mediaType)
	return idx >= 0 && s.Items[idx].IsWatched
}

// Watched returns watched items in insertion order.
func Watched(s State) []models.WatchlistItem {
	return filter(s.Items, true)
}

// Unwatched returns unwatched items in insertion order.
func Unwatched(s State) []models.WatchlistItem {
	return filter(s.Items, false)
}

func filter(items []models.WatchlistItem, watched bool) []models.WatchlistItem {
	out := make([]models.WatchlistItem, 0, len(items))
	for _, item := range items {
		if item.IsWatched == watched {
			out = append(out, item)
		}
	}
	return out
}
