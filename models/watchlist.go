package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MediaType distinguishes the two kinds of catalog entries.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// ErrInvalidMediaType is returned when a media type string is neither movie nor show.
var ErrInvalidMediaType = errors.New("invalid media type")

// ParseMediaType accepts "movie", "show" and the TMDB spelling "tv".
func ParseMediaType(raw string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "show", "shows", "tv", "series":
		return MediaTypeShow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, raw)
	}
}

// WatchlistItem represents a media entry saved by the user for later viewing.
type WatchlistItem struct {
	ID         int       `json:"id"`
	Type       MediaType `json:"type"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath,omitempty"`
	IsWatched  bool      `json:"isWatched"`
	AddedAt    time.Time `json:"addedAt"`
}

// WatchlistCandidate captures the data needed to add an item to the watchlist.
type WatchlistCandidate struct {
	ID         int       `json:"id"`
	Type       MediaType `json:"type"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath,omitempty"`
}

// Key returns a stable identifier combining media type and ID.
func (w WatchlistItem) Key() string {
	return watchlistKey(w.Type, w.ID)
}

// Matches reports whether the item has the given composite key.
func (w WatchlistItem) Matches(id int, mediaType MediaType) bool {
	return w.ID == id && w.Type == mediaType
}

func watchlistKey(mediaType MediaType, id int) string {
	return fmt.Sprintf("%s:%d", mediaType, id)
}
