package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"mediashelf/internal/store"
	"mediashelf/models"
	"mediashelf/services/watchlist"
)

type watchlistService interface {
	Add(candidate models.WatchlistCandidate) bool
	Remove(id int, mediaType models.MediaType) bool
	ToggleWatched(id int, mediaType models.MediaType) bool
	IsInWatchlist(id int, mediaType models.MediaType) bool
	WatchedStatus(id int, mediaType models.MediaType) bool
	State() store.Reader[watchlist.State]
}

var _ watchlistService = (*watchlist.Store)(nil)

// WatchlistHandler serves the watchlist. Posters may be nil, in which case
// entries carry no posterUrl.
type WatchlistHandler struct {
	Service watchlistService
	Posters posterResolver
}

func NewWatchlistHandler(s watchlistService, posters posterResolver) *WatchlistHandler {
	return &WatchlistHandler{Service: s, Posters: posters}
}

type watchlistEntry struct {
	models.WatchlistItem
	PosterURL string `json:"posterUrl,omitempty"`
}

type watchlistResponse struct {
	Items     []watchlistEntry `json:"items"`
	Watched   []watchlistEntry `json:"watched"`
	Unwatched []watchlistEntry `json:"unwatched"`
}

type watchlistStatus struct {
	ID          int              `json:"id"`
	Type        models.MediaType `json:"type"`
	InWatchlist bool             `json:"inWatchlist"`
	Watched     bool             `json:"watched"`
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.State().Snapshot()

	poster := posterLookup(r.Context(), h.Posters)
	urls := make(map[string]string, len(snap.Items))
	for _, item := range snap.Items {
		urls[item.Key()] = poster(item.PosterPath)
	}
	entries := func(items []models.WatchlistItem) []watchlistEntry {
		out := make([]watchlistEntry, 0, len(items))
		for _, item := range items {
			out = append(out, watchlistEntry{WatchlistItem: item, PosterURL: urls[item.Key()]})
		}
		return out
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(watchlistResponse{
		Items:     entries(snap.Items),
		Watched:   entries(watchlist.Watched(snap)),
		Unwatched: entries(watchlist.Unwatched(snap)),
	})
}

// Add inserts a candidate. Adding an entry that is already present answers
// 200 with added=false instead of 201.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ID         int    `json:"id"`
		Type       string `json:"type"`
		Title      string `json:"title"`
		PosterPath string `json:"posterPath"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mediaType, err := models.ParseMediaType(request.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.ID <= 0 || strings.TrimSpace(request.Title) == "" {
		http.Error(w, "id and title are required", http.StatusBadRequest)
		return
	}

	added := h.Service.Add(models.WatchlistCandidate{
		ID:         request.ID,
		Type:       mediaType,
		Title:      request.Title,
		PosterPath: request.PosterPath,
	})

	w.Header().Set("Content-Type", "application/json")
	if added {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(map[string]bool{"added": added})
}

func (h *WatchlistHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, mediaType, ok := parseMediaKey(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.status(id, mediaType))
}

func (h *WatchlistHandler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	id, mediaType, ok := parseMediaKey(w, r)
	if !ok {
		return
	}
	if !h.Service.ToggleWatched(id, mediaType) {
		http.Error(w, "watchlist item not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.status(id, mediaType))
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, mediaType, ok := parseMediaKey(w, r)
	if !ok {
		return
	}
	if !h.Service.Remove(id, mediaType) {
		http.Error(w, "watchlist item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) status(id int, mediaType models.MediaType) watchlistStatus {
	return watchlistStatus{
		ID:          id,
		Type:        mediaType,
		InWatchlist: h.Service.IsInWatchlist(id, mediaType),
		Watched:     h.Service.WatchedStatus(id, mediaType),
	}
}

func parseMediaKey(w http.ResponseWriter, r *http.Request) (int, models.MediaType, bool) {
	vars := mux.Vars(r)
	mediaType, err := models.ParseMediaType(vars["type"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, "", false
	}
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		http.Error(w, "invalid media id", http.StatusBadRequest)
		return 0, "", false
	}
	return id, mediaType, true
}
