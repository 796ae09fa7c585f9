package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mediashelf/internal/store"
	"mediashelf/models"
	"mediashelf/services/media"
	"mediashelf/services/tmdb"
)

type mediaSearchService interface {
	State() store.Reader[media.State]
	Search(query string)
	Flush()
	ClearSearch()
}

type mediaDetailsService interface {
	MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error)
	ShowDetails(ctx context.Context, id int) (*models.ShowDetails, error)
	Configuration(ctx context.Context) (*models.Configuration, error)
}

var (
	_ mediaSearchService  = (*media.Store)(nil)
	_ mediaDetailsService = (*tmdb.Client)(nil)
)

// MediaHandler exposes the search store and detail lookups.
type MediaHandler struct {
	Search  mediaSearchService
	Details mediaDetailsService
	Posters posterResolver
}

func NewMediaHandler(search mediaSearchService, details mediaDetailsService, posters posterResolver) *MediaHandler {
	return &MediaHandler{Search: search, Details: details, Posters: posters}
}

type movieEntry struct {
	models.MovieSummary
	PosterURL string `json:"posterUrl,omitempty"`
}

type showEntry struct {
	models.ShowSummary
	PosterURL string `json:"posterUrl,omitempty"`
}

type mediaResponse struct {
	Query         string       `json:"query"`
	Movies        []movieEntry `json:"movies"`
	Shows         []showEntry  `json:"shows"`
	HasResults    bool         `json:"hasResults"`
	LoadingMovies bool         `json:"loadingMovies"`
	LoadingShows  bool         `json:"loadingShows"`
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusOK)
}

// StartSearch schedules a debounced search. Setting immediate skips the
// debounce window.
func (h *MediaHandler) StartSearch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Query     string `json:"query"`
		Immediate bool   `json:"immediate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Search.Search(request.Query)
	if request.Immediate {
		h.Search.Flush()
	}
	h.writeState(w, r, http.StatusAccepted)
}

func (h *MediaHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	h.Search.ClearSearch()
	h.writeState(w, r, http.StatusOK)
}

func (h *MediaHandler) Movie(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	details, err := h.Details.MovieDetails(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, "movie", id, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}

func (h *MediaHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	details, err := h.Details.ShowDetails(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, "show", id, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}

func (h *MediaHandler) Configuration(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Details.Configuration(r.Context())
	if err != nil {
		log.Printf("[media-handler] configuration failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (h *MediaHandler) writeState(w http.ResponseWriter, r *http.Request, status int) {
	snap := h.Search.State().Snapshot()
	poster := posterLookup(r.Context(), h.Posters)

	movies := make([]movieEntry, 0, len(media.Movies(snap)))
	for _, movie := range media.Movies(snap) {
		movies = append(movies, movieEntry{MovieSummary: movie, PosterURL: poster(movie.PosterPath)})
	}
	shows := make([]showEntry, 0, len(media.Shows(snap)))
	for _, show := range media.Shows(snap) {
		shows = append(shows, showEntry{ShowSummary: show, PosterURL: poster(show.PosterPath)})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(mediaResponse{
		Query:         snap.Query,
		Movies:        movies,
		Shows:         shows,
		HasResults:    media.HasResults(snap),
		LoadingMovies: snap.LoadingMovies,
		LoadingShows:  snap.LoadingShows,
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeUpstreamError(w http.ResponseWriter, kind string, id int, err error) {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		http.Error(w, kind+" not found", http.StatusNotFound)
	default:
		log.Printf("[media-handler] %s %d lookup failed: %v", kind, id, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}
