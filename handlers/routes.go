package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register mounts the API under /api on r. Any nil handler is skipped.
func Register(r *mux.Router, wl *WatchlistHandler, td *TodosHandler, md *MediaHandler, nf *NotificationsHandler, middleware ...mux.MiddlewareFunc) {
	api := r.PathPrefix("/api").Subrouter()
	for _, mw := range middleware {
		api.Use(mw)
	}

	if wl != nil {
		api.HandleFunc("/watchlist", wl.List).Methods(http.MethodGet)
		api.HandleFunc("/watchlist", wl.Add).Methods(http.MethodPost)
		api.HandleFunc("/watchlist/{type}/{id:[0-9]+}", wl.Status).Methods(http.MethodGet)
		api.HandleFunc("/watchlist/{type}/{id:[0-9]+}", wl.Remove).Methods(http.MethodDelete)
		api.HandleFunc("/watchlist/{type}/{id:[0-9]+}/toggle", wl.ToggleWatched).Methods(http.MethodPost)
	}

	if td != nil {
		api.HandleFunc("/todos", td.List).Methods(http.MethodGet)
		api.HandleFunc("/todos", td.Add).Methods(http.MethodPost)
		api.HandleFunc("/todos/filter", td.SetFilter).Methods(http.MethodPut)
		api.HandleFunc("/todos/clear-completed", td.ClearCompleted).Methods(http.MethodPost)
		api.HandleFunc("/todos/{id}/toggle", td.Toggle).Methods(http.MethodPost)
		api.HandleFunc("/todos/{id}", td.Remove).Methods(http.MethodDelete)
	}

	if md != nil {
		api.HandleFunc("/media", md.Get).Methods(http.MethodGet)
		api.HandleFunc("/media/search", md.StartSearch).Methods(http.MethodPost)
		api.HandleFunc("/media/search", md.ClearSearch).Methods(http.MethodDelete)
		api.HandleFunc("/media/movies/{id:[0-9]+}", md.Movie).Methods(http.MethodGet)
		api.HandleFunc("/media/shows/{id:[0-9]+}", md.Show).Methods(http.MethodGet)
		api.HandleFunc("/media/configuration", md.Configuration).Methods(http.MethodGet)
	}

	if nf != nil {
		api.HandleFunc("/notifications", nf.List).Methods(http.MethodGet)
	}
}
