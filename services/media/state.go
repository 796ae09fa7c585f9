package media

import "mediashelf/models"

// State is the immutable search snapshot.
type State struct {
	TrendingMovies []models.MovieSummary
	TrendingShows  []models.ShowSummary
	Query          string
	SearchedMovies []models.MovieSummary
	SearchedShows  []models.ShowSummary
	LoadingMovies  bool
	LoadingShows   bool
}

// Movies is the searched list while a query is set, otherwise trending.
func Movies(s State) []models.MovieSummary {
	if s.Query != "" {
		return s.SearchedMovies
	}
	return s.TrendingMovies
}

// Shows is the searched list while a query is set, otherwise trending.
func Shows(s State) []models.ShowSummary {
	if s.Query != "" {
		return s.SearchedShows
	}
	return s.TrendingShows
}

// HasResults is always true for trending; for a search, true when either
// kind returned something.
func HasResults(s State) bool {
	if s.Query == "" {
		return true
	}
	return len(s.SearchedMovies) > 0 || len(s.SearchedShows) > 0
}

// ClearSearch drops the query and searched results, leaving trending data
// and loading flags alone.
func ClearSearch(s State) State {
	next := s
	next.Query = ""
	next.SearchedMovies = nil
	next.SearchedShows = nil
	return next
}

func results[T any](page *models.ResultPage[T]) []T {
	if page == nil || page.Results == nil {
		return []T{}
	}
	return page.Results
}
