package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediashelf/config"
	"mediashelf/internal/app"
	"mediashelf/models"
)

func fakeTMDB(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/trending/movie/day":
			w.Write([]byte(`{"page":1,"results":[{"id":438631,"title":"Dune"}]}`))
		case "/trending/tv/day":
			w.Write([]byte(`{"page":1,"results":[{"id":95396,"name":"Severance"}]}`))
		case "/search/movie":
			w.Write([]byte(`{"page":1,"results":[{"id":348,"title":"Alien","poster_path":"/alien.jpg"}]}`))
		case "/configuration":
			w.Write([]byte(`{"images":{"base_url":"http://image.tmdb.org/t/p/","secure_base_url":"https://image.tmdb.org/t/p/"}}`))
		case "/search/tv":
			w.Write([]byte(`{"page":1,"results":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSettings(t *testing.T, dbPath, baseURL string) config.Settings {
	t.Helper()

	settings := config.DefaultSettings()
	settings.Storage.DatabasePath = dbPath
	settings.TMDB.BaseURL = baseURL
	settings.TMDB.APIKey = "token"
	settings.Search.DebounceMillis = 0
	return settings
}

func TestStateSurvivesRestart(t *testing.T) {
	srv := fakeTMDB(t)
	dbPath := filepath.Join(t.TempDir(), "shelf.db")
	ctx := context.Background()

	first, err := app.New(ctx, testSettings(t, dbPath, srv.URL))
	require.NoError(t, err)

	require.True(t, first.Watchlist.Add(models.WatchlistCandidate{ID: 438631, Type: models.MediaTypeMovie, Title: "Dune"}))
	require.True(t, first.Watchlist.ToggleWatched(438631, models.MediaTypeMovie))
	_, ok := first.Todos.Add("Buy milk")
	require.True(t, ok)
	first.Todos.SetFilter(models.TodoFilterCompleted)
	require.NoError(t, first.Close())
	require.NoError(t, first.Close())

	second, err := app.New(ctx, testSettings(t, dbPath, srv.URL))
	require.NoError(t, err)
	defer second.Close()

	items := second.Watchlist.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Dune", items[0].Title)
	assert.True(t, items[0].IsWatched)

	todos := second.Todos.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.Equal(t, models.TodoFilterAll, second.Todos.Filter())
}

func TestHandlerServesLiveState(t *testing.T) {
	srv := fakeTMDB(t)
	ctx := context.Background()

	a, err := app.New(ctx, testSettings(t, filepath.Join(t.TempDir(), "shelf.db"), srv.URL))
	require.NoError(t, err)
	defer a.Close()

	a.Start(ctx)
	require.Eventually(t, func() bool {
		movies, shows := a.Media.Loading()
		return !movies && !shows && len(a.Media.Movies()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	handler := a.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	a.Media.Search("alien")
	require.Eventually(t, func() bool {
		movies := a.Media.Movies()
		return len(movies) == 1 && movies[0].Title == "Alien"
	}, 2*time.Second, 10*time.Millisecond)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Query  string `json:"query"`
		Movies []struct {
			Title     string `json:"title"`
			PosterURL string `json:"posterUrl"`
		} `json:"movies"`
		Shows      []models.ShowSummary `json:"shows"`
		HasResults bool                 `json:"hasResults"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alien", body.Query)
	assert.True(t, body.HasResults)
	require.Len(t, body.Movies, 1)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/alien.jpg", body.Movies[0].PosterURL)
	assert.Empty(t, body.Shows)
}

func TestAPIKeyProtectsAPI(t *testing.T) {
	srv := fakeTMDB(t)
	settings := testSettings(t, filepath.Join(t.TempDir(), "shelf.db"), srv.URL)
	settings.Server.APIKey = "letmein"

	a, err := app.New(context.Background(), settings)
	require.NoError(t, err)
	defer a.Close()

	handler := a.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer letmein")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Server.Port = -1

	_, err := app.New(context.Background(), settings)
	require.Error(t, err)
}
