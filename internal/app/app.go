// Package app wires configuration, storage, the TMDB client and the stores
// into one running application shared by the HTTP server and the terminal UI.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/sourcegraph/conc"

	"mediashelf/config"
	"mediashelf/handlers"
	"mediashelf/internal/database"
	"mediashelf/models"
	"mediashelf/services/media"
	"mediashelf/services/notify"
	"mediashelf/services/tmdb"
	"mediashelf/services/todos"
	"mediashelf/services/watchlist"
	"mediashelf/utils"
)

const feedLimit = 50

type App struct {
	Settings  config.Settings
	DB        *database.DB
	TMDB      *tmdb.Client
	Feed      *notify.Feed
	Watchlist *watchlist.Store
	Todos     *todos.Store
	Media     *media.Store

	unsubscribe []func()
	stoppers    []func()
	wg          conc.WaitGroup
	closeOnce   sync.Once
	closeErr    error
}

// New opens the database, restores the persisted watchlist and todos and
// builds the stores. Call Start to load trending data and Close to shut down.
func New(ctx context.Context, settings config.Settings) (*App, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	db, err := database.NewDB(database.Config{DatabasePath: settings.Storage.DatabasePath})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	savedWatchlist, err := db.Repository.LoadWatchlist(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	savedTodos, err := db.Repository.LoadTodos(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load todos: %w", err)
	}

	client, err := tmdb.NewClient(tmdb.Options{
		BaseURL:    settings.TMDB.BaseURL,
		APIKey:     settings.TMDB.APIKey,
		Language:   settings.TMDB.Language,
		PosterSize: settings.TMDB.PosterSize,
		HTTPClient: &http.Client{Timeout: settings.TMDB.Timeout()},
		Attempts:   uint(settings.TMDB.RetryAttempts),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create tmdb client: %w", err)
	}
	if settings.TMDB.APIKey == "" {
		log.Printf("[app] no TMDB API key configured; catalog requests will be rejected upstream")
	}

	feed := notify.NewFeed(feedLimit)
	notifier := notify.Multi(feed, notify.Logger{Prefix: "notify"})

	a := &App{
		Settings:  settings,
		DB:        db,
		TMDB:      client,
		Feed:      feed,
		Watchlist: watchlist.NewStore(notifier, watchlist.WithItems(savedWatchlist)),
		Todos:     todos.NewStore(notifier, todos.WithTodos(savedTodos)),
		Media: media.NewStore(client,
			media.WithDebounce(settings.Search.Debounce()),
			media.WithApplyPolicy(settings.Search.Policy()),
		),
	}

	watchlistWriter := newSnapshotWriter("watchlist", func(ctx context.Context, items []models.WatchlistItem) error {
		return db.Repository.SaveWatchlist(ctx, items)
	})
	todoWriter := newSnapshotWriter("todos", func(ctx context.Context, list []models.TodoItem) error {
		return db.Repository.SaveTodos(ctx, list)
	})
	a.wg.Go(watchlistWriter.Run)
	a.wg.Go(todoWriter.Run)
	a.stoppers = append(a.stoppers, watchlistWriter.Stop, todoWriter.Stop)

	a.unsubscribe = append(a.unsubscribe,
		a.Watchlist.State().Subscribe(func(s watchlist.State) { watchlistWriter.Offer(s.Items) }),
		a.Todos.State().Subscribe(func(s todos.State) { todoWriter.Offer(s.Todos) }),
	)

	log.Printf("[app] restored %d watchlist items and %d todos", len(savedWatchlist), len(savedTodos))
	return a, nil
}

// Start loads trending movies and shows in the background.
func (a *App) Start(ctx context.Context) {
	a.wg.Go(func() {
		if err := a.Media.LoadTrending(ctx); err != nil {
			log.Printf("[app] initial trending load incomplete: %v", err)
		}
	})
}

// Handler returns the HTTP API with CORS and optional API key checks.
func (a *App) Handler() http.Handler {
	router := utils.NewRouter()
	handlers.Register(router,
		handlers.NewWatchlistHandler(a.Watchlist, a.TMDB),
		handlers.NewTodosHandler(a.Todos),
		handlers.NewMediaHandler(a.Media, a.TMDB, a.TMDB),
		handlers.NewNotificationsHandler(a.Feed),
		utils.RequireAPIKey(a.Settings.Server.APIKey),
	)
	return utils.WithCORS(router, a.Settings.Server.AllowedOrigins)
}

// Close stops the media store, writes pending snapshots and closes the
// database. It is safe to call more than once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.Media.Close()
		for _, unsubscribe := range a.unsubscribe {
			unsubscribe()
		}
		for _, stop := range a.stoppers {
			stop()
		}
		a.wg.Wait()
		a.closeErr = a.DB.Close()
	})
	return a.closeErr
}
