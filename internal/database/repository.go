package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mediashelf/models"
)

// Repository persists whole-list snapshots of the watchlist and todos.
// Each save replaces the stored list inside one transaction, keeping the
// in-memory order in the position column.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) LoadWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT media_id, media_type, title, poster_path, is_watched, added_at
		FROM watchlist_items
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	items := []models.WatchlistItem{}
	for rows.Next() {
		var (
			item      models.WatchlistItem
			mediaType string
			addedAt   string
		)
		if err := rows.Scan(&item.ID, &mediaType, &item.Title, &item.PosterPath, &item.IsWatched, &addedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		if item.Type, err = models.ParseMediaType(mediaType); err != nil {
			return nil, fmt.Errorf("watchlist item %d: %w", item.ID, err)
		}
		if item.AddedAt, err = parseTime(addedAt); err != nil {
			return nil, fmt.Errorf("watchlist item %d added_at: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}
	return items, nil
}

func (r *Repository) SaveWatchlist(ctx context.Context, items []models.WatchlistItem) error {
	return r.replace(ctx, "watchlist_items", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO watchlist_items (media_id, media_type, title, poster_path, is_watched, added_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, item := range items {
			if _, err := stmt.ExecContext(ctx, item.ID, string(item.Type), item.Title, item.PosterPath,
				item.IsWatched, formatTime(item.AddedAt), i); err != nil {
				return fmt.Errorf("insert watchlist item %s: %w", item.Key(), err)
			}
		}
		return nil
	})
}

func (r *Repository) LoadTodos(ctx context.Context) ([]models.TodoItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, completed, created_at
		FROM todos
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []models.TodoItem{}
	for rows.Next() {
		var (
			todo      models.TodoItem
			createdAt string
		)
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Completed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		if todo.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("todo %s created_at: %w", todo.ID, err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

func (r *Repository) SaveTodos(ctx context.Context, todos []models.TodoItem) error {
	return r.replace(ctx, "todos", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO todos (id, title, completed, created_at, position)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, todo := range todos {
			if _, err := stmt.ExecContext(ctx, todo.ID, todo.Title, todo.Completed, formatTime(todo.CreatedAt), i); err != nil {
				return fmt.Errorf("insert todo %s: %w", todo.ID, err)
			}
		}
		return nil
	})
}

// replace clears table and refills it with insert inside one transaction.
func (r *Repository) replace(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}
