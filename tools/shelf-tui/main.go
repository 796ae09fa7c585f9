package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"mediashelf/config"
	"mediashelf/internal/app"
	"mediashelf/internal/logging"
	"mediashelf/internal/tui"
)

func main() {
	configPath := flag.String("config", "cache/settings.json", "path to the JSON settings file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	settings, err := config.NewManager(configPath).Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// The terminal belongs to the UI; logs only go to the rotating file.
	logCloser, err := logging.Setup(settings.Log.Options(), nil)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, settings)
	if err != nil {
		return err
	}
	defer application.Close()
	application.Start(ctx)

	model := tui.New(tui.Deps{
		Watchlist: application.Watchlist,
		Todos:     application.Todos,
		Media:     application.Media,
		Feed:      application.Feed,
	})
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
