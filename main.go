package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"mediashelf/config"
	"mediashelf/internal/app"
	"mediashelf/internal/logging"
	"mediashelf/utils"
)

func main() {
	configPath := flag.String("config", "cache/settings.json", "path to the JSON settings file")
	genKey := flag.Bool("gen-api-key", false, "print a random API key for server.apiKey and exit")
	flag.Parse()

	if *genKey {
		key, err := utils.GenerateAPIKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	if err := run(*configPath); err != nil {
		log.Fatalf("[main] %v", err)
	}
}

func run(configPath string) error {
	manager := config.NewManager(configPath)
	if exists, _ := afero.Exists(afero.NewOsFs(), configPath); !exists {
		if err := manager.Save(config.DefaultSettings()); err != nil {
			return fmt.Errorf("write default settings: %w", err)
		}
		log.Printf("[main] wrote default settings to %s", configPath)
	}

	settings, err := manager.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logCloser, err := logging.Setup(settings.Log.Options(), os.Stderr)
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

	server := &http.Server{
		Addr:              settings.Server.Addr(),
		Handler:           application.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[main] listening on %s", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Printf("[main] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
