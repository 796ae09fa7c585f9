package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"mediashelf/config"
	"mediashelf/services/tmdb"
)

func main() {
	configPath := flag.String("config", "cache/settings.json", "settings file supplying the TMDB key and language")
	timeout := flag.Duration("timeout", 30*time.Second, "overall request timeout")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: tmdbdump [flags] trending-movies|trending-shows|search-movies <q>|search-shows <q>|movie <id>|show <id>|configuration")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	settings, err := config.NewManager(*configPath).Load()
	if err != nil {
		panic(err)
	}
	client, err := tmdb.NewClient(tmdb.Options{
		BaseURL:    settings.TMDB.BaseURL,
		APIKey:     settings.TMDB.APIKey,
		Language:   settings.TMDB.Language,
		PosterSize: settings.TMDB.PosterSize,
		Attempts:   uint(settings.TMDB.RetryAttempts),
	})
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := fetch(ctx, client, flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		panic(err)
	}
}

func fetch(ctx context.Context, client *tmdb.Client, command, arg string) (any, error) {
	switch command {
	case "trending-movies":
		return client.TrendingMovies(ctx)
	case "trending-shows":
		return client.TrendingShows(ctx)
	case "search-movies":
		return client.SearchMovies(ctx, arg)
	case "search-shows":
		return client.SearchShows(ctx, arg)
	case "movie", "show":
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		if command == "movie" {
			return client.MovieDetails(ctx, id)
		}
		return client.ShowDetails(ctx, id)
	case "configuration":
		return client.Configuration(ctx)
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}
