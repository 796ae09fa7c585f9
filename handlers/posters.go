package handlers

import (
	"context"
	"log"

	"mediashelf/services/tmdb"
)

type posterResolver interface {
	PosterURL(ctx context.Context, path string) (string, error)
}

var _ posterResolver = (*tmdb.Client)(nil)

// posterLookup resolves poster paths for one response. After the first
// failure the remaining lookups return "".
func posterLookup(ctx context.Context, resolver posterResolver) func(path string) string {
	failed := resolver == nil
	return func(path string) string {
		if failed || path == "" {
			return ""
		}
		url, err := resolver.PosterURL(ctx, path)
		if err != nil {
			log.Printf("[posters] resolve %s failed: %v", path, err)
			failed = true
			return ""
		}
		return url
	}
}
