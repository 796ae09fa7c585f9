package media

import (
	"context"
	"fmt"
	"strings"

	"mediashelf/models"
)

//go:generate mockgen -source=catalog.go -destination=mocks/catalog_mock.go -package=mocks

// Catalog is the subset of the media service the search store needs.
type Catalog interface {
	TrendingMovies(ctx context.Context) (*models.ResultPage[models.MovieSummary], error)
	TrendingShows(ctx context.Context) (*models.ResultPage[models.ShowSummary], error)
	SearchMovies(ctx context.Context, query string) (*models.ResultPage[models.MovieSummary], error)
	SearchShows(ctx context.Context, query string) (*models.ResultPage[models.ShowSummary], error)
}

// ApplyPolicy controls how the two concurrent search fetches publish.
type ApplyPolicy int

const (
	// ApplyIndependently publishes each kind as soon as its fetch lands.
	ApplyIndependently ApplyPolicy = iota
	// ApplyTogether waits for both fetches and publishes them in one transition.
	ApplyTogether
)

func (p ApplyPolicy) String() string {
	switch p {
	case ApplyTogether:
		return "together"
	default:
		return "independent"
	}
}

// ParseApplyPolicy accepts "independent" (or empty) and "together".
func ParseApplyPolicy(raw string) (ApplyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "independent", "independently":
		return ApplyIndependently, nil
	case "together", "joined":
		return ApplyTogether, nil
	default:
		return ApplyIndependently, fmt.Errorf("unknown apply policy %q", raw)
	}
}
