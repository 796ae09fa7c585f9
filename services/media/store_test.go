package media_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"mediashelf/models"
	"mediashelf/services/media"
	"mediashelf/services/media/mocks"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func moviePage(titles ...string) *models.ResultPage[models.MovieSummary] {
	page := &models.ResultPage[models.MovieSummary]{Page: 1}
	for i, title := range titles {
		page.Results = append(page.Results, models.MovieSummary{ID: i + 1, Title: title})
	}
	page.TotalResults = len(page.Results)
	return page
}

func showPage(names ...string) *models.ResultPage[models.ShowSummary] {
	page := &models.ResultPage[models.ShowSummary]{Page: 1}
	for i, name := range names {
		page.Results = append(page.Results, models.ShowSummary{ID: i + 100, Name: name})
	}
	page.TotalResults = len(page.Results)
	return page
}

func movieTitles(movies []models.MovieSummary) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func showNames(shows []models.ShowSummary) []string {
	out := make([]string, 0, len(shows))
	for _, s := range shows {
		out = append(out, s.Name)
	}
	return out
}

// gatedCatalog blocks each search until its query gate is released, which
// lets tests control the order in which responses land.
type gatedCatalog struct {
	mu         sync.Mutex
	movieGates map[string]chan struct{}
	showGates  map[string]chan struct{}
	movieCalls []string
	showCalls  []string
	returned   map[string]int
	trending   *models.ResultPage[models.MovieSummary]
	trendingTV *models.ResultPage[models.ShowSummary]
}

func newGatedCatalog() *gatedCatalog {
	return &gatedCatalog{
		movieGates: make(map[string]chan struct{}),
		showGates:  make(map[string]chan struct{}),
		returned:   make(map[string]int),
		trending:   moviePage(),
		trendingTV: showPage(),
	}
}

func (c *gatedCatalog) gate(gates map[string]chan struct{}, query string) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := gates[query]
	if !ok {
		ch = make(chan struct{})
		gates[query] = ch
	}
	return ch
}

func (c *gatedCatalog) releaseMovies(query string) { close(c.gate(c.movieGates, query)) }
func (c *gatedCatalog) releaseShows(query string)  { close(c.gate(c.showGates, query)) }
func (c *gatedCatalog) release(query string) {
	c.releaseMovies(query)
	c.releaseShows(query)
}

func (c *gatedCatalog) calls() ([]string, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.movieCalls...), append([]string(nil), c.showCalls...)
}

// returnedCount reports how many searches for query have come back from
// the catalog, movies and shows combined.
func (c *gatedCatalog) returnedCount(query string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.returned[query]
}

func (c *gatedCatalog) markReturned(query string) {
	c.mu.Lock()
	c.returned[query]++
	c.mu.Unlock()
}

func (c *gatedCatalog) TrendingMovies(context.Context) (*models.ResultPage[models.MovieSummary], error) {
	return c.trending, nil
}

func (c *gatedCatalog) TrendingShows(context.Context) (*models.ResultPage[models.ShowSummary], error) {
	return c.trendingTV, nil
}

func (c *gatedCatalog) SearchMovies(_ context.Context, query string) (*models.ResultPage[models.MovieSummary], error) {
	c.mu.Lock()
	c.movieCalls = append(c.movieCalls, query)
	c.mu.Unlock()

	<-c.gate(c.movieGates, query)
	defer c.markReturned(query)
	return moviePage("movie:" + query), nil
}

func (c *gatedCatalog) SearchShows(_ context.Context, query string) (*models.ResultPage[models.ShowSummary], error) {
	c.mu.Lock()
	c.showCalls = append(c.showCalls, query)
	c.mu.Unlock()

	<-c.gate(c.showGates, query)
	defer c.markReturned(query)
	return showPage("show:" + query), nil
}

func TestMoviesSwitchFromTrendingToSearch(t *testing.T) {
	catalog := newGatedCatalog()
	catalog.trending = moviePage("A", "B")
	store := media.NewStore(catalog, media.WithDebounce(0))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.LoadTrending(context.Background()))
	require.Equal(t, []string{"A", "B"}, movieTitles(store.Movies()))
	require.True(t, store.HasResults())

	catalog.release("x")
	store.Search("x")

	require.Eventually(t, func() bool {
		loadingMovies, loadingShows := store.Loading()
		return !loadingMovies && !loadingShows
	}, waitFor, tick)
	require.Equal(t, "x", store.Query())
	require.Equal(t, []string{"movie:x"}, movieTitles(store.Movies()))
	require.Equal(t, []string{"show:x"}, showNames(store.Shows()))
}

func TestQueryIsVisibleBeforeResultsArrive(t *testing.T) {
	catalog := newGatedCatalog()
	store := media.NewStore(catalog, media.WithDebounce(0))
	t.Cleanup(func() { _ = store.Close() })

	store.Search("dune")

	st := store.State().Snapshot()
	require.Equal(t, "dune", st.Query)
	require.True(t, st.LoadingMovies)
	require.True(t, st.LoadingShows)
	require.Empty(t, store.Movies(), "searched view must not fall back to trending")

	catalog.release("dune")
}

func TestLateResponseDoesNotOverwriteNewerSearch(t *testing.T) {
	catalog := newGatedCatalog()
	store := media.NewStore(catalog, media.WithDebounce(0))

	store.Search("x")
	store.Search("y")

	catalog.release("y")
	require.Eventually(t, func() bool {
		st := store.State().Snapshot()
		return !st.LoadingMovies && !st.LoadingShows
	}, waitFor, tick)

	version := store.State().Version()
	catalog.release("x")
	require.Eventually(t, func() bool { return catalog.returnedCount("x") == 2 }, waitFor, tick)
	assert.Never(t, func() bool {
		return store.State().Version() != version
	}, 100*time.Millisecond, tick, "late results for x must not publish")

	st := store.State().Snapshot()
	assert.Equal(t, "y", st.Query)
	assert.Equal(t, []string{"movie:y"}, movieTitles(st.SearchedMovies))
	assert.Equal(t, []string{"show:y"}, showNames(st.SearchedShows))
	require.NoError(t, store.Close())
}

func TestDebounceCoalescesRapidCalls(t *testing.T) {
	catalog := newGatedCatalog()
	catalog.release("abc")
	store := media.NewStore(catalog, media.WithDebounce(30*time.Millisecond))
	t.Cleanup(func() { _ = store.Close() })

	store.Search("a")
	store.Search("ab")
	store.Search("abc")

	require.Eventually(t, func() bool {
		movies, shows := catalog.calls()
		return len(movies) == 1 && len(shows) == 1
	}, waitFor, tick)

	movies, _ := catalog.calls()
	require.Equal(t, []string{"abc"}, movies)

	// Nothing else fires after the window.
	assert.Never(t, func() bool {
		movies, _ := catalog.calls()
		return len(movies) > 1
	}, 100*time.Millisecond, tick)
}

func TestRepeatedQueryIsSuppressed(t *testing.T) {
	catalog := newGatedCatalog()
	catalog.release("same")
	store := media.NewStore(catalog, media.WithDebounce(time.Hour))
	t.Cleanup(func() { _ = store.Close() })

	store.Search("same")
	store.Flush()
	require.Eventually(t, func() bool {
		movies, shows := store.Loading()
		return !movies && !shows
	}, waitFor, tick)

	version := store.State().Version()
	store.Search("same")
	store.Flush()

	movies, _ := catalog.calls()
	require.Len(t, movies, 1)
	require.Equal(t, version, store.State().Version(), "suppressed query must not change state")
}

func TestEmptyQueryCancelsPendingSearch(t *testing.T) {
	catalog := newGatedCatalog()
	store := media.NewStore(catalog, media.WithDebounce(0))

	store.Search("x")
	store.Search("")

	st := store.State().Snapshot()
	require.Equal(t, "", st.Query)
	require.False(t, st.LoadingMovies)
	require.False(t, st.LoadingShows)

	version := store.State().Version()
	catalog.release("x")
	require.Eventually(t, func() bool { return catalog.returnedCount("x") == 2 }, waitFor, tick)
	assert.Never(t, func() bool {
		return store.State().Version() != version
	}, 100*time.Millisecond, tick, "results for x must not publish after the empty query")

	st = store.State().Snapshot()
	require.Equal(t, "", st.Query)
	require.Empty(t, st.SearchedMovies)
	require.Empty(t, st.SearchedShows)
	require.NoError(t, store.Close())

	movies, _ := catalog.calls()
	require.Equal(t, []string{"x"}, movies, "empty query must not reach the catalog")
}

func TestSupersededFetchContextIsCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)

	cancelled := make(chan struct{})
	catalog.EXPECT().SearchMovies(gomock.Any(), "slow").DoAndReturn(
		func(ctx context.Context, _ string) (*models.ResultPage[models.MovieSummary], error) {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		})
	catalog.EXPECT().SearchShows(gomock.Any(), "slow").Return(showPage("slow show"), nil)
	catalog.EXPECT().SearchMovies(gomock.Any(), "fast").Return(moviePage("fast movie"), nil)
	catalog.EXPECT().SearchShows(gomock.Any(), "fast").Return(showPage("fast show"), nil)

	store := media.NewStore(catalog, media.WithDebounce(0))
	store.Search("slow")
	store.Search("fast")

	select {
	case <-cancelled:
	case <-time.After(waitFor):
		t.Fatalf("expected superseded fetch to observe cancellation")
	}

	require.Eventually(t, func() bool {
		movies, shows := store.Loading()
		return !movies && !shows
	}, waitFor, tick)
	require.NoError(t, store.Close())
	require.Equal(t, []string{"fast movie"}, movieTitles(store.Movies()))
	require.Equal(t, []string{"fast show"}, showNames(store.Shows()))
}

func TestFailedKindKeepsOldResultsAndClearsItsFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)

	catalog.EXPECT().SearchMovies(gomock.Any(), "first").Return(moviePage("kept"), nil)
	catalog.EXPECT().SearchShows(gomock.Any(), "first").Return(showPage("old show"), nil)
	catalog.EXPECT().SearchMovies(gomock.Any(), "second").Return(nil, errors.New("tmdb unavailable"))
	catalog.EXPECT().SearchShows(gomock.Any(), "second").Return(showPage("new show"), nil)

	store := media.NewStore(catalog, media.WithDebounce(0))
	t.Cleanup(func() { _ = store.Close() })

	store.Search("first")
	require.Eventually(t, func() bool {
		movies, shows := store.Loading()
		return !movies && !shows
	}, waitFor, tick)

	store.Search("second")
	require.Eventually(t, func() bool {
		movies, shows := store.Loading()
		return !movies && !shows
	}, waitFor, tick)

	require.Equal(t, []string{"kept"}, movieTitles(store.Movies()))
	require.Equal(t, []string{"new show"}, showNames(store.Shows()))
	require.True(t, store.HasResults())
}

func TestApplyPolicies(t *testing.T) {
	cases := []struct {
		name               string
		policy             media.ApplyPolicy
		moviesVisibleEarly bool
	}{
		{name: "independent", policy: media.ApplyIndependently, moviesVisibleEarly: true},
		{name: "together", policy: media.ApplyTogether, moviesVisibleEarly: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			catalog := newGatedCatalog()
			store := media.NewStore(catalog, media.WithDebounce(0), media.WithApplyPolicy(tc.policy))

			store.Search("q")
			catalog.releaseMovies("q")

			moviesLanded := func() bool {
				return len(store.State().Snapshot().SearchedMovies) == 1
			}
			if tc.moviesVisibleEarly {
				require.Eventually(t, moviesLanded, waitFor, tick)
				_, showsLoading := store.Loading()
				require.True(t, showsLoading, "shows must still be loading")
			} else {
				require.Never(t, moviesLanded, 100*time.Millisecond, tick)
			}

			catalog.releaseShows("q")
			require.Eventually(t, func() bool {
				movies, shows := store.Loading()
				return !movies && !shows
			}, waitFor, tick)
			require.NoError(t, store.Close())

			st := store.State().Snapshot()
			require.Equal(t, []string{"movie:q"}, movieTitles(st.SearchedMovies))
			require.Equal(t, []string{"show:q"}, showNames(st.SearchedShows))
			require.False(t, st.LoadingMovies)
			require.False(t, st.LoadingShows)
		})
	}
}

func TestClearSearch(t *testing.T) {
	catalog := newGatedCatalog()
	catalog.trending = moviePage("T1")
	catalog.release("x")
	store := media.NewStore(catalog, media.WithDebounce(0))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.LoadTrending(context.Background()))
	store.Search("x")
	require.Eventually(t, func() bool {
		movies, shows := store.Loading()
		return !movies && !shows
	}, waitFor, tick)

	version := store.State().Version()
	store.ClearSearch()

	st := store.State().Snapshot()
	require.Equal(t, version+1, store.State().Version(), "clear must be one transition")
	require.Equal(t, "", st.Query)
	require.Empty(t, st.SearchedMovies)
	require.Empty(t, st.SearchedShows)
	require.Equal(t, []string{"T1"}, movieTitles(store.Movies()))

	// The same text can be searched again after clearing.
	store.Search("x")
	require.Eventually(t, func() bool {
		movies, _ := catalog.calls()
		return len(movies) == 2
	}, waitFor, tick)
}

func TestClearSearchDropsPendingDebouncedQuery(t *testing.T) {
	catalog := newGatedCatalog()
	store := media.NewStore(catalog, media.WithDebounce(20*time.Millisecond))
	t.Cleanup(func() { _ = store.Close() })

	store.Search("typed")
	store.ClearSearch()

	assert.Never(t, func() bool {
		movies, _ := catalog.calls()
		return len(movies) > 0
	}, 100*time.Millisecond, tick)
	require.Equal(t, "", store.Query())
}

func TestHasResultsForEmptySearch(t *testing.T) {
	st := media.State{Query: "zzz"}
	require.False(t, media.HasResults(st))

	st.SearchedShows = []models.ShowSummary{{ID: 1}}
	require.True(t, media.HasResults(st))

	require.True(t, media.HasResults(media.State{}))
}

func TestLoadTrendingReportsPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)
	boom := errors.New("boom")

	catalog.EXPECT().TrendingMovies(gomock.Any()).Return(nil, boom)
	catalog.EXPECT().TrendingShows(gomock.Any()).Return(showPage("Andor"), nil)

	store := media.NewStore(catalog)
	t.Cleanup(func() { _ = store.Close() })

	err := store.LoadTrending(context.Background())
	require.ErrorIs(t, err, boom)
	require.Empty(t, store.Movies())
	require.Equal(t, []string{"Andor"}, showNames(store.Shows()))

	movies, shows := store.Loading()
	require.False(t, movies)
	require.False(t, shows)
}

func TestClosedStoreIgnoresSearches(t *testing.T) {
	catalog := newGatedCatalog()
	store := media.NewStore(catalog, media.WithDebounce(0))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	store.Search("ignored")
	movies, _ := catalog.calls()
	require.Empty(t, movies)
	require.ErrorIs(t, store.LoadTrending(context.Background()), media.ErrClosed)
}

func TestParseApplyPolicy(t *testing.T) {
	policy, err := media.ParseApplyPolicy("together")
	require.NoError(t, err)
	require.Equal(t, media.ApplyTogether, policy)

	policy, err = media.ParseApplyPolicy("")
	require.NoError(t, err)
	require.Equal(t, media.ApplyIndependently, policy)

	_, err = media.ParseApplyPolicy("sometimes")
	require.Error(t, err)
}
