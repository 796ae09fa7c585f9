// Package media keeps trending and searched movies and shows, driven by a
// debounced search query.
package media

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"mediashelf/internal/logging"
	"mediashelf/internal/store"
	"mediashelf/models"
)

// DefaultDebounce is the quiet window before a typed query is searched.
const DefaultDebounce = 300 * time.Millisecond

// ErrClosed is returned by LoadTrending after Close.
var ErrClosed = errors.New("media store closed")

type kind int

const (
	kindMovies kind = iota
	kindShows
)

// Store coordinates search requests against a Catalog.
//
// Every dispatched query bumps a generation counter. Fetch results are only
// applied while their generation is still current, so a slow response for
// an older query can never overwrite a newer one.
type Store struct {
	catalog  Catalog
	state    *store.Store[State]
	debounce time.Duration
	policy   ApplyPolicy

	// mu guards the fields below and serializes every publication, so the
	// generation check and the state update happen as one step.
	mu              sync.Mutex
	timer           *time.Timer
	timerSeq        uint64
	pending         string
	hasPending      bool
	lastDispatched  string
	dispatchedOnce  bool
	generation      uint64
	cancelInFlight  context.CancelFunc
	trendingLoading [2]bool
	searchPending   [2]bool
	closed          bool

	baseCtx context.Context
	stop    context.CancelFunc
	wg      conc.WaitGroup
}

type Option func(*Store)

// WithDebounce sets the quiet window. Zero or negative dispatches immediately.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

func WithApplyPolicy(p ApplyPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// NewStore returns a store with empty trending lists. Call LoadTrending once
// at startup and Close on shutdown.
func NewStore(catalog Catalog, opts ...Option) *Store {
	ctx, stop := context.WithCancel(context.Background())
	s := &Store{
		catalog:  catalog,
		state:    store.New(State{}),
		debounce: DefaultDebounce,
		policy:   ApplyIndependently,
		baseCtx:  ctx,
		stop:     stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State exposes the read side. Subscribers run while the store is locked and
// must not call back into Search, ClearSearch or Flush synchronously.
func (s *Store) State() store.Reader[State] {
	return s.state
}

// Policy reports how concurrent fetches are applied.
func (s *Store) Policy() ApplyPolicy {
	return s.policy
}

// LoadTrending fetches trending movies and shows concurrently. A failure of
// one kind is logged and returned but does not prevent the other from being
// published.
func (s *Store) LoadTrending(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.trendingLoading = [2]bool{true, true}
	s.publishLocked(func(cur State) State { return s.withLoadingFlags(cur) })
	s.mu.Unlock()

	p := pool.New().WithErrors()
	p.Go(func() error {
		page, err := s.catalog.TrendingMovies(ctx)
		s.finishTrending(kindMovies, func(cur State) State {
			if err == nil {
				cur.TrendingMovies = results(page)
			}
			return cur
		})
		if err != nil {
			log.Printf("[media] trending movies failed: %v", err)
			return fmt.Errorf("trending movies: %w", err)
		}
		return nil
	})
	p.Go(func() error {
		page, err := s.catalog.TrendingShows(ctx)
		s.finishTrending(kindShows, func(cur State) State {
			if err == nil {
				cur.TrendingShows = results(page)
			}
			return cur
		})
		if err != nil {
			log.Printf("[media] trending shows failed: %v", err)
			return fmt.Errorf("trending shows: %w", err)
		}
		return nil
	})
	return p.Wait()
}

func (s *Store) finishTrending(k kind, apply func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trendingLoading[k] = false
	s.publishLocked(func(cur State) State {
		return s.withLoadingFlags(apply(cur))
	})
}

// Search records query and dispatches it once the debounce window passes
// without another call.
func (s *Store) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.debounce <= 0 {
		s.dispatchLocked(query)
		return
	}

	s.pending = query
	s.hasPending = true
	s.resetTimerLocked()

	s.timerSeq++
	seq := s.timerSeq
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(seq) })
}

// Flush dispatches a pending query without waiting for the debounce window.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.hasPending {
		return
	}
	s.resetTimerLocked()
	s.timerSeq++
	query := s.pending
	s.hasPending = false
	s.dispatchLocked(query)
}

func (s *Store) fire(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A later Search or ClearSearch replaced this timer after it had fired.
	if s.closed || !s.hasPending || seq != s.timerSeq {
		return
	}
	query := s.pending
	s.hasPending = false
	s.timer = nil
	s.dispatchLocked(query)
}

func (s *Store) resetTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) dispatchLocked(query string) {
	if s.dispatchedOnce && query == s.lastDispatched {
		return
	}
	s.dispatchedOnce = true
	s.lastDispatched = query

	s.generation++
	gen := s.generation
	if s.cancelInFlight != nil {
		s.cancelInFlight()
		s.cancelInFlight = nil
	}

	if query == "" {
		s.searchPending = [2]bool{}
		s.publishLocked(func(cur State) State {
			cur.Query = ""
			return s.withLoadingFlags(cur)
		})
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancelInFlight = cancel
	s.searchPending = [2]bool{true, true}
	s.publishLocked(func(cur State) State {
		cur.Query = query
		return s.withLoadingFlags(cur)
	})

	s.wg.Go(func() {
		defer cancel()
		s.runSearch(ctx, gen, query)
	})
}

func (s *Store) runSearch(ctx context.Context, gen uint64, query string) {
	var fetches conc.WaitGroup

	if s.policy == ApplyTogether {
		var (
			movies    *models.ResultPage[models.MovieSummary]
			shows     *models.ResultPage[models.ShowSummary]
			moviesErr error
			showsErr  error
		)
		fetches.Go(func() { movies, moviesErr = s.catalog.SearchMovies(ctx, query) })
		fetches.Go(func() { shows, showsErr = s.catalog.SearchShows(ctx, query) })
		fetches.Wait()

		s.applySearch(gen, query, func(cur State) State {
			cur = applyMovies(cur, query, movies, moviesErr)
			return applyShows(cur, query, shows, showsErr)
		}, kindMovies, kindShows)
		return
	}

	fetches.Go(func() {
		page, err := s.catalog.SearchMovies(ctx, query)
		s.applySearch(gen, query, func(cur State) State {
			return applyMovies(cur, query, page, err)
		}, kindMovies)
	})
	fetches.Go(func() {
		page, err := s.catalog.SearchShows(ctx, query)
		s.applySearch(gen, query, func(cur State) State {
			return applyShows(cur, query, page, err)
		}, kindShows)
	})
	fetches.Wait()
}

func applyMovies(cur State, query string, page *models.ResultPage[models.MovieSummary], err error) State {
	if err != nil {
		log.Printf("[media] search movies %q failed: %v", query, err)
		return cur
	}
	cur.SearchedMovies = results(page)
	return cur
}

func applyShows(cur State, query string, page *models.ResultPage[models.ShowSummary], err error) State {
	if err != nil {
		log.Printf("[media] search shows %q failed: %v", query, err)
		return cur
	}
	cur.SearchedShows = results(page)
	return cur
}

func (s *Store) applySearch(gen uint64, query string, apply func(State) State, kinds ...kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if gen != s.generation {
		logging.Debugf("[media] discarding superseded results for %q", query)
		return
	}
	for _, k := range kinds {
		s.searchPending[k] = false
	}
	s.publishLocked(func(cur State) State {
		return s.withLoadingFlags(apply(cur))
	})
}

// ClearSearch resets the query and searched results in one transition. It
// also drops a query still waiting in the debounce window and forgets the
// last dispatched query so the same text can be searched again.
func (s *Store) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetTimerLocked()
	s.timerSeq++
	s.hasPending = false
	s.pending = ""
	s.dispatchedOnce = false
	s.lastDispatched = ""

	s.publishLocked(ClearSearch)
}

// Close stops the debounce timer, cancels in-flight fetches and waits for
// their goroutines to finish.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.resetTimerLocked()
	s.timerSeq++
	s.hasPending = false
	s.stop()
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Store) withLoadingFlags(cur State) State {
	cur.LoadingMovies = s.trendingLoading[kindMovies] || s.searchPending[kindMovies]
	cur.LoadingShows = s.trendingLoading[kindShows] || s.searchPending[kindShows]
	return cur
}

func (s *Store) publishLocked(transition func(State) State) {
	s.state.Update(func(cur State) (State, bool) {
		return transition(cur), true
	})
}

// Query returns the current search text.
func (s *Store) Query() string {
	return s.state.Snapshot().Query
}

func (s *Store) Movies() []models.MovieSummary {
	return slices.Clone(Movies(s.state.Snapshot()))
}

func (s *Store) Shows() []models.ShowSummary {
	return slices.Clone(Shows(s.state.Snapshot()))
}

func (s *Store) HasResults() bool {
	return HasResults(s.state.Snapshot())
}

// Loading reports the per-kind loading flags.
func (s *Store) Loading() (movies, shows bool) {
	st := s.state.Snapshot()
	return st.LoadingMovies, st.LoadingShows
}
