// Package state holds the dashboard's three observable variables (the
// country list, the selected country, and the filtered city rows) and keeps
// them consistent while city queries complete out of order.
package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/agentic-research/citydash/internal/dataset"
)

// Querier is the read surface the store drives. *query.Engine satisfies it;
// tests substitute channel-driven fakes to control completion order.
type Querier interface {
	ListCountries(ctx context.Context) ([]string, error)
	TopCities(ctx context.Context, country string, limit int) ([]dataset.City, error)
}

// Snapshot is an immutable view of the store. Slices are copies; subscribers
// and handlers may hold one across goroutines without further locking.
type Snapshot struct {
	Countries []string       `json:"countries"`
	Selected  string         `json:"selected"`
	Cities    []dataset.City `json:"cities"`
}

// Options configure a Store.
type Options struct {
	// Preferred is picked as the initial selection if it appears in the
	// country list; otherwise the first list entry wins.
	Preferred string
	// Limit caps the filtered row set. <= 0 falls back to the engine default.
	Limit int
	// Log defaults to slog.Default.
	Log *slog.Logger
}

// Store is the reactive state container.
//
// All three variables live behind one mutex, and every mutation publishes a
// post-commit Snapshot to subscribers while the lock is held, so observers
// see commits in commit order. City queries run on their own goroutines; a
// per-selection generation counter is captured at dispatch and checked at
// commit, so a query for a superseded selection can never overwrite the rows
// of the current one, regardless of completion order.
type Store struct {
	querier   Querier
	preferred string
	limit     int
	log       *slog.Logger

	mu        sync.Mutex
	countries []string
	selected  string
	cities    []dataset.City
	gen       uint64 // bumped on every selection change
	subs      map[int]func(Snapshot)
	nextSub   int

	inflight sync.WaitGroup
}

// New creates a Store around the given querier. Call Init to run the initial
// country-list load.
func New(q Querier, opts Options) *Store {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		querier:   q,
		preferred: opts.Preferred,
		limit:     opts.Limit,
		log:       log,
		subs:      make(map[int]func(Snapshot)),
	}
}

// Init runs the one-time country-list load and applies the default-selection
// rule: the preferred country if present, else the first list entry, else no
// selection. On query failure the country list stays empty and the returned
// error is advisory: the store remains serviceable and the UI shows its
// waiting state indefinitely.
func (s *Store) Init(ctx context.Context) error {
	countries, err := s.querier.ListCountries(ctx)
	if err != nil {
		s.log.Warn("country list load failed", "err", err)
		return err
	}

	s.mu.Lock()
	s.countries = countries
	s.publishLocked()
	s.mu.Unlock()

	if len(countries) == 0 {
		return nil
	}
	def := countries[0]
	for _, c := range countries {
		if c == s.preferred {
			def = s.preferred
			break
		}
	}
	s.Select(ctx, def)
	return nil
}

// Select sets the selected country and dispatches the city query for it.
// An empty country or re-selecting the current value is a no-op. The rows
// for the previous selection are cleared immediately; the rows are never
// allowed to describe a country other than the current selection, not even
// for the duration of the reload.
func (s *Store) Select(ctx context.Context, country string) {
	if country == "" {
		return
	}

	s.mu.Lock()
	if country == s.selected {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.selected = country
	s.cities = nil
	s.publishLocked()
	s.inflight.Add(1)
	s.mu.Unlock()

	// In-flight queries are never canceled, not even when the caller (an
	// HTTP request, typically) goes away; a superseded result is dropped
	// at commit time instead.
	qctx := context.WithoutCancel(ctx)

	go func() {
		defer s.inflight.Done()
		cities, err := s.querier.TopCities(qctx, country, s.limit)
		if err != nil {
			// Failure publishes the empty state; no retry.
			s.log.Warn("city query failed", "country", country, "err", err)
			cities = nil
		}
		s.commit(gen, cities)
	}()
}

// commit installs a query result if its selection is still current; results
// for superseded selections are dropped on the floor.
func (s *Store) commit(gen uint64, cities []dataset.City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("dropping stale city rows", "selected", s.selected)
		return
	}
	s.cities = cities
	s.publishLocked()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every committed state change and returns its
// cancel function. fn runs on the committing goroutine with the store lock
// held, so it must not call back into the store; hand the Snapshot off to a
// channel if more work is needed.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Wait blocks until all dispatched city queries have committed or been
// dropped. Used on shutdown and by tests to make completion deterministic.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Selected: s.selected}
	snap.Countries = append(snap.Countries, s.countries...)
	snap.Cities = append(snap.Cities, s.cities...)
	return snap
}

func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.subs {
		fn(snap)
	}
}
