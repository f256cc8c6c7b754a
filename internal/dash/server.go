// Package dash serves the dashboard: an embedded single-page UI plus the
// JSON/GeoJSON/SVG endpoints it renders from. The package is a pure view
// over the state store: it owns no state of its own, and its only write
// into the store is the selector's POST.
package dash

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tevino/abool"

	"github.com/agentic-research/citydash/internal/state"
)

// Server hosts the dashboard HTTP API.
type Server struct {
	store       *state.Store
	log         *slog.Logger
	hub         *liveHub
	online      *abool.AtomicBool
	unsubscribe func()

	http *http.Server
}

// New wires a Server to the store: routes for the page and API, plus a store
// subscription that pushes every committed snapshot to live websocket
// clients. Serve must be called to start listening.
func New(store *state.Store, addr string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		store:  store,
		log:    log,
		hub:    newLiveHub(log),
		online: abool.New(),
	}
	s.unsubscribe = store.Subscribe(func(snap state.Snapshot) {
		// Runs with the store lock held; encode and hand off, nothing more.
		body, err := encodeState(snap)
		if err != nil {
			s.log.Warn("encode snapshot failed", "err", err)
			return
		}
		s.hub.broadcast(body)
	})

	r := mux.NewRouter()
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/select", s.handleSelect).Methods(http.MethodPost)
	r.HandleFunc("/api/cities.geojson", s.handleGeoJSON).Methods(http.MethodGet)
	r.HandleFunc("/api/chart.svg", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/live", s.handleLive).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.http.Handler
}

// Online reports whether Serve is currently accepting connections.
func (s *Server) Online() bool {
	return s.online.IsSet()
}

// Serve runs the HTTP server until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	defer s.unsubscribe()

	errc := make(chan error, 1)
	go func() {
		s.online.Set()
		errc <- s.http.ListenAndServe()
	}()
	s.log.Info("dashboard listening", "addr", s.http.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.http.Shutdown(shutdownCtx)
		s.online.UnSet()
		s.hub.closeAll()
		s.store.Wait()
		return err
	case err := <-errc:
		s.online.UnSet()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
