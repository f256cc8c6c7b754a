package dash

import (
	"encoding/json"
	"net/http"

	"github.com/agentic-research/citydash/internal/state"
)

// Display phases derived from the snapshot. "empty" doubles as the failure
// indicator: the UI does not distinguish "still loading" from "query failed".
const (
	phaseWaiting = "waiting" // no selection yet, country list may still be loading
	phaseEmpty   = "empty"   // selection made, no rows (loading, failed, or truly empty)
	phaseReady   = "ready"   // selection made, rows present
)

// stateResponse is the wire form of a snapshot plus its derived phase.
type stateResponse struct {
	state.Snapshot
	Phase string `json:"phase"`
}

func phaseOf(snap state.Snapshot) string {
	switch {
	case snap.Selected == "":
		return phaseWaiting
	case len(snap.Cities) == 0:
		return phaseEmpty
	default:
		return phaseReady
	}
}

func encodeState(snap state.Snapshot) ([]byte, error) {
	return json.Marshal(stateResponse{Snapshot: snap, Phase: phaseOf(snap)})
}

// handleHealth is the readiness probe: 200 once Serve is accepting
// connections, 503 before startup and after shutdown.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.Online() {
		http.Error(w, "not serving", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	body, err := encodeState(s.store.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}

// handleSelect is the single write path into the store: the selector control
// posts the chosen country here.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Country == "" {
		http.Error(w, "country is required", http.StatusBadRequest)
		return
	}
	s.store.Select(r.Context(), req.Country)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	w.Header().Set("Content-Type", "application/geo+json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(citiesFeatureCollection(snap.Cities)); err != nil {
		s.log.Warn("encode geojson failed", "err", err)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if phaseOf(snap) != phaseReady {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := renderBarChart(w, snap.Selected, snap.Cities); err != nil {
		s.log.Warn("render chart failed", "err", err)
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	initial, err := encodeState(s.store.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.hub.serve(w, r, initial)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardHTML))
}
