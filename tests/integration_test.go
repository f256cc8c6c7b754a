package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/citydash/internal/dataset"
	"github.com/agentic-research/citydash/internal/query"
	"github.com/agentic-research/citydash/internal/state"
)

const remoteCSV = `name,country,population,latitude,longitude
New York,USA,8000000,40.7,-74.0
Los Angeles,USA,3900000,34.0,-118.2
Chicago,USA,2700000,41.9,-87.6
Toronto,Canada,2930000,43.7,-79.4
Montreal,Canada,1760000,45.5,-73.6
Tokyo,Japan,37400000,35.6,139.6
`

// testFixture bundles the full pipeline: a fake remote dataset host, the
// SQLite snapshot built from it, and a store driven by a real engine.
type testFixture struct {
	engine *query.Engine
	store  *state.Store
}

func setupFixture(t *testing.T, preferred string) *testFixture {
	t.Helper()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remoteCSV))
	}))
	t.Cleanup(remote.Close)

	dbPath := filepath.Join(t.TempDir(), "cities.db")
	n, err := dataset.Build(context.Background(), remote.URL, dbPath)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	engine, err := query.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	return &testFixture{
		engine: engine,
		store:  state.New(engine, state.Options{Preferred: preferred}),
	}
}

func TestEndToEndDefaultSelection(t *testing.T) {
	fx := setupFixture(t, "USA")

	require.NoError(t, fx.store.Init(context.Background()))
	fx.store.Wait()

	snap := fx.store.Snapshot()
	assert.Equal(t, []string{"Canada", "Japan", "USA"}, snap.Countries)
	assert.Equal(t, "USA", snap.Selected)
	require.Len(t, snap.Cities, 3)
	assert.Equal(t, "New York", snap.Cities[0].Name)
	assert.Equal(t, "Los Angeles", snap.Cities[1].Name)
	assert.Equal(t, "Chicago", snap.Cities[2].Name)
}

func TestEndToEndSelectionChange(t *testing.T) {
	fx := setupFixture(t, "USA")
	ctx := context.Background()

	require.NoError(t, fx.store.Init(ctx))
	fx.store.Wait()

	fx.store.Select(ctx, "Japan")
	fx.store.Wait()

	snap := fx.store.Snapshot()
	assert.Equal(t, "Japan", snap.Selected)
	require.Len(t, snap.Cities, 1)
	assert.Equal(t, "Tokyo", snap.Cities[0].Name)
	for _, c := range snap.Cities {
		assert.Equal(t, "Japan", c.Country)
	}
}

func TestEndToEndUnreachableHost(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := remote.URL
	remote.Close()

	_, err := dataset.Build(context.Background(), url, filepath.Join(t.TempDir(), "cities.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrUnreachable)

	// A store over an engine with no snapshot keeps waiting: empty country
	// list, no selection, no crash.
	engine, err := query.Open(filepath.Join(t.TempDir(), "missing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	store := state.New(engine, state.Options{Preferred: "USA"})
	require.Error(t, store.Init(context.Background()))
	store.Wait()

	snap := store.Snapshot()
	assert.Empty(t, snap.Countries)
	assert.Empty(t, snap.Selected)
	assert.Empty(t, snap.Cities)
}
