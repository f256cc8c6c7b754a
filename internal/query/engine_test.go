package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/citydash/internal/dataset"
)

func testCities() []dataset.City {
	return []dataset.City{
		{Name: "New York", Country: "USA", Population: 8000000, Latitude: 40.7, Longitude: -74.0},
		{Name: "Los Angeles", Country: "USA", Population: 3900000, Latitude: 34.0, Longitude: -118.2},
		{Name: "Chicago", Country: "USA", Population: 2700000, Latitude: 41.9, Longitude: -87.6},
		{Name: "Toronto", Country: "Canada", Population: 2930000, Latitude: 43.7, Longitude: -79.4},
		{Name: "Tokyo", Country: "Japan", Population: 37400000, Latitude: 35.6, Longitude: 139.6},
		{Name: "Osaka", Country: "Japan", Population: 19200000, Latitude: 34.7, Longitude: 135.5},
	}
}

func openTestEngine(t *testing.T, cities []dataset.City) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cities.db")
	require.NoError(t, dataset.WriteSnapshot(dbPath, cities))
	engine, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func TestListCountries(t *testing.T) {
	engine := openTestEngine(t, testCities())

	countries, err := engine.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Canada", "Japan", "USA"}, countries, "distinct and lexicographically sorted")
}

func TestTopCitiesOrderAndFilter(t *testing.T) {
	engine := openTestEngine(t, testCities())
	ctx := context.Background()

	countries, err := engine.ListCountries(ctx)
	require.NoError(t, err)

	// Every row returned for a country belongs to that country, sorted by
	// population descending.
	for _, country := range countries {
		cities, err := engine.TopCities(ctx, country, 10)
		require.NoError(t, err)
		require.NotEmpty(t, cities)
		for i, c := range cities {
			assert.Equal(t, country, c.Country)
			if i > 0 {
				assert.GreaterOrEqual(t, cities[i-1].Population, c.Population)
			}
		}
	}
}

func TestTopCitiesUSAOrdering(t *testing.T) {
	engine := openTestEngine(t, []dataset.City{
		{Name: "New York", Country: "USA", Population: 8000000, Latitude: 40.7, Longitude: -74.0},
		{Name: "Los Angeles", Country: "USA", Population: 3900000, Latitude: 34.0, Longitude: -118.2},
	})

	cities, err := engine.TopCities(context.Background(), "USA", 10)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "New York", cities[0].Name)
	assert.Equal(t, "Los Angeles", cities[1].Name)
}

func TestTopCitiesLimit(t *testing.T) {
	engine := openTestEngine(t, testCities())

	cities, err := engine.TopCities(context.Background(), "USA", 2)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "New York", cities[0].Name)
	assert.Equal(t, "Los Angeles", cities[1].Name)
}

func TestTopCitiesDefaultLimit(t *testing.T) {
	var cities []dataset.City
	for i := 0; i < 15; i++ {
		cities = append(cities, dataset.City{
			Name:       string(rune('A' + i)),
			Country:    "X",
			Population: int64(1000 - i),
		})
	}
	engine := openTestEngine(t, cities)

	got, err := engine.TopCities(context.Background(), "X", 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultLimit)
}

func TestTopCitiesIdempotent(t *testing.T) {
	engine := openTestEngine(t, testCities())
	ctx := context.Background()

	first, err := engine.TopCities(ctx, "Japan", 10)
	require.NoError(t, err)
	second, err := engine.TopCities(ctx, "Japan", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTopCitiesEmptyCountryShortCircuits(t *testing.T) {
	engine := openTestEngine(t, testCities())

	cities, err := engine.TopCities(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Nil(t, cities)
}

func TestTopCitiesUnknownCountry(t *testing.T) {
	engine := openTestEngine(t, testCities())

	cities, err := engine.TopCities(context.Background(), "Atlantis", 10)
	require.NoError(t, err, "zero rows is a valid empty result, not a failure")
	assert.Empty(t, cities)
}

// Country names are data, not SQL. A hostile value must come back empty, not
// execute.
func TestTopCitiesParameterized(t *testing.T) {
	engine := openTestEngine(t, testCities())

	cities, err := engine.TopCities(context.Background(), "USA' OR '1'='1", 10)
	require.NoError(t, err)
	assert.Empty(t, cities)
}

func TestQueryErrorOnMissingSnapshot(t *testing.T) {
	engine, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	require.NoError(t, err, "open is lazy; the failure surfaces on first query")

	_, err = engine.ListCountries(context.Background())
	require.Error(t, err)
	var qe *QueryError
	assert.ErrorAs(t, err, &qe)
}
