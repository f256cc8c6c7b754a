// Package query executes the two read patterns the dashboard needs against a
// local SQLite snapshot of the cities dataset: distinct-country enumeration
// and top-N-by-population for one country.
package query

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentic-research/citydash/internal/dataset"
	_ "modernc.org/sqlite"
)

// DefaultLimit is the row cap for TopCities when the caller passes limit <= 0.
const DefaultLimit = 10

// Engine runs read-only queries against a cities snapshot.
//
// Each call checks a connection out of the pool and returns it before the
// call completes; no cursor, transaction, or cache survives between calls.
// A selection change on the dashboard therefore always re-issues the full
// query, matching the no-caching contract of the store built on top.
type Engine struct {
	db *sql.DB
}

// Open opens the snapshot read-only. The snapshot is a derived artifact;
// nothing in the serving path ever writes to it.
func Open(dbPath string) (*Engine, error) {
	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(4)
	return &Engine{db: db}, nil
}

// Close releases the underlying connection pool.
func (e *Engine) Close() error {
	return e.db.Close()
}

// ListCountries returns every distinct country in the snapshot, sorted
// ascending. Failures come back as *QueryError; callers should treat them as
// "no countries available".
func (e *Engine) ListCountries(ctx context.Context) ([]string, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, queryErr("list countries", err)
	}
	defer func() { _ = conn.Close() }() // safe to ignore

	rows, err := conn.QueryContext(ctx, "SELECT DISTINCT country FROM cities ORDER BY country ASC")
	if err != nil {
		return nil, queryErr("list countries", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var countries []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, queryErr("scan country", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list countries", err)
	}
	return countries, nil
}

// TopCities returns up to limit cities for country, ordered by population
// descending. An empty country short-circuits: no query is issued and both
// return values are nil. A country with no rows is a valid empty result,
// not an error.
func (e *Engine) TopCities(ctx context.Context, country string, limit int) ([]dataset.City, error) {
	if country == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, queryErr("top cities", err)
	}
	defer func() { _ = conn.Close() }() // safe to ignore

	rows, err := conn.QueryContext(ctx,
		"SELECT name, country, population, latitude, longitude FROM cities WHERE country = ? ORDER BY population DESC LIMIT ?",
		country, limit)
	if err != nil {
		return nil, queryErr("top cities", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var cities []dataset.City
	for rows.Next() {
		var c dataset.City
		if err := rows.Scan(&c.Name, &c.Country, &c.Population, &c.Latitude, &c.Longitude); err != nil {
			return nil, queryErr("scan city", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("top cities", err)
	}
	return cities, nil
}
