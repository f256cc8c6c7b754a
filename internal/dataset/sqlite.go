package dataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

const snapshotSchema = `
CREATE TABLE cities (
	name       TEXT    NOT NULL,
	country    TEXT    NOT NULL,
	population INTEGER NOT NULL,
	latitude   REAL    NOT NULL,
	longitude  REAL    NOT NULL
);
CREATE INDEX idx_cities_country ON cities (country);
`

// WriteSnapshot writes the parsed dataset to a fresh SQLite file at dbPath.
// Any existing snapshot is replaced; the snapshot is a derived artifact and
// is rebuilt wholesale, never updated in place.
func WriteSnapshot(dbPath string, cities []City) error {
	_ = os.Remove(dbPath) // best-effort cleanup of a stale snapshot

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open snapshot %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	if _, err := db.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO cities (name, country, population, latitude, longitude) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	for _, c := range cities {
		if _, err := stmt.Exec(c.Name, c.Country, c.Population, c.Latitude, c.Longitude); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert city %q: %w", c.Name, err)
		}
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("close insert stmt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Build fetches the remote CSV, parses it, and writes the SQLite snapshot.
// It returns the number of rows written.
func Build(ctx context.Context, url, dbPath string) (int, error) {
	raw, err := Fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	cities, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("parse dataset %s: %w", url, err)
	}
	if err := WriteSnapshot(dbPath, cities); err != nil {
		return 0, err
	}
	return len(cities), nil
}
