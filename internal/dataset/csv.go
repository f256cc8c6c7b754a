package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names required in the CSV header. Matching is case-insensitive and
// position-independent; columns outside this set are ignored.
var requiredColumns = []string{"name", "country", "population", "latitude", "longitude"}

// ParseCSV decodes the cities CSV into City records.
//
// The header row is mapped by name, so column order does not matter and extra
// columns are skipped. A missing required column or a malformed row fails the
// whole parse; the dataset is small and external, and a partial load would
// silently corrupt every query built on top of it.
func ParseCSV(r io.Reader) ([]City, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged trailing columns happen in the wild

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", want)
		}
	}

	var cities []City
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		city, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		cities = append(cities, city)
	}
	return cities, nil
}

func parseRow(rec []string, cols map[string]int) (City, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(rec) {
			return "", fmt.Errorf("missing field %q", name)
		}
		return strings.TrimSpace(rec[i]), nil
	}

	var c City
	var err error
	if c.Name, err = field("name"); err != nil {
		return City{}, err
	}
	if c.Country, err = field("country"); err != nil {
		return City{}, err
	}

	popStr, err := field("population")
	if err != nil {
		return City{}, err
	}
	if c.Population, err = strconv.ParseInt(popStr, 10, 64); err != nil {
		return City{}, fmt.Errorf("parse population %q: %w", popStr, err)
	}
	if c.Population < 0 {
		return City{}, fmt.Errorf("negative population %d", c.Population)
	}

	latStr, err := field("latitude")
	if err != nil {
		return City{}, err
	}
	if c.Latitude, err = strconv.ParseFloat(latStr, 64); err != nil {
		return City{}, fmt.Errorf("parse latitude %q: %w", latStr, err)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return City{}, fmt.Errorf("latitude %v out of range", c.Latitude)
	}

	lonStr, err := field("longitude")
	if err != nil {
		return City{}, err
	}
	if c.Longitude, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return City{}, fmt.Errorf("parse longitude %q: %w", lonStr, err)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return City{}, fmt.Errorf("longitude %v out of range", c.Longitude)
	}

	return c, nil
}
