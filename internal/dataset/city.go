package dataset

// City is one row of the remote cities dataset.
type City struct {
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Population int64   `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// DefaultURL is the canonical remote location of the cities dataset.
const DefaultURL = "https://data.gishub.org/duckdb/cities.csv"
