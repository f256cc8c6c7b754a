package dash

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/agentic-research/citydash/internal/dataset"
)

// citiesFeatureCollection projects city rows into a GeoJSON FeatureCollection
// for the map layer: one Point per city, properties carrying the label and
// popup detail.
func citiesFeatureCollection(cities []dataset.City) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range cities {
		f := geojson.NewPointFeature([]float64{c.Longitude, c.Latitude})
		f.SetProperty("name", c.Name)
		f.SetProperty("population", c.Population)
		fc.AddFeature(f)
	}
	return fc
}
