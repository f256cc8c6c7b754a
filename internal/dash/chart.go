package dash

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/agentic-research/citydash/internal/dataset"
)

var errNoChartData = errors.New("no rows to chart")

// renderBarChart writes an SVG bar chart of population by city name. Rows
// arrive already sorted by population descending, so bar order is the sort
// order of the data.
func renderBarChart(w io.Writer, country string, cities []dataset.City) error {
	if len(cities) == 0 {
		return errNoChartData
	}

	bars := make([]chart.Value, 0, len(cities))
	for _, c := range cities {
		bars = append(bars, chart.Value{
			Label: c.Name,
			Value: float64(c.Population),
		})
	}

	bc := chart.BarChart{
		Title:    fmt.Sprintf("%s city population", country),
		Width:    960,
		Height:   420,
		BarWidth: 56,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}
