package dataprocessing

import (
	"math"

	"github.com/montanaflynn/stats"
)

// SeriesSummary describes the plotted points of one series. Gaps (nil) and
// invalid values (NaN) are counted but excluded from the statistics.
type SeriesSummary struct {
	Points  int     `json:"points"`
	Gaps    int     `json:"gaps"`
	Invalid int     `json:"invalid"`
	Sum     float64 `json:"sum"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
}

// Summarize computes a SeriesSummary over data.
func Summarize(data []*float64) *SeriesSummary {
	summary := &SeriesSummary{}
	values := make(stats.Float64Data, 0, len(data))
	for _, v := range data {
		switch {
		case v == nil:
			summary.Gaps++
		case math.IsNaN(*v):
			summary.Invalid++
		default:
			values = append(values, *v)
		}
	}

	summary.Points = values.Len()
	if summary.Points == 0 {
		return summary
	}

	// stats only errors on empty input, which is ruled out above.
	summary.Sum, _ = values.Sum()
	summary.Min, _ = values.Min()
	summary.Max, _ = values.Max()
	summary.Mean, _ = values.Mean()
	return summary
}
