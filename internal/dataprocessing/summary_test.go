package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		data []*float64
		want SeriesSummary
	}{
		{
			name: "mixed points",
			data: []*float64{fptr(10), nil, fptr(math.NaN()), fptr(20)},
			want: SeriesSummary{Points: 2, Gaps: 1, Invalid: 1, Sum: 30, Min: 10, Max: 20, Mean: 15},
		},
		{
			name: "all gaps",
			data: []*float64{nil, nil},
			want: SeriesSummary{Gaps: 2},
		},
		{
			name: "empty",
			data: nil,
			want: SeriesSummary{},
		},
		{
			name: "single value",
			data: []*float64{fptr(-3.5)},
			want: SeriesSummary{Points: 1, Sum: -3.5, Min: -3.5, Max: -3.5, Mean: -3.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *Summarize(tt.data))
		})
	}
}
