package dataprocessing

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Mode selects one of the four pivot algorithms.
type Mode string

const (
	ModeByDisease Mode = "byDisease"
	ModeByYear    Mode = "byYear"
	ModeTandem    Mode = "tandem"
	ModeYearly    Mode = "yearly"
)

// chartMeta holds the display hints handed to the renderer for each mode.
var chartMeta = map[Mode]struct {
	title string
	xAxis string
}{
	ModeByDisease: {"Disease comparison within one year (weekly)", "week"},
	ModeByYear:    {"Year-over-year weekly trend for one disease", "week"},
	ModeTandem:    {"Concatenated weekly trend across years (tandem)", "year-week"},
	ModeYearly:    {"Yearly trend across diseases", "year"},
}

const yAxisTitle = "cases"

// Series is one named line aligned to its Chart's labels. A nil entry is a
// gap; a NaN entry is an unparsable value kept by the yearly pivot.
type Series struct {
	Label   string         `json:"label"`
	Data    []*float64     `json:"data"`
	Summary *SeriesSummary `json:"summary,omitempty"`
}

// JSONData returns Data with NaN entries turned into gaps, since JSON has no
// NaN.
func (s Series) JSONData() []*float64 {
	data := make([]*float64, len(s.Data))
	for i, v := range s.Data {
		if v != nil && !math.IsNaN(*v) {
			data[i] = v
		}
	}
	return data
}

// MarshalJSON encodes gaps and NaN as null.
func (s Series) MarshalJSON() ([]byte, error) {
	type wire struct {
		Label   string         `json:"label"`
		Data    []*float64     `json:"data"`
		Summary *SeriesSummary `json:"summary,omitempty"`
	}
	return json.Marshal(wire{Label: s.Label, Data: s.JSONData(), Summary: s.Summary})
}

// Chart is the output of every pivot: an ordered label axis and the series
// aligned to it. Every Series.Data has len(Labels) entries.
type Chart struct {
	Mode       Mode     `json:"mode"`
	Title      string   `json:"title"`
	XAxisTitle string   `json:"x_axis_title"`
	YAxisTitle string   `json:"y_axis_title"`
	Labels     []string `json:"labels"`
	Datasets   []Series `json:"datasets"`
}

// Empty reports whether the chart has no axis positions.
func (c *Chart) Empty() bool {
	return len(c.Labels) == 0
}

func newChart(mode Mode, labels []string, datasets []Series) *Chart {
	if labels == nil {
		labels = []string{}
	}
	if datasets == nil {
		datasets = []Series{}
	}
	for i := range datasets {
		datasets[i].Summary = Summarize(datasets[i].Data)
	}
	meta := chartMeta[mode]
	return &Chart{
		Mode:       mode,
		Title:      meta.title,
		XAxisTitle: meta.xAxis,
		YAxisTitle: yAxisTitle,
		Labels:     labels,
		Datasets:   datasets,
	}
}

// emptyChart is what a pivot returns alongside ErrNoMatchingRows.
func emptyChart(mode Mode) *Chart {
	return newChart(mode, nil, nil)
}

// coerceNumber parses trimmed text as a finite float. Empty text is invalid.
func coerceNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// formatNumber renders an axis value the shortest way: 2023, 7, 52.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatLabels(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatNumber(v)
	}
	return out
}

// sortedUnique returns the distinct values ascending.
func sortedUnique(values []float64) []float64 {
	seen := make(map[float64]struct{}, len(values))
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// weekAxis collects the weeks present in rows, whether or not cases parse.
func weekAxis(rows [][]string, weekIdx int) []float64 {
	weeks := make([]float64, 0, len(rows))
	for _, row := range rows {
		if w, ok := coerceNumber(cell(row, weekIdx)); ok {
			weeks = append(weeks, w)
		}
	}
	return sortedUnique(weeks)
}

// alignTo maps axis through values, leaving nil where a key is absent.
func alignTo(axis []float64, values map[float64]float64) []*float64 {
	data := make([]*float64, len(axis))
	for i, key := range axis {
		if v, ok := values[key]; ok {
			data[i] = &v
		}
	}
	return data
}

// uniqueStrings drops repeats and empty entries, keeping first-seen order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func yearsToFloat(years []int) []float64 {
	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = float64(y)
	}
	return out
}
