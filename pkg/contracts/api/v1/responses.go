package api

import "time"

// Draw statuses reported in DrawResponse.Status.
const (
	StatusOK             = "ok"
	StatusNoMatchingData = "no_matching_data"
)

// DatasetResponse describes the loaded dataset and its selectable domain.
type DatasetResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	Header   []string  `json:"header"`
	Years    []string  `json:"years"`
	Diseases []string  `json:"diseases"`
	Warning  string    `json:"warning,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// SampleResponse is one configured sample file.
type SampleResponse struct {
	Name    string     `json:"name"`
	Local   bool       `json:"local"`
	Size    int64      `json:"size,omitempty"`
	ModTime *time.Time `json:"mod_time,omitempty"`
}

// SamplesResponse lists the configured samples.
type SamplesResponse struct {
	Samples []SampleResponse `json:"samples"`
}

// SeriesSummary holds statistics over a series' numeric points.
type SeriesSummary struct {
	Points  int     `json:"points"`
	Gaps    int     `json:"gaps"`
	Invalid int     `json:"invalid"`
	Sum     float64 `json:"sum"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
}

// Series is one line of a chart. Data is aligned to Chart.Labels; null marks
// a gap or an unparsable value.
type Series struct {
	Label   string         `json:"label"`
	Data    []*float64     `json:"data"`
	Summary *SeriesSummary `json:"summary,omitempty"`
}

// Chart is everything a renderer needs to draw one pivot.
type Chart struct {
	Mode       string   `json:"mode"`
	Title      string   `json:"title"`
	XAxisTitle string   `json:"x_axis_title"`
	YAxisTitle string   `json:"y_axis_title"`
	Labels     []string `json:"labels"`
	Datasets   []Series `json:"datasets"`
}

// DrawResponse carries a chart. With status no_matching_data the chart is
// empty and the client should clear what it shows.
type DrawResponse struct {
	Status            string   `json:"status"`
	DatasetID         string   `json:"dataset_id"`
	Chart             Chart    `json:"chart"`
	TruncatedDiseases []string `json:"truncated_diseases,omitempty"`
}
