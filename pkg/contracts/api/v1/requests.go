// Package api contains the JSON contracts of the chart viewer's HTTP API.
// Version v1 represents the current stable API version.
package api

// Chart modes accepted by DrawRequest.Mode.
const (
	ModeByDisease = "byDisease"
	ModeByYear    = "byYear"
	ModeTandem    = "tandem"
	ModeYearly    = "yearly"
)

// Load sources accepted by LoadRequest.Source.
const (
	SourceText   = "text"
	SourceSample = "sample"
)

// LoadRequest loads a dataset from pasted text or a named sample. Uploads
// use multipart/form-data instead.
type LoadRequest struct {
	Source string `json:"source" validate:"required,oneof=text sample"`
	Name   string `json:"name,omitempty" validate:"omitempty,max=255"`
	Sample string `json:"sample,omitempty" validate:"required_if=Source sample,max=255"`
	Text   string `json:"text,omitempty" validate:"required_if=Source text"`
}

// DrawRequest selects a pivot and the rows it plots. Selection lists are
// taken as the UI sends them: byYear and tandem plot the first disease only.
// Empty selections are accepted here and reported by the chart engine.
type DrawRequest struct {
	Mode     string   `json:"mode" validate:"required,oneof=byDisease byYear tandem yearly"`
	Diseases []string `json:"diseases,omitempty" validate:"omitempty,max=200,dive,required,max=200"`
	Year     *int     `json:"year,omitempty" validate:"omitempty,gte=1,lte=9999"`
	Years    []int    `json:"years,omitempty" validate:"omitempty,max=200,dive,gte=1,lte=9999"`
}

// ExportRequest draws a chart and returns it as a file.
type ExportRequest struct {
	DrawRequest
	Format string `json:"format" validate:"required,oneof=csv xlsx"`
}

// ClientLogRequest is a log line forwarded by the browser client.
type ClientLogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2000"`
	Source  string                 `json:"source,omitempty" validate:"max=200"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
