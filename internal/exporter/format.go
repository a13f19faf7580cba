package exporter

import (
	"math"
	"strconv"
	"time"
)

// Format is a chart export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Valid reports whether f is a supported export format.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatXLSX
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	return string(f)
}

const timestampLayout = time.RFC3339

// formatValue renders a chart point: empty for a gap, NaN for an unparsable
// value, otherwise the shortest exact decimal.
func formatValue(v *float64) string {
	switch {
	case v == nil:
		return ""
	case math.IsNaN(*v):
		return "NaN"
	default:
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
}
