package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"idwrcli/internal/dataprocessing"
)

// ChartExporter writes a computed chart as a downloadable table: one row per
// axis label, one column per series.
type ChartExporter struct {
	csv    *CSVWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewChartExporter creates a chart exporter.
func NewChartExporter(logger *slog.Logger) *ChartExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &ChartExporter{
		csv:    NewCSVWriter(logger),
		logger: logger,
		now:    time.Now,
	}
}

// Export writes chart to w in the given format.
func (e *ChartExporter) Export(w io.Writer, format Format, chart *dataprocessing.Chart) error {
	if chart == nil {
		return fmt.Errorf("export: no chart")
	}
	generated := e.now().UTC()

	e.logger.Debug("Exporting chart",
		slog.String("mode", string(chart.Mode)),
		slog.String("format", string(format)),
		slog.Int("labels", len(chart.Labels)),
		slog.Int("series", len(chart.Datasets)))

	switch format {
	case FormatCSV:
		return e.csv.Write(w, chartOptions(chart, generated))
	case FormatXLSX:
		return writeWorkbook(w, chart, generated)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

// ExportFile writes chart to path, picking the format from its extension.
func (e *ChartExporter) ExportFile(path string, chart *dataprocessing.Chart) error {
	format := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if !format.Valid() {
		return fmt.Errorf("export: unsupported file extension %q", filepath.Ext(path))
	}
	if format == FormatCSV {
		return e.csv.WriteFile(path, chartOptions(chart, e.now().UTC()))
	}
	return writeWorkbookFile(path, chart, e.now().UTC())
}

// FileName suggests a download name such as "chart-tandem-20240131-120000.csv".
func (e *ChartExporter) FileName(chart *dataprocessing.Chart, format Format) string {
	return fmt.Sprintf("chart-%s-%s.%s", chart.Mode, e.now().UTC().Format("20060102-150405"), format.Extension())
}

func chartOptions(chart *dataprocessing.Chart, generated time.Time) WriteOptions {
	headers, records := chartTable(chart)
	return WriteOptions{
		Preamble: [][]string{
			{"title", chart.Title},
			{"generated_at", generated.Format(timestampLayout)},
		},
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	}
}

// chartTable lays the chart out with the x axis down the first column.
func chartTable(chart *dataprocessing.Chart) ([]string, [][]string) {
	headers := make([]string, 0, len(chart.Datasets)+1)
	headers = append(headers, chart.XAxisTitle)
	for _, s := range chart.Datasets {
		headers = append(headers, s.Label)
	}

	records := make([][]string, len(chart.Labels))
	for i, label := range chart.Labels {
		row := make([]string, 0, len(headers))
		row = append(row, label)
		for _, s := range chart.Datasets {
			var v *float64
			if i < len(s.Data) {
				v = s.Data[i]
			}
			row = append(row, formatValue(v))
		}
		records[i] = row
	}
	return headers, records
}
