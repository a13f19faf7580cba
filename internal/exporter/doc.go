// Package exporter writes computed charts as downloadable tables.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing with optional preamble rows and a UTF-8 BOM for
// Excel compatibility. It writes to any io.Writer or to a file.
//
// ChartExporter: Lays a chart out with the x axis down the first column and one
// column per series, then writes it as CSV or as an .xlsx workbook. Workbooks
// carry a second sheet with the per-series summary.
//
// Example usage:
//
//	exp := exporter.NewChartExporter(logger)
//
//	// Stream to an HTTP response
//	err := exp.Export(w, exporter.FormatCSV, chart)
//
//	// Or save next to other reports
//	err = exp.ExportFile("reports/flu-2023.xlsx", chart)
//
// Gaps are written as empty cells and unparsable yearly values as "NaN".
package exporter
