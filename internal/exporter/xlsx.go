package exporter

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"idwrcli/internal/dataprocessing"
)

const (
	chartSheet   = "Chart"
	summarySheet = "Summary"
	// tableStartRow is where the header row goes, below title and timestamp.
	tableStartRow = 4
)

var summaryHeaders = []interface{}{"series", "points", "gaps", "invalid", "sum", "min", "max", "mean"}

func buildWorkbook(chart *dataprocessing.Chart, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", chartSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetCellValue(chartSheet, "A1", chart.Title); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellValue(chartSheet, "A2", generated.Format(timestampLayout)); err != nil {
		f.Close()
		return nil, err
	}

	headers, _ := chartTable(chart)
	if err := setRow(f, chartSheet, tableStartRow, stringsToRow(headers)); err != nil {
		f.Close()
		return nil, err
	}

	for i, label := range chart.Labels {
		row := make([]interface{}, 0, len(chart.Datasets)+1)
		row = append(row, label)
		for _, s := range chart.Datasets {
			row = append(row, workbookValue(s.Data, i))
		}
		if err := setRow(f, chartSheet, tableStartRow+1+i, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}
	if err := setRow(f, summarySheet, 1, summaryHeaders); err != nil {
		f.Close()
		return nil, err
	}
	for i, s := range chart.Datasets {
		sum := s.Summary
		if sum == nil {
			sum = dataprocessing.Summarize(s.Data)
		}
		row := []interface{}{s.Label, sum.Points, sum.Gaps, sum.Invalid, sum.Sum, sum.Min, sum.Max, sum.Mean}
		if err := setRow(f, summarySheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeWorkbook(w io.Writer, chart *dataprocessing.Chart, generated time.Time) error {
	f, err := buildWorkbook(chart, generated)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeWorkbookFile(path string, chart *dataprocessing.Chart, generated time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := buildWorkbook(chart, generated)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// workbookValue keeps numbers numeric; gaps stay blank and NaN is spelled out.
func workbookValue(data []*float64, i int) interface{} {
	if i >= len(data) || data[i] == nil {
		return nil
	}
	if math.IsNaN(*data[i]) {
		return "NaN"
	}
	return *data[i]
}

func stringsToRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
