package exporter

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"idwrcli/internal/dataprocessing"
)

var fixedNow = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

func newTestExporter() *ChartExporter {
	e := NewChartExporter(slog.Default())
	e.now = func() time.Time { return fixedNow }
	return e
}

func yearlyChart(t *testing.T) *dataprocessing.Chart {
	t.Helper()
	ds, err := dataprocessing.Parse("year,disease,cases\n2021,Flu,100\n2022,Flu,x\n2021,RSV,7\n")
	require.NoError(t, err)
	chart, err := ds.Yearly([]string{"Flu", "RSV"}, nil)
	require.NoError(t, err)
	return chart
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestExporter().Export(&buf, FormatCSV, yearlyChart(t)))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, utf8BOM), "expected UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(raw[len(utf8BOM):]))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"title", "Yearly trend across diseases"},
		{"generated_at", "2024-01-31T12:00:00Z"},
		{"year", "Flu", "RSV"},
		{"2021", "100", "7"},
		{"2022", "NaN", ""},
	}, rows)
}

func TestExport_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestExporter().Export(&buf, FormatXLSX, yearlyChart(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{chartSheet, summarySheet}, f.GetSheetList())

	title, err := f.GetCellValue(chartSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Yearly trend across diseases", title)

	rows, err := f.GetRows(chartSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"year", "Flu", "RSV"}, rows[3])
	assert.Equal(t, []string{"2021", "100", "7"}, rows[4])
	require.GreaterOrEqual(t, len(rows[5]), 2)
	assert.Equal(t, []string{"2022", "NaN"}, rows[5][:2])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "Flu", summary[1][0])
	assert.Equal(t, "1", summary[1][1])
	assert.Equal(t, "1", summary[1][3])
}

func TestExport_EmptyChart(t *testing.T) {
	ds, err := dataprocessing.Parse("year,week,disease,cases\n2023,1,Flu,1\n")
	require.NoError(t, err)
	chart, err := ds.ByDisease(1999, []string{"Flu"})
	require.ErrorIs(t, err, dataprocessing.ErrNoMatchingRows)

	var buf bytes.Buffer
	require.NoError(t, newTestExporter().Export(&buf, FormatCSV, chart))
	assert.Contains(t, buf.String(), "week\n")
}

func TestExport_Errors(t *testing.T) {
	e := newTestExporter()
	assert.Error(t, e.Export(&bytes.Buffer{}, FormatCSV, nil))
	assert.Error(t, e.Export(&bytes.Buffer{}, Format("pdf"), yearlyChart(t)))
	assert.Error(t, e.ExportFile(filepath.Join(t.TempDir(), "chart.pdf"), yearlyChart(t)))
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	e := newTestExporter()
	chart := yearlyChart(t)

	csvPath := filepath.Join(dir, "out", "chart.csv")
	require.NoError(t, e.ExportFile(csvPath, chart))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "2021,100,7"))

	xlsxPath := filepath.Join(dir, "chart.XLSX")
	require.NoError(t, e.ExportFile(xlsxPath, chart))
	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(chartSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "100", v)
}

func TestFileName(t *testing.T) {
	chart := yearlyChart(t)
	assert.Equal(t, "chart-yearly-20240131-120000.xlsx", newTestExporter().FileName(chart, FormatXLSX))
}

func TestFormat(t *testing.T) {
	assert.True(t, FormatCSV.Valid())
	assert.True(t, FormatXLSX.Valid())
	assert.False(t, Format("pdf").Valid())
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}

func TestFormatValue(t *testing.T) {
	v := 12.5
	whole := 3.0
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "12.5", formatValue(&v))
	assert.Equal(t, "3", formatValue(&whole))
}
