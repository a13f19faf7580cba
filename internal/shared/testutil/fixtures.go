package testutil

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WeeklyCSV is a small weekly surveillance table with one unparsable count.
const WeeklyCSV = `year,week,disease,cases
2023,1,Flu,10
2023,2,Flu,12
2023,1,Measles,3
2024,1,Flu,20
2024,2,Flu,x
`

// YearlyCSV is a yearly table keyed by pathogen with a duplicate Flu 2021 row.
const YearlyCSV = `year,pathogen,cases
2021,Flu,100
2022,Flu,120
2021,Measles,5
2021,Flu,999
`

// WorkbookBytes builds an .xlsx file whose first sheet holds rows.
func WorkbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// WeeklyRows returns WeeklyCSV as workbook rows.
func WeeklyRows() [][]interface{} {
	return [][]interface{}{
		{"year", "week", "disease", "cases"},
		{2023, 1, "Flu", 10},
		{2023, 2, "Flu", 12},
		{2023, 1, "Measles", 3},
		{2024, 1, "Flu", 20},
		{2024, 2, "Flu", "x"},
	}
}

// Label formats a byDisease/byYear series label.
func Label(year int, disease string) string {
	return fmt.Sprintf("%d %s", year, disease)
}
