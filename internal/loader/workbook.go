package loader

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "idwrcli/internal/errors"
)

// WorkbookText flattens the first sheet of an .xlsx workbook into
// comma-delimited text, one line per row.
//
// Cells holding a comma are quoted. Double quotes inside a cell are dropped and
// line breaks become spaces, since the text splitter has no escape for either.
func WorkbookText(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", apierrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", apierrors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", apierrors.NewParsingError("failed to read sheet", err).
			WithContext("sheet", sheets[0])
	}

	var b strings.Builder
	for _, row := range rows {
		for i, value := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(workbookCell(value))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func workbookCell(value string) string {
	value = strings.ReplaceAll(value, `"`, "")
	value = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(value)
	if strings.ContainsRune(value, ',') {
		return `"` + value + `"`
	}
	return value
}
