package dataprocessing

import (
	"strings"
)

// byteOrderMark is stripped from the first header cell.
const byteOrderMark = "\uFEFF"

// ParseTable splits text into rows of cells. Row 0 is the header.
//
// Lines end at "\n" or "\r\n". Leading and trailing whitespace of the whole
// text is dropped before splitting, so trailing blank lines never become rows.
// Blank lines in the middle are kept as rows holding a single empty cell.
func ParseTable(text string) [][]string {
	text = strings.TrimSpace(strings.TrimPrefix(text, byteOrderMark))
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, SplitCells(strings.TrimSuffix(line, "\r")))
	}

	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], byteOrderMark)
	}

	return rows
}

// Dataset is one parsed load: an aliased header, its data rows, and the
// available year/disease domain. It is never modified after Parse.
type Dataset struct {
	header []string
	rows   [][]string
	domain DomainIndex

	// domainErr is set when year or disease cannot be resolved, in which case
	// domain is empty.
	domainErr error
}

// Parse builds a Dataset from delimited text. It returns ErrInsufficientData
// when the text holds a header only, or nothing at all.
func Parse(text string) (*Dataset, error) {
	table := ParseTable(text)
	if len(table) <= 1 {
		return nil, ErrInsufficientData
	}

	ds := &Dataset{
		header: ApplyAlias(table[0]),
		rows:   table[1:],
	}

	idx, missing := ResolveColumns(ds.header, []string{ColumnYear, ColumnDisease})
	if len(missing) > 0 {
		ds.domainErr = &MissingColumnsError{
			Required: []string{ColumnYear, ColumnDisease},
			Missing:  missing,
		}
	} else {
		ds.domain = IndexDomain(ds.rows, idx[ColumnYear], idx[ColumnDisease])
	}

	return ds, nil
}

// Header returns a copy of the aliased header row.
func (d *Dataset) Header() []string {
	return append([]string(nil), d.header...)
}

// RowCount returns the number of data rows, excluding the header.
func (d *Dataset) RowCount() int {
	return len(d.rows)
}

// Domain returns the available years and diseases.
func (d *Dataset) Domain() DomainIndex {
	return DomainIndex{
		Years:    append([]string(nil), d.domain.Years...),
		Diseases: append([]string(nil), d.domain.Diseases...),
	}
}

// DomainErr reports why the domain is empty, or nil when it was indexed.
func (d *Dataset) DomainErr() error {
	return d.domainErr
}

// cell returns row[idx], or "" when the row is shorter than the header.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
