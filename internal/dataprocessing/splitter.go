package dataprocessing

import "strings"

const (
	cellDelimiter = ','
	quoteChar     = '"'
)

// SplitCells splits one line of delimited text into cells.
//
// A double quote toggles the quoted state and is dropped from the output; while
// quoted, the delimiter is kept as literal text. A doubled quote is two toggles,
// not an escaped quote, and unbalanced quotes are not an error: the remainder
// of the line is read in whatever state the last toggle left.
func SplitCells(line string) []string {
	var (
		cells    []string
		current  strings.Builder
		inQuotes bool
	)

	for _, ch := range line {
		switch {
		case ch == quoteChar:
			inQuotes = !inQuotes
		case ch == cellDelimiter && !inQuotes:
			cells = append(cells, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(cells, current.String())
}
