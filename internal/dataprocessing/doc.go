// Package dataprocessing turns delimited infectious-disease surveillance text
// into chart-ready time series.
//
// # Architecture
//
// The package is organized into four components, leaves first:
//
// 1. Splitter: quote-aware splitting of one line into cells
// 2. Parser: whole text into rows, byte-order-marker removal, header aliasing
// 3. Schema: logical column names (year, week, disease, cases) to positions
// 4. Aggregator: the four pivot algorithms producing labels and series
//
// A DomainIndex (available years and diseases) is computed once per Dataset and
// reused by the yearly pivot as its default year axis.
//
// # Usage
//
//	ds, err := dataprocessing.Parse(text)
//	if err != nil {
//	    // errors.Is(err, dataprocessing.ErrInsufficientData)
//	}
//
//	chart, err := ds.ByDisease(2023, []string{"influenza", "rsv"})
//	if errors.Is(err, dataprocessing.ErrNoMatchingRows) {
//	    // chart is still non-nil and empty; render it to clear the display
//	}
//
// # Data Flow
//
//	text → Parse → Dataset{header, rows, domain} → Resolve → ByDisease|ByYear|Tandem|Yearly → Chart
//
// # Duplicate rows and unparsable numbers
//
// The three weekly pivots resolve duplicate (week, series) keys with
// last-write-wins and skip rows whose week or cases do not parse, leaving a nil
// gap. The yearly pivot takes the first matching row in file order and keeps an
// unparsable cases value as NaN. Callers must not assume the two agree.
//
// A Dataset is immutable after Parse and every pivot is a pure read, so a
// Dataset may be shared between goroutines.
package dataprocessing
