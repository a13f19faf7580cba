// Package loader acquires the raw delimited text that the chart core parses.
//
// It has two sources:
//
// Files: local .csv/.txt files are read as UTF-8 text; .xlsx workbooks are
// flattened to comma-delimited text from their first sheet. Uploads go through
// the same path, keyed by the uploaded file name.
//
// Samples: the named sample files are read from a local samples directory when
// present there, otherwise fetched from the configured base URL. Concurrent
// requests for the same sample share one fetch.
//
// Example usage:
//
//	l := loader.New(loader.Config{
//	    SamplesDir: "samples",
//	    BaseURL:    "https://example.org/idwr/",
//	    Samples:    []string{"yearly_disease.csv", "yearly_pathogen.csv"},
//	}, logger)
//
//	text, err := l.ReadFile("data/weekly.csv")
//	text, err = l.Sample(ctx, "yearly_disease.csv")
//
// The package returns text only; it never interprets the header.
package loader
