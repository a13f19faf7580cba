// Command pivot loads one surveillance table, computes a single chart and
// prints it as JSON or writes it as CSV or XLSX.
//
//	pivot -file weekly.csv -mode byDisease -year 2023 -disease Flu -disease Measles
//	pivot -sample yearly_disease.csv -mode yearly -disease Flu -format xlsx -out flu.xlsx
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"idwrcli/internal/config"
	"idwrcli/internal/dataprocessing"
	"idwrcli/internal/exporter"
	"idwrcli/internal/infrastructure"
	"idwrcli/internal/loader"
	"idwrcli/internal/services"
	"idwrcli/pkg/contracts"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// intList collects a repeatable or comma separated int flag.
type intList []int

func (l *intList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("invalid year %q", part)
		}
		*l = append(*l, n)
	}
	return nil
}

type options struct {
	file     string
	sample   string
	mode     string
	diseases stringList
	year     int
	years    intList
	format   string
	out      string
	verbose  bool
	version  bool
}

// output is the JSON document written to stdout.
type output struct {
	Status            string                `json:"status"`
	Dataset           string                `json:"dataset"`
	Chart             *dataprocessing.Chart `json:"chart"`
	TruncatedDiseases []string              `json:"truncated_diseases,omitempty"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pivot: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("pivot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "local .csv, .txt or .xlsx file")
	fs.StringVar(&opts.sample, "sample", "", "name of a configured sample file")
	fs.StringVar(&opts.mode, "mode", string(dataprocessing.ModeYearly), "byDisease, byYear, tandem or yearly")
	fs.Var(&opts.diseases, "disease", "disease to plot (repeatable)")
	fs.IntVar(&opts.year, "year", 0, "year for byDisease")
	fs.Var(&opts.years, "years", "years for byYear and tandem (comma separated or repeatable)")
	fs.StringVar(&opts.format, "format", "json", "json, csv or xlsx")
	fs.StringVar(&opts.out, "out", "", "output .csv or .xlsx file (required for xlsx)")
	fs.BoolVar(&opts.verbose, "v", false, "log to stderr")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}

	// -out without -format takes the format from the extension.
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.out)), ".")
	if opts.out != "" && !formatSet(fs) {
		opts.format = ext
	}

	switch {
	case (opts.file == "") == (opts.sample == ""):
		return nil, errors.New("exactly one of -file or -sample is required")
	case opts.format != "json" && !exporter.Format(opts.format).Valid():
		return nil, fmt.Errorf("unknown format %q", opts.format)
	case opts.format == string(exporter.FormatXLSX) && opts.out == "":
		return nil, errors.New("-out is required for xlsx")
	case opts.out != "" && opts.format == "json":
		return nil, errors.New("-out writes csv or xlsx only")
	case opts.out != "" && ext != opts.format:
		return nil, fmt.Errorf("-out %q does not match format %q", opts.out, opts.format)
	}
	return opts, nil
}

func formatSet(fs *flag.FlagSet) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "format" {
			set = true
		}
	})
	return set
}

func (o *options) request() dataprocessing.Request {
	req := dataprocessing.Request{
		Mode:     dataprocessing.Mode(o.mode),
		Diseases: o.diseases,
		Years:    o.years,
	}
	if o.year != 0 {
		year := o.year
		req.Year = &year
	}
	return req
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		version := contracts.GetVersionString()
		if opts.verbose {
			version = contracts.GetFullVersionString()
		}
		_, err := fmt.Fprintln(stdout, version)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := infrastructure.NewLoggerWithWriter(stderr, &slog.HandlerOptions{Level: level})

	exp := exporter.NewChartExporter(logger)
	svc := services.NewChartService(loader.New(loader.Config{
		SamplesDir:   cfg.Samples.Dir,
		BaseURL:      cfg.Samples.BaseURL,
		Samples:      cfg.Samples.Files,
		FetchTimeout: cfg.Samples.FetchTimeout,
		MaxBytes:     cfg.Upload.MaxBytes,
	}, logger), exp, nil, logger)

	var summary *services.DatasetSummary
	if opts.file != "" {
		summary, err = svc.LoadFile(ctx, opts.file)
	} else {
		summary, err = svc.LoadSample(ctx, opts.sample)
	}
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if summary.Warning != "" {
		fmt.Fprintf(stderr, "warning: %s\n", summary.Warning)
	}

	req := opts.request()
	if opts.format != "json" && opts.out == "" {
		return svc.Export(ctx, stdout, exporter.Format(opts.format), req)
	}

	result, err := svc.Draw(ctx, req)
	status := services.DrawStatusSuccess
	switch {
	case errors.Is(err, dataprocessing.ErrNoMatchingRows):
		status = services.DrawStatusNoMatching
	case err != nil:
		return fmt.Errorf("draw: %w", err)
	}

	if opts.out != "" {
		if err := exp.ExportFile(opts.out, result.Chart); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "wrote %s (%s)\n", opts.out, status)
		return nil
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output{
		Status:            status,
		Dataset:           summary.Name,
		Chart:             result.Chart,
		TruncatedDiseases: result.TruncatedDiseases,
	})
}
