package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"idwrcli/internal/dataprocessing"
	"idwrcli/internal/exporter"
	"idwrcli/internal/infrastructure"
	"idwrcli/internal/loader"
)

// Source records where a dataset came from.
type Source string

const (
	SourceUpload Source = "upload"
	SourceFile   Source = "file"
	SourceSample Source = "sample"
	SourceText   Source = "text"
)

// Draw outcomes as recorded in metrics and returned to clients.
const (
	DrawStatusSuccess    = "success"
	DrawStatusNoMatching = "no_matching_data"
	DrawStatusFailure    = "failure"
)

// DatasetSummary describes the loaded dataset and what can be selected in it.
type DatasetSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Source   Source    `json:"source"`
	Rows     int       `json:"rows"`
	Header   []string  `json:"header"`
	Years    []string  `json:"years"`
	Diseases []string  `json:"diseases"`
	Warning  string    `json:"warning,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DrawResult is a computed chart stamped with the dataset it was drawn from.
type DrawResult struct {
	*dataprocessing.Result
	DatasetID string
}

// loadedDataset is the single most recent load.
type loadedDataset struct {
	summary DatasetSummary
	data    *dataprocessing.Dataset
}

// ChartService owns the current dataset and turns draw requests into charts.
// Every load replaces the dataset wholesale; a failed load leaves none.
type ChartService struct {
	loader   *loader.Loader
	exporter *exporter.ChartExporter
	metrics  *infrastructure.ChartMetrics
	tracer   trace.Tracer
	logger   *slog.Logger

	mu      sync.RWMutex
	current *loadedDataset
}

// NewChartService creates a chart service. metrics may be nil.
func NewChartService(l *loader.Loader, e *exporter.ChartExporter, metrics *infrastructure.ChartMetrics, logger *slog.Logger) *ChartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartService{
		loader:   l,
		exporter: e,
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.MeterName),
		logger:   infrastructure.WithComponent(logger, "chart_service"),
	}
}

// LoadText parses text as the new dataset.
func (s *ChartService) LoadText(ctx context.Context, name, text string) (*DatasetSummary, error) {
	return s.load(ctx, SourceText, name, func(context.Context) (string, error) {
		return text, nil
	})
}

// LoadUpload reads an uploaded file, csv, txt or xlsx by name.
func (s *ChartService) LoadUpload(ctx context.Context, name string, r io.Reader) (*DatasetSummary, error) {
	return s.load(ctx, SourceUpload, name, func(context.Context) (string, error) {
		return s.loader.Decode(name, r)
	})
}

// LoadFile reads a local file.
func (s *ChartService) LoadFile(ctx context.Context, path string) (*DatasetSummary, error) {
	return s.load(ctx, SourceFile, path, func(context.Context) (string, error) {
		return s.loader.ReadFile(path)
	})
}

// LoadSample loads one of the configured sample files.
func (s *ChartService) LoadSample(ctx context.Context, name string) (*DatasetSummary, error) {
	return s.load(ctx, SourceSample, name, func(ctx context.Context) (string, error) {
		return s.loader.Sample(ctx, name)
	})
}

// Samples lists the configured samples.
func (s *ChartService) Samples() []loader.SampleInfo {
	return s.loader.Samples()
}

func (s *ChartService) load(ctx context.Context, source Source, name string, read func(context.Context) (string, error)) (*DatasetSummary, error) {
	ctx, span := s.tracer.Start(ctx, "chart.load", trace.WithAttributes(
		attribute.String("dataset.source", string(source)),
		attribute.String("dataset.name", name),
	))
	defer span.End()

	start := time.Now()
	loaded, err := s.readAndParse(ctx, source, name, read)
	s.metrics.RecordLoad(ctx, string(source), rowsOf(loaded), time.Since(start), err)

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Dataset load failed",
			slog.String("source", string(source)),
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, err
	}

	summary := loaded.summary
	span.SetAttributes(attribute.Int("dataset.rows", summary.Rows))
	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("dataset_id", summary.ID),
		slog.String("source", string(source)),
		slog.String("name", name),
		slog.Int("rows", summary.Rows),
		slog.Int("years", len(summary.Years)),
		slog.Int("diseases", len(summary.Diseases)),
		slog.Duration("duration", time.Since(start)))
	return &summary, nil
}

func (s *ChartService) readAndParse(ctx context.Context, source Source, name string, read func(context.Context) (string, error)) (*loadedDataset, error) {
	text, err := read(ctx)
	if err != nil {
		return nil, err
	}

	ds, err := dataprocessing.Parse(text)
	if err != nil {
		return nil, err
	}

	domain := ds.Domain()
	summary := DatasetSummary{
		ID:       uuid.New().String(),
		Name:     name,
		Source:   source,
		Rows:     ds.RowCount(),
		Header:   ds.Header(),
		Years:    domain.Years,
		Diseases: domain.Diseases,
		LoadedAt: time.Now().UTC(),
	}
	if derr := ds.DomainErr(); derr != nil {
		summary.Warning = derr.Error()
	}
	return &loadedDataset{summary: summary, data: ds}, nil
}

func rowsOf(l *loadedDataset) int {
	if l == nil {
		return 0
	}
	return l.summary.Rows
}

// Summary returns the current dataset's summary.
func (s *ChartService) Summary(ctx context.Context) (*DatasetSummary, error) {
	loaded, err := s.dataset()
	if err != nil {
		return nil, err
	}
	summary := loaded.summary
	return &summary, nil
}

func (s *ChartService) dataset() (*loadedDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

// Draw computes a chart from the current dataset. On
// dataprocessing.ErrNoMatchingRows the result still holds an empty chart.
// DatasetID names the dataset read, even if a load replaces it meanwhile.
func (s *ChartService) Draw(ctx context.Context, req dataprocessing.Request) (*DrawResult, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}

	loaded, err := s.dataset()
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "chart.draw", trace.WithAttributes(
		attribute.String("chart.mode", string(req.Mode)),
		attribute.String("dataset.id", loaded.summary.ID),
		attribute.Int("selection.diseases", len(req.Diseases)),
		attribute.Int("selection.years", len(req.Years)),
	))
	defer span.End()

	start := time.Now()
	result, err := loaded.data.Draw(req)
	status := drawStatus(err)
	s.metrics.RecordDraw(ctx, string(req.Mode), status, time.Since(start))

	switch status {
	case DrawStatusFailure:
		infrastructure.RecordError(ctx, err)
		s.logger.InfoContext(ctx, "Chart draw rejected",
			slog.String("mode", string(req.Mode)),
			slog.String("error", err.Error()))
		return nil, err
	case DrawStatusNoMatching:
		s.logger.InfoContext(ctx, "Chart draw matched no rows",
			slog.String("mode", string(req.Mode)))
		return &DrawResult{Result: result, DatasetID: loaded.summary.ID}, err
	}

	span.SetAttributes(
		attribute.Int("chart.labels", len(result.Chart.Labels)),
		attribute.Int("chart.series", len(result.Chart.Datasets)),
	)
	if len(result.TruncatedDiseases) > 0 {
		s.logger.DebugContext(ctx, "Disease selection truncated",
			slog.String("mode", string(req.Mode)),
			slog.Any("dropped", result.TruncatedDiseases))
	}
	return &DrawResult{Result: result, DatasetID: loaded.summary.ID}, nil
}

func drawStatus(err error) string {
	switch {
	case err == nil:
		return DrawStatusSuccess
	case errors.Is(err, dataprocessing.ErrNoMatchingRows):
		return DrawStatusNoMatching
	default:
		return DrawStatusFailure
	}
}

// Export draws req and writes the chart to w. An empty chart is exported as a
// header-only table.
func (s *ChartService) Export(ctx context.Context, w io.Writer, format exporter.Format, req dataprocessing.Request) error {
	if !format.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	result, err := s.Draw(ctx, req)
	if err != nil && !errors.Is(err, dataprocessing.ErrNoMatchingRows) {
		return err
	}

	err = s.exporter.Export(w, format, result.Chart)
	s.metrics.RecordExport(ctx, string(format), err)
	if err != nil {
		return fmt.Errorf("export chart: %w", err)
	}
	return nil
}

// ExportFileName suggests a download name for a chart of the given mode.
func (s *ChartService) ExportFileName(mode dataprocessing.Mode, format exporter.Format) string {
	return s.exporter.FileName(&dataprocessing.Chart{Mode: mode}, format)
}
