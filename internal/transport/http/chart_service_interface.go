package http

import (
	"context"
	"io"

	"idwrcli/internal/dataprocessing"
	"idwrcli/internal/exporter"
	"idwrcli/internal/loader"
	"idwrcli/internal/services"
)

// ChartService is what ChartHandler needs from services.ChartService.
type ChartService interface {
	LoadText(ctx context.Context, name, text string) (*services.DatasetSummary, error)
	LoadUpload(ctx context.Context, name string, r io.Reader) (*services.DatasetSummary, error)
	LoadSample(ctx context.Context, name string) (*services.DatasetSummary, error)
	Samples() []loader.SampleInfo
	Summary(ctx context.Context) (*services.DatasetSummary, error)
	Draw(ctx context.Context, req dataprocessing.Request) (*services.DrawResult, error)
	Export(ctx context.Context, w io.Writer, format exporter.Format, req dataprocessing.Request) error
	ExportFileName(mode dataprocessing.Mode, format exporter.Format) string
}

var _ ChartService = (*services.ChartService)(nil)
