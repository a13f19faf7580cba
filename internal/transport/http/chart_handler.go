package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"idwrcli/internal/dataprocessing"
	apierrors "idwrcli/internal/errors"
	"idwrcli/internal/exporter"
	"idwrcli/internal/loader"
	idwrmw "idwrcli/internal/middleware"
	"idwrcli/internal/services"
	api "idwrcli/pkg/contracts/api/v1"
)

// uploadField is the multipart form field holding the dataset file.
const uploadField = "file"

// multipartOverhead is allowed on top of the file size limit for headers and
// boundaries.
const multipartOverhead = 1 << 20

// ChartHandler serves dataset loading, chart drawing and chart export.
type ChartHandler struct {
	service      ChartService
	validator    *idwrmw.Validator
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
	logger       *slog.Logger
}

// NewChartHandler creates a chart handler. maxUpload bounds uploaded files.
func NewChartHandler(service ChartService, validator *idwrmw.Validator, errorHandler *apierrors.ErrorHandler, maxUpload int64, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		maxUpload:    maxUpload,
		logger:       logger.With(slog.String("handler", "chart")),
	}
}

// Routes returns the dataset and chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/dataset", func(r chi.Router) {
		r.Get("/", h.GetDataset)
		r.With(idwrmw.ContentTypeValidator(h.errorHandler, "application/json")).Post("/", h.LoadDataset)
		r.With(idwrmw.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/upload", h.UploadDataset)
	})
	r.Get("/samples", h.ListSamples)

	r.Route("/chart", func(r chi.Router) {
		r.Use(idwrmw.ContentTypeValidator(h.errorHandler, "application/json"))
		r.Post("/draw", h.DrawChart)
		r.Post("/export", h.ExportChart)
	})
	return r
}

// GetDataset handles GET /api/dataset
func (h *ChartHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapChartError(err))
		return
	}
	render.JSON(w, r, toDatasetResponse(summary))
}

// LoadDataset handles POST /api/dataset with pasted text or a sample name
func (h *ChartHandler) LoadDataset(w http.ResponseWriter, r *http.Request) {
	var req api.LoadRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var (
		summary *services.DatasetSummary
		err     error
	)
	switch req.Source {
	case api.SourceSample:
		summary, err = h.service.LoadSample(r.Context(), req.Sample)
	default:
		name := req.Name
		if name == "" {
			name = "pasted.csv"
		}
		summary, err = h.service.LoadText(r.Context(), name, req.Text)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, mapChartError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "dataset loaded",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("source", req.Source),
		slog.Int("rows", summary.Rows))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toDatasetResponse(summary))
}

// UploadDataset handles POST /api/dataset/upload. The file is streamed from
// the first part named "file".
func (h *ChartHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.errorHandler.HandleError(w, r, mapUploadError(err, h.maxUpload))
			return
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}

		name := filepath.Base(part.FileName())
		summary, err := h.service.LoadUpload(r.Context(), name, part)
		part.Close()
		if err != nil {
			h.errorHandler.HandleError(w, r, mapUploadError(err, h.maxUpload))
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toDatasetResponse(summary))
		return
	}

	h.errorHandler.HandleError(w, r, apierrors.ErrValidation(uploadField, "file is required"))
}

// ListSamples handles GET /api/samples
func (h *ChartHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	samples := h.service.Samples()
	resp := api.SamplesResponse{Samples: make([]api.SampleResponse, 0, len(samples))}
	for _, s := range samples {
		item := api.SampleResponse{Name: s.Name, Local: s.Local, Size: s.Size}
		if !s.ModTime.IsZero() {
			mt := s.ModTime
			item.ModTime = &mt
		}
		resp.Samples = append(resp.Samples, item)
	}
	render.JSON(w, r, resp)
}

// DrawChart handles POST /api/chart/draw. A selection matching no rows is
// answered with 200, status no_matching_data and an empty chart.
func (h *ChartHandler) DrawChart(w http.ResponseWriter, r *http.Request) {
	var req api.DrawRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Draw(r.Context(), toRequest(req))
	status := api.StatusOK
	switch {
	case errors.Is(err, dataprocessing.ErrNoMatchingRows):
		status = api.StatusNoMatchingData
	case err != nil:
		h.errorHandler.HandleError(w, r, mapChartError(err))
		return
	}

	render.JSON(w, r, api.DrawResponse{
		Status:            status,
		DatasetID:         result.DatasetID,
		Chart:             toChart(result.Chart),
		TruncatedDiseases: result.TruncatedDiseases,
	})
}

// ExportChart handles POST /api/chart/export
func (h *ChartHandler) ExportChart(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := exporter.Format(req.Format)
	drawReq := toRequest(req.DrawRequest)

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, format, drawReq); err != nil {
		h.errorHandler.HandleError(w, r, mapChartError(err))
		return
	}

	filename := h.service.ExportFileName(drawReq.Mode, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

func toRequest(req api.DrawRequest) dataprocessing.Request {
	return dataprocessing.Request{
		Mode:     dataprocessing.Mode(req.Mode),
		Diseases: req.Diseases,
		Year:     req.Year,
		Years:    req.Years,
	}
}

func toDatasetResponse(s *services.DatasetSummary) api.DatasetResponse {
	return api.DatasetResponse{
		ID:       s.ID,
		Name:     s.Name,
		Source:   string(s.Source),
		Rows:     s.Rows,
		Header:   nonNil(s.Header),
		Years:    nonNil(s.Years),
		Diseases: nonNil(s.Diseases),
		Warning:  s.Warning,
		LoadedAt: s.LoadedAt,
	}
}

// toChart converts a computed chart for the wire.
func toChart(c *dataprocessing.Chart) api.Chart {
	out := api.Chart{
		Mode:       string(c.Mode),
		Title:      c.Title,
		XAxisTitle: c.XAxisTitle,
		YAxisTitle: c.YAxisTitle,
		Labels:     nonNil(c.Labels),
		Datasets:   make([]api.Series, 0, len(c.Datasets)),
	}
	for _, s := range c.Datasets {
		series := api.Series{Label: s.Label, Data: s.JSONData()}
		if s.Summary != nil {
			series.Summary = &api.SeriesSummary{
				Points:  s.Summary.Points,
				Gaps:    s.Summary.Gaps,
				Invalid: s.Summary.Invalid,
				Sum:     s.Summary.Sum,
				Min:     s.Summary.Min,
				Max:     s.Summary.Max,
				Mean:    s.Summary.Mean,
			}
		}
		out.Datasets = append(out.Datasets, series)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// mapChartError turns service and engine errors into API errors. Anything
// else is passed through for the error handler to classify.
func mapChartError(err error) error {
	var (
		missing *dataprocessing.MissingColumnsError
		empty   *dataprocessing.EmptySelectionError
	)
	switch {
	case errors.Is(err, services.ErrNoDataset):
		return apierrors.ErrNoDataset
	case errors.Is(err, dataprocessing.ErrInsufficientData):
		return apierrors.ErrInsufficientData
	case errors.As(err, &missing):
		return apierrors.MissingColumnsError(string(missing.Type), missing.Required, missing.Missing)
	case errors.As(err, &empty):
		return apierrors.EmptySelectionError(string(empty.Mode), string(empty.Kind))
	case errors.Is(err, services.ErrInvalidMode):
		return apierrors.ErrValidation("mode", err.Error())
	case errors.Is(err, services.ErrInvalidFormat):
		return apierrors.UnsupportedFormatError(err.Error(), []string{string(exporter.FormatCSV), string(exporter.FormatXLSX)})
	case errors.Is(err, loader.ErrUnknownSample):
		return apierrors.NotFoundError("sample")
	case errors.Is(err, loader.ErrUnsupportedFormat):
		return apierrors.UnsupportedFormatError(err.Error(), []string{".csv", ".txt", ".xlsx"})
	default:
		return err
	}
}

func mapUploadError(err error, maxUpload int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, loader.ErrTooLarge) {
		return apierrors.PayloadTooLargeError(maxUpload)
	}
	if mapped := mapChartError(err); mapped != err {
		return mapped
	}
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apierrors.InvalidRequestWithError(fmt.Errorf("read upload: %w", err))
}
