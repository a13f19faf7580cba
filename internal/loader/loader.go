package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	apierrors "idwrcli/internal/errors"
)

// Format is how a file's bytes become delimited text.
type Format string

const (
	FormatText     Format = "text"
	FormatWorkbook Format = "xlsx"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than .csv, .txt
	// and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrTooLarge is returned when input exceeds Config.MaxBytes.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrUnknownSample is returned for a sample name that is not configured.
	ErrUnknownSample = errors.New("unknown sample")
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultMaxBytes     = 32 << 20
)

// Config controls where samples come from and how much input is accepted.
type Config struct {
	// SamplesDir is checked first for a named sample. Empty disables it.
	SamplesDir string
	// BaseURL is joined with the sample name when the local copy is missing.
	BaseURL string
	// Samples are the names that may be requested.
	Samples []string

	FetchTimeout time.Duration
	MaxBytes     int64
}

// Loader reads files, uploads and samples as text.
type Loader struct {
	cfg    Config
	client *http.Client
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a Loader. Zero timeout and size limits take defaults.
func New(cfg Config, logger *slog.Logger) *Loader {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: logger.With(slog.String("component", "loader")),
	}
}

// FormatOf picks a Format from the file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatText, nil
	case ".xlsx":
		return FormatWorkbook, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadFile loads a local file as delimited text.
func (l *Loader) ReadFile(path string) (string, error) {
	l.logger.Debug("Reading file", slog.String("path", path))

	f, err := os.Open(path)
	if errors.Is(err, os.ErrPermission) {
		return "", apierrors.NewPermissionError("file is not readable").
			WithContext("path", path)
	}
	if err != nil {
		return "", apierrors.NewStorageError("failed to open file", err).
			WithContext("path", path)
	}
	defer f.Close()

	return l.Decode(filepath.Base(path), f)
}

// Decode reads r, interpreting its bytes by the extension of name.
func (l *Loader) Decode(name string, r io.Reader) (string, error) {
	format, err := FormatOf(name)
	if err != nil {
		return "", err
	}

	data, err := l.readLimited(r)
	if err != nil {
		return "", err
	}

	l.logger.Debug("Decoded input",
		slog.String("name", name),
		slog.String("format", string(format)),
		slog.Int("size_bytes", len(data)))

	if format == FormatWorkbook {
		return WorkbookText(bytes.NewReader(data))
	}
	return string(data), nil
}

// MaxBytes returns the effective input size limit.
func (l *Loader) MaxBytes() int64 {
	return l.cfg.MaxBytes
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.cfg.MaxBytes+1))
	if err != nil {
		return nil, apierrors.NewStorageError("failed to read input", err)
	}
	if int64(len(data)) > l.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, l.cfg.MaxBytes)
	}
	return data, nil
}
