package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// DatasetReporter is the part of ChartService the health checks look at.
type DatasetReporter interface {
	Summary(ctx context.Context) (*DatasetSummary, error)
}

// HealthService provides health check functionality
type HealthService struct {
	version    string
	buildTime  string
	samplesDir string
	datasets   DatasetReporter
	startTime  time.Time
	logger     *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. datasets may be nil.
func NewHealthService(version, buildTime, samplesDir string, datasets DatasetReporter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("samples_dir", samplesDir))

	return &HealthService{
		version:    version,
		buildTime:  buildTime,
		samplesDir: samplesDir,
		datasets:   datasets,
		startTime:  time.Now(),
		logger:     logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the samples are reachable. A missing dataset
// does not make the service unready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"samples": hs.checkSamples(),
			"dataset": hs.checkDataset(ctx),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status == "not_ready" {
			status.Status = "not_ready"
			break
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkSamples() ServiceHealth {
	if hs.samplesDir == "" {
		return ServiceHealth{Status: "ready", Message: "no local samples configured"}
	}

	info, err := os.Stat(hs.samplesDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// samples can still be fetched remotely
		return ServiceHealth{Status: "degraded", Message: fmt.Sprintf("samples directory not found: %s", hs.samplesDir)}
	case err != nil:
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("samples directory: %v", err)}
	case !info.IsDir():
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("%s is not a directory", hs.samplesDir)}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkDataset(ctx context.Context) ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: "ready", Message: "no dataset loaded"}
	}

	summary, err := hs.datasets.Summary(ctx)
	if err != nil {
		return ServiceHealth{Status: "ready", Message: err.Error()}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%s: %d rows", summary.Name, summary.Rows),
	}
}
