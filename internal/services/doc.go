// Package services sits between the HTTP handlers and the chart engine.
//
// ChartService holds the single current dataset. Each load, whether from an
// upload, a local file or a sample, replaces it; a load that fails leaves no
// dataset, so a later draw reports ErrNoDataset rather than charting stale
// data. Draw and Export run against whatever was loaded last.
//
// HealthService backs the health, readiness and version endpoints.
package services
