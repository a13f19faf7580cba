// Package app wires the IDWR viewer together and owns its lifecycle.
//
// New builds, in order: OpenTelemetry providers, chart metrics, the loader
// and exporter, the chart and health services, the chi router with its
// middleware chain, and the HTTP server. NewApplication does the same after
// loading configuration and initializing the global logger.
//
// Run serves until SIGINT or SIGTERM and then shuts the server and the
// telemetry providers down within Server.ShutdownTimeout. Errors are returned
// to the caller; the package never exits the process itself.
package app
