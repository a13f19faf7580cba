// Package http holds the REST handlers of the IDWR viewer.
//
// Handlers stay thin. They decode and validate a request with the shared
// validator, call the chart service and render the result with go-chi/render.
// Service and engine errors go through mapChartError and then the shared
// error handler, which writes RFC 7807 problem documents.
//
// Routes mounted under /api:
//
//	GET  /dataset          current dataset summary
//	POST /dataset          load pasted text or a sample by name
//	POST /dataset/upload   load a multipart csv, txt or xlsx upload
//	GET  /samples          configured sample files
//	POST /chart/draw       compute a chart for a mode and selection
//	POST /chart/export     download the same chart as csv or xlsx
//	POST /log/client       forward a browser log line
//	GET  /health[/ready|/live], GET /version
//
// A draw whose selection matches no rows is not an error: it answers 200 with
// status "no_matching_data" and an empty chart so the client can clear its
// canvas.
package http
