// Package http provides the HTTP transport layer for the line-list
// quality service.
//
// # Architecture
//
// Each resource gets its own handler type with a Routes() method
// returning a chi.Router, mounted by the application under /api. All
// handlers respond with a {"status": "success", "data": ...} envelope
// via go-chi/render and delegate failures to the shared RFC 7807 error
// handler.
//
// # Handlers
//
//   - QualityHandler: run checks and aggregate issue summaries
//   - VariablesHandler: validate and generate derived variables
//   - DatasetsHandler: list and load line-list files from the data dir
//   - HealthHandler: liveness and build information
package http
