// Package http provides the HTTP transport layer for the reconciliation
// service.
//
// The package exposes a small JSON API built on chi:
//
//   - POST /api/runs            upload charge files and execute a run
//   - GET  /api/runs/{id}       fetch a completed run result
//   - GET  /api/runs/{id}/result.xlsx  download the run workbook
//   - GET  /healthz             liveness probe
//   - GET  /metrics             Prometheus metrics
//
// Handlers render errors through the shared APIError envelope so every
// failure mode carries a machine-readable error code. Completed runs are
// held in an in-memory store keyed by run ID; the store is not durable
// and is scoped to the process lifetime.
package http
