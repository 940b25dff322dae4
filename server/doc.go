// Package server provides the HTTP server: a Gin engine mounted on a root
// ServeMux, wrapped by a net/http middleware stack and served over HTTP/1.1
// and h2c.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: cross-origin headers and preflight handling
//   - BodySizeLimit: request body cap
//   - RequestLogger: one log line per request
//
// # Endpoints
//
// RegisterDefaultEndpoints adds (server/endpoint):
//
//   - /health: component health aggregation
//   - /alive: liveness probe
//   - /ready: readiness probe
//   - /info: service and build information
//   - /version: build version
//   - /metrics: Prometheus exposition
package server
