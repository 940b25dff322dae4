// Package endpoint holds the Gin handlers for probe, build info and metrics
// routes.
package endpoint
