// Package component defines lifecycle-managed parts of the gateway (the
// HTTP server, the ASR backend client, the telemetry providers) and an
// ordered registry that starts, stops and health-checks them.
package component
