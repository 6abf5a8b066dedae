// Package obs wires observability for the agent: Prometheus counters and
// histograms keyed by pipeline phase, OpenTelemetry tracer setup, and a
// graph trace hook that feeds both.
package obs
