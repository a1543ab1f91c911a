// Package telemetry provides OpenTelemetry metric instruments for the
// authentication flows. A nil *Metrics is valid and records nothing,
// so callers never need to guard instrumentation sites.
package telemetry
