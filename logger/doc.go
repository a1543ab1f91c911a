// Package logger wraps zerolog with the small structured-logging surface the
// engine needs: leveled messages, component tagging, and field helpers.
//
// The engine logs outcomes, never secrets: plaintext passwords, token values,
// and password hashes must not be passed as fields. Mask exists for the rare
// case where part of an identifier is useful for correlation.
package logger
