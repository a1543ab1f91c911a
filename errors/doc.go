// Package errors defines the error model for the authentication engine.
//
// Every failure the engine can surface is an *Error carrying a Kind, a
// user-safe message, a recommended HTTP status, and optional structured
// details. The boundary layer switches on the Kind (via KindOf or errors.As)
// to produce its response; the engine itself never formats user-facing text
// beyond the constructors here.
//
// Security posture: all authentication failures — unknown account, wrong
// password, missing or invalid bearer token — share the single generic
// message produced by InvalidCredentials and InvalidToken. The Kind and the
// Cause exist for logs and telemetry only and must never reach a response
// body. Internal never includes its cause in the message.
package errors
