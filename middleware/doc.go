// Package middleware provides the HTTP-facing guards: the bearer-token
// authentication gate and per-policy rate limiting. The gate works with
// any http.Handler; GinWrap adapts it for Gin routers. Error responses
// carry the same JSON shape as the errors package.
package middleware
