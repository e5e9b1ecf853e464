// Package middleware provides the HTTP middleware shared by the server:
// request IDs, request-scoped logging, and Prometheus metrics.
package middleware

// contextKey is a private type for context values set by this package,
// preventing collisions with keys from other packages.
type contextKey string
