// Package middleware provides HTTP middleware for the Quill API.
//
// # Available Middleware
//
//   - Chain: composes middleware in declaration order
//   - RequestID: propagates or generates X-Request-ID
//   - Logger: structured request logging via slog
//   - Recovery: turns panics into 500 problem documents
//   - CORS: origin allow-list with credentials for cookie sessions
//   - Compress: gzip for JSON responses
//   - Auth: access token from the accessToken cookie or a Bearer header
//   - RateLimit: token bucket per client address
//   - Metrics: Prometheus request counters and latency histograms
//
// After authentication, handlers read the caller with:
//
//	userID := middleware.GetUserID(r.Context())
package middleware
