// Package server provides HTTP routing, middleware, and the generation endpoints.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
//   - [Logging] : one structured log line per request (charmbracelet/log)
//   - [Recover] : converts handler panics into a 500 JSON error
//   - [CORS] : rs/cors with the configured origins
//   - [BearerAuth] : optional shared-secret check for the API routes
//
// # Endpoints
//
//	GET  /           → landing page (internal/web)
//	GET  /product    → product page
//	POST /product    → server-rendered generation
//	POST /analyze    → JSON generation endpoint
//	GET  /ws/analyze → websocket generation with live progress frames
//	GET  /health     → liveness probe
//
// Successful pipeline runs are cached in memory (patrickmn/go-cache), keyed by video ID, and
// archived to sqlite when an [Archive] is configured.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
