// Package client talks to a running ytblog server.
//
// [AnalyzeClient] issues the single POST /analyze call a generation needs, or consumes the
// /ws/analyze progress stream when real phase signalling is wanted. Failures come back as one of
// two kinds:
//   - [*TransportError] : the request never produced a usable response (matches [shared.ErrTransport])
//   - [*APIError] : the server answered with a non-2xx status (matches [shared.ErrApplication])
//
// [Request] records the lifecycle of one generation attempt.
package client
