// Package models defines domain entities and persistence interfaces for the ytblog service.
//
// The package contains two categories of types:
//
// 1. Wire types: the JSON contract between the product client and the backend
//   - [AnalyzeRequest] : POST /analyze body ({"video_url": ...})
//   - [AnalyzeResponse] : success body carrying the markdown blog post
//   - [ErrorResponse] : failure body with an optional human-readable message
//   - [StreamEvent] : frames exchanged on the /ws/analyze progress stream
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [Post] : a generated blog post with the analysis and research it was built from
//
// All persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
