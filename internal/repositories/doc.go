// Package repositories implements SQLite persistence for generated blog posts.
//
// Repositories handle CRUD operations with atomic sequence generation for human-readable ordering.
// Records are soft deleted via deleted_at timestamps and excluded from queries by default.
//
// Key Implementations:
//   - [PostRepository] : generated posts with video URL lookups
//   - [PostArchive] : adapter the HTTP server uses to persist pipeline results
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
