// Package tasks runs the three stage generation pipeline with real-time progress reporting.
//
// # Stages
//
// [Engine.Run] executes, in order:
//
//  1. Analyzer : video URL → caption transcript → structured analysis (topic, key points, tone, keywords)
//     - Transcript is truncated to [DefaultMaxTranscriptChars] before prompting
//     - Analysis is always written in English, whatever the caption language
//
//  2. Researcher : analysis → three search queries → aggregated web findings
//     - Queries are requested as a raw JSON list, with a line-splitting fallback
//     - Searches run on a small worker pool sharing the searcher's rate limiter
//
//  3. Blogger : analysis + findings → markdown blog post
//
// # Progress Reporting
//
// All stages use a non-blocking channel for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default so a slow reader can never stall the pipeline.
//
// # Errors
//
// Failures are returned as [*PipelineError]. Its message carries the failing stage prefix
// ("Analyzer Error: ", "Researcher Error: ", "Blogger Error: ") and is what the HTTP layer
// sends back to clients. Every PipelineError matches [shared.ErrPipeline].
package tasks
