// Package services wraps the external systems the generation pipeline depends on.
//
// # Transcripts
//
// [YouTubeTranscripts] implements [TranscriptSource]. It reads the caption track list embedded in a
// video's watch page, picks a track by language preference (en, hi, ja, es, then whatever is first),
// downloads it in the json3 caption format and joins the text segments with spaces. A browser cookie
// header can be supplied for videos that require a signed-in session.
//
// # Language Model
//
// [OpenAICompleter] implements [Completer] against any OpenAI-compatible chat completions API using
// openai-go. The default configuration points at Groq.
//
// # Web Search
//
// [DuckDuckGoSearcher] implements [Searcher] by scraping the DuckDuckGo HTML endpoint with goquery.
// Requests share a [rate.Limiter] so concurrent research workers stay polite.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrInvalidVideoURL] : no video ID could be extracted
//   - [shared.ErrNoSubtitles] : the video has no usable caption track
//   - [shared.ErrAPIRequest] : an upstream HTTP request failed
//   - [shared.ErrMissingCredentials] : no LLM API key configured
//
// Transcript failures are returned as [*TranscriptError] whose message is safe to show to users.
package services
