// package services defines interfaces for the external systems used by the pipeline
package services

import (
	"context"

	"github.com/desertthunder/ytblog/internal/models"
)

// TranscriptSource fetches the spoken text of a video.
type TranscriptSource interface {
	Transcript(ctx context.Context, videoURL string) (string, error)
}

// Completer runs a single chat completion with a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Searcher runs a web search and returns the top hits.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

var (
	_ TranscriptSource = (*YouTubeTranscripts)(nil)
	_ Completer        = (*OpenAICompleter)(nil)
	_ Searcher         = (*DuckDuckGoSearcher)(nil)
)
